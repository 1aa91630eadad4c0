package render

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLWithLinesKeepsOrderAndEscapes(t *testing.T) {
	assert.Equal(t, template.HTML("Invalid date<br/>Must be future"), HTMLWithLines("Invalid date\nMust be future"))
	assert.Equal(t, template.HTML("a<br/>b<br/>c"), HTMLWithLines("a\r\nb\rc"))
	assert.Equal(t, template.HTML("&lt;b&gt;x&lt;/b&gt;"), HTMLWithLines("<b>x</b>"))
	assert.Equal(t, template.HTML(""), HTMLWithLines(""))
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"lesson_dialog.html", "delete_prompt.html", "delete_result.html", "dialog_closed.html", "dialog_outcome.html", "student_lessons.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestLinesFuncInTemplate(t *testing.T) {
	tmpl := template.Must(template.New("t").Funcs(FuncMap()).Parse(`<div>{{lines .}}</div>`))
	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, "one\ntwo"))
	assert.Equal(t, "<div>one<br/>two</div>", buf.String())
}

func TestStudentLessonsRendersIdleMonth(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "student_lessons.html", map[string]interface{}{
		"StudentID":     7,
		"ReferenceDate": "2024-03-01",
		"MonthHeader":   "March 2024",
		"PreviousLabel": "Previous month",
		"NextLabel":     "Next month",
		"Lessons":       []interface{}{},
		"HoursLabel":    "Hours",
		"TotalHours":    "0",
		"Error":         "",
	}))

	body := buf.String()
	assert.Contains(t, body, `<div id="student-lessons-loading" class="loading" hidden></div>`)
	assert.Contains(t, body, `<div id="student-lessons-error" class="error" hidden></div>`)
	assert.Contains(t, body, `<span id="student-lessons-hours">0</span>`)
}
