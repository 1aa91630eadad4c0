// Package render builds the HTML fragments served to the browser.
package render

import (
	"html/template"
	"strings"

	"github.com/noah-isme/iteach-web/web"
)

var lineBreaks = strings.NewReplacer("\r\n", "<br/>", "\n", "<br/>", "\r", "<br/>")

// HTMLWithLines escapes raw text and turns each line break into <br/>.
func HTMLWithLines(text string) template.HTML {
	return template.HTML(lineBreaks.Replace(template.HTMLEscapeString(text)))
}

// FuncMap is shared by every fragment template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"lines": HTMLWithLines,
	}
}

// Templates parses the embedded fragment templates.
func Templates() (*template.Template, error) {
	return template.New("fragments").Funcs(FuncMap()).ParseFS(web.Templates, "templates/*.html")
}
