package dto

// LessonEntry is one rendered row of a student's month.
type LessonEntry struct {
	ID       int64  `json:"id"`
	Link     string `json:"link"`
	Schedule string `json:"schedule"`
	Location string `json:"location"`
}

// ScheduleView is a student's month, rebuilt in full on every fetch.
type ScheduleView struct {
	StudentID     int64         `json:"studentId"`
	ReferenceDate string        `json:"referenceDate,omitempty"`
	MonthHeader   string        `json:"monthHeader"`
	Lessons       []LessonEntry `json:"lessons"`
	TotalHours    string        `json:"totalHours"`
	HoursLabel    string        `json:"hoursLabel"`
	PreviousLabel string        `json:"previousLabel"`
	NextLabel     string        `json:"nextLabel"`
	Error         string        `json:"error,omitempty"`
}

// ExportFormat selects the month export renderer.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportFile is a rendered month export.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
