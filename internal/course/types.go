package course

// ContentType classifies a lesson's delivery format.
type ContentType string

const (
	TypeVideo    ContentType = "video"
	TypeLab      ContentType = "lab"
	TypeGame     ContentType = "game"
	TypeDocument ContentType = "document"
)

// ProgressStatus is the per-user state of one lesson.
type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not-started"
	StatusInProgress ProgressStatus = "in-progress"
	StatusCompleted  ProgressStatus = "completed"
)

// Summary is one enrolled course as shown on the course picker.
type Summary struct {
	ID               string
	Title            string
	Description      string
	Difficulty       string
	TotalLessons     int
	CompletedLessons int
}

// Stub is one addressable unit of course content as it appears in the
// catalog. Identity key is ContentID; unique across a catalog.
type Stub struct {
	ContentID    string
	Title        string
	Type         ContentType
	SectionTitle string
	DurationSecs int
	IsCompleted  bool
}

// Section groups stubs under a heading. Slice order is presentation order.
type Section struct {
	Title    string
	Contents []Stub
}

// Module describes the parent module of a lesson.
type Module struct {
	Title       string
	Description string
	Icon        string
	Color       string
	Difficulty  string
}

// Progress is the per-user progress record attached to a lesson detail.
type Progress struct {
	Status     ProgressStatus
	Percentage float64
	Score      int
	MaxScore   int
}

// Content is the full body of one lesson.
type Content struct {
	ID             string
	Title          string
	Description    string
	Type           ContentType
	URL            string
	Instructions   string
	Resources      []Resource
	AvailableTools []string
}

// Resource is a supplementary link attached to a lesson.
type Resource struct {
	Title string
	URL   string
}

// LessonDetail is everything the learning surface needs for one active
// lesson. Replaced wholesale on each fetch.
type LessonDetail struct {
	Content  Content
	Module   Module
	Progress Progress
}

// HasPlayground reports whether an interactive playground should be offered.
// Content authors opt in by listing tools; absence means no playground
// regardless of lesson type.
func (d *LessonDetail) HasPlayground() bool {
	return d != nil && len(d.Content.AvailableTools) > 0
}
