package api

import "github.com/ivasilev/secdojo/internal/course"

// Wire DTOs for the platform API. Sections arrive as an ordered array, not
// a JSON object, because presentation order is part of the contract.

type coursesResponse struct {
	Success bool        `json:"success"`
	Courses []courseDTO `json:"courses"`
}

type courseDTO struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Difficulty       string `json:"difficulty"`
	TotalLessons     int    `json:"totalLessons"`
	CompletedLessons int    `json:"completedLessons"`
}

type catalogResponse struct {
	Success  bool         `json:"success"`
	Sections []sectionDTO `json:"sections"`
}

type sectionDTO struct {
	Title    string    `json:"title"`
	Contents []stubDTO `json:"contents"`
}

type stubDTO struct {
	ContentID    string `json:"contentId"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	DurationSecs int    `json:"duration,omitempty"`
	IsCompleted  bool   `json:"isCompleted"`
}

type lessonResponse struct {
	Success  bool        `json:"success"`
	Content  contentDTO  `json:"content"`
	Module   moduleDTO   `json:"module"`
	Progress progressDTO `json:"progress"`
}

type contentDTO struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Type           string        `json:"type"`
	URL            string        `json:"url,omitempty"`
	Instructions   string        `json:"instructions,omitempty"`
	Resources      []resourceDTO `json:"resources"`
	AvailableTools []string      `json:"availableTools,omitempty"`
}

type resourceDTO struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type moduleDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Difficulty  string `json:"difficulty"`
}

type progressDTO struct {
	Status     string  `json:"status"`
	Percentage float64 `json:"percentage"`
	Score      int     `json:"score"`
	MaxScore   int     `json:"maxScore"`
}

type completeResponse struct {
	Success bool `json:"success"`
}

func (d courseDTO) toDomain() course.Summary {
	return course.Summary{
		ID:               d.ID,
		Title:            d.Title,
		Description:      d.Description,
		Difficulty:       d.Difficulty,
		TotalLessons:     d.TotalLessons,
		CompletedLessons: d.CompletedLessons,
	}
}

func (r catalogResponse) toDomain(courseID string) *course.Catalog {
	sections := make([]course.Section, 0, len(r.Sections))
	for _, sec := range r.Sections {
		stubs := make([]course.Stub, 0, len(sec.Contents))
		for _, c := range sec.Contents {
			stubs = append(stubs, course.Stub{
				ContentID:    c.ContentID,
				Title:        c.Title,
				Type:         course.ContentType(c.Type),
				SectionTitle: sec.Title,
				DurationSecs: c.DurationSecs,
				IsCompleted:  c.IsCompleted,
			})
		}
		sections = append(sections, course.Section{Title: sec.Title, Contents: stubs})
	}
	return course.NewCatalog(courseID, sections)
}

func (r lessonResponse) toDomain() *course.LessonDetail {
	resources := make([]course.Resource, 0, len(r.Content.Resources))
	for _, res := range r.Content.Resources {
		resources = append(resources, course.Resource{Title: res.Title, URL: res.URL})
	}
	return &course.LessonDetail{
		Content: course.Content{
			ID:             r.Content.ID,
			Title:          r.Content.Title,
			Description:    r.Content.Description,
			Type:           course.ContentType(r.Content.Type),
			URL:            r.Content.URL,
			Instructions:   r.Content.Instructions,
			Resources:      resources,
			AvailableTools: r.Content.AvailableTools,
		},
		Module: course.Module{
			Title:       r.Module.Title,
			Description: r.Module.Description,
			Icon:        r.Module.Icon,
			Color:       r.Module.Color,
			Difficulty:  r.Module.Difficulty,
		},
		Progress: course.Progress{
			Status:     course.ProgressStatus(r.Progress.Status),
			Percentage: r.Progress.Percentage,
			Score:      r.Progress.Score,
			MaxScore:   r.Progress.MaxScore,
		},
	}
}
