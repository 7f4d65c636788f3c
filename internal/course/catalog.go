package course

// Catalog is the ordered, section-grouped set of lessons for one course.
// It is recreated wholesale on every successful fetch; consumers treat it
// as an immutable snapshot except for MarkCompleted, which patches a stub
// locally between a completion mutation settling and the next refetch.
type Catalog struct {
	CourseID string
	Sections []Section

	flat []*Stub
}

// NewCatalog builds a catalog from ordered sections and indexes the
// flattened sequence.
func NewCatalog(courseID string, sections []Section) *Catalog {
	c := &Catalog{CourseID: courseID, Sections: sections}
	for i := range c.Sections {
		for j := range c.Sections[i].Contents {
			c.flat = append(c.flat, &c.Sections[i].Contents[j])
		}
	}
	return c
}

// Len returns the number of lessons across all sections.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.flat)
}

// At returns the stub at the given flattened index, or nil if out of range.
func (c *Catalog) At(i int) *Stub {
	if c == nil || i < 0 || i >= len(c.flat) {
		return nil
	}
	return c.flat[i]
}

// IndexOf returns the flattened index of contentID, or -1 if absent.
func (c *Catalog) IndexOf(contentID string) int {
	if c == nil {
		return -1
	}
	for i, s := range c.flat {
		if s.ContentID == contentID {
			return i
		}
	}
	return -1
}

// Find returns the stub with the given contentID, or nil.
func (c *Catalog) Find(contentID string) *Stub {
	return c.At(c.IndexOf(contentID))
}

// MarkCompleted patches the stub for contentID as completed. Used to keep
// the catalog view consistent after a completion mutation settles but
// before the catalog itself is refetched.
func (c *Catalog) MarkCompleted(contentID string) {
	if s := c.Find(contentID); s != nil {
		s.IsCompleted = true
	}
}

// CompletedCount returns the number of completed lessons.
func (c *Catalog) CompletedCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, s := range c.flat {
		if s.IsCompleted {
			n++
		}
	}
	return n
}

// ProgressPercent returns overall completion as a 0-100 percentage.
// Empty catalogs report 0.
func (c *Catalog) ProgressPercent() float64 {
	total := c.Len()
	if total == 0 {
		return 0
	}
	return float64(c.CompletedCount()) / float64(total) * 100
}
