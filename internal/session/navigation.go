package session

import "github.com/ivasilev/secdojo/internal/course"

// NavState describes the active lesson's place in the catalog. It is a
// pure function of (catalog, contentID); never independently mutated.
type NavState struct {
	CurrentContentID string
	CurrentIndex     int
	HasPrevious      bool
	HasNext          bool
	Previous         *course.Stub
	Next             *course.Stub

	// Position is 1-based for display; Total the flattened catalog length.
	Position int
	Total    int
}

// Locate computes the NavState for contentID within the catalog. An empty
// catalog yields the zero NavState. An id not present in the catalog falls
// back to index 0: once a catalog exists, no selection is illegal.
func Locate(c *course.Catalog, contentID string) NavState {
	total := c.Len()
	if total == 0 {
		return NavState{}
	}

	idx := c.IndexOf(contentID)
	if idx < 0 {
		idx = 0
	}

	nav := NavState{
		CurrentContentID: c.At(idx).ContentID,
		CurrentIndex:     idx,
		Position:         idx + 1,
		Total:            total,
	}
	if idx > 0 {
		nav.HasPrevious = true
		nav.Previous = c.At(idx - 1)
	}
	if idx < total-1 {
		nav.HasNext = true
		nav.Next = c.At(idx + 1)
	}
	return nav
}

// DeepLink is the resumable session position written on every navigation:
// the preferred content id plus its zero-based position as a fallback.
type DeepLink struct {
	ContentID string
	Position  int
}

// DeepLinkFor returns the deep-link parameters for contentID.
func DeepLinkFor(c *course.Catalog, contentID string) DeepLink {
	nav := Locate(c, contentID)
	return DeepLink{ContentID: nav.CurrentContentID, Position: nav.CurrentIndex}
}

// ResolveEntry picks the initial lesson on session entry. Priority: an
// explicit content id, then a bounds-checked zero-based position (-1 means
// unset), then the first stub in catalog order. Returns "" only for an
// empty catalog.
func ResolveEntry(c *course.Catalog, contentID string, position int) string {
	if c.Len() == 0 {
		return ""
	}
	if contentID != "" && c.IndexOf(contentID) >= 0 {
		return contentID
	}
	if position >= 0 && position < c.Len() {
		return c.At(position).ContentID
	}
	return c.At(0).ContentID
}
