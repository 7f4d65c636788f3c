package session

// Loading is the single, mutually exclusive UI loading state. It is always
// derived from the session-state record by Resolve, never set directly, so
// the view can never show two loading indicators at once or flash stale
// content between overlapping async signals.
type Loading int

const (
	// LoadingInitial holds until the first catalog fetch completes.
	LoadingInitial Loading = iota

	// LoadingNavigation covers a lesson switch, a manual completion, or an
	// auto-completion in flight.
	LoadingNavigation

	// LoadingContent covers a lesson fetch in flight with no cached detail
	// for the active id yet.
	LoadingContent

	// LoadingRendering is the short transitional state after a new detail
	// arrives, allowing one paint cycle before loading flags clear.
	LoadingRendering

	// LoadingNone means nothing is loading.
	LoadingNone
)

func (l Loading) String() string {
	switch l {
	case LoadingInitial:
		return "initial"
	case LoadingNavigation:
		return "navigation"
	case LoadingContent:
		return "content"
	case LoadingRendering:
		return "rendering"
	default:
		return "none"
	}
}

// ResolveLoading reduces the raw flags on the state record to exactly one
// Loading value. Conditions are evaluated top to bottom; the first match
// wins and suppresses all others.
func ResolveLoading(s *State) Loading {
	switch {
	case !s.CatalogLoaded:
		return LoadingInitial
	case s.Navigating || s.Completion != nil:
		return LoadingNavigation
	case s.FetchInFlight && s.Detail == nil:
		return LoadingContent
	case s.Rendering:
		return LoadingRendering
	default:
		return LoadingNone
	}
}
