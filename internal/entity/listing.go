package entity

// ListingHandle is an opaque reference to one discovered entry on the results
// surface. ID is derived from the detail-view path segment and is unique
// within a single discovery run; Label is only used for logging.
type ListingHandle struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Label string `json:"label"`
}

// ScrollMetrics is one measurement of the scrollable results surface, used to
// detect whether a scroll gesture loaded more content.
type ScrollMetrics struct {
	Top          float64 `json:"top"`
	ScrollHeight float64 `json:"scrollHeight"`
	ClientHeight float64 `json:"clientHeight"`
}

// NearBottom reports whether the surface is scrolled to (almost) the end of
// its currently loaded content. A zero measurement means the surface was
// not found and is never near the bottom.
func (m ScrollMetrics) NearBottom() bool {
	return m.ScrollHeight > 0 && m.Top+m.ClientHeight >= m.ScrollHeight-50
}
