package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// BuildQuery maps a State to the /articles request parameters. It is pure:
// the same State always yields the same values, which the request cache
// relies on for its keys. SearchQuery is deliberately absent; search has its
// own endpoint.
func BuildQuery(s State) url.Values {
	params := url.Values{}
	if len(s.Sources) > 0 {
		params.Set("source", strings.Join(s.Sources, ","))
	}
	if len(s.Categories) > 0 {
		params.Set("category", strings.Join(s.Categories, ","))
	}
	if len(s.Keywords) > 0 {
		params.Set("keyword", strings.Join(s.Keywords, ","))
	}
	// zero means "no threshold"; sending it would over-filter the default view
	if s.MinHotness > 0 {
		params.Set("min_hotness", strconv.FormatFloat(s.MinHotness, 'f', -1, 64))
	}
	params.Set("sort_by", string(s.SortBy))
	return params
}

// Identity is the subset of State whose change invalidates the
// accumulated feed.
type Identity struct {
	Sources    string
	Categories string
	MinHotness float64
	SortBy     SortBy
}

func (s State) Identity() Identity {
	return Identity{
		Sources:    strings.Join(s.Sources, "\x00"),
		Categories: strings.Join(s.Categories, "\x00"),
		MinHotness: s.MinHotness,
		SortBy:     s.SortBy,
	}
}

// ResetsFeed reports whether moving from prev to next must reset the
// paginated feed. Search text, keywords, time range and display toggles
// never do.
func ResetsFeed(prev, next State) bool {
	return prev.Identity() != next.Identity()
}
