// Package pagination converts user-facing limit/page parameters into
// engine-facing from/size windows and builds the navigation links of a
// response.
package pagination

import (
	"github.com/oerhub/discovery/services"
)

const (
	// DefaultLimit is used when the requested limit is out of bounds.
	DefaultLimit = 20

	// MaxLimit is the exclusive upper bound on the requested limit.
	MaxLimit = 100
)

// Window is the engine-facing pagination window plus, once the query has
// executed, the derived navigation metadata.
type Window struct {
	Limit      int
	Page       int
	From       int
	Size       int
	TotalHits  int64
	TotalPages int
	PrevPage   string
	NextPage   string
}

// Plan clamps the request's limit and page to their effective values,
// writes them back into the request (the response always echoes effective
// values) and derives the from/size window: size = limit,
// from = (page-1) * size.
func Plan(req *services.SearchRequest) Window {
	limit := req.Limit
	if limit <= 0 || limit >= MaxLimit {
		limit = DefaultLimit
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	req.Limit = limit
	req.Page = page

	return Window{
		Limit: limit,
		Page:  page,
		From:  (page - 1) * limit,
		Size:  limit,
	}
}

// Resolve fills in the total-hit dependent fields after query execution.
// total_pages = ceil(total_hits / size). The previous-page link exists only
// when page-1 > 0; the next-page link only when total_pages >= page+1. Both
// links re-serialize the full request against basePath with page adjusted.
func (w *Window) Resolve(basePath string, req services.SearchRequest, totalHits int64) {
	w.TotalHits = totalHits
	w.TotalPages = int((totalHits + int64(w.Size) - 1) / int64(w.Size))

	if w.Page-1 > 0 {
		prev := req
		prev.Page = w.Page - 1
		w.PrevPage = basePath + "?" + prev.Values().Encode()
	}
	if w.TotalPages >= w.Page+1 {
		next := req
		next.Page = w.Page + 1
		w.NextPage = basePath + "?" + next.Values().Encode()
	}
}

// Metadata converts the resolved window into the response metadata block.
func (w *Window) Metadata() services.Metadata {
	return services.Metadata{
		TotalHits:  w.TotalHits,
		TotalPages: w.TotalPages,
		PrevPage:   w.PrevPage,
		NextPage:   w.NextPage,
	}
}
