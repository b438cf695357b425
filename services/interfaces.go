// Package services defines the service interfaces and the request/result
// types shared between the API layer and the engine.
package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/oerhub/discovery/model"
)

// SearchRequest is the normalized search input. The HTTP layer trims,
// lower-cases and splits raw parameters before the request reaches the
// engine; the engine treats the struct as already sanitized. Limit and Page
// hold the effective (clamped) values after the pagination planner runs, so
// the echoed query always reflects what was actually executed.
type SearchRequest struct {
	Text             string   `json:"text,omitempty"`
	URL              string   `json:"url,omitempty"`
	Types            string   `json:"types,omitempty"`
	Licenses         []string `json:"licenses,omitempty"`
	Languages        []string `json:"languages,omitempty"`
	ContentLanguages []string `json:"content_languages,omitempty"`
	ProviderIDs      []string `json:"provider_ids,omitempty"`
	ContentExtension string   `json:"content_extension,omitempty"`
	Wikipedia        bool     `json:"wikipedia,omitempty"`
	WikipediaLimit   int      `json:"wikipedia_limit,omitempty"`
	Sort             string   `json:"sort,omitempty"`
	Limit            int      `json:"limit"`
	Page             int      `json:"page"`
}

// Values re-serializes the request as URL query parameters, used to build
// the prev/next navigation links. Field order follows the public parameter
// names; zero values are omitted except limit and page.
func (r SearchRequest) Values() url.Values {
	v := url.Values{}
	if r.Text != "" {
		v.Set("text", r.Text)
	}
	if r.URL != "" {
		v.Set("url", r.URL)
	}
	if r.Types != "" {
		v.Set("types", r.Types)
	}
	if len(r.Licenses) > 0 {
		v.Set("licenses", strings.Join(r.Licenses, ","))
	}
	if len(r.Languages) > 0 {
		v.Set("languages", strings.Join(r.Languages, ","))
	}
	if len(r.ContentLanguages) > 0 {
		v.Set("content_languages", strings.Join(r.ContentLanguages, ","))
	}
	if len(r.ProviderIDs) > 0 {
		v.Set("provider_ids", strings.Join(r.ProviderIDs, ","))
	}
	if r.ContentExtension != "" {
		v.Set("content_extension", r.ContentExtension)
	}
	if r.Wikipedia {
		v.Set("wikipedia", "true")
	}
	if r.WikipediaLimit > 0 {
		v.Set("wikipedia_limit", strconv.Itoa(r.WikipediaLimit))
	}
	if r.Sort != "" {
		v.Set("sort", r.Sort)
	}
	v.Set("limit", strconv.Itoa(r.Limit))
	v.Set("page", strconv.Itoa(r.Page))
	return v
}

// Bucket is one facet value with its document count.
type Bucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Aggregations carries the faceted counts returned with every search.
type Aggregations struct {
	Licenses  []Bucket `json:"licenses"`
	Languages []Bucket `json:"languages"`
	Providers []Bucket `json:"providers"`
	Types     []Bucket `json:"types"`
}

// Metadata is the pagination and facet block of a search response.
// TotalEstimated marks the image branch, whose total-hit count is an
// upstream approximation rather than an exact figure.
type Metadata struct {
	TotalHits      int64         `json:"total_hits"`
	TotalPages     int           `json:"total_pages"`
	TotalEstimated bool          `json:"total_estimated,omitempty"`
	PrevPage       string        `json:"prev_page,omitempty"`
	NextPage       string        `json:"next_page,omitempty"`
	Aggregations   *Aggregations `json:"aggregations,omitempty"`
}

// SearchResult is the full search/recommendation response body.
type SearchResult struct {
	Query     SearchRequest             `json:"query"`
	Materials []model.FormattedMaterial `json:"rec_materials"`
	Metadata  Metadata                  `json:"metadata"`
}

// BulkResult reports the outcome of a bulk ingest: failures are counted and
// logged per record, never aborting the batch.
type BulkResult struct {
	Created     int     `json:"created"`
	Failed      int     `json:"failed"`
	MaterialIDs []int64 `json:"material_ids"`
}

// MaterialSearcher runs compiled queries against the material index (or the
// image provider for the image type group) and returns formatted results.
type MaterialSearcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
	Recommend(ctx context.Context, req SearchRequest) (*SearchResult, error)
}

// MaterialStore reads and mutates single material records. Writes refresh
// the index before returning so subsequent reads observe them.
type MaterialStore interface {
	Get(ctx context.Context, materialID int64) (*model.FormattedMaterial, error)
	Create(ctx context.Context, record model.MaterialRecord) error
	CreateBulk(ctx context.Context, records []model.MaterialRecord) (BulkResult, error)
	Update(ctx context.Context, record model.MaterialRecord) error
	Delete(ctx context.Context, materialID int64) error
}

// ImageSearcher fetches one page of results from the secondary image
// provider.
type ImageSearcher interface {
	SearchImages(ctx context.Context, req SearchRequest) (*model.ImagePage, error)
}

// LanguageCache exposes the process-lifetime set of document languages,
// populated from an aggregation at startup and refreshable on demand.
type LanguageCache interface {
	Languages() []string
	Refresh(ctx context.Context) error
}
