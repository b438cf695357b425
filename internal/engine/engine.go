// Package engine executes compiled queries against the material index and
// assembles the public response: formatted hits, pagination metadata and
// faceted aggregations. It also owns the single-record read/write path.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/olivere/elastic/v7"

	"github.com/oerhub/discovery/internal/concepts"
	internalErrors "github.com/oerhub/discovery/internal/errors"
	"github.com/oerhub/discovery/internal/format"
	"github.com/oerhub/discovery/internal/pagination"
	"github.com/oerhub/discovery/internal/query"
	"github.com/oerhub/discovery/model"
	"github.com/oerhub/discovery/services"
)

// maxReferenceDocs caps how many previously-seen materials are loaded for
// concept extraction in recommendation mode.
const maxReferenceDocs = 100

// Engine fronts the index engine and the secondary image provider.
type Engine struct {
	client        *elastic.Client
	index         string
	images        services.ImageSearcher
	basePath      string
	recommendPath string
}

// NewEngine creates an Engine over an elastic client and the image
// provider. basePath and recommendPath are the public paths echoed in
// navigation links.
func NewEngine(client *elastic.Client, index string, images services.ImageSearcher, basePath, recommendPath string) *Engine {
	return &Engine{
		client:        client,
		index:         index,
		images:        images,
		basePath:      basePath,
		recommendPath: recommendPath,
	}
}

// Search runs a plain text search. Text is required; the image type group
// short-circuits to the secondary provider.
func (e *Engine) Search(ctx context.Context, req services.SearchRequest) (*services.SearchResult, error) {
	if req.Text == "" {
		return nil, internalErrors.ErrMissingQueryText
	}

	window := pagination.Plan(&req)

	if query.ResolveTypeGroup(req.Types) == query.TypeImage {
		return e.searchImages(ctx, req, window)
	}

	compiled := query.CompileSearch(req)
	return e.execute(ctx, req, compiled, window, e.basePath)
}

// Recommend runs a recommendation query. A reference URL drives concept
// extraction from the materials already seen at that URL; without one the
// request degrades to a text search over the recommendation path. Text or
// URL must be present.
func (e *Engine) Recommend(ctx context.Context, req services.SearchRequest) (*services.SearchResult, error) {
	if req.Text == "" && req.URL == "" {
		return nil, internalErrors.ErrMissingQueryText
	}

	window := pagination.Plan(&req)

	if query.ResolveTypeGroup(req.Types) == query.TypeImage {
		return e.searchImages(ctx, req, window)
	}

	var weighted []concepts.Weighted
	var excludeURLs []string
	if req.URL != "" {
		refs, err := e.referenceMaterials(ctx, req.URL)
		if err != nil {
			return nil, internalErrors.NewUpstreamError("loading reference materials", err)
		}
		weighted = concepts.Extract(refs)
		for _, ref := range refs {
			excludeURLs = append(excludeURLs, ref.MaterialURL)
		}
	}

	compiled := query.CompileRecommendation(req, weighted, excludeURLs)
	return e.execute(ctx, req, compiled, window, e.recommendPath)
}

// execute sends one compiled query to the index engine and assembles the
// response.
func (e *Engine) execute(ctx context.Context, req services.SearchRequest, compiled query.Compiled, window pagination.Window, basePath string) (*services.SearchResult, error) {
	search := e.client.Search().
		Index(e.index).
		Query(compiled.Query).
		From(window.From).
		Size(window.Size).
		MinScore(compiled.MinScore)

	if compiled.Source != nil {
		search = search.FetchSourceContext(compiled.Source)
	}
	if compiled.Collapse != nil {
		search = search.Collapse(compiled.Collapse)
	}
	if compiled.HasSort() {
		search = search.Sort(compiled.SortField, compiled.SortAscending)
	}
	for name, agg := range query.Aggregations() {
		search = search.Aggregation(name, agg)
	}

	res, err := search.Do(ctx)
	if err != nil {
		return nil, internalErrors.NewUpstreamError("search", err)
	}

	opts := format.Options{
		Wikipedia:        req.Wikipedia,
		WikipediaLimit:   req.WikipediaLimit,
		ContentExtension: req.ContentExtension,
		ContentFetched:   compiled.ContentFetched,
	}

	materials := make([]model.FormattedMaterial, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		fm, err := format.Hit(hit, opts)
		if err != nil {
			log.Printf("Warning: skipping malformed hit %s: %v", hit.Id, err)
			continue
		}
		materials = append(materials, fm)
	}

	window.Resolve(basePath, req, res.TotalHits())
	metadata := window.Metadata()
	metadata.Aggregations = decodeAggregations(res.Aggregations)

	return &services.SearchResult{
		Query:     req,
		Materials: materials,
		Metadata:  metadata,
	}, nil
}

// searchImages serves the image type group via the secondary provider and
// shapes the result identically to primary searches. The total-hit count is
// an upstream approximation, flagged as estimated.
func (e *Engine) searchImages(ctx context.Context, req services.SearchRequest, window pagination.Window) (*services.SearchResult, error) {
	page, err := e.images.SearchImages(ctx, req)
	if err != nil {
		return nil, internalErrors.NewUpstreamError("image search", err)
	}

	materials := make([]model.FormattedMaterial, 0, len(page.Results))
	for _, img := range page.Results {
		materials = append(materials, format.Image(img))
	}

	window.Resolve(e.basePath, req, page.ResultCount)
	metadata := window.Metadata()
	metadata.TotalEstimated = true

	return &services.SearchResult{
		Query:     req,
		Materials: materials,
		Metadata:  metadata,
	}, nil
}

// referenceMaterials loads the materials recorded at the given URL (either
// as material or website URL), ordered as indexed.
func (e *Engine) referenceMaterials(ctx context.Context, refURL string) ([]model.MaterialRecord, error) {
	q := elastic.NewBoolQuery().
		Should(elastic.NewTermQuery("material_url", refURL)).
		Should(elastic.NewTermQuery("website_url", refURL)).
		MinimumNumberShouldMatch(1)

	res, err := e.client.Search().
		Index(e.index).
		Query(q).
		Size(maxReferenceDocs).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference lookup for %s: %w", refURL, err)
	}

	var refs []model.MaterialRecord
	for _, hit := range res.Hits.Hits {
		var record model.MaterialRecord
		if err := json.Unmarshal(hit.Source, &record); err != nil {
			log.Printf("Warning: skipping malformed reference %s: %v", hit.Id, err)
			continue
		}
		refs = append(refs, record)
	}
	return refs, nil
}
