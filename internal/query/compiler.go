// Package query compiles normalized search requests into structured
// Elasticsearch bool queries: filters, must/must_not clauses, relevance
// should-clauses and the faceted aggregations requested with every search.
package query

import (
	"strings"

	"github.com/olivere/elastic/v7"

	"github.com/oerhub/discovery/internal/concepts"
	"github.com/oerhub/discovery/services"
)

// Type group tokens. Any other comma-separated types value is treated as a
// list of file-extension hints.
const (
	TypeAll   = "all"
	TypeText  = "text"
	TypeVideo = "video"
	TypeAudio = "audio"
	TypeImage = "image"
)

// LicenseSentinel is the request-level shorthand for "any license with a
// recorded source URL". It never reaches the engine verbatim.
const LicenseSentinel = "cc"

// minScore suppresses near-zero relevance matches.
const minScore = 5.0

// recencyWindow is the creation-date range rewarded with a should-clause
// boost for newer material.
const recencyWindow = "now-1y"

// transcriptExtensions are the recognized content extraction formats that
// may be requested (and returned) as content payload.
var transcriptExtensions = map[string]bool{
	"plain":  true, // plain-text transcript
	"webvtt": true,
	"dfxp":   true, // timed-text
}

// TranscriptExtension reports whether ext is a recognized transcript format.
func TranscriptExtension(ext string) bool {
	return transcriptExtensions[ext]
}

// ResolveTypeGroup classifies the types parameter: TypeAll when empty or
// "all", one of the group tokens when recognized, or "" when the value is a
// comma-separated extension list.
func ResolveTypeGroup(types string) string {
	switch types {
	case "", TypeAll:
		return TypeAll
	case TypeText, TypeVideo, TypeAudio, TypeImage:
		return types
	default:
		return ""
	}
}

// Compiled is one assembled query plus the execution directives that travel
// with it.
type Compiled struct {
	Query    *elastic.BoolQuery
	Source   *elastic.FetchSourceContext
	Collapse *elastic.CollapseBuilder
	MinScore float64

	// ContentFetched records whether content payloads are present in the
	// returned documents; the formatter only emits contents when they are.
	ContentFetched bool

	SortField     string
	SortAscending bool
}

// HasSort reports whether an explicit sort key was compiled.
func (c *Compiled) HasSort() bool { return c.SortField != "" }

// sortableFields whitelists the sort keys passed through to the engine.
var sortableFields = map[string]bool{
	"creation_date":  true,
	"retrieved_date": true,
}

// CompileSearch builds the plain-search query: filters from the request
// plus a title match and a nested content-value match as relevance clauses.
func CompileSearch(req services.SearchRequest) Compiled {
	c := newCompiled(req)
	c.Query.Should(elastic.NewMatchQuery("title", req.Text))
	c.Query.Should(elastic.NewNestedQuery("contents",
		elastic.NewMatchQuery("contents.value", req.Text)))
	c.Query.Should(elastic.NewRangeQuery("creation_date").Gte(recencyWindow))
	return c
}

// CompileRecommendation builds the recommendation query: one weighted
// nested concept match per extracted concept replaces the text match, and
// the reference materials are excluded and de-duplicated by website URL.
// When no concepts could be extracted (text-only recommendation) it falls
// back to the plain-search relevance clauses.
func CompileRecommendation(req services.SearchRequest, weighted []concepts.Weighted, excludeURLs []string) Compiled {
	c := newCompiled(req)

	if len(excludeURLs) > 0 {
		c.Query.MustNot(elastic.NewTermsQuery("material_url", toInterfaces(excludeURLs)...))
	}
	c.Collapse = elastic.NewCollapseBuilder("website_url")

	if len(weighted) > 0 {
		for _, concept := range weighted {
			c.Query.Should(elastic.NewNestedQuery("wikipedia",
				elastic.NewMatchQuery("wikipedia.sec_name", concept.Name).Boost(concept.Weight)))
		}
	} else {
		c.Query.Should(elastic.NewMatchQuery("title", req.Text))
		c.Query.Should(elastic.NewNestedQuery("contents",
			elastic.NewMatchQuery("contents.value", req.Text)))
	}
	c.Query.Should(elastic.NewRangeQuery("creation_date").Gte(recencyWindow))
	return c
}

// newCompiled applies the clauses shared by both modes, in fixed order:
// content-nested clause, type clause, license clause, provider and language
// clauses, sort key, score floor.
func newCompiled(req services.SearchRequest) Compiled {
	bq := elastic.NewBoolQuery()
	c := Compiled{Query: bq, MinScore: minScore}

	// 1. Content-nested clause. A recognized transcript extension is
	// required together with the content language when given; any other
	// request defaults to requiring the "plain" extraction and strips the
	// raw content payload from the returned document.
	if TranscriptExtension(req.ContentExtension) {
		contentsQuery := elastic.NewBoolQuery().
			Filter(elastic.NewTermQuery("contents.extension", req.ContentExtension))
		if len(req.ContentLanguages) > 0 {
			contentsQuery.Filter(elastic.NewTermsQuery("contents.language", toInterfaces(req.ContentLanguages)...))
		}
		bq.Must(elastic.NewNestedQuery("contents", contentsQuery))
		c.ContentFetched = true
	} else {
		bq.Must(elastic.NewNestedQuery("contents",
			elastic.NewBoolQuery().Filter(elastic.NewTermQuery("contents.extension", "plain"))))
		c.Source = elastic.NewFetchSourceContext(true).Exclude("contents.value")
	}

	// 2. Type clause. "all" means unrestricted; a group token filters the
	// type field; anything else is an extension list compiled into one
	// regexp filter on the material URL.
	switch group := ResolveTypeGroup(req.Types); group {
	case TypeAll:
		// no restriction
	case "":
		extensions := splitClean(req.Types)
		if len(extensions) > 0 {
			bq.Filter(elastic.NewRegexpQuery("material_url", ".*\\.("+strings.Join(extensions, "|")+")"))
		}
	default:
		bq.Filter(elastic.NewTermQuery("type", group))
	}

	// 3. License clause. The "cc" sentinel is replaced by an exists filter
	// on the recorded license URL.
	if len(req.Licenses) > 0 {
		if containsSentinel(req.Licenses) {
			bq.Filter(elastic.NewExistsQuery("license.url"))
		} else {
			bq.Filter(elastic.NewTermsQuery("license.short_name", toInterfaces(req.Licenses)...))
		}
	}

	// 4. Provider and document-language clauses.
	if len(req.ProviderIDs) > 0 {
		bq.Filter(elastic.NewTermsQuery("provider.provider_id", toInterfaces(req.ProviderIDs)...))
	}
	if len(req.Languages) > 0 {
		bq.Filter(elastic.NewTermsQuery("language", toInterfaces(req.Languages)...))
	}

	c.SortField, c.SortAscending = parseSort(req.Sort)
	return c
}

// Aggregations returns the faceted counts requested with every search,
// regardless of the filters applied.
func Aggregations() map[string]elastic.Aggregation {
	return map[string]elastic.Aggregation{
		"languages": elastic.NewTermsAggregation().Field("language").Size(100),
		"types":     elastic.NewTermsAggregation().Field("type").Size(100),
		"licenses":  elastic.NewTermsAggregation().Field("license.short_name").Size(100),
		"providers": elastic.NewTermsAggregation().Field("provider.provider_name").Size(100),
	}
}

// parseSort accepts "field" or "field:asc|desc" and whitelists the field.
// Unknown keys are ignored (relevance order applies).
func parseSort(sort string) (field string, ascending bool) {
	if sort == "" {
		return "", false
	}
	direction := "desc"
	if idx := strings.IndexByte(sort, ':'); idx >= 0 {
		sort, direction = sort[:idx], sort[idx+1:]
	}
	if !sortableFields[sort] {
		return "", false
	}
	return sort, direction == "asc"
}

func containsSentinel(licenses []string) bool {
	for _, name := range licenses {
		if name == LicenseSentinel {
			return true
		}
	}
	return false
}

func splitClean(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
