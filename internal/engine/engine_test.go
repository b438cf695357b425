package engine

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/olivere/elastic/v7"

	internalErrors "github.com/oerhub/discovery/internal/errors"
	"github.com/oerhub/discovery/model"
	"github.com/oerhub/discovery/services"
)

const testIndex = "oer_materials_test"

// fakeEngine spins up a stub index engine that replies to _search calls
// with the given bodies, in order.
func fakeEngine(t *testing.T, searchBodies ...string) (*elastic.Client, *httptest.Server, *[]string) {
	t.Helper()

	var requests []string
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, r.Method+" "+r.URL.Path+" "+string(body))

		if strings.HasSuffix(r.URL.Path, "/_search") {
			body := searchBodies[len(searchBodies)-1]
			if calls < len(searchBodies) {
				body = searchBodies[calls]
			}
			calls++
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := elastic.NewClient(
		elastic.SetURL(server.URL),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		t.Fatalf("creating elastic client: %v", err)
	}
	return client, server, &requests
}

const searchResponse = `{
	"took": 3,
	"timed_out": false,
	"hits": {
		"total": {"value": 45, "relation": "eq"},
		"max_score": 7.5,
		"hits": [
			{"_index": "oer_materials_test", "_id": "42", "_score": 7.5, "_source": {
				"material_id": 42,
				"title": "Intro to Signals",
				"type": "video",
				"material_url": "http://v.example/42.mp4",
				"website_url": "http://v.example/42/",
				"language": "en",
				"license": {"short_name": "by-sa", "disclaimer": "d"},
				"provider": {"provider_id": 7, "provider_name": "VideoLectures", "provider_domain": "v.example"},
				"contents": [{"content_id": 9, "type": "transcription", "extension": "plain", "language": "en"}]
			}}
		]
	},
	"aggregations": {
		"languages": {"buckets": [{"key": "en", "doc_count": 30}, {"key": "sl", "doc_count": 15}]},
		"types": {"buckets": [{"key": "video", "doc_count": 45}]},
		"licenses": {"buckets": [{"key": "by-sa", "doc_count": 40}]},
		"providers": {"buckets": [{"key": "videolectures", "doc_count": 45}]}
	}
}`

type stubImages struct {
	page *model.ImagePage
	err  error
	got  services.SearchRequest
}

func (s *stubImages) SearchImages(_ context.Context, req services.SearchRequest) (*model.ImagePage, error) {
	s.got = req
	return s.page, s.err
}

func newTestEngine(t *testing.T, images services.ImageSearcher, bodies ...string) (*Engine, *[]string) {
	t.Helper()
	client, _, requests := fakeEngine(t, bodies...)
	return NewEngine(client, testIndex, images, "/api/v1/oer_materials/search", "/api/v1/recommend/oer_materials"), requests
}

func TestSearchRequiresText(t *testing.T) {
	eng, _ := newTestEngine(t, nil, searchResponse)
	_, err := eng.Search(context.Background(), services.SearchRequest{})
	if !errors.Is(err, internalErrors.ErrMissingQueryText) {
		t.Errorf("Search() error = %v, want ErrMissingQueryText", err)
	}
}

func TestSearchAssemblesResponse(t *testing.T) {
	eng, requests := newTestEngine(t, nil, searchResponse)

	res, err := eng.Search(context.Background(), services.SearchRequest{
		Text:  "machine learning",
		Limit: 10,
		Page:  2,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(res.Materials) != 1 {
		t.Fatalf("len(Materials) = %d, want 1", len(res.Materials))
	}
	hit := res.Materials[0]
	if hit.MaterialID != 42 || hit.Score != 7.5 {
		t.Errorf("hit = %+v", hit)
	}
	if hit.Provider.Name != "videolectures" {
		t.Errorf("provider name = %q, want lower-cased", hit.Provider.Name)
	}
	if len(hit.ContentIDs) != 1 || hit.ContentIDs[0] != 9 {
		t.Errorf("ContentIDs = %v", hit.ContentIDs)
	}

	if res.Metadata.TotalHits != 45 {
		t.Errorf("TotalHits = %d, want 45", res.Metadata.TotalHits)
	}
	if res.Metadata.TotalPages != 5 {
		t.Errorf("TotalPages = %d, want 5", res.Metadata.TotalPages)
	}
	if !strings.Contains(res.Metadata.PrevPage, "page=1") || !strings.Contains(res.Metadata.NextPage, "page=3") {
		t.Errorf("navigation = prev %q next %q", res.Metadata.PrevPage, res.Metadata.NextPage)
	}
	if res.Metadata.Aggregations == nil || len(res.Metadata.Aggregations.Languages) != 2 {
		t.Errorf("aggregations = %+v", res.Metadata.Aggregations)
	}
	if res.Metadata.TotalEstimated {
		t.Error("primary branch must not flag the total as estimated")
	}
	if res.Query.Limit != 10 || res.Query.Page != 2 {
		t.Errorf("echoed query = %+v, want effective limit/page", res.Query)
	}

	// The engine-facing window is from=(page-1)*size.
	sent := strings.Join(*requests, "\n")
	if !strings.Contains(sent, `"from":10`) || !strings.Contains(sent, `"size":10`) {
		t.Errorf("query window missing from request: %s", sent)
	}
	if !strings.Contains(sent, "machine learning") {
		t.Errorf("text clause missing from request: %s", sent)
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	client, server, _ := fakeEngine(t, searchResponse)
	server.Close()
	eng := NewEngine(client, testIndex, nil, "/s", "/r")

	_, err := eng.Search(context.Background(), services.SearchRequest{Text: "x"})
	if !errors.Is(err, internalErrors.ErrUpstreamEngine) {
		t.Errorf("Search() error = %v, want ErrUpstreamEngine", err)
	}
}

func TestSearchImageBranch(t *testing.T) {
	images := &stubImages{page: &model.ImagePage{
		ResultCount: 2000,
		PageCount:   100,
		Results: []model.ImageRecord{
			{ID: "img-1", Title: "Nebula", Source: "NASA", License: "by",
				URL: "http://i/1.jpg", ForeignLandingURL: "http://i/1"},
		},
	}}
	eng, requests := newTestEngine(t, images, searchResponse)

	res, err := eng.Search(context.Background(), services.SearchRequest{
		Text:  "nebula",
		Types: "image",
		Limit: 20,
		Page:  1,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(*requests) != 0 {
		t.Errorf("image branch must not query the primary index, got %v", *requests)
	}
	if images.got.Text != "nebula" {
		t.Errorf("provider received %+v", images.got)
	}
	if len(res.Materials) != 1 || res.Materials[0].Type != "image" {
		t.Errorf("Materials = %+v", res.Materials)
	}
	if !res.Metadata.TotalEstimated {
		t.Error("image branch must flag the total as estimated")
	}
	if res.Metadata.TotalHits != 2000 {
		t.Errorf("TotalHits = %d, want 2000", res.Metadata.TotalHits)
	}
}

func TestSearchImageBranchError(t *testing.T) {
	images := &stubImages{err: errors.New("upstream down")}
	eng, _ := newTestEngine(t, images, searchResponse)

	_, err := eng.Search(context.Background(), services.SearchRequest{Text: "x", Types: "image"})
	if !errors.Is(err, internalErrors.ErrUpstreamEngine) {
		t.Errorf("Search() error = %v, want ErrUpstreamEngine", err)
	}
}

const referenceResponse = `{
	"took": 1,
	"hits": {
		"total": {"value": 2, "relation": "eq"},
		"hits": [
			{"_id": "1", "_score": 1.0, "_source": {
				"material_id": 1, "title": "Ref A", "type": "video",
				"material_url": "http://v.example/a.mp4",
				"license": {"short_name": "by", "disclaimer": "d"},
				"provider": {"provider_id": 1, "provider_name": "p", "provider_domain": "d"},
				"wikipedia": [
					{"name": "Algebra", "pagerank": 0.9},
					{"name": "Calculus", "pagerank": 0.8},
					{"name": "Geometry", "pagerank": 0.7},
					{"name": "Topology", "pagerank": 0.6}
				]
			}}
		]
	}
}`

func TestRecommend(t *testing.T) {
	t.Run("requires text or url", func(t *testing.T) {
		eng, _ := newTestEngine(t, nil, searchResponse)
		_, err := eng.Recommend(context.Background(), services.SearchRequest{})
		if !errors.Is(err, internalErrors.ErrMissingQueryText) {
			t.Errorf("Recommend() error = %v, want ErrMissingQueryText", err)
		}
	})

	t.Run("reference URL drives concepts and exclusion", func(t *testing.T) {
		eng, requests := newTestEngine(t, nil, referenceResponse, searchResponse)

		res, err := eng.Recommend(context.Background(), services.SearchRequest{
			URL:   "http://v.example/a/",
			Limit: 20,
			Page:  1,
		})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(*requests) != 2 {
			t.Fatalf("expected reference lookup + recommendation, got %d calls", len(*requests))
		}

		recQuery := (*requests)[1]
		// Top two concepts (Algebra, Calculus) dropped as generic.
		if strings.Contains(recQuery, "Algebra") || strings.Contains(recQuery, "Calculus") {
			t.Errorf("generic concepts not dropped: %s", recQuery)
		}
		if !strings.Contains(recQuery, "Geometry") || !strings.Contains(recQuery, "Topology") {
			t.Errorf("expected concept clauses in %s", recQuery)
		}
		if !strings.Contains(recQuery, "must_not") || !strings.Contains(recQuery, "http://v.example/a.mp4") {
			t.Errorf("reference material not excluded: %s", recQuery)
		}
		if !strings.Contains(recQuery, "collapse") {
			t.Errorf("website dedup directive missing: %s", recQuery)
		}

		if !strings.Contains(res.Metadata.NextPage, "/api/v1/recommend/oer_materials?") {
			t.Errorf("NextPage = %q, want recommendation path", res.Metadata.NextPage)
		}
	})
}
