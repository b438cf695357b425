// Package images adapts the complementary image-search provider that
// serves requests whose material type resolves to "image".
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/oerhub/discovery/model"
	"github.com/oerhub/discovery/services"
)

// maxCountedPages caps the upstream page count used in the total estimate.
// The estimate min(page_count, 100) * 20 is an inherited approximation; the
// engine flags it as estimated in the response metadata.
const (
	maxCountedPages  = 100
	upstreamPageSize = 20
)

// defaultSources is the fixed allow-list of upstream content sources
// forwarded with every image search.
var defaultSources = []string{"flickr", "wikimedia", "met", "nasa"}

// Provider issues authenticated searches against the image provider.
type Provider struct {
	baseURL string
	token   string
	client  *http.Client
	sources []string
}

// NewProvider creates a Provider. A nil client falls back to
// http.DefaultClient.
func NewProvider(baseURL, token string, client *http.Client) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
		sources: defaultSources,
	}
}

// SearchImages fetches one page of image results. The local "cc" license
// sentinel is removed from the forwarded license list (it is not a license
// the upstream knows). Upstream failures are returned as-is for the caller
// to wrap; no retry is attempted.
func (p *Provider) SearchImages(ctx context.Context, req services.SearchRequest) (*model.ImagePage, error) {
	params := url.Values{
		"q":         {req.Text},
		"page":      {strconv.Itoa(req.Page)},
		"page_size": {strconv.Itoa(req.Limit)},
		"source":    {strings.Join(p.sources, ",")},
	}
	if licenses := withoutSentinel(req.Licenses); len(licenses) > 0 {
		params.Set("license", strings.Join(licenses, ","))
	}

	reqURL := p.baseURL + "/images/?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating image search request: %w", err)
	}
	if p.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("image provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image provider returned HTTP %d", resp.StatusCode)
	}

	var page model.ImagePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("parsing image provider response: %w", err)
	}

	if page.ResultCount == 0 && page.PageCount > 0 {
		page.ResultCount = estimateTotal(page.PageCount)
	}
	return &page, nil
}

// estimateTotal approximates the total hit count when the upstream reports
// only a page count: min(page_count, 100) * 20.
func estimateTotal(pageCount int) int64 {
	if pageCount > maxCountedPages {
		pageCount = maxCountedPages
	}
	return int64(pageCount) * upstreamPageSize
}

func withoutSentinel(licenses []string) []string {
	var out []string
	for _, name := range licenses {
		if name != "cc" {
			out = append(out, name)
		}
	}
	return out
}
