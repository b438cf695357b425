package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/olivere/elastic/v7"
)

// LanguageCache holds the set of document languages present in the index.
// It is populated once at startup from a terms aggregation and read
// thereafter; Refresh re-runs the aggregation on demand. Stale between
// refreshes, which is acceptable since the language taxonomy changes
// rarely.
type LanguageCache struct {
	mu        sync.RWMutex
	languages []string

	client *elastic.Client
	index  string
}

// NewLanguageCache creates an empty cache; call Refresh to populate it.
func NewLanguageCache(client *elastic.Client, index string) *LanguageCache {
	return &LanguageCache{client: client, index: index}
}

// Languages returns a copy of the cached language set.
func (c *LanguageCache) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.languages))
	copy(out, c.languages)
	return out
}

// Refresh re-reads the distinct document languages from the index.
func (c *LanguageCache) Refresh(ctx context.Context) error {
	res, err := c.client.Search().
		Index(c.index).
		Size(0).
		Aggregation("languages", elastic.NewTermsAggregation().Field("language").Size(1000)).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("refreshing language cache: %w", err)
	}

	items, ok := res.Aggregations.Terms("languages")
	if !ok {
		return fmt.Errorf("language aggregation missing from response")
	}

	languages := make([]string, 0, len(items.Buckets))
	for _, bucket := range items.Buckets {
		if key, ok := bucket.Key.(string); ok {
			languages = append(languages, key)
		}
	}

	c.mu.Lock()
	c.languages = languages
	c.mu.Unlock()
	return nil
}
