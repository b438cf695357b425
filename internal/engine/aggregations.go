package engine

import (
	"fmt"

	"github.com/olivere/elastic/v7"

	"github.com/oerhub/discovery/services"
)

// decodeAggregations converts the engine's terms aggregations into the
// response facet block.
func decodeAggregations(aggs elastic.Aggregations) *services.Aggregations {
	if aggs == nil {
		return nil
	}
	return &services.Aggregations{
		Licenses:  termsBuckets(aggs, "licenses"),
		Languages: termsBuckets(aggs, "languages"),
		Providers: termsBuckets(aggs, "providers"),
		Types:     termsBuckets(aggs, "types"),
	}
}

func termsBuckets(aggs elastic.Aggregations, name string) []services.Bucket {
	items, ok := aggs.Terms(name)
	if !ok || items == nil {
		return []services.Bucket{}
	}
	buckets := make([]services.Bucket, 0, len(items.Buckets))
	for _, item := range items.Buckets {
		key, ok := item.Key.(string)
		if !ok {
			key = fmt.Sprint(item.Key)
		}
		buckets = append(buckets, services.Bucket{Key: key, Count: item.DocCount})
	}
	return buckets
}
