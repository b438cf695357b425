package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oerhub/discovery/services"
)

// parseSearchRequest sanitizes the raw query parameters into a normalized
// SearchRequest: strings trimmed (tokens lower-cased where they are
// vocabulary, not content), comma-lists split, booleans and integers
// coerced. The engine relies on this normalization having happened.
func parseSearchRequest(c *gin.Context) services.SearchRequest {
	return services.SearchRequest{
		Text:             strings.TrimSpace(c.Query("text")),
		URL:              strings.TrimSpace(c.Query("url")),
		Types:            normalizeToken(c.Query("types")),
		Licenses:         splitList(c.Query("licenses")),
		Languages:        splitList(c.Query("languages")),
		ContentLanguages: splitList(c.Query("content_languages")),
		ProviderIDs:      splitList(c.Query("provider_ids")),
		ContentExtension: normalizeToken(c.Query("content_extension")),
		Wikipedia:        parseBool(c.Query("wikipedia")),
		WikipediaLimit:   parseInt(c.Query("wikipedia_limit")),
		Sort:             normalizeToken(c.Query("sort")),
		Limit:            parseInt(c.Query("limit")),
		Page:             parseInt(c.Query("page")),
	}
}

// normalizeToken lower-cases a vocabulary token ("Video", "WebVTT").
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// splitList splits a comma-separated parameter into trimmed, lower-cased,
// non-empty tokens. Returns nil for an absent parameter.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if token := normalizeToken(part); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// parseBool treats unparsable or absent values as false.
func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

// parseInt treats unparsable or absent values as zero; the pagination
// planner clamps zero to its defaults.
func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
