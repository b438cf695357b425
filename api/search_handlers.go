package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/oerhub/discovery/internal/errors"
)

// SearchHandler handles plain material searches.
// Query parameters: text (required), licenses, types, languages,
// content_languages, provider_ids, content_extension, wikipedia,
// wikipedia_limit, sort, limit, page.
func (api *API) SearchHandler(c *gin.Context) {
	req := parseSearchRequest(c)

	result, err := api.searcher.Search(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, internalErrors.ErrMissingQueryText) {
			SendMissingParameterError(c, "The 'text' parameter is required", req)
			return
		}
		log.Printf("Error: search failed: %v", err)
		SendInternalError(c, "search")
		return
	}

	c.JSON(http.StatusOK, result)
}

// RecommendHandler handles recommendation queries: a reference url and/or
// text, with the same filter parameters as plain search. Materials already
// seen at the reference URL are excluded from the results.
func (api *API) RecommendHandler(c *gin.Context) {
	req := parseSearchRequest(c)

	result, err := api.searcher.Recommend(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, internalErrors.ErrMissingQueryText) {
			SendMissingParameterError(c, "Either 'text' or 'url' is required", req)
			return
		}
		log.Printf("Error: recommendation failed: %v", err)
		SendInternalError(c, "recommendation")
		return
	}

	c.JSON(http.StatusOK, result)
}
