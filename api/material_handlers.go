package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/oerhub/discovery/internal/errors"
	"github.com/oerhub/discovery/internal/license"
	"github.com/oerhub/discovery/model"
)

// MaterialPayload is the raw material record accepted by the mutation
// endpoints. License arrives as a URL string (or is absent) and wikipedia
// concepts may carry the ingestion pipeline's camelCase field names; both
// are normalized before the record reaches the write path.
type MaterialPayload struct {
	MaterialID    int64            `json:"material_id" binding:"required"`
	Title         string           `json:"title" binding:"required"`
	Description   string           `json:"description"`
	CreationDate  string           `json:"creation_date"`
	RetrievedDate string           `json:"retrieved_date"`
	Type          string           `json:"type" binding:"required"`
	MimeType      string           `json:"mimetype"`
	Extension     string           `json:"extension"`
	MaterialURL   string           `json:"material_url" binding:"required"`
	WebsiteURL    string           `json:"website_url"`
	Language      string           `json:"language"`
	LicenseURL    string           `json:"license"`
	Provider      model.Provider   `json:"provider"`
	Contents      []model.Content  `json:"contents"`
	Wikipedia     []conceptPayload `json:"wikipedia"`
}

// conceptPayload accepts both the stored snake_case field names and the
// ingestion pipeline's camelCase ones.
type conceptPayload struct {
	URI           string   `json:"uri"`
	Name          string   `json:"name"`
	SecURI        string   `json:"sec_uri"`
	SecName       string   `json:"sec_name"`
	LegacySecURI  string   `json:"secUri"`
	LegacySecName string   `json:"secName"`
	PageRank      float64  `json:"pagerank"`
	SupportLen    int64    `json:"support_len"`
	Classes       []string `json:"classes"`
}

// Normalize converts the payload into the canonical record shape. A
// malformed license URL degrades to the no-license shape and is logged,
// never failing the record.
func (p *MaterialPayload) Normalize() model.MaterialRecord {
	lic, fellBack := license.ParseOrFallback(p.LicenseURL)
	if fellBack {
		log.Printf("Warning: material %d has unrecognized license URL %q, falling back to no-license", p.MaterialID, p.LicenseURL)
	}

	wiki := make([]model.WikipediaConcept, 0, len(p.Wikipedia))
	for _, concept := range p.Wikipedia {
		secURI, secName := concept.SecURI, concept.SecName
		if secURI == "" {
			secURI = concept.LegacySecURI
		}
		if secName == "" {
			secName = concept.LegacySecName
		}
		wiki = append(wiki, model.WikipediaConcept{
			URI:        concept.URI,
			Name:       concept.Name,
			SecURI:     secURI,
			SecName:    secName,
			PageRank:   concept.PageRank,
			SupportLen: concept.SupportLen,
			Classes:    concept.Classes,
		})
	}

	return model.MaterialRecord{
		MaterialID:    p.MaterialID,
		Title:         p.Title,
		Description:   p.Description,
		CreationDate:  p.CreationDate,
		RetrievedDate: p.RetrievedDate,
		Type:          p.Type,
		MimeType:      p.MimeType,
		Extension:     p.Extension,
		MaterialURL:   p.MaterialURL,
		WebsiteURL:    p.WebsiteURL,
		Language:      p.Language,
		License:       lic,
		Provider:      p.Provider,
		Contents:      p.Contents,
		Wikipedia:     wiki,
	}
}

// GetMaterialHandler returns a single formatted record, without pagination
// metadata.
func (api *API) GetMaterialHandler(c *gin.Context) {
	materialID, ok := parseMaterialID(c)
	if !ok {
		return
	}

	material, err := api.store.Get(c.Request.Context(), materialID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrMaterialNotFound) {
			SendMaterialNotFoundError(c, c.Param("materialId"))
			return
		}
		log.Printf("Error: get material %d: %v", materialID, err)
		SendInternalError(c, "get material")
		return
	}

	c.JSON(http.StatusOK, material)
}

// CreateMaterialHandler normalizes and indexes one material record.
func (api *API) CreateMaterialHandler(c *gin.Context) {
	var payload MaterialPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := api.store.Create(c.Request.Context(), payload.Normalize()); err != nil {
		log.Printf("Error: create material %d: %v", payload.MaterialID, err)
		SendInternalError(c, "create material")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Material created",
		"material_id": payload.MaterialID,
	})
}

// CreateMaterialsBulkHandler normalizes and indexes a batch of records,
// continuing past single-record failures.
func (api *API) CreateMaterialsBulkHandler(c *gin.Context) {
	var payloads []MaterialPayload
	if err := c.ShouldBindJSON(&payloads); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	records := make([]model.MaterialRecord, 0, len(payloads))
	for i := range payloads {
		records = append(records, payloads[i].Normalize())
	}

	result, err := api.store.CreateBulk(c.Request.Context(), records)
	if err != nil {
		log.Printf("Error: bulk ingest: %v", err)
		SendInternalError(c, "bulk ingest")
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateMaterialHandler replaces an existing record.
func (api *API) UpdateMaterialHandler(c *gin.Context) {
	materialID, ok := parseMaterialID(c)
	if !ok {
		return
	}

	var payload MaterialPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	payload.MaterialID = materialID

	if err := api.store.Update(c.Request.Context(), payload.Normalize()); err != nil {
		if errors.Is(err, internalErrors.ErrMaterialNotFound) {
			SendMaterialNotFoundError(c, c.Param("materialId"))
			return
		}
		log.Printf("Error: update material %d: %v", materialID, err)
		SendInternalError(c, "update material")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Material updated",
		"material_id": materialID,
	})
}

// DeleteMaterialHandler removes a record.
func (api *API) DeleteMaterialHandler(c *gin.Context) {
	materialID, ok := parseMaterialID(c)
	if !ok {
		return
	}

	if err := api.store.Delete(c.Request.Context(), materialID); err != nil {
		if errors.Is(err, internalErrors.ErrMaterialNotFound) {
			SendMaterialNotFoundError(c, c.Param("materialId"))
			return
		}
		log.Printf("Error: delete material %d: %v", materialID, err)
		SendInternalError(c, "delete material")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Material deleted",
		"material_id": materialID,
	})
}

func parseMaterialID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("materialId"), 10, 64)
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
			"Material id must be an integer: '"+c.Param("materialId")+"'")
		return 0, false
	}
	return id, true
}
