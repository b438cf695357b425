// Package model defines the record types stored in and returned from the
// material index, plus the record shape of the secondary image provider.
package model

// License describes the licensing terms attached to a material.
// ShortName is the canonical short code (e.g. "by-nc-sa") or, when the
// material carries no license URL, a fixed no-license disclaimer string.
type License struct {
	ShortName  string   `json:"short_name"`
	TypedName  []string `json:"typed_name,omitempty"`
	Disclaimer string   `json:"disclaimer"`
	URL        string   `json:"url,omitempty"`
}

// Provider identifies the repository a material was harvested from.
type Provider struct {
	ID     int64  `json:"provider_id"`
	Name   string `json:"provider_name"`
	Domain string `json:"provider_domain"`
}

// Content is one extracted content entry of a material, e.g. the plain-text
// transcript or a WebVTT subtitle track. A material carries at most one
// entry per (extension, language) pair for a given extraction purpose.
type Content struct {
	ID        int64  `json:"content_id"`
	Type      string `json:"type"`
	Extension string `json:"extension"`
	Language  string `json:"language"`
	Value     string `json:"value,omitempty"`
}

// WikipediaConcept is one topical concept annotated on a material, ranked
// by the index's own relevance (pagerank). The order within a record is
// meaningful and must be preserved.
type WikipediaConcept struct {
	URI        string   `json:"uri"`
	Name       string   `json:"name"`
	SecURI     string   `json:"sec_uri,omitempty"`
	SecName    string   `json:"sec_name,omitempty"`
	PageRank   float64  `json:"pagerank"`
	SupportLen int64    `json:"support_len,omitempty"`
	Classes    []string `json:"classes,omitempty"`
}

// MaterialRecord is the canonical material document as stored in the index.
type MaterialRecord struct {
	MaterialID    int64              `json:"material_id"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	CreationDate  string             `json:"creation_date,omitempty"`
	RetrievedDate string             `json:"retrieved_date,omitempty"`
	Type          string             `json:"type"`
	MimeType      string             `json:"mimetype,omitempty"`
	Extension     string             `json:"extension,omitempty"`
	MaterialURL   string             `json:"material_url"`
	WebsiteURL    string             `json:"website_url,omitempty"`
	Language      string             `json:"language,omitempty"`
	License       License            `json:"license"`
	Provider      Provider           `json:"provider"`
	Contents      []Content          `json:"contents,omitempty"`
	Wikipedia     []WikipediaConcept `json:"wikipedia,omitempty"`
}

// ContentIDs returns the ordered list of content identifiers. It never
// returns nil so the public shape always carries a list.
func (m *MaterialRecord) ContentIDs() []int64 {
	ids := make([]int64, 0, len(m.Contents))
	for _, c := range m.Contents {
		ids = append(ids, c.ID)
	}
	return ids
}

// FormattedMaterial is the public representation of one search hit. Both
// the primary index branch and the image branch produce this shape; they
// are distinguishable only by the Type discriminator.
type FormattedMaterial struct {
	Score         float64            `json:"weight"`
	MaterialID    int64              `json:"material_id,omitempty"`
	ExternalID    string             `json:"external_id,omitempty"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	CreationDate  string             `json:"creation_date,omitempty"`
	RetrievedDate string             `json:"retrieved_date,omitempty"`
	Type          string             `json:"type"`
	MimeType      string             `json:"mimetype,omitempty"`
	MaterialURL   string             `json:"material_url"`
	WebsiteURL    string             `json:"website_url,omitempty"`
	Language      string             `json:"language,omitempty"`
	License       License            `json:"license"`
	Provider      FormattedProvider  `json:"provider"`
	ContentIDs    []int64            `json:"content_ids"`
	Contents      []Content          `json:"contents,omitempty"`
	Wikipedia     []WikipediaConcept `json:"wikipedia,omitempty"`
	Creator       string             `json:"creator,omitempty"`
	CreatorURL    string             `json:"creator_url,omitempty"`
	Width         int                `json:"width,omitempty"`
	Height        int                `json:"height,omitempty"`
}

// FormattedProvider is the provider object in the public shape. Name is
// always lower-cased by the formatter.
type FormattedProvider struct {
	ID     int64  `json:"provider_id,omitempty"`
	Name   string `json:"provider_name"`
	Domain string `json:"provider_domain,omitempty"`
}
