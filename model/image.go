package model

// ImageRecord is one result from the secondary image-search provider, kept
// in the provider's own field vocabulary. The formatter maps it into the
// same FormattedMaterial shape as primary hits.
type ImageRecord struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Source            string `json:"source"`
	Creator           string `json:"creator"`
	CreatorURL        string `json:"creator_url"`
	License           string `json:"license"`
	LicenseVersion    string `json:"license_version"`
	LicenseURL        string `json:"license_url"`
	URL               string `json:"url"`
	ForeignLandingURL string `json:"foreign_landing_url"`
	Width             int    `json:"width"`
	Height            int    `json:"height"`
}

// ImagePage is one page of image results with the upstream's paging info.
// ResultCount is zero when the upstream does not report an exact count.
type ImagePage struct {
	ResultCount int64         `json:"result_count"`
	PageCount   int           `json:"page_count"`
	PageSize    int           `json:"page_size"`
	Results     []ImageRecord `json:"results"`
}
