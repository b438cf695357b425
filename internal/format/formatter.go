// Package format maps raw index hits and secondary-provider records into
// the public material representation. The mapping is total and
// deterministic; the two branches differ only by the type discriminator.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olivere/elastic/v7"

	"github.com/oerhub/discovery/internal/license"
	"github.com/oerhub/discovery/model"
)

// Options are the request-level display flags that shape a formatted hit.
type Options struct {
	Wikipedia        bool
	WikipediaLimit   int // <= 0 means no limit
	ContentExtension string
	ContentFetched   bool
}

// Hit decodes one raw index hit and formats it.
func Hit(hit *elastic.SearchHit, opts Options) (model.FormattedMaterial, error) {
	var record model.MaterialRecord
	if err := json.Unmarshal(hit.Source, &record); err != nil {
		return model.FormattedMaterial{}, fmt.Errorf("decoding hit %s: %w", hit.Id, err)
	}
	var score float64
	if hit.Score != nil {
		score = *hit.Score
	}
	return Material(record, score, opts), nil
}

// Material formats one material record. Descriptive fields are carried
// verbatim; the provider name is lower-cased; content_ids always lists all
// content identifiers (an empty list when the record has none), while the
// contents entries appear only when the payload was fetched and are
// restricted to the requested extension.
func Material(record model.MaterialRecord, score float64, opts Options) model.FormattedMaterial {
	fm := model.FormattedMaterial{
		Score:         score,
		MaterialID:    record.MaterialID,
		Title:         record.Title,
		Description:   record.Description,
		CreationDate:  record.CreationDate,
		RetrievedDate: record.RetrievedDate,
		Type:          record.Type,
		MimeType:      record.MimeType,
		MaterialURL:   record.MaterialURL,
		WebsiteURL:    record.WebsiteURL,
		Language:      record.Language,
		License:       record.License,
		Provider: model.FormattedProvider{
			ID:     record.Provider.ID,
			Name:   strings.ToLower(record.Provider.Name),
			Domain: record.Provider.Domain,
		},
		ContentIDs: record.ContentIDs(),
	}

	if opts.ContentFetched {
		for _, content := range record.Contents {
			if content.Extension == opts.ContentExtension {
				fm.Contents = append(fm.Contents, content)
			}
		}
	}

	if opts.Wikipedia {
		wiki := record.Wikipedia
		if opts.WikipediaLimit > 0 && len(wiki) > opts.WikipediaLimit {
			wiki = wiki[:opts.WikipediaLimit]
		}
		fm.Wikipedia = wiki
	}
	return fm
}

// Image maps a secondary-provider record into the same normalized shape as
// primary hits, with type "image" as the discriminator.
func Image(img model.ImageRecord) model.FormattedMaterial {
	return model.FormattedMaterial{
		ExternalID:  img.ID,
		Title:       img.Title,
		Type:        "image",
		MaterialURL: img.URL,
		WebsiteURL:  img.ForeignLandingURL,
		License:     license.FromShortName(img.License, img.LicenseURL),
		Provider: model.FormattedProvider{
			Name: strings.ToLower(img.Source),
		},
		ContentIDs: []int64{},
		Creator:    img.Creator,
		CreatorURL: img.CreatorURL,
		Width:      img.Width,
		Height:     img.Height,
	}
}
