package engine

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/olivere/elastic/v7"

	internalErrors "github.com/oerhub/discovery/internal/errors"
	"github.com/oerhub/discovery/internal/format"
	"github.com/oerhub/discovery/model"
	"github.com/oerhub/discovery/services"
)

// Get reads one material and returns the fully formatted record: all
// contents and the complete concept list, no pagination metadata.
func (e *Engine) Get(ctx context.Context, materialID int64) (*model.FormattedMaterial, error) {
	res, err := e.client.Get().
		Index(e.index).
		Id(strconv.FormatInt(materialID, 10)).
		Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return nil, internalErrors.NewMaterialNotFoundError(materialID)
		}
		return nil, internalErrors.NewUpstreamError("get material", err)
	}
	if !res.Found {
		return nil, internalErrors.NewMaterialNotFoundError(materialID)
	}

	var record model.MaterialRecord
	if err := json.Unmarshal(res.Source, &record); err != nil {
		return nil, internalErrors.NewUpstreamError("decode material", err)
	}

	fm := format.Material(record, 0, format.Options{Wikipedia: true})
	fm.Contents = record.Contents
	return &fm, nil
}

// Create indexes a normalized material record. The index is refreshed
// before returning so an immediate read observes the write.
func (e *Engine) Create(ctx context.Context, record model.MaterialRecord) error {
	_, err := e.client.Index().
		Index(e.index).
		Id(strconv.FormatInt(record.MaterialID, 10)).
		BodyJson(record).
		Refresh("true").
		Do(ctx)
	if err != nil {
		return internalErrors.NewUpstreamError("create material", err)
	}
	return nil
}

// CreateBulk indexes records independently: a failed record is counted and
// logged, never aborting the batch.
func (e *Engine) CreateBulk(ctx context.Context, records []model.MaterialRecord) (services.BulkResult, error) {
	result := services.BulkResult{MaterialIDs: []int64{}}
	for _, record := range records {
		if err := e.Create(ctx, record); err != nil {
			log.Printf("Warning: bulk ingest failed for material %d: %v", record.MaterialID, err)
			result.Failed++
			continue
		}
		result.Created++
		result.MaterialIDs = append(result.MaterialIDs, record.MaterialID)
	}
	return result, nil
}

// Update replaces an existing material record; absent ids are a not-found
// error naming the identifier.
func (e *Engine) Update(ctx context.Context, record model.MaterialRecord) error {
	id := strconv.FormatInt(record.MaterialID, 10)

	exists, err := e.client.Exists().Index(e.index).Id(id).Do(ctx)
	if err != nil {
		return internalErrors.NewUpstreamError("check material", err)
	}
	if !exists {
		return internalErrors.NewMaterialNotFoundError(record.MaterialID)
	}

	_, err = e.client.Index().
		Index(e.index).
		Id(id).
		BodyJson(record).
		Refresh("true").
		Do(ctx)
	if err != nil {
		return internalErrors.NewUpstreamError("update material", err)
	}
	return nil
}

// Delete removes a material; absent ids are a not-found error.
func (e *Engine) Delete(ctx context.Context, materialID int64) error {
	_, err := e.client.Delete().
		Index(e.index).
		Id(strconv.FormatInt(materialID, 10)).
		Refresh("true").
		Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return internalErrors.NewMaterialNotFoundError(materialID)
		}
		return internalErrors.NewUpstreamError("delete material", err)
	}
	return nil
}
