package model

import (
	"time"

	"github.com/google/uuid"
)

// OcrCacheEntry memoizes document extraction/analysis results keyed by
// content hash, options hash and pipeline version. Hash collisions are
// treated as hits; invalidation happens only by bumping the version.
type OcrCacheEntry struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	FileHash        string    `json:"file_hash"`
	OptionsHash     string    `json:"options_hash"`
	PipelineVersion string    `json:"pipeline_version"`
	CacheKey        string    `json:"cache_key"`
	ResultRef       string    `json:"result_ref"`
	CreatedAt       time.Time `json:"created_at"`
}

// PdfExportCacheEntry memoizes compiled PDF exports per test, config
// hash and template version.
type PdfExportCacheEntry struct {
	ID              uuid.UUID `json:"id"`
	TestID          uuid.UUID `json:"test_id"`
	CacheKey        string    `json:"cache_key"`
	ConfigHash      string    `json:"config_hash"`
	TemplateVersion string    `json:"template_version"`
	StoredPath      string    `json:"stored_path"`
	CreatedAt       time.Time `json:"created_at"`
}
