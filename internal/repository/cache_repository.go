package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// CacheRepository persists memoized extraction and export results.
// Entries are only ever added or looked up; invalidation happens by
// bumping the pipeline/template version in the cache key.
type CacheRepository struct {
	pool *pgxpool.Pool
}

// NewCacheRepository creates a new CacheRepository.
func NewCacheRepository(pool *pgxpool.Pool) *CacheRepository {
	return &CacheRepository{pool: pool}
}

// GetOcr looks up an extraction cache entry by its cache key.
func (r *CacheRepository) GetOcr(ctx context.Context, cacheKey string) (*model.OcrCacheEntry, error) {
	var e model.OcrCacheEntry
	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, file_hash, options_hash, pipeline_version, cache_key, result_ref, created_at
		 FROM ocr_cache WHERE cache_key = $1`, cacheKey,
	).Scan(&e.ID, &e.OwnerID, &e.FileHash, &e.OptionsHash, &e.PipelineVersion,
		&e.CacheKey, &e.ResultRef, &e.CreatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return &e, nil
}

// PutOcr stores an extraction cache entry. Concurrent writers racing on
// the same key both win; the row is simply kept.
func (r *CacheRepository) PutOcr(ctx context.Context, e *model.OcrCacheEntry) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO ocr_cache (owner_id, file_hash, options_hash, pipeline_version, cache_key, result_ref)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (cache_key) DO UPDATE SET result_ref = EXCLUDED.result_ref
		 RETURNING id, created_at`,
		e.OwnerID, e.FileHash, e.OptionsHash, e.PipelineVersion, e.CacheKey, e.ResultRef,
	).Scan(&e.ID, &e.CreatedAt)
}

// GetPdfExport looks up a compiled-export cache entry by its cache key.
func (r *CacheRepository) GetPdfExport(ctx context.Context, cacheKey string) (*model.PdfExportCacheEntry, error) {
	var e model.PdfExportCacheEntry
	err := r.pool.QueryRow(ctx,
		`SELECT id, test_id, cache_key, config_hash, template_version, stored_path, created_at
		 FROM pdf_export_cache WHERE cache_key = $1`, cacheKey,
	).Scan(&e.ID, &e.TestID, &e.CacheKey, &e.ConfigHash, &e.TemplateVersion,
		&e.StoredPath, &e.CreatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return &e, nil
}

// PutPdfExport stores a compiled-export cache entry.
func (r *CacheRepository) PutPdfExport(ctx context.Context, e *model.PdfExportCacheEntry) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO pdf_export_cache (test_id, cache_key, config_hash, template_version, stored_path)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (cache_key) DO UPDATE SET stored_path = EXCLUDED.stored_path
		 RETURNING id, created_at`,
		e.TestID, e.CacheKey, e.ConfigHash, e.TemplateVersion, e.StoredPath,
	).Scan(&e.ID, &e.CreatedAt)
}

// DeleteForTest drops export cache entries after a test changes.
func (r *CacheRepository) DeleteForTest(ctx context.Context, testID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM pdf_export_cache WHERE test_id = $1`, testID)
	return err
}
