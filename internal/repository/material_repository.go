package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// MaterialRepository handles material data access.
type MaterialRepository struct {
	pool *pgxpool.Pool
}

// NewMaterialRepository creates a new MaterialRepository.
func NewMaterialRepository(pool *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{pool: pool}
}

const materialColumns = `id, owner_id, filename, stored_path, mime_type, size_bytes, page_count,
	checksum, extracted_text, markdown_twin, suggested_title, routing_tier,
	processing_status, processing_error, created_at, updated_at`

func scanMaterial(row pgx.Row) (*model.Material, error) {
	var m model.Material
	err := row.Scan(&m.ID, &m.OwnerID, &m.Filename, &m.StoredPath, &m.MimeType,
		&m.SizeBytes, &m.PageCount, &m.Checksum, &m.ExtractedText, &m.MarkdownTwin,
		&m.SuggestedTitle, &m.RoutingTier, &m.ProcessingStatus, &m.ProcessingError,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return &m, nil
}

// Create inserts a freshly uploaded material.
func (r *MaterialRepository) Create(ctx context.Context, m *model.Material) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO materials (owner_id, filename, stored_path, mime_type, size_bytes, page_count, checksum, processing_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		m.OwnerID, m.Filename, m.StoredPath, m.MimeType, m.SizeBytes,
		m.PageCount, m.Checksum, m.ProcessingStatus,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID retrieves a material by id.
func (r *MaterialRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
	return scanMaterial(row)
}

// GetByChecksum finds an already-processed material with identical
// content belonging to the same user.
func (r *MaterialRepository) GetByChecksum(ctx context.Context, ownerID uuid.UUID, checksum string) (*model.Material, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+materialColumns+`
		 FROM materials
		 WHERE owner_id = $1 AND checksum = $2 AND processing_status = 'done'
		 ORDER BY created_at DESC
		 LIMIT 1`, ownerID, checksum)
	return scanMaterial(row)
}

// ListByOwner retrieves all materials of one user, newest first.
func (r *MaterialRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Material, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+materialColumns+`
		 FROM materials WHERE owner_id = $1
		 ORDER BY created_at DESC`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []model.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}
	return materials, rows.Err()
}

// SetProcessingStatus updates the extraction state, clearing or setting
// the error message.
func (r *MaterialRepository) SetProcessingStatus(ctx context.Context, id uuid.UUID, status model.ProcessingStatus, processingError string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE materials
		 SET processing_status = $1, processing_error = $2, updated_at = NOW()
		 WHERE id = $3`,
		status, processingError, id)
	return err
}

// SaveExtraction stores the extraction and analysis results and marks
// the material done.
func (r *MaterialRepository) SaveExtraction(ctx context.Context, m *model.Material) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE materials
		 SET extracted_text = $1, markdown_twin = $2, suggested_title = $3,
		     routing_tier = $4, page_count = $5,
		     processing_status = 'done', processing_error = '', updated_at = NOW()
		 WHERE id = $6`,
		m.ExtractedText, m.MarkdownTwin, m.SuggestedTitle, m.RoutingTier, m.PageCount, m.ID)
	return err
}

// Delete removes a material row. The stored object is removed by the
// service layer.
func (r *MaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	return err
}
