package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
)

// UnitRepositoryPG implements domain.UnitRepository.
type UnitRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUnitRepository creates a new generation unit repository backed by PostgreSQL.
func NewUnitRepository(pool *pgxpool.Pool) *UnitRepositoryPG {
	return &UnitRepositoryPG{pool: pool}
}

const unitColumns = `id, owner_id, prompt, media_type, status, storage_path, error_message,
batch_id, batch_index, carousel_slide_index, carousel_slide_total, video_job_id, created_at, updated_at`

// Create inserts a single generation unit.
func (r *UnitRepositoryPG) Create(ctx context.Context, unit *domain.GenerationUnit) error {
	query := `
INSERT INTO generation_units (id, owner_id, prompt, media_type, status, storage_path, error_message,
	batch_id, batch_index, carousel_slide_index, carousel_slide_total, video_job_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	_, err := r.pool.Exec(ctx, query,
		unit.ID,
		unit.OwnerID,
		unit.Prompt,
		unit.MediaType,
		unit.Status,
		nullableText(unit.StoragePath),
		nullableText(unit.ErrorMessage),
		nullableText(unit.BatchID),
		unit.BatchIndex,
		unit.CarouselSlideIndex,
		unit.CarouselSlideTotal,
		nullableText(unit.VideoJobID),
	)
	return err
}

// CreateBatch inserts all units in one transaction so carousel placeholders
// are visible atomically.
func (r *UnitRepositoryPG) CreateBatch(ctx context.Context, units []*domain.GenerationUnit) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
INSERT INTO generation_units (id, owner_id, prompt, media_type, status, storage_path, error_message,
	batch_id, batch_index, carousel_slide_index, carousel_slide_total, video_job_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	for _, unit := range units {
		if _, err := tx.Exec(ctx, query,
			unit.ID,
			unit.OwnerID,
			unit.Prompt,
			unit.MediaType,
			unit.Status,
			nullableText(unit.StoragePath),
			nullableText(unit.ErrorMessage),
			nullableText(unit.BatchID),
			unit.BatchIndex,
			unit.CarouselSlideIndex,
			unit.CarouselSlideTotal,
			nullableText(unit.VideoJobID),
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// GetByID fetches a unit by its identifier.
func (r *UnitRepositoryPG) GetByID(ctx context.Context, id string) (*domain.GenerationUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM generation_units WHERE id = $1;`
	unit, err := scanUnit(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return unit, nil
}

// ListByBatch returns a carousel's units in slide order.
func (r *UnitRepositoryPG) ListByBatch(ctx context.Context, batchID string) ([]domain.GenerationUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM generation_units WHERE batch_id = $1 ORDER BY batch_index;`
	rows, err := r.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.GenerationUnit
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *unit)
	}
	return units, rows.Err()
}

// UpdateStatus transitions a unit and records the failure reason when present.
func (r *UnitRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.UnitStatus, errMsg string) error {
	query := `
UPDATE generation_units
SET status = $2,
    error_message = $3,
    updated_at = NOW()
WHERE id = $1;
`
	_, err := r.pool.Exec(ctx, query, id, status, nullableText(errMsg))
	return err
}

// SetStoragePath records the durable asset location.
func (r *UnitRepositoryPG) SetStoragePath(ctx context.Context, id, path string) error {
	query := `
UPDATE generation_units
SET storage_path = $2,
    updated_at = NOW()
WHERE id = $1;
`
	_, err := r.pool.Exec(ctx, query, id, path)
	return err
}

// SetVideoJob links the unit to its provider render job.
func (r *UnitRepositoryPG) SetVideoJob(ctx context.Context, id, jobID string) error {
	query := `
UPDATE generation_units
SET video_job_id = $2,
    updated_at = NOW()
WHERE id = $1;
`
	_, err := r.pool.Exec(ctx, query, id, jobID)
	return err
}

// ListPendingVideo returns video units still processing with a provider job
// recorded, oldest first, for the worker sweep.
func (r *UnitRepositoryPG) ListPendingVideo(ctx context.Context, limit int) ([]domain.GenerationUnit, error) {
	query := `
SELECT ` + unitColumns + `
FROM generation_units
WHERE media_type = 'video'
  AND status = 'processing'
  AND video_job_id IS NOT NULL
ORDER BY created_at
LIMIT $1;
`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.GenerationUnit
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *unit)
	}
	return units, rows.Err()
}

func scanUnit(row pgx.Row) (*domain.GenerationUnit, error) {
	var unit domain.GenerationUnit
	var storagePath, errMsg, batchID, videoJobID *string
	if err := row.Scan(
		&unit.ID,
		&unit.OwnerID,
		&unit.Prompt,
		&unit.MediaType,
		&unit.Status,
		&storagePath,
		&errMsg,
		&batchID,
		&unit.BatchIndex,
		&unit.CarouselSlideIndex,
		&unit.CarouselSlideTotal,
		&videoJobID,
		&unit.CreatedAt,
		&unit.UpdatedAt,
	); err != nil {
		return nil, err
	}
	unit.StoragePath = deref(storagePath)
	unit.ErrorMessage = deref(errMsg)
	unit.BatchID = deref(batchID)
	unit.VideoJobID = deref(videoJobID)
	return &unit, nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
