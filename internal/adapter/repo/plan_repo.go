package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
)

// PlanRepositoryPG implements domain.PlanRepository.
type PlanRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPlanRepository creates a new content plan repository backed by PostgreSQL.
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepositoryPG {
	return &PlanRepositoryPG{pool: pool}
}

// Create inserts a finalized plan record.
func (r *PlanRepositoryPG) Create(ctx context.Context, record *domain.PlanRecord) error {
	query := `
INSERT INTO content_plans (id, owner_id, request_input, plan_json, repair_log, gate_passed, gate_notes)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.OwnerID,
		record.RequestInput,
		record.PlanJSON,
		record.RepairLog,
		record.GatePassed,
		nullableText(record.GateNotes),
	)
	return err
}

// GetByID fetches a plan record by its identifier.
func (r *PlanRepositoryPG) GetByID(ctx context.Context, id string) (*domain.PlanRecord, error) {
	query := `
SELECT id, owner_id, request_input, plan_json, repair_log, gate_passed, gate_notes
FROM content_plans
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	var record domain.PlanRecord
	var gateNotes *string
	if err := row.Scan(
		&record.ID,
		&record.OwnerID,
		&record.RequestInput,
		&record.PlanJSON,
		&record.RepairLog,
		&record.GatePassed,
		&gateNotes,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	record.GateNotes = deref(gateNotes)
	return &record, nil
}
