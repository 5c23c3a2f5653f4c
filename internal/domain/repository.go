package domain

import "context"

// UnitRepository defines persistence for generation units.
type UnitRepository interface {
	Create(ctx context.Context, unit *GenerationUnit) error
	CreateBatch(ctx context.Context, units []*GenerationUnit) error
	GetByID(ctx context.Context, id string) (*GenerationUnit, error)
	ListByBatch(ctx context.Context, batchID string) ([]GenerationUnit, error)
	UpdateStatus(ctx context.Context, id string, status UnitStatus, errMsg string) error
	SetStoragePath(ctx context.Context, id string, path string) error
	SetVideoJob(ctx context.Context, id string, jobID string) error
	ListPendingVideo(ctx context.Context, limit int) ([]GenerationUnit, error)
}

// PlanRecord links a persisted content plan to the request that produced it.
type PlanRecord struct {
	ID           string
	OwnerID      string
	RequestInput string
	PlanJSON     []byte
	RepairLog    []string
	GatePassed   bool
	GateNotes    string
}

// PlanRepository persists finalized content plans.
type PlanRepository interface {
	Create(ctx context.Context, record *PlanRecord) error
	GetByID(ctx context.Context, id string) (*PlanRecord, error)
}

// BrandRepository reads brand profiles.
type BrandRepository interface {
	GetByOwner(ctx context.Context, ownerID string) (*BrandProfile, error)
}
