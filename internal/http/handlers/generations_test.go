package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/brand"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/guardrail"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/http/handlers"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/http/httpapi"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/mediajob"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/orchestrator"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/pipeline"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/providers/render"
)

type memUnitRepo struct {
	mu    sync.Mutex
	units map[string]*domain.GenerationUnit
	order []string
}

func newMemUnitRepo(units ...*domain.GenerationUnit) *memUnitRepo {
	m := &memUnitRepo{units: map[string]*domain.GenerationUnit{}}
	for _, u := range units {
		_ = m.Create(context.Background(), u)
	}
	return m
}

func (m *memUnitRepo) Create(ctx context.Context, unit *domain.GenerationUnit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *unit
	m.units[unit.ID] = &clone
	m.order = append(m.order, unit.ID)
	return nil
}

func (m *memUnitRepo) CreateBatch(ctx context.Context, units []*domain.GenerationUnit) error {
	for _, u := range units {
		if err := m.Create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (m *memUnitRepo) GetByID(ctx context.Context, id string) (*domain.GenerationUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.units[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memUnitRepo) ListByBatch(ctx context.Context, batchID string) ([]domain.GenerationUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.GenerationUnit
	for _, id := range m.order {
		if u := m.units[id]; u.BatchID == batchID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUnitRepo) UpdateStatus(ctx context.Context, id string, status domain.UnitStatus, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.units[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Status = status
	u.ErrorMessage = errMsg
	return nil
}

func (m *memUnitRepo) SetStoragePath(ctx context.Context, id, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.units[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.StoragePath = path
	return nil
}

func (m *memUnitRepo) SetVideoJob(ctx context.Context, id, jobID string) error {
	return nil
}

func (m *memUnitRepo) ListPendingVideo(ctx context.Context, limit int) ([]domain.GenerationUnit, error) {
	return nil, nil
}

type memPlanRepo struct {
	mu      sync.Mutex
	records map[string]*domain.PlanRecord
}

func newMemPlanRepo() *memPlanRepo { return &memPlanRepo{records: map[string]*domain.PlanRecord{}} }

func (m *memPlanRepo) Create(ctx context.Context, record *domain.PlanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *record
	m.records[record.ID] = &clone
	return nil
}

func (m *memPlanRepo) GetByID(ctx context.Context, id string) (*domain.PlanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

type fakeBrandRepo struct{}

func (fakeBrandRepo) GetByOwner(ctx context.Context, ownerID string) (*domain.BrandProfile, error) {
	return nil, domain.ErrNotFound
}

type fakePlanner struct{}

func (fakePlanner) GeneratePlan(ctx context.Context, b domain.GenerationBrief) (map[string]any, error) {
	return map[string]any{
		"intent_summary": "launch post",
		"content_type":   "single",
		"caption":        map[string]any{"primary": "A fresh look for the shop is finally here this week"},
	}, nil
}

func (fakePlanner) RevisePlan(ctx context.Context, plan map[string]any, violations []string, brandContext string) (map[string]any, error) {
	return nil, errors.New("not used")
}

type fakeImageGen struct{}

func (fakeImageGen) Generate(ctx context.Context, req render.ImageRequest) (*render.ImageAsset, error) {
	return &render.ImageAsset{Data: []byte("png"), Format: "image/png"}, nil
}

type fakeVideoRenderer struct {
	statusCalls int
	status      render.JobStatus
}

func (f *fakeVideoRenderer) Submit(ctx context.Context, req render.VideoRequest) (*render.JobHandle, error) {
	return &render.JobHandle{JobID: "job-1", Status: "queued"}, nil
}

func (f *fakeVideoRenderer) Status(ctx context.Context, jobID string) (*render.JobStatus, error) {
	f.statusCalls++
	st := f.status
	return &st, nil
}

type memStore struct{}

func (memStore) Upload(ctx context.Context, key string, data []byte) (string, error) {
	return "https://cdn.test/" + key, nil
}

func newTestRouter(t *testing.T, units *memUnitRepo, plans *memPlanRepo, videos *fakeVideoRenderer) http.Handler {
	t.Helper()
	logger := zerolog.New(io.Discard)
	loader := brand.NewLoader(fakeBrandRepo{}, nil, logger)
	gate := guardrail.NewGate(fakePlanner{}, logger)
	orch := orchestrator.New(units, fakeImageGen{}, videos, memStore{}, logger, 2)
	svc := pipeline.NewService(loader, fakePlanner{}, gate, plans, orch, logger)
	tracker := mediajob.NewTracker(mediajob.Options{
		Units:    units,
		Provider: videos,
		Store:    memStore{},
		Logger:   logger,
	})
	app := &handlers.App{Pipeline: svc, Tracker: tracker, Units: units, Plans: plans, Logger: logger}
	return httpapi.NewRouter(app, logger, 0, nil)
}

func TestGenerateRequiresOwnerHeader(t *testing.T) {
	router := newTestRouter(t, newMemUnitRepo(), newMemPlanRepo(), &fakeVideoRenderer{})
	req := httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(`{"input":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestGenerateHappyPath(t *testing.T) {
	units := newMemUnitRepo()
	plans := newMemPlanRepo()
	router := newTestRouter(t, units, plans, &fakeVideoRenderer{})

	body := `{"input":"announce the relaunch","content_type":"single","media_type":"image"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(body))
	req.Header.Set("X-Owner-ID", "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res pipeline.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.PlanID == "" || len(res.UnitIDs) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := plans.GetByID(context.Background(), res.PlanID); err != nil {
		t.Fatalf("plan not persisted: %v", err)
	}
}

func TestGenerateRejectsEmptyInput(t *testing.T) {
	router := newTestRouter(t, newMemUnitRepo(), newMemPlanRepo(), &fakeVideoRenderer{})
	req := httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(`{"input":"  "}`))
	req.Header.Set("X-Owner-ID", "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetGenerationScopedToOwner(t *testing.T) {
	units := newMemUnitRepo(&domain.GenerationUnit{
		ID:        "unit-1",
		OwnerID:   "owner-1",
		MediaType: domain.MediaTypeImage,
		Status:    domain.UnitStatusCompleted,
	})
	router := newTestRouter(t, units, newMemPlanRepo(), &fakeVideoRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/v1/generations/unit-1", nil)
	req.Header.Set("X-Owner-ID", "owner-2")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for foreign owner", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/generations/unit-1", nil)
	req.Header.Set("X-Owner-ID", "owner-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetBatchReturnsSlidesInOrder(t *testing.T) {
	units := newMemUnitRepo(
		&domain.GenerationUnit{ID: "u-0", OwnerID: "owner-1", BatchID: "b-1", BatchIndex: 0, CarouselSlideIndex: 0, CarouselSlideTotal: 2, Status: domain.UnitStatusCompleted},
		&domain.GenerationUnit{ID: "u-1", OwnerID: "owner-1", BatchID: "b-1", BatchIndex: 1, CarouselSlideIndex: 1, CarouselSlideTotal: 2, Status: domain.UnitStatusFailed},
	)
	router := newTestRouter(t, units, newMemPlanRepo(), &fakeVideoRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/v1/generations/batch/b-1", nil)
	req.Header.Set("X-Owner-ID", "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Units []handlers.UnitResponse `json:"units"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Units) != 2 || res.Units[0].ID != "u-0" || res.Units[1].ID != "u-1" {
		t.Fatalf("unexpected batch order: %+v", res.Units)
	}
}

func TestVideoStatusShortCircuitsCompleted(t *testing.T) {
	units := newMemUnitRepo(&domain.GenerationUnit{
		ID:          "unit-1",
		OwnerID:     "owner-1",
		MediaType:   domain.MediaTypeVideo,
		Status:      domain.UnitStatusCompleted,
		StoragePath: "https://cdn.test/owner-1/videos/unit-1.mp4",
		VideoJobID:  "job-1",
	})
	videos := &fakeVideoRenderer{}
	router := newTestRouter(t, units, newMemPlanRepo(), videos)

	req := httptest.NewRequest(http.MethodGet, "/v1/videos/unit-1/status", nil)
	req.Header.Set("X-Owner-ID", "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if videos.statusCalls != 0 {
		t.Fatalf("provider status calls = %d, want 0", videos.statusCalls)
	}
	var update mediajob.Update
	if err := json.Unmarshal(rec.Body.Bytes(), &update); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if update.Status != domain.UnitStatusCompleted || update.StoragePath == "" {
		t.Fatalf("unexpected update: %+v", update)
	}
}
