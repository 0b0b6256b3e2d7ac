package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"showdesk_backend/internal/productions/domain"
	"showdesk_backend/internal/productions/repository"
	"showdesk_backend/platform/apperr"
	platformevents "showdesk_backend/platform/events"
	"showdesk_backend/platform/logger"
)

type fakeRepo struct {
	production repository.Production
	document   json.RawMessage
	rev        int64
	// staleFirst forces this many updates to lose the revision race before
	// one is allowed through.
	staleFirst  int
	updateCalls int
}

func (f *fakeRepo) GetProductionByID(_ context.Context, _, _ uuid.UUID) (repository.Production, error) {
	return f.production, nil
}

func (f *fakeRepo) ListProductions(_ context.Context, _ repository.ListProductionsParams) ([]repository.Production, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) GetRunOfShow(_ context.Context, _, _ uuid.UUID) (repository.RunOfShowRecord, error) {
	return repository.RunOfShowRecord{ProductionID: f.production.ID, Document: f.document, Rev: f.rev}, nil
}

func (f *fakeRepo) UpdateRunOfShow(_ context.Context, _, _ uuid.UUID, doc json.RawMessage, expectedRev int64) (int64, error) {
	f.updateCalls++
	if f.staleFirst > 0 {
		f.staleFirst--
		f.rev++
		return 0, repository.ErrStaleRevision
	}
	if expectedRev != f.rev {
		return 0, repository.ErrStaleRevision
	}
	f.document = doc
	f.rev++
	return f.rev, nil
}

type recordingBus struct {
	events []platformevents.Event
}

func (b *recordingBus) Publish(_ context.Context, event platformevents.Event) {
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event platformevents.Event) error {
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(_ string, _ platformevents.Handler) {}

func newTestService(repo *fakeRepo) (*Service, *recordingBus) {
	bus := &recordingBus{}
	return New(repo, bus, logger.New("development")), bus
}

func repoWithDoc(t *testing.T, doc domain.Document) *fakeRepo {
	t.Helper()
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return &fakeRepo{
		production: repository.Production{
			ID:          uuid.New(),
			WorkspaceID: uuid.New(),
			Name:        "Autumn gala",
			StartsAt:    time.Date(2026, 10, 3, 8, 0, 0, 0, time.UTC),
		},
		document: raw,
		rev:      1,
	}
}

func TestAssignCrewMemberOutOfRange(t *testing.T) {
	repo := repoWithDoc(t, domain.Document{CrewRoles: []string{"audio_engineer"}})
	svc, bus := newTestService(repo)

	_, _, err := svc.AssignCrewMember(context.Background(), repo.production.WorkspaceID, repo.production.ID, 5, uuid.New(), "Alex")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatal("failed assignment must not write")
	}
	if len(bus.events) != 0 {
		t.Fatal("failed assignment must not publish")
	}
}

func TestAssignCrewMemberSetsAssigneeAndPublishes(t *testing.T) {
	repo := repoWithDoc(t, domain.Document{CrewRoles: []string{"audio_engineer", "rigger"}})
	svc, bus := newTestService(repo)
	entityID := uuid.New()

	doc, rev, err := svc.AssignCrewMember(context.Background(), repo.production.WorkspaceID, repo.production.ID, 1, entityID, "Alex")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if rev != 2 {
		t.Fatalf("expected rev 2, got %d", rev)
	}
	item := doc.CrewItems[1]
	if item.EntityID == nil || *item.EntityID != entityID {
		t.Fatal("expected entity to be attached")
	}
	if item.AssigneeName == nil || *item.AssigneeName != "Alex" {
		t.Fatal("expected assignee name to be attached")
	}
	if item.Status != domain.CrewStatusConfirmed {
		t.Fatalf("assignment must set status to confirmed, got %q", item.Status)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.events))
	}
}

func TestAssignCrewMemberConfirmsFromAnyStatus(t *testing.T) {
	repo := repoWithDoc(t, domain.Document{
		CrewItems: []domain.CrewItem{{Role: "rigger", Status: domain.CrewStatusDispatched}},
	})
	svc, _ := newTestService(repo)

	doc, _, err := svc.AssignCrewMember(context.Background(), repo.production.WorkspaceID, repo.production.ID, 0, uuid.New(), "Alex")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if doc.CrewItems[0].Status != domain.CrewStatusConfirmed {
		t.Fatalf("assignment bypasses the cycle, expected confirmed, got %q", doc.CrewItems[0].Status)
	}
}

func TestMergeCrewRolesIsAdditive(t *testing.T) {
	repo := repoWithDoc(t, domain.Document{
		CrewRoles: []string{"audio_engineer"},
		CrewItems: []domain.CrewItem{{Role: "audio_engineer", Status: domain.CrewStatusConfirmed}},
	})
	svc, _ := newTestService(repo)

	added, err := svc.MergeCrewRoles(context.Background(), repo.production.WorkspaceID, repo.production.ID, []string{"audio_engineer", "rigger"})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 added, got %d", added)
	}

	doc, _, err := svc.GetRunOfShow(context.Background(), repo.production.WorkspaceID, repo.production.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(doc.CrewItems) != 2 {
		t.Fatalf("expected 2 crew items, got %d", len(doc.CrewItems))
	}
	if doc.CrewItems[0].Status != domain.CrewStatusConfirmed {
		t.Fatal("existing crew entry was disturbed")
	}
	if doc.CrewItems[1].Role != "rigger" || doc.CrewItems[1].Status != domain.CrewStatusRequested {
		t.Fatalf("unexpected appended entry %+v", doc.CrewItems[1])
	}

	// A second identical merge adds nothing.
	added, err = svc.MergeCrewRoles(context.Background(), repo.production.WorkspaceID, repo.production.ID, []string{"audio_engineer", "rigger"})
	if err != nil {
		t.Fatalf("repeat merge: %v", err)
	}
	if added != 0 {
		t.Fatalf("repeat merge should add nothing, got %d", added)
	}
}

func TestMergeRunOfShowRejectsEmptyPatch(t *testing.T) {
	repo := repoWithDoc(t, domain.Document{})
	svc, _ := newTestService(repo)

	_, _, err := svc.MergeRunOfShow(context.Background(), repo.production.WorkspaceID, repo.production.ID, domain.Patch{})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMutateRetriesLostRace(t *testing.T) {
	repo := repoWithDoc(t, domain.Document{GearItems: []domain.GearItem{{ID: "g1", Name: "Console", Status: domain.GearStatusPending}}})
	repo.staleFirst = 1
	svc, _ := newTestService(repo)

	doc, _, err := svc.CycleGearStatus(context.Background(), repo.production.WorkspaceID, repo.production.ID, "g1")
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if doc.GearItems[0].Status != domain.GearStatusPulled {
		t.Fatalf("expected pulled, got %q", doc.GearItems[0].Status)
	}
	if repo.updateCalls != 2 {
		t.Fatalf("expected a retry, got %d update calls", repo.updateCalls)
	}
}

func TestMutateGivesUpUnderContention(t *testing.T) {
	repo := repoWithDoc(t, domain.Document{GearItems: []domain.GearItem{{ID: "g1", Name: "Console", Status: domain.GearStatusPending}}})
	repo.staleFirst = 10
	svc, _ := newTestService(repo)

	_, _, err := svc.CycleGearStatus(context.Background(), repo.production.WorkspaceID, repo.production.ID, "g1")
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCycleGearStatusUnknownID(t *testing.T) {
	repo := repoWithDoc(t, domain.Document{GearItems: []domain.GearItem{{ID: "g1", Name: "Console", Status: domain.GearStatusPending}}})
	svc, _ := newTestService(repo)

	_, _, err := svc.CycleGearStatus(context.Background(), repo.production.WorkspaceID, repo.production.ID, "nope")
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestToggleLogisticsUnknownKey(t *testing.T) {
	repo := repoWithDoc(t, domain.Document{})
	svc, _ := newTestService(repo)

	_, _, err := svc.ToggleLogistics(context.Background(), repo.production.WorkspaceID, repo.production.ID, "catering_ready")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestToggleLogisticsDefaultsMissingSection(t *testing.T) {
	repo := repoWithDoc(t, domain.Document{})
	svc, _ := newTestService(repo)

	doc, _, err := svc.ToggleLogistics(context.Background(), repo.production.WorkspaceID, repo.production.ID, domain.LogisticsTruckLoaded)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if doc.Logistics == nil || !doc.Logistics.TruckLoaded {
		t.Fatal("expected truck_loaded to flip to true")
	}
	if doc.Logistics.VenueAccessConfirmed || doc.Logistics.CrewConfirmed {
		t.Fatal("untouched keys must stay false")
	}
}
