package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"showdesk_backend/internal/stakeholders/repository"
	"showdesk_backend/platform/apperr"
	platformevents "showdesk_backend/platform/events"
	"showdesk_backend/platform/logger"
)

type fakeRepo struct {
	stakeholders []repository.Stakeholder
	org          *repository.Organization
	affiliated   []repository.RosterEntry
	members      []repository.RosterEntry
	addCalls     int
}

func (f *fakeRepo) AddStakeholder(_ context.Context, params repository.AddStakeholderParams) (repository.Stakeholder, error) {
	f.addCalls++
	for _, existing := range f.stakeholders {
		if existing.DealID == params.DealID && existing.Role == params.Role &&
			equalRef(existing.OrganizationID, params.OrganizationID) && equalRef(existing.EntityID, params.EntityID) {
			return repository.Stakeholder{}, apperr.Conflict("this party is already connected to the deal in that role")
		}
	}
	stakeholder := repository.Stakeholder{
		ID:             uuid.New(),
		WorkspaceID:    params.WorkspaceID,
		DealID:         params.DealID,
		Role:           params.Role,
		OrganizationID: params.OrganizationID,
		EntityID:       params.EntityID,
		IsPrimary:      params.IsPrimary,
	}
	f.stakeholders = append(f.stakeholders, stakeholder)
	return stakeholder, nil
}

func (f *fakeRepo) RemoveStakeholder(_ context.Context, _, _, id uuid.UUID) error {
	for i, existing := range f.stakeholders {
		if existing.ID == id {
			f.stakeholders = append(f.stakeholders[:i], f.stakeholders[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("stakeholder not found")
}

func (f *fakeRepo) ListStakeholders(_ context.Context, _, _ uuid.UUID) ([]repository.ResolvedStakeholder, error) {
	items := make([]repository.ResolvedStakeholder, 0, len(f.stakeholders))
	for _, stakeholder := range f.stakeholders {
		items = append(items, repository.ResolvedStakeholder{Stakeholder: stakeholder})
	}
	return items, nil
}

func (f *fakeRepo) GetOrganizationByID(_ context.Context, _, _ uuid.UUID) (repository.Organization, error) {
	if f.org == nil {
		return repository.Organization{}, apperr.NotFound("organization not found")
	}
	return *f.org, nil
}

func (f *fakeRepo) GetEntityEmail(_ context.Context, _, _ uuid.UUID) (*string, error) {
	return nil, nil
}

func (f *fakeRepo) ListAffiliationContacts(_ context.Context, _, _ uuid.UUID) ([]repository.RosterEntry, error) {
	return f.affiliated, nil
}

func (f *fakeRepo) ListMemberContacts(_ context.Context, _, _ uuid.UUID) ([]repository.RosterEntry, error) {
	return f.members, nil
}

func equalRef(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type fakeDealReader struct {
	missing bool
}

func (f *fakeDealReader) DealExists(_ context.Context, _, _ uuid.UUID) error {
	if f.missing {
		return apperr.NotFound("deal not found")
	}
	return nil
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

func newTestService(repo *fakeRepo, deals *fakeDealReader) (*Service, *recordingBus) {
	bus := &recordingBus{}
	return New(repo, deals, bus, logger.New("development"), "US"), bus
}

func TestAddStakeholderRequiresIdentity(t *testing.T) {
	repo := &fakeRepo{}
	svc, bus := newTestService(repo, &fakeDealReader{})

	_, err := svc.AddStakeholder(context.Background(), uuid.New(), uuid.New(), AddStakeholderInput{Role: "planner"})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.addCalls != 0 {
		t.Fatal("invalid input must not reach the repository")
	}
	if len(bus.events) != 0 {
		t.Fatal("invalid input must not publish")
	}
}

func TestAddStakeholderUnknownRole(t *testing.T) {
	orgID := uuid.New()
	svc, _ := newTestService(&fakeRepo{}, &fakeDealReader{})

	_, err := svc.AddStakeholder(context.Background(), uuid.New(), uuid.New(), AddStakeholderInput{
		Role:           "caterer",
		OrganizationID: &orgID,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddStakeholderMissingDeal(t *testing.T) {
	orgID := uuid.New()
	svc, _ := newTestService(&fakeRepo{}, &fakeDealReader{missing: true})

	_, err := svc.AddStakeholder(context.Background(), uuid.New(), uuid.New(), AddStakeholderInput{
		Role:           "bill_to",
		OrganizationID: &orgID,
	})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddStakeholderDuplicateConflict(t *testing.T) {
	orgID := uuid.New()
	workspaceID, dealID := uuid.New(), uuid.New()
	repo := &fakeRepo{}
	svc, bus := newTestService(repo, &fakeDealReader{})

	input := AddStakeholderInput{Role: "bill_to", OrganizationID: &orgID, IsPrimary: true}
	if _, err := svc.AddStakeholder(context.Background(), workspaceID, dealID, input); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := svc.AddStakeholder(context.Background(), workspaceID, dealID, input)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.stakeholders) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(repo.stakeholders))
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected one event for the successful add, got %d", len(bus.events))
	}
}

func TestGetOrgRosterUnionsAndDeduplicates(t *testing.T) {
	shared := uuid.New()
	email := "robin@example.com"
	repo := &fakeRepo{
		org: &repository.Organization{ID: uuid.New(), Name: "Stage & Sound BV"},
		affiliated: []repository.RosterEntry{
			{ID: uuid.New(), EntityID: shared, DisplayName: "Robin Kim", Email: &email, Source: repository.RosterSourceAffiliation},
			{ID: uuid.New(), EntityID: uuid.New(), DisplayName: "Sam Lee", Source: repository.RosterSourceAffiliation},
		},
		members: []repository.RosterEntry{
			{ID: uuid.New(), EntityID: shared, DisplayName: "Robin Kim", Source: repository.RosterSourceMember},
			{ID: uuid.New(), EntityID: uuid.New(), DisplayName: "Kai Novak", Source: repository.RosterSourceMember},
		},
	}
	svc, _ := newTestService(repo, &fakeDealReader{})

	roster, err := svc.GetOrgRoster(context.Background(), uuid.New(), repo.org.ID)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(roster) != 3 {
		t.Fatalf("expected 3 deduplicated contacts, got %d", len(roster))
	}
	counts := make(map[uuid.UUID]int)
	for _, entry := range roster {
		counts[entry.EntityID]++
	}
	if counts[shared] != 1 {
		t.Fatalf("shared contact should appear once, got %d", counts[shared])
	}
}

func TestGetOrgRosterMissingOrganization(t *testing.T) {
	svc, _ := newTestService(&fakeRepo{}, &fakeDealReader{})

	_, err := svc.GetOrgRoster(context.Background(), uuid.New(), uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
