package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"showdesk_backend/internal/deals/crewplan"
	"showdesk_backend/internal/deals/ports"
	"showdesk_backend/internal/deals/repository"
	rosdomain "showdesk_backend/internal/productions/domain"
	"showdesk_backend/platform/apperr"
	platformevents "showdesk_backend/platform/events"
	"showdesk_backend/platform/logger"
)

type fakeRepo struct {
	deal           repository.Deal
	dealErr        error
	proposal       *repository.Proposal
	items          []repository.ProposalItem
	projects       []repository.Project
	projectByID    map[uuid.UUID]repository.Project
	handoverResult repository.HandoverResult
	handoverErr    error
	handoverCalls  int
	lastHandover   repository.CommitHandoverParams
}

func (f *fakeRepo) CreateDeal(_ context.Context, _ repository.CreateDealParams) (repository.Deal, error) {
	return repository.Deal{}, nil
}

func (f *fakeRepo) GetDealByID(_ context.Context, _, _ uuid.UUID) (repository.Deal, error) {
	return f.deal, f.dealErr
}

func (f *fakeRepo) UpdateDeal(_ context.Context, _ repository.UpdateDealParams) (repository.Deal, error) {
	return repository.Deal{}, nil
}

func (f *fakeRepo) UpdateDealStatus(_ context.Context, _, _ uuid.UUID, _ string) (repository.Deal, error) {
	return repository.Deal{}, nil
}

func (f *fakeRepo) ListDeals(_ context.Context, _ repository.ListDealsParams) ([]repository.Deal, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) CreateProposal(_ context.Context, _ repository.CreateProposalParams) (repository.Proposal, error) {
	return repository.Proposal{}, nil
}

func (f *fakeRepo) UpdateProposalStatus(_ context.Context, _, _ uuid.UUID, _ string) (repository.Proposal, error) {
	return repository.Proposal{}, nil
}

func (f *fakeRepo) GetProposalByID(_ context.Context, _, _ uuid.UUID) (repository.Proposal, error) {
	if f.proposal != nil {
		return *f.proposal, nil
	}
	return repository.Proposal{}, apperr.NotFound("proposal not found")
}

func (f *fakeRepo) GoverningProposal(_ context.Context, _, _ uuid.UUID) (*repository.Proposal, error) {
	return f.proposal, nil
}

func (f *fakeRepo) ListProposalItems(_ context.Context, _ uuid.UUID) ([]repository.ProposalItem, error) {
	return f.items, nil
}

func (f *fakeRepo) CreateProposalItem(_ context.Context, _ repository.CreateProposalItemParams) (repository.ProposalItem, error) {
	return repository.ProposalItem{}, nil
}

func (f *fakeRepo) ListProjectsByClient(_ context.Context, _, _ uuid.UUID) ([]repository.Project, error) {
	return f.projects, nil
}

func (f *fakeRepo) GetProjectByID(_ context.Context, _, id uuid.UUID) (repository.Project, error) {
	if project, ok := f.projectByID[id]; ok {
		return project, nil
	}
	return repository.Project{}, apperr.NotFound("project not found")
}

func (f *fakeRepo) CommitHandover(_ context.Context, params repository.CommitHandoverParams) (repository.HandoverResult, error) {
	f.handoverCalls++
	f.lastHandover = params
	return f.handoverResult, f.handoverErr
}

type fakeCatalogReader struct {
	packages map[uuid.UUID]ports.PackageInfo
}

func (f *fakeCatalogReader) GetPackagesByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]ports.PackageInfo, error) {
	out := make([]ports.PackageInfo, 0, len(ids))
	for _, id := range ids {
		if pkg, ok := f.packages[id]; ok {
			out = append(out, pkg)
		}
	}
	return out, nil
}

type fakeGateway struct {
	added      int
	mergeCalls int
	lastRoles  []string
	crewState  ports.CrewState
	stateCalls int
}

func (f *fakeGateway) GetCrewState(_ context.Context, _, _ uuid.UUID) (ports.CrewState, error) {
	f.stateCalls++
	return f.crewState, nil
}

func (f *fakeGateway) MergeCrewRoles(_ context.Context, _, _ uuid.UUID, roles []string) (int, error) {
	f.mergeCalls++
	f.lastRoles = roles
	return f.added, nil
}

type fakeScheduler struct {
	calls int
}

func (f *fakeScheduler) ScheduleCrewSync(_ context.Context, _, _, _ uuid.UUID) error {
	f.calls++
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

func newTestOrchestrator(repo *fakeRepo, catalog *fakeCatalogReader, gateway *fakeGateway, scheduler *fakeScheduler, bus *recordingBus) *Orchestrator {
	if catalog == nil {
		catalog = &fakeCatalogReader{}
	}
	expander := crewplan.NewExpander(repo, catalog)
	return NewOrchestrator(repo, expander, gateway, scheduler, bus, logger.New("development"))
}

func dealFixture(status string, proposedDate *time.Time) repository.Deal {
	return repository.Deal{
		ID:           uuid.New(),
		WorkspaceID:  uuid.New(),
		Title:        "Corporate gala",
		Status:       status,
		ProposedDate: proposedDate,
	}
}

func TestHandOverIsIdempotent(t *testing.T) {
	existing := uuid.New()
	repo := &fakeRepo{deal: dealFixture("won", nil)}
	repo.deal.EventID = &existing

	orch := newTestOrchestrator(repo, nil, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})
	out, err := orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{})
	if err != nil {
		t.Fatalf("handover: %v", err)
	}
	if !out.AlreadyHandedOver {
		t.Fatal("expected AlreadyHandedOver")
	}
	if out.ProductionID != existing {
		t.Fatalf("expected existing production %s, got %s", existing, out.ProductionID)
	}
	if repo.handoverCalls != 0 {
		t.Fatal("idempotent handover must not write")
	}
}

func TestHandOverBlockedFromLost(t *testing.T) {
	date := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{deal: dealFixture("lost", &date)}

	orch := newTestOrchestrator(repo, nil, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})
	_, err := orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.handoverCalls != 0 {
		t.Fatal("blocked handover must not write")
	}
}

func TestHandOverRequiresVitals(t *testing.T) {
	repo := &fakeRepo{deal: dealFixture("proposal", nil)}

	orch := newTestOrchestrator(repo, nil, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})
	_, err := orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandOverDefaultsVitalsFromProposedDate(t *testing.T) {
	date := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		deal:           dealFixture("contract_sent", &date),
		handoverResult: repository.HandoverResult{ProjectID: uuid.New(), ProductionID: uuid.New()},
	}

	scheduler := &fakeScheduler{}
	bus := &recordingBus{}
	orch := newTestOrchestrator(repo, nil, &fakeGateway{}, scheduler, bus)
	out, err := orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{})
	if err != nil {
		t.Fatalf("handover: %v", err)
	}
	if out.AlreadyHandedOver {
		t.Fatal("fresh handover must not report AlreadyHandedOver")
	}
	if got := repo.lastHandover.StartsAt; got.Hour() != 8 || got.Day() != 3 {
		t.Fatalf("unexpected default start %v", got)
	}
	if got := repo.lastHandover.EndsAt; got.Hour() != 18 {
		t.Fatalf("unexpected default end %v", got)
	}
	if repo.lastHandover.ProductionName != "Corporate gala" {
		t.Fatalf("expected deal title as production name, got %q", repo.lastHandover.ProductionName)
	}
	if scheduler.calls != 1 {
		t.Fatal("expected one crew sync to be scheduled")
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.events))
	}
}

func TestHandOverSeedsCrewFromProposal(t *testing.T) {
	date := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	pkgID := uuid.New()
	proposalID := uuid.New()
	repo := &fakeRepo{
		deal:           dealFixture("proposal", &date),
		proposal:       &repository.Proposal{ID: proposalID, Status: "accepted"},
		items:          []repository.ProposalItem{{ID: uuid.New(), PackageID: &pkgID, Name: "FOH", Quantity: 1}},
		handoverResult: repository.HandoverResult{ProjectID: uuid.New(), ProductionID: uuid.New()},
	}
	catalog := &fakeCatalogReader{packages: map[uuid.UUID]ports.PackageInfo{
		pkgID: {ID: pkgID, Name: "FOH mixing", Category: "service", StaffRole: "audio_engineer"},
	}}

	orch := newTestOrchestrator(repo, catalog, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})
	out, err := orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{})
	if err != nil {
		t.Fatalf("handover: %v", err)
	}
	if len(out.CrewRoles) != 1 || out.CrewRoles[0] != "audio_engineer" {
		t.Fatalf("expected derived roles, got %v", out.CrewRoles)
	}

	var doc struct {
		CrewRoles []string `json:"crew_roles"`
		CrewItems []struct {
			Role   string `json:"role"`
			Status string `json:"status"`
		} `json:"crew_items"`
	}
	if err := json.Unmarshal(repo.lastHandover.RunOfShow, &doc); err != nil {
		t.Fatalf("unmarshal run of show: %v", err)
	}
	if len(doc.CrewItems) != 1 || doc.CrewItems[0].Status != "requested" {
		t.Fatalf("expected one requested crew entry, got %+v", doc.CrewItems)
	}
}

func TestHandOverAppliesWizardPayload(t *testing.T) {
	start := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Hour)
	venueID := uuid.New()
	clientID := uuid.New()
	pkgID := uuid.New()
	repo := &fakeRepo{
		deal:     dealFixture("proposal", nil),
		proposal: &repository.Proposal{ID: uuid.New(), Status: "accepted"},
		items:    []repository.ProposalItem{{ID: uuid.New(), PackageID: &pkgID, Name: "FOH", Quantity: 1}},
	}
	catalog := &fakeCatalogReader{packages: map[uuid.UUID]ports.PackageInfo{
		pkgID: {ID: pkgID, Category: "service", StaffRole: "audio_engineer"},
	}}

	orch := newTestOrchestrator(repo, catalog, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})
	_, err := orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{
		ProductionName: "Gala night",
		StartsAt:       &start,
		EndsAt:         &end,
		VenueEntityID:  &venueID,
		ClientEntityID: &clientID,
		RunOfShow: &rosdomain.Document{
			CrewRoles: []string{"lighting_tech"},
			CrewItems: []rosdomain.CrewItem{{Role: "lighting_tech", Status: rosdomain.CrewStatusConfirmed}},
		},
	})
	if err != nil {
		t.Fatalf("handover: %v", err)
	}

	params := repo.lastHandover
	if params.ProductionName != "Gala night" {
		t.Fatalf("expected wizard name, got %q", params.ProductionName)
	}
	if params.VenueEntityID == nil || *params.VenueEntityID != venueID {
		t.Fatal("expected wizard venue on the production")
	}
	if params.ClientOrgID == nil || *params.ClientOrgID != clientID {
		t.Fatal("expected wizard client to drive the project write")
	}
	if !params.StartsAt.Equal(start) || !params.EndsAt.Equal(end) {
		t.Fatalf("expected wizard vitals, got %v..%v", params.StartsAt, params.EndsAt)
	}

	var doc rosdomain.Document
	if err := json.Unmarshal(params.RunOfShow, &doc); err != nil {
		t.Fatalf("unmarshal run of show: %v", err)
	}
	wantRoles := []string{"lighting_tech", "audio_engineer"}
	if len(doc.CrewRoles) != 2 || doc.CrewRoles[0] != wantRoles[0] || doc.CrewRoles[1] != wantRoles[1] {
		t.Fatalf("expected wizard roles unioned with derived, got %v", doc.CrewRoles)
	}
	if len(doc.CrewItems) != 2 {
		t.Fatalf("expected wizard entry kept plus one synthesized, got %+v", doc.CrewItems)
	}
	if doc.CrewItems[0].Role != "lighting_tech" || doc.CrewItems[0].Status != rosdomain.CrewStatusConfirmed {
		t.Fatalf("wizard crew entry must survive untouched, got %+v", doc.CrewItems[0])
	}
	if doc.CrewItems[1].Role != "audio_engineer" || doc.CrewItems[1].Status != rosdomain.CrewStatusRequested {
		t.Fatalf("derived role must get a requested entry, got %+v", doc.CrewItems[1])
	}
}

func TestHandOverContractFollowsRepository(t *testing.T) {
	date := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	contractID := uuid.New()

	repo := &fakeRepo{
		deal:           dealFixture("proposal", &date),
		handoverResult: repository.HandoverResult{ProjectID: uuid.New(), ProductionID: uuid.New(), ContractID: &contractID},
	}
	orch := newTestOrchestrator(repo, nil, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})
	out, err := orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{})
	if err != nil {
		t.Fatalf("handover: %v", err)
	}
	if out.ContractID == nil || *out.ContractID != contractID {
		t.Fatal("expected the seeded contract id")
	}

	repo = &fakeRepo{
		deal:           dealFixture("proposal", &date),
		handoverResult: repository.HandoverResult{ProjectID: uuid.New(), ProductionID: uuid.New()},
	}
	orch = newTestOrchestrator(repo, nil, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})
	out, err = orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{})
	if err != nil {
		t.Fatalf("handover: %v", err)
	}
	if out.ContractID != nil {
		t.Fatal("a deal without an accepted proposal must not report a contract")
	}
}

func TestHandOverProjectSelection(t *testing.T) {
	date := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	clientID := uuid.New()

	t.Run("no projects creates default", func(t *testing.T) {
		repo := &fakeRepo{deal: dealFixture("proposal", &date)}
		repo.deal.ClientOrgID = &clientID
		orch := newTestOrchestrator(repo, nil, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})

		if _, err := orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{}); err != nil {
			t.Fatalf("handover: %v", err)
		}
		if repo.lastHandover.NewProjectName != "Corporate gala" {
			t.Fatalf("expected default project from deal title, got %q", repo.lastHandover.NewProjectName)
		}
	})

	t.Run("single project is used", func(t *testing.T) {
		repo := &fakeRepo{deal: dealFixture("proposal", &date)}
		repo.deal.ClientOrgID = &clientID
		project := repository.Project{ID: uuid.New(), Name: "Annual events"}
		repo.projects = []repository.Project{project}
		orch := newTestOrchestrator(repo, nil, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})

		if _, err := orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{}); err != nil {
			t.Fatalf("handover: %v", err)
		}
		if repo.lastHandover.ProjectID == nil || *repo.lastHandover.ProjectID != project.ID {
			t.Fatalf("expected the client's only project to be picked")
		}
	})

	t.Run("multiple projects require explicit choice", func(t *testing.T) {
		repo := &fakeRepo{deal: dealFixture("proposal", &date)}
		repo.deal.ClientOrgID = &clientID
		repo.projects = []repository.Project{{ID: uuid.New()}, {ID: uuid.New()}}
		orch := newTestOrchestrator(repo, nil, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})

		_, err := orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{})
		if apperr.GetKind(err) != apperr.KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("explicit project wins", func(t *testing.T) {
		repo := &fakeRepo{deal: dealFixture("proposal", &date)}
		repo.deal.ClientOrgID = &clientID
		chosen := repository.Project{ID: uuid.New()}
		repo.projects = []repository.Project{{ID: uuid.New()}, chosen}
		repo.projectByID = map[uuid.UUID]repository.Project{chosen.ID: chosen}
		orch := newTestOrchestrator(repo, nil, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})

		if _, err := orch.HandOver(context.Background(), repo.deal.WorkspaceID, repo.deal.ID, HandoverInput{ProjectID: &chosen.ID}); err != nil {
			t.Fatalf("handover: %v", err)
		}
		if repo.lastHandover.ProjectID == nil || *repo.lastHandover.ProjectID != chosen.ID {
			t.Fatal("expected the explicitly chosen project")
		}
	})
}

func TestSyncCrewRequiresHandover(t *testing.T) {
	repo := &fakeRepo{deal: dealFixture("proposal", nil)}
	orch := newTestOrchestrator(repo, nil, &fakeGateway{}, &fakeScheduler{}, &recordingBus{})

	_, err := orch.SyncCrewFromProposal(context.Background(), repo.deal.WorkspaceID, repo.deal.ID)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSyncCrewIsAdditive(t *testing.T) {
	productionID := uuid.New()
	pkgID := uuid.New()
	repo := &fakeRepo{
		deal:     dealFixture("won", nil),
		proposal: &repository.Proposal{ID: uuid.New(), Status: "accepted"},
		items:    []repository.ProposalItem{{ID: uuid.New(), PackageID: &pkgID, Name: "FOH", Quantity: 1}},
	}
	repo.deal.EventID = &productionID
	catalog := &fakeCatalogReader{packages: map[uuid.UUID]ports.PackageInfo{
		pkgID: {ID: pkgID, Category: "service", StaffRole: "audio_engineer"},
	}}
	gateway := &fakeGateway{added: 0}
	bus := &recordingBus{}

	orch := newTestOrchestrator(repo, catalog, gateway, &fakeScheduler{}, bus)
	result, err := orch.SyncCrewFromProposal(context.Background(), repo.deal.WorkspaceID, repo.deal.ID)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Added != 0 {
		t.Fatalf("fully staffed plan should add nothing, got %d", result.Added)
	}
	if gateway.mergeCalls != 1 {
		t.Fatalf("expected one merge call, got %d", gateway.mergeCalls)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected sync event, got %d", len(bus.events))
	}
}

func TestSyncCrewReportsUnstaffedRoles(t *testing.T) {
	productionID := uuid.New()
	pkgID := uuid.New()
	repo := &fakeRepo{
		deal:     dealFixture("won", nil),
		proposal: &repository.Proposal{ID: uuid.New(), Status: "accepted"},
		items:    []repository.ProposalItem{{ID: uuid.New(), PackageID: &pkgID, Name: "FOH", Quantity: 1}},
	}
	repo.deal.EventID = &productionID
	catalog := &fakeCatalogReader{packages: map[uuid.UUID]ports.PackageInfo{
		pkgID: {ID: pkgID, Category: "service", StaffRole: "audio_engineer"},
	}}
	gateway := &fakeGateway{
		added: 1,
		crewState: ports.CrewState{
			Roles:         []string{"audio_engineer", "lighting_tech"},
			AssignedRoles: []string{"audio_engineer"},
		},
	}

	orch := newTestOrchestrator(repo, catalog, gateway, &fakeScheduler{}, &recordingBus{})
	result, err := orch.SyncCrewFromProposal(context.Background(), repo.deal.WorkspaceID, repo.deal.ID)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if gateway.stateCalls != 1 {
		t.Fatalf("expected one crew-state read, got %d", gateway.stateCalls)
	}
	if len(result.Unstaffed) != 1 || result.Unstaffed[0] != "lighting_tech" {
		t.Fatalf("expected lighting_tech unstaffed, got %v", result.Unstaffed)
	}
}
