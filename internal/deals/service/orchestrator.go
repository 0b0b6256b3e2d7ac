package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"showdesk_backend/internal/deals/crewplan"
	"showdesk_backend/internal/deals/domain"
	"showdesk_backend/internal/deals/ports"
	"showdesk_backend/internal/deals/repository"
	"showdesk_backend/internal/events"
	rosdomain "showdesk_backend/internal/productions/domain"
	"showdesk_backend/platform/apperr"
	"showdesk_backend/platform/logger"
)

// Default production day when only a date is known.
const (
	defaultStartHour = 8
	defaultEndHour   = 18
)

// HandoverInput carries the optional wizard payload sent along with the
// handover. ProjectID picks the target project explicitly when the client has
// several. The vitals override what would be derived from the deal, and
// ClientEntityID overrides the deal's client for the project write. RunOfShow
// seeds the production document; derived roles are unioned into it.
type HandoverInput struct {
	ProjectID      *uuid.UUID
	ProductionName string
	StartsAt       *time.Time
	EndsAt         *time.Time
	VenueEntityID  *uuid.UUID
	ClientEntityID *uuid.UUID
	RunOfShow      *rosdomain.Document
}

// HandoverOutcome reports what the handover produced. AlreadyHandedOver is
// set when the deal had a production before this call; in that case only
// ProductionID is populated. ContractID is nil when the deal had no accepted
// proposal to seed a contract from.
type HandoverOutcome struct {
	DealID            uuid.UUID
	ProjectID         uuid.UUID
	ProductionID      uuid.UUID
	ContractID        *uuid.UUID
	CrewRoles         []string
	AlreadyHandedOver bool
}

// SyncResult reports a crew-plan repair run. Unstaffed lists the roles that
// still have no crew member attached after the merge.
type SyncResult struct {
	Roles     []string
	Added     int
	Unstaffed []string
}

// Orchestrator drives the deal-to-production handover and keeps the crew
// plan of a handed-over production in step with its proposal.
type Orchestrator struct {
	repo        repository.Repository
	expander    *crewplan.Expander
	productions ports.ProductionGateway
	scheduler   ports.SyncScheduler
	eventBus    events.Bus
	log         *logger.Logger
}

func NewOrchestrator(
	repo repository.Repository,
	expander *crewplan.Expander,
	productions ports.ProductionGateway,
	scheduler ports.SyncScheduler,
	eventBus events.Bus,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		repo:        repo,
		expander:    expander,
		productions: productions,
		scheduler:   scheduler,
		eventBus:    eventBus,
		log:         log,
	}
}

// HandOver converts a deal into a production. The call is idempotent: a deal
// that already points at a production returns that production instead of
// creating a second one. All writes happen in one repository transaction.
func (o *Orchestrator) HandOver(ctx context.Context, workspaceID, dealID uuid.UUID, input HandoverInput) (HandoverOutcome, error) {
	deal, err := o.repo.GetDealByID(ctx, workspaceID, dealID)
	if err != nil {
		return HandoverOutcome{}, err
	}

	if deal.EventID != nil {
		return HandoverOutcome{
			DealID:            deal.ID,
			ProductionID:      *deal.EventID,
			CrewRoles:         []string{},
			AlreadyHandedOver: true,
		}, nil
	}

	if !domain.CanHandOver(deal.Status) {
		return HandoverOutcome{}, apperr.Validation(fmt.Sprintf("deal in status %q cannot be handed over", deal.Status))
	}

	startsAt, endsAt, err := resolveVitals(deal, input)
	if err != nil {
		return HandoverOutcome{}, err
	}

	roles, err := o.expander.DeriveRoles(ctx, workspaceID, dealID)
	if err != nil {
		return HandoverOutcome{}, err
	}

	runOfShow, err := initialRunOfShow(roles, input.RunOfShow)
	if err != nil {
		return HandoverOutcome{}, err
	}

	clientID := deal.ClientOrgID
	if input.ClientEntityID != nil {
		clientID = input.ClientEntityID
	}

	params := repository.CommitHandoverParams{
		WorkspaceID:    workspaceID,
		DealID:         dealID,
		ClientOrgID:    clientID,
		ProductionName: productionName(deal, input),
		VenueEntityID:  input.VenueEntityID,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		RunOfShow:      runOfShow,
	}
	if err := o.resolveProject(ctx, deal, clientID, input, &params); err != nil {
		return HandoverOutcome{}, err
	}

	result, err := o.repo.CommitHandover(ctx, params)
	if err != nil {
		return HandoverOutcome{}, err
	}

	o.eventBus.Publish(ctx, events.DealHandedOver{
		BaseEvent:      events.NewBaseEvent(),
		WorkspaceID:    workspaceID,
		DealID:         dealID,
		ProjectID:      result.ProjectID,
		ProductionID:   result.ProductionID,
		DealTitle:      deal.Title,
		ProductionName: params.ProductionName,
		StartsAt:       startsAt,
		CrewRoles:      roles,
	})

	// A delayed repair run picks up proposal edits made while the handover
	// was in flight. Scheduling failure does not undo the handover.
	if err := o.scheduler.ScheduleCrewSync(ctx, workspaceID, dealID, result.ProductionID); err != nil {
		o.log.Error("handover: failed to schedule crew sync", "dealId", dealID, "error", err)
	}

	return HandoverOutcome{
		DealID:       dealID,
		ProjectID:    result.ProjectID,
		ProductionID: result.ProductionID,
		ContractID:   result.ContractID,
		CrewRoles:    roles,
	}, nil
}

// SyncCrewFromProposal re-derives the crew roles from the governing proposal
// and adds any missing ones to the production's run of show. Existing crew
// entries are never removed or altered; a fully staffed plan reports zero
// additions.
func (o *Orchestrator) SyncCrewFromProposal(ctx context.Context, workspaceID, dealID uuid.UUID) (SyncResult, error) {
	deal, err := o.repo.GetDealByID(ctx, workspaceID, dealID)
	if err != nil {
		return SyncResult{}, err
	}
	if deal.EventID == nil {
		return SyncResult{}, apperr.Validation("deal has not been handed over")
	}

	roles, err := o.expander.DeriveRoles(ctx, workspaceID, dealID)
	if err != nil {
		return SyncResult{}, err
	}

	added := 0
	if len(roles) > 0 {
		added, err = o.productions.MergeCrewRoles(ctx, workspaceID, *deal.EventID, roles)
		if err != nil {
			return SyncResult{}, err
		}
	}

	state, err := o.productions.GetCrewState(ctx, workspaceID, *deal.EventID)
	if err != nil {
		return SyncResult{}, err
	}
	unstaffed := unstaffedRoles(state)

	o.eventBus.Publish(ctx, events.CrewRolesSynced{
		BaseEvent:    events.NewBaseEvent(),
		WorkspaceID:  workspaceID,
		DealID:       dealID,
		ProductionID: *deal.EventID,
		Roles:        roles,
		Added:        added,
	})

	return SyncResult{Roles: roles, Added: added, Unstaffed: unstaffed}, nil
}

// unstaffedRoles lists the declared roles with no crew member attached yet.
func unstaffedRoles(state ports.CrewState) []string {
	assigned := make(map[string]bool, len(state.AssignedRoles))
	for _, role := range state.AssignedRoles {
		assigned[role] = true
	}
	unstaffed := make([]string, 0, len(state.Roles))
	for _, role := range state.Roles {
		if !assigned[role] {
			unstaffed = append(unstaffed, role)
		}
	}
	return unstaffed
}

// resolveProject decides which project receives the production. An explicit
// project id wins. Otherwise the effective client's projects are consulted:
// none means a fresh default project, exactly one is used, and more than one
// forces the caller to choose.
func (o *Orchestrator) resolveProject(ctx context.Context, deal repository.Deal, clientID *uuid.UUID, input HandoverInput, params *repository.CommitHandoverParams) error {
	if input.ProjectID != nil {
		project, err := o.repo.GetProjectByID(ctx, deal.WorkspaceID, *input.ProjectID)
		if err != nil {
			return err
		}
		params.ProjectID = &project.ID
		return nil
	}

	if clientID == nil {
		params.NewProjectName = deal.Title
		return nil
	}

	projects, err := o.repo.ListProjectsByClient(ctx, deal.WorkspaceID, *clientID)
	if err != nil {
		return err
	}
	switch len(projects) {
	case 0:
		params.NewProjectName = deal.Title
	case 1:
		params.ProjectID = &projects[0].ID
	default:
		return apperr.Validation("client has multiple projects, specify projectId")
	}
	return nil
}

func resolveVitals(deal repository.Deal, input HandoverInput) (time.Time, time.Time, error) {
	if input.StartsAt != nil && input.EndsAt != nil {
		if !input.EndsAt.After(*input.StartsAt) {
			return time.Time{}, time.Time{}, apperr.Validation("endsAt must be after startsAt")
		}
		return *input.StartsAt, *input.EndsAt, nil
	}
	if input.StartsAt != nil || input.EndsAt != nil {
		return time.Time{}, time.Time{}, apperr.Validation("startsAt and endsAt must be provided together")
	}
	if deal.ProposedDate == nil {
		return time.Time{}, time.Time{}, apperr.Validation("deal has no proposed date, provide startsAt and endsAt")
	}
	d := *deal.ProposedDate
	startsAt := time.Date(d.Year(), d.Month(), d.Day(), defaultStartHour, 0, 0, 0, d.Location())
	endsAt := time.Date(d.Year(), d.Month(), d.Day(), defaultEndHour, 0, 0, 0, d.Location())
	return startsAt, endsAt, nil
}

func productionName(deal repository.Deal, input HandoverInput) string {
	if input.ProductionName != "" {
		return input.ProductionName
	}
	return deal.Title
}

// initialRunOfShow seeds the production document. A wizard-supplied document
// is taken as the base; the derived roles are unioned into its role list, and
// a requested crew entry is synthesized only for roles the wizard's crew list
// does not already cover.
func initialRunOfShow(roles []string, seed *rosdomain.Document) (json.RawMessage, error) {
	doc := rosdomain.Document{}
	if seed != nil {
		doc = *seed
	}
	doc.CrewRoles = rosdomain.UnionRoles(doc.CrewRoles, roles)

	items := rosdomain.NormalizeCrewItems(doc)
	for _, role := range rosdomain.MissingRoles(items, doc.CrewRoles) {
		items = append(items, rosdomain.CrewItem{Role: role, Status: rosdomain.CrewStatusRequested})
	}
	doc.CrewItems = items

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal run of show: %w", err)
	}
	return raw, nil
}
