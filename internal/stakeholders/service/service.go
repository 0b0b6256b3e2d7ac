// Package service implements stakeholder and roster business logic.
package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"showdesk_backend/internal/events"
	"showdesk_backend/internal/stakeholders/domain"
	"showdesk_backend/internal/stakeholders/ports"
	"showdesk_backend/internal/stakeholders/repository"
	"showdesk_backend/platform/apperr"
	"showdesk_backend/platform/logger"
	"showdesk_backend/platform/phone"
)

// Service implements stakeholder operations.
type Service struct {
	repo          repository.Repository
	deals         ports.DealReader
	eventBus      events.Bus
	log           *logger.Logger
	defaultRegion string
}

func New(repo repository.Repository, deals ports.DealReader, eventBus events.Bus, log *logger.Logger, defaultRegion string) *Service {
	return &Service{
		repo:          repo,
		deals:         deals,
		eventBus:      eventBus,
		log:           log,
		defaultRegion: defaultRegion,
	}
}

type AddStakeholderInput struct {
	Role           string
	OrganizationID *uuid.UUID
	EntityID       *uuid.UUID
	IsPrimary      bool
}

// AddStakeholder connects a party to a deal. The party must carry at least
// one identity reference, and the deal must exist in the caller's workspace.
func (s *Service) AddStakeholder(ctx context.Context, workspaceID, dealID uuid.UUID, input AddStakeholderInput) (repository.Stakeholder, error) {
	if !domain.ValidRole(input.Role) {
		return repository.Stakeholder{}, apperr.Validation("unknown stakeholder role")
	}
	if _, ok := domain.NewIdentity(input.OrganizationID, input.EntityID); !ok {
		return repository.Stakeholder{}, apperr.Validation("organizationId or entityId is required")
	}
	if err := s.deals.DealExists(ctx, workspaceID, dealID); err != nil {
		return repository.Stakeholder{}, err
	}

	stakeholder, err := s.repo.AddStakeholder(ctx, repository.AddStakeholderParams{
		WorkspaceID:    workspaceID,
		DealID:         dealID,
		Role:           input.Role,
		OrganizationID: input.OrganizationID,
		EntityID:       input.EntityID,
		IsPrimary:      input.IsPrimary,
	})
	if err != nil {
		return repository.Stakeholder{}, err
	}

	s.eventBus.Publish(ctx, events.StakeholderAdded{
		BaseEvent:     events.NewBaseEvent(),
		WorkspaceID:   workspaceID,
		DealID:        dealID,
		StakeholderID: stakeholder.ID,
		Role:          stakeholder.Role,
	})
	return stakeholder, nil
}

// RemoveStakeholder disconnects a party from a deal.
func (s *Service) RemoveStakeholder(ctx context.Context, workspaceID, dealID, id uuid.UUID) error {
	return s.repo.RemoveStakeholder(ctx, workspaceID, dealID, id)
}

// ListStakeholders lists a deal's stakeholders with resolved display names.
func (s *Service) ListStakeholders(ctx context.Context, workspaceID, dealID uuid.UUID) ([]repository.ResolvedStakeholder, error) {
	if err := s.deals.DealExists(ctx, workspaceID, dealID); err != nil {
		return nil, err
	}
	return s.repo.ListStakeholders(ctx, workspaceID, dealID)
}

// GetOrgRoster returns the candidate points of contact at an organization.
// Active affiliations and the explicit members table are independent sources;
// both are queried and their union deduplicated by person.
func (s *Service) GetOrgRoster(ctx context.Context, workspaceID, organizationID uuid.UUID) ([]repository.RosterEntry, error) {
	if _, err := s.repo.GetOrganizationByID(ctx, workspaceID, organizationID); err != nil {
		return nil, err
	}

	var affiliated, members []repository.RosterEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		affiliated, err = s.repo.ListAffiliationContacts(gctx, workspaceID, organizationID)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = s.repo.ListMemberContacts(gctx, workspaceID, organizationID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(affiliated)+len(members))
	roster := make([]repository.RosterEntry, 0, len(affiliated)+len(members))
	for _, entry := range append(affiliated, members...) {
		if seen[entry.EntityID] {
			continue
		}
		seen[entry.EntityID] = true
		if entry.Phone != nil {
			normalized := phone.NormalizeE164(*entry.Phone, s.defaultRegion)
			entry.Phone = &normalized
		}
		roster = append(roster, entry)
	}
	return roster, nil
}
