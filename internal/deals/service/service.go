// Package service implements deal and proposal business logic.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"showdesk_backend/internal/deals/domain"
	"showdesk_backend/internal/deals/repository"
	"showdesk_backend/platform/apperr"
	"showdesk_backend/platform/logger"
)

// Service implements deal pipeline operations. Handover and crew sync live in
// the orchestrator; this layer covers the plain lifecycle.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) CreateDeal(ctx context.Context, params repository.CreateDealParams) (repository.Deal, error) {
	deal, err := s.repo.CreateDeal(ctx, params)
	if err != nil {
		return repository.Deal{}, err
	}
	s.log.Info("deal created", "dealId", deal.ID, "workspaceId", deal.WorkspaceID)
	return deal, nil
}

func (s *Service) GetDeal(ctx context.Context, workspaceID, id uuid.UUID) (repository.Deal, error) {
	return s.repo.GetDealByID(ctx, workspaceID, id)
}

func (s *Service) UpdateDeal(ctx context.Context, params repository.UpdateDealParams) (repository.Deal, error) {
	return s.repo.UpdateDeal(ctx, params)
}

func (s *Service) ListDeals(ctx context.Context, params repository.ListDealsParams) ([]repository.Deal, int, error) {
	if params.Limit <= 0 {
		params.Limit = 20
	}
	return s.repo.ListDeals(ctx, params)
}

// TransitionDeal moves a deal along the pipeline. The won status is not
// reachable here; only the handover produces won deals.
func (s *Service) TransitionDeal(ctx context.Context, workspaceID, id uuid.UUID, to string) (repository.Deal, error) {
	deal, err := s.repo.GetDealByID(ctx, workspaceID, id)
	if err != nil {
		return repository.Deal{}, err
	}
	if !domain.CanTransitionDeal(deal.Status, to) {
		return repository.Deal{}, apperr.Validation(fmt.Sprintf("cannot move deal from %q to %q", deal.Status, to))
	}
	updated, err := s.repo.UpdateDealStatus(ctx, workspaceID, id, to)
	if err != nil {
		return repository.Deal{}, err
	}
	s.log.Info("deal status changed", "dealId", id, "from", deal.Status, "to", to)
	return updated, nil
}

// CreateProposal attaches a draft proposal to a deal.
func (s *Service) CreateProposal(ctx context.Context, workspaceID, dealID uuid.UUID) (repository.Proposal, error) {
	if _, err := s.repo.GetDealByID(ctx, workspaceID, dealID); err != nil {
		return repository.Proposal{}, err
	}
	return s.repo.CreateProposal(ctx, repository.CreateProposalParams{
		WorkspaceID: workspaceID,
		DealID:      dealID,
		Status:      domain.ProposalStatusDraft,
	})
}

// TransitionProposal moves a proposal through draft, sent, viewed, accepted.
func (s *Service) TransitionProposal(ctx context.Context, workspaceID, id uuid.UUID, to string) (repository.Proposal, error) {
	current, err := s.repo.GetProposalByID(ctx, workspaceID, id)
	if err != nil {
		return repository.Proposal{}, err
	}
	if !domain.CanTransitionProposal(current.Status, to) {
		return repository.Proposal{}, apperr.Validation(fmt.Sprintf("cannot move proposal from %q to %q", current.Status, to))
	}
	return s.repo.UpdateProposalStatus(ctx, workspaceID, id, to)
}

// AddProposalItem adds a line item to a proposal. PackageID is optional;
// free-text lines never contribute crew roles.
func (s *Service) AddProposalItem(ctx context.Context, workspaceID uuid.UUID, params repository.CreateProposalItemParams) (repository.ProposalItem, error) {
	if _, err := s.repo.GetProposalByID(ctx, workspaceID, params.ProposalID); err != nil {
		return repository.ProposalItem{}, err
	}
	if params.Quantity <= 0 {
		params.Quantity = 1
	}
	return s.repo.CreateProposalItem(ctx, params)
}

// GoverningProposal returns the proposal that governs staffing for a deal,
// or nil when the deal has none.
func (s *Service) GoverningProposal(ctx context.Context, workspaceID, dealID uuid.UUID) (*repository.Proposal, error) {
	return s.repo.GoverningProposal(ctx, workspaceID, dealID)
}

// ListProposalItems lists the line items of a proposal after confirming the
// proposal belongs to the caller's workspace.
func (s *Service) ListProposalItems(ctx context.Context, workspaceID, proposalID uuid.UUID) ([]repository.ProposalItem, error) {
	if _, err := s.repo.GetProposalByID(ctx, workspaceID, proposalID); err != nil {
		return nil, err
	}
	return s.repo.ListProposalItems(ctx, proposalID)
}
