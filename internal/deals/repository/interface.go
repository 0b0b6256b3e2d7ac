// Package repository provides persistence for deals, proposals and handover.
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Deal is a sales pipeline record. EventID is set once the deal has been
// handed over to production and points at the resulting production.
type Deal struct {
	ID           uuid.UUID
	WorkspaceID  uuid.UUID
	Title        string
	Status       string
	ClientOrgID  *uuid.UUID
	ProposedDate *time.Time
	EventID      *uuid.UUID
	CreatedAt    string
	UpdatedAt    string
}

// Proposal is a priced offer attached to a deal. AcceptedAt is stamped when
// the proposal moves to accepted.
type Proposal struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	DealID      uuid.UUID
	Status      string
	AcceptedAt  *time.Time
	CreatedAt   string
	UpdatedAt   string
}

// ProposalItem is a single line on a proposal. PackageID links it back to
// the catalog; free-text lines have no package reference. OriginPackageID
// records the bundle an item was expanded from, so staffing derivation still
// reaches the bundle when the item's own package reference dangles.
type ProposalItem struct {
	ID              uuid.UUID
	ProposalID      uuid.UUID
	PackageID       *uuid.UUID
	OriginPackageID *uuid.UUID
	Name            string
	Quantity        int
	CreatedAt       string
}

// Project groups productions for a client.
type Project struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	Name        string
	ClientOrgID *uuid.UUID
	CreatedAt   string
	UpdatedAt   string
}

type CreateDealParams struct {
	WorkspaceID  uuid.UUID
	Title        string
	ClientOrgID  *uuid.UUID
	ProposedDate *time.Time
}

type UpdateDealParams struct {
	ID           uuid.UUID
	WorkspaceID  uuid.UUID
	Title        *string
	ClientOrgID  *uuid.UUID
	ProposedDate *time.Time
}

type ListDealsParams struct {
	WorkspaceID uuid.UUID
	Status      string
	Search      string
	Limit       int
	Offset      int
}

type CreateProposalParams struct {
	WorkspaceID uuid.UUID
	DealID      uuid.UUID
	Status      string
}

type CreateProposalItemParams struct {
	ProposalID      uuid.UUID
	PackageID       *uuid.UUID
	OriginPackageID *uuid.UUID
	Name            string
	Quantity        int
}

// CommitHandoverParams carries everything the handover writes in one
// transaction. Exactly one of ProjectID and NewProjectName is set: either an
// existing project receives the production, or a default project is created
// for the client first.
type CommitHandoverParams struct {
	WorkspaceID    uuid.UUID
	DealID         uuid.UUID
	ClientOrgID    *uuid.UUID
	ProjectID      *uuid.UUID
	NewProjectName string
	ProductionName string
	VenueEntityID  *uuid.UUID
	StartsAt       time.Time
	EndsAt         time.Time
	RunOfShow      json.RawMessage
}

// HandoverResult reports the records the handover transaction produced.
// ContractID is nil when the deal had no accepted proposal to seed from.
type HandoverResult struct {
	ProjectID    uuid.UUID
	ProductionID uuid.UUID
	ContractID   *uuid.UUID
}

// Repository is the persistence surface the deals services depend on.
type Repository interface {
	CreateDeal(ctx context.Context, params CreateDealParams) (Deal, error)
	GetDealByID(ctx context.Context, workspaceID, id uuid.UUID) (Deal, error)
	UpdateDeal(ctx context.Context, params UpdateDealParams) (Deal, error)
	UpdateDealStatus(ctx context.Context, workspaceID, id uuid.UUID, status string) (Deal, error)
	ListDeals(ctx context.Context, params ListDealsParams) ([]Deal, int, error)

	CreateProposal(ctx context.Context, params CreateProposalParams) (Proposal, error)
	GetProposalByID(ctx context.Context, workspaceID, id uuid.UUID) (Proposal, error)
	UpdateProposalStatus(ctx context.Context, workspaceID, id uuid.UUID, status string) (Proposal, error)
	GoverningProposal(ctx context.Context, workspaceID, dealID uuid.UUID) (*Proposal, error)
	ListProposalItems(ctx context.Context, proposalID uuid.UUID) ([]ProposalItem, error)
	CreateProposalItem(ctx context.Context, params CreateProposalItemParams) (ProposalItem, error)

	ListProjectsByClient(ctx context.Context, workspaceID uuid.UUID, clientOrgID uuid.UUID) ([]Project, error)
	GetProjectByID(ctx context.Context, workspaceID, id uuid.UUID) (Project, error)

	CommitHandover(ctx context.Context, params CommitHandoverParams) (HandoverResult, error)
}
