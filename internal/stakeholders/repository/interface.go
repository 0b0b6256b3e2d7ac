// Package repository provides persistence for stakeholders, organizations
// and contact rosters.
package repository

import (
	"context"

	"github.com/google/uuid"
)

// Stakeholder is a party connected to a deal. OrganizationID and EntityID
// express the dual-node identity; at least one is always set.
type Stakeholder struct {
	ID             uuid.UUID
	WorkspaceID    uuid.UUID
	DealID         uuid.UUID
	Role           string
	OrganizationID *uuid.UUID
	EntityID       *uuid.UUID
	IsPrimary      bool
	CreatedAt      string
}

// ResolvedStakeholder carries the stakeholder row plus the names and contact
// details of whatever it points at.
type ResolvedStakeholder struct {
	Stakeholder
	OrganizationName *string
	PersonName       *string
	PersonEmail      *string
	PersonPhone      *string
}

// Organization is a company record.
type Organization struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	Name        string
	Email       *string
	Phone       *string
	CreatedAt   string
}

// RosterEntry is one candidate point of contact at an organization. Source
// records which membership table produced it.
type RosterEntry struct {
	ID          uuid.UUID
	EntityID    uuid.UUID
	DisplayName string
	Email       *string
	Phone       *string
	Source      string
}

// Roster sources.
const (
	RosterSourceAffiliation = "affiliation"
	RosterSourceMember      = "member"
)

type AddStakeholderParams struct {
	WorkspaceID    uuid.UUID
	DealID         uuid.UUID
	Role           string
	OrganizationID *uuid.UUID
	EntityID       *uuid.UUID
	IsPrimary      bool
}

// Repository is the persistence surface the stakeholders service depends on.
type Repository interface {
	AddStakeholder(ctx context.Context, params AddStakeholderParams) (Stakeholder, error)
	RemoveStakeholder(ctx context.Context, workspaceID, dealID, id uuid.UUID) error
	ListStakeholders(ctx context.Context, workspaceID, dealID uuid.UUID) ([]ResolvedStakeholder, error)

	GetOrganizationByID(ctx context.Context, workspaceID, id uuid.UUID) (Organization, error)
	GetEntityEmail(ctx context.Context, workspaceID, entityID uuid.UUID) (*string, error)
	ListAffiliationContacts(ctx context.Context, workspaceID, organizationID uuid.UUID) ([]RosterEntry, error)
	ListMemberContacts(ctx context.Context, workspaceID, organizationID uuid.UUID) ([]RosterEntry, error)
}
