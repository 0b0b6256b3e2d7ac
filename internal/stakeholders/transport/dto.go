// Package transport defines request and response shapes for the
// stakeholders API.
package transport

import (
	"github.com/google/uuid"

	"showdesk_backend/internal/stakeholders/domain"
	"showdesk_backend/internal/stakeholders/repository"
)

type AddStakeholderRequest struct {
	Role           string     `json:"role" validate:"required,oneof=bill_to planner venue_contact vendor"`
	OrganizationID *uuid.UUID `json:"organizationId,omitempty"`
	EntityID       *uuid.UUID `json:"entityId,omitempty"`
	IsPrimary      bool       `json:"isPrimary"`
}

type StakeholderResponse struct {
	ID             uuid.UUID  `json:"id"`
	DealID         uuid.UUID  `json:"dealId"`
	Role           string     `json:"role"`
	Kind           string     `json:"kind"`
	OrganizationID *uuid.UUID `json:"organizationId,omitempty"`
	EntityID       *uuid.UUID `json:"entityId,omitempty"`
	IsPrimary      bool       `json:"isPrimary"`
	DisplayName    string     `json:"displayName"`
	Subtitle       string     `json:"subtitle,omitempty"`
	Email          *string    `json:"email,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	CreatedAt      string     `json:"createdAt"`
}

type RosterEntryResponse struct {
	ID          uuid.UUID `json:"id"`
	EntityID    uuid.UUID `json:"entityId"`
	DisplayName string    `json:"displayName"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Source      string    `json:"source"`
}

// ToStakeholderResponse resolves the display rules for one stakeholder: a
// person-at-a-company shows the person first with the company as subtitle.
func ToStakeholderResponse(item repository.ResolvedStakeholder) StakeholderResponse {
	identity, _ := domain.NewIdentity(item.OrganizationID, item.EntityID)

	orgName := ""
	if item.OrganizationName != nil {
		orgName = *item.OrganizationName
	}
	personName := ""
	if item.PersonName != nil {
		personName = *item.PersonName
	}
	primary, subtitle := identity.Display(orgName, personName)

	return StakeholderResponse{
		ID:             item.ID,
		DealID:         item.DealID,
		Role:           item.Role,
		Kind:           identity.Kind,
		OrganizationID: item.OrganizationID,
		EntityID:       item.EntityID,
		IsPrimary:      item.IsPrimary,
		DisplayName:    primary,
		Subtitle:       subtitle,
		Email:          item.PersonEmail,
		Phone:          item.PersonPhone,
		CreatedAt:      item.CreatedAt,
	}
}

func ToRosterEntryResponse(entry repository.RosterEntry) RosterEntryResponse {
	return RosterEntryResponse{
		ID:          entry.ID,
		EntityID:    entry.EntityID,
		DisplayName: entry.DisplayName,
		Email:       entry.Email,
		Phone:       entry.Phone,
		Source:      entry.Source,
	}
}
