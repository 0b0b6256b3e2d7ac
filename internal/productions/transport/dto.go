// Package transport defines request and response shapes for the productions
// API. The run-of-show document travels in its stored snake_case shape.
package transport

import (
	"time"

	"github.com/google/uuid"

	"showdesk_backend/internal/productions/domain"
	"showdesk_backend/internal/productions/repository"
)

type ListProductionsRequest struct {
	ProjectID *uuid.UUID `form:"projectId"`
	Status    string     `form:"status" validate:"omitempty,oneof=planned confirmed completed cancelled"`
	Page      int        `form:"page" validate:"omitempty,min=1"`
	PageSize  int        `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// MergeRunOfShowRequest is a section-level partial update. Omitted sections
// are untouched; a present section replaces the stored one wholesale, so an
// explicit empty list clears a section.
type MergeRunOfShowRequest struct {
	CrewRoles         *[]string          `json:"crew_roles,omitempty"`
	CrewItems         *[]domain.CrewItem `json:"crew_items,omitempty"`
	GearItems         *[]domain.GearItem `json:"gear_items,omitempty"`
	Logistics         *domain.Logistics  `json:"logistics,omitempty"`
	GearRequirements  *string            `json:"gear_requirements,omitempty"`
	VenueRestrictions *string            `json:"venue_restrictions,omitempty"`
}

// ToPatch converts the request into a domain patch.
func (r MergeRunOfShowRequest) ToPatch() domain.Patch {
	return domain.Patch{
		CrewRoles:         r.CrewRoles,
		CrewItems:         r.CrewItems,
		GearItems:         r.GearItems,
		Logistics:         r.Logistics,
		GearRequirements:  r.GearRequirements,
		VenueRestrictions: r.VenueRestrictions,
	}
}

type AssignCrewMemberRequest struct {
	EntityID     uuid.UUID `json:"entityId" validate:"required"`
	AssigneeName string    `json:"assigneeName" validate:"required,min=1,max=200"`
}

type ProductionResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProjectID     uuid.UUID  `json:"projectId"`
	Name          string     `json:"name"`
	Status        string     `json:"status"`
	VenueEntityID *uuid.UUID `json:"venueEntityId,omitempty"`
	StartsAt      time.Time  `json:"startsAt"`
	EndsAt        time.Time  `json:"endsAt"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}

type ProductionListResponse struct {
	Items      []ProductionResponse `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
}

type RunOfShowResponse struct {
	ProductionID uuid.UUID       `json:"productionId"`
	Rev          int64           `json:"rev"`
	Document     domain.Document `json:"document"`
}

func ToProductionResponse(production repository.Production) ProductionResponse {
	return ProductionResponse{
		ID:            production.ID,
		ProjectID:     production.ProjectID,
		Name:          production.Name,
		Status:        production.Status,
		VenueEntityID: production.VenueEntityID,
		StartsAt:      production.StartsAt,
		EndsAt:        production.EndsAt,
		CreatedAt:     production.CreatedAt,
		UpdatedAt:     production.UpdatedAt,
	}
}
