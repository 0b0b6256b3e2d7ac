// Package transport defines request and response shapes for the deals API.
package transport

import (
	"time"

	"github.com/google/uuid"

	"showdesk_backend/internal/deals/crewplan"
	"showdesk_backend/internal/deals/repository"
	rosdomain "showdesk_backend/internal/productions/domain"
)

type CreateDealRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=200"`
	ClientOrgID  *uuid.UUID `json:"clientOrgId,omitempty"`
	ProposedDate *time.Time `json:"proposedDate,omitempty"`
}

type UpdateDealRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	ClientOrgID  *uuid.UUID `json:"clientOrgId,omitempty"`
	ProposedDate *time.Time `json:"proposedDate,omitempty"`
}

type TransitionDealRequest struct {
	Status string `json:"status" validate:"required,oneof=inquiry proposal contract_sent lost"`
}

type ListDealsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=inquiry proposal contract_sent won lost"`
	Search   string `form:"search" validate:"max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// HandoverVitals are the explicit production vitals a handover wizard may
// supply in place of the deal-derived defaults.
type HandoverVitals struct {
	StartsAt       *time.Time `json:"startAt,omitempty"`
	EndsAt         *time.Time `json:"endAt,omitempty"`
	VenueEntityID  *uuid.UUID `json:"venueEntityId,omitempty"`
	ClientEntityID *uuid.UUID `json:"clientEntityId,omitempty"`
}

// HandoverRequest is the optional wizard payload. RunOfShow seeds the
// production document; roles derived from the proposal are unioned into it.
type HandoverRequest struct {
	ProjectID *uuid.UUID          `json:"projectId,omitempty"`
	Name      string              `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Vitals    *HandoverVitals     `json:"vitals,omitempty"`
	RunOfShow *rosdomain.Document `json:"runOfShow,omitempty"`
}

type TransitionProposalRequest struct {
	Status string `json:"status" validate:"required,oneof=sent viewed accepted"`
}

type AddProposalItemRequest struct {
	PackageID       *uuid.UUID `json:"packageId,omitempty"`
	OriginPackageID *uuid.UUID `json:"originPackageId,omitempty"`
	Name            string     `json:"name" validate:"required,min=1,max=200"`
	Quantity        int        `json:"quantity" validate:"omitempty,min=1,max=1000"`
}

type DealResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	ClientOrgID  *uuid.UUID `json:"clientOrgId,omitempty"`
	ProposedDate *time.Time `json:"proposedDate,omitempty"`
	EventID      *uuid.UUID `json:"eventId,omitempty"`
	CreatedAt    string     `json:"createdAt"`
	UpdatedAt    string     `json:"updatedAt"`
}

type DealListResponse struct {
	Items      []DealResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type ProposalResponse struct {
	ID        uuid.UUID `json:"id"`
	DealID    uuid.UUID `json:"dealId"`
	Status    string    `json:"status"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type ProposalItemResponse struct {
	ID              uuid.UUID  `json:"id"`
	PackageID       *uuid.UUID `json:"packageId,omitempty"`
	OriginPackageID *uuid.UUID `json:"originPackageId,omitempty"`
	Name            string     `json:"name"`
	Quantity        int        `json:"quantity"`
	CreatedAt       string     `json:"createdAt"`
}

type HandoverResponse struct {
	DealID            uuid.UUID  `json:"dealId"`
	ProjectID         uuid.UUID  `json:"projectId,omitempty"`
	ProductionID      uuid.UUID  `json:"productionId"`
	ContractID        *uuid.UUID `json:"contractId,omitempty"`
	CrewRoles         []string   `json:"crewRoles"`
	AlreadyHandedOver bool       `json:"alreadyHandedOver"`
}

type CrewRolesResponse struct {
	Roles []string `json:"roles"`
}

type CrewSyncResponse struct {
	Roles     []string `json:"roles"`
	Added     int      `json:"added"`
	Unstaffed []string `json:"unstaffed"`
}

// DiagnosisResponse mirrors the derivation trace one-to-one.
type DiagnosisResponse = crewplan.Diagnosis

func ToDealResponse(deal repository.Deal) DealResponse {
	return DealResponse{
		ID:           deal.ID,
		Title:        deal.Title,
		Status:       deal.Status,
		ClientOrgID:  deal.ClientOrgID,
		ProposedDate: deal.ProposedDate,
		EventID:      deal.EventID,
		CreatedAt:    deal.CreatedAt,
		UpdatedAt:    deal.UpdatedAt,
	}
}

func ToProposalResponse(proposal repository.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:        proposal.ID,
		DealID:    proposal.DealID,
		Status:    proposal.Status,
		CreatedAt: proposal.CreatedAt,
		UpdatedAt: proposal.UpdatedAt,
	}
}

func ToProposalItemResponse(item repository.ProposalItem) ProposalItemResponse {
	return ProposalItemResponse{
		ID:              item.ID,
		PackageID:       item.PackageID,
		OriginPackageID: item.OriginPackageID,
		Name:            item.Name,
		Quantity:        item.Quantity,
		CreatedAt:       item.CreatedAt,
	}
}
