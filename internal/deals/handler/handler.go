// Package handler exposes the deals API over HTTP.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"showdesk_backend/internal/deals/crewplan"
	"showdesk_backend/internal/deals/repository"
	"showdesk_backend/internal/deals/service"
	"showdesk_backend/internal/deals/transport"
	"showdesk_backend/platform/httpkit"
	"showdesk_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for deals, proposals and handover.
type Handler struct {
	svc      *service.Service
	orch     *service.Orchestrator
	expander *crewplan.Expander
	val      *validator.Validator
}

func New(svc *service.Service, orch *service.Orchestrator, expander *crewplan.Expander, val *validator.Validator) *Handler {
	return &Handler{svc: svc, orch: orch, expander: expander, val: val}
}

// CreateDeal creates a deal.
// POST /api/v1/deals
func (h *Handler) CreateDeal(c *gin.Context) {
	var req transport.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	deal, err := h.svc.CreateDeal(c.Request.Context(), repository.CreateDealParams{
		WorkspaceID:  identity.WorkspaceID(),
		Title:        req.Title,
		ClientOrgID:  req.ClientOrgID,
		ProposedDate: req.ProposedDate,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToDealResponse(deal))
}

// GetDeal retrieves a deal by id.
// GET /api/v1/deals/:id
func (h *Handler) GetDeal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	deal, err := h.svc.GetDeal(c.Request.Context(), identity.WorkspaceID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToDealResponse(deal))
}

// UpdateDeal updates a deal's mutable fields.
// PUT /api/v1/deals/:id
func (h *Handler) UpdateDeal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	deal, err := h.svc.UpdateDeal(c.Request.Context(), repository.UpdateDealParams{
		ID:           id,
		WorkspaceID:  identity.WorkspaceID(),
		Title:        req.Title,
		ClientOrgID:  req.ClientOrgID,
		ProposedDate: req.ProposedDate,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToDealResponse(deal))
}

// ListDeals lists deals with filters.
// GET /api/v1/deals
func (h *Handler) ListDeals(c *gin.Context) {
	var req transport.ListDealsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	items, total, err := h.svc.ListDeals(c.Request.Context(), repository.ListDealsParams{
		WorkspaceID: identity.WorkspaceID(),
		Status:      req.Status,
		Search:      req.Search,
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.DealListResponse{
		Items:      make([]transport.DealResponse, 0, len(items)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	for _, deal := range items {
		resp.Items = append(resp.Items, transport.ToDealResponse(deal))
	}
	httpkit.OK(c, resp)
}

// TransitionDeal moves a deal to a new pipeline status.
// POST /api/v1/deals/:id/status
func (h *Handler) TransitionDeal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.TransitionDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	deal, err := h.svc.TransitionDeal(c.Request.Context(), identity.WorkspaceID(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToDealResponse(deal))
}

// HandOver converts a deal into a production.
// POST /api/v1/deals/:id/handover
func (h *Handler) HandOver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	// The wizard payload is optional; a bare POST hands over with defaults.
	var req transport.HandoverRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	input := service.HandoverInput{
		ProjectID:      req.ProjectID,
		ProductionName: req.Name,
		RunOfShow:      req.RunOfShow,
	}
	if req.Vitals != nil {
		input.StartsAt = req.Vitals.StartsAt
		input.EndsAt = req.Vitals.EndsAt
		input.VenueEntityID = req.Vitals.VenueEntityID
		input.ClientEntityID = req.Vitals.ClientEntityID
	}
	outcome, err := h.orch.HandOver(c.Request.Context(), identity.WorkspaceID(), id, input)
	if httpkit.HandleError(c, err) {
		return
	}

	status := http.StatusCreated
	if outcome.AlreadyHandedOver {
		status = http.StatusOK
	}
	httpkit.JSON(c, status, transport.HandoverResponse{
		DealID:            outcome.DealID,
		ProjectID:         outcome.ProjectID,
		ProductionID:      outcome.ProductionID,
		ContractID:        outcome.ContractID,
		CrewRoles:         outcome.CrewRoles,
		AlreadyHandedOver: outcome.AlreadyHandedOver,
	})
}

// DeriveCrewRoles returns the crew roles implied by the governing proposal.
// GET /api/v1/deals/:id/crew-roles
func (h *Handler) DeriveCrewRoles(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	roles, err := h.expander.DeriveRoles(c.Request.Context(), identity.WorkspaceID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.CrewRolesResponse{Roles: roles})
}

// DiagnoseCrewRoles traces the role derivation step by step.
// GET /api/v1/deals/:id/crew-roles/diagnose
func (h *Handler) DiagnoseCrewRoles(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	diag, err := h.expander.Diagnose(c.Request.Context(), identity.WorkspaceID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, diag)
}

// SyncCrew re-derives roles and merges new ones into the production.
// POST /api/v1/deals/:id/crew-sync
func (h *Handler) SyncCrew(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.orch.SyncCrewFromProposal(c.Request.Context(), identity.WorkspaceID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.CrewSyncResponse{Roles: result.Roles, Added: result.Added, Unstaffed: result.Unstaffed})
}

// CreateProposal attaches a draft proposal to a deal.
// POST /api/v1/deals/:id/proposals
func (h *Handler) CreateProposal(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	proposal, err := h.svc.CreateProposal(c.Request.Context(), identity.WorkspaceID(), dealID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToProposalResponse(proposal))
}

// TransitionProposal moves a proposal to a new status.
// POST /api/v1/proposals/:id/status
func (h *Handler) TransitionProposal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.TransitionProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	proposal, err := h.svc.TransitionProposal(c.Request.Context(), identity.WorkspaceID(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProposalResponse(proposal))
}

// AddProposalItem adds a line item to a proposal.
// POST /api/v1/proposals/:id/items
func (h *Handler) AddProposalItem(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.AddProposalItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	item, err := h.svc.AddProposalItem(c.Request.Context(), identity.WorkspaceID(), repository.CreateProposalItemParams{
		ProposalID:      proposalID,
		PackageID:       req.PackageID,
		OriginPackageID: req.OriginPackageID,
		Name:            req.Name,
		Quantity:        req.Quantity,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToProposalItemResponse(item))
}

// ListProposalItems lists a proposal's line items.
// GET /api/v1/proposals/:id/items
func (h *Handler) ListProposalItems(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	items, err := h.svc.ListProposalItems(c.Request.Context(), identity.WorkspaceID(), proposalID)
	if httpkit.HandleError(c, err) {
		return
	}
	resp := make([]transport.ProposalItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, transport.ToProposalItemResponse(item))
	}
	httpkit.OK(c, resp)
}
