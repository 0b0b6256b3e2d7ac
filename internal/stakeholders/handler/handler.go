// Package handler exposes the stakeholders API over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"showdesk_backend/internal/stakeholders/service"
	"showdesk_backend/internal/stakeholders/transport"
	"showdesk_backend/platform/httpkit"
	"showdesk_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for stakeholders and rosters.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// AddStakeholder connects a party to a deal.
// POST /api/v1/deals/:id/stakeholders
func (h *Handler) AddStakeholder(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.AddStakeholderRequest
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

	stakeholder, err := h.svc.AddStakeholder(c.Request.Context(), identity.WorkspaceID(), dealID, service.AddStakeholderInput{
		Role:           req.Role,
		OrganizationID: req.OrganizationID,
		EntityID:       req.EntityID,
		IsPrimary:      req.IsPrimary,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, gin.H{"id": stakeholder.ID})
}

// ListStakeholders lists a deal's stakeholders with resolved display names.
// GET /api/v1/deals/:id/stakeholders
func (h *Handler) ListStakeholders(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	items, err := h.svc.ListStakeholders(c.Request.Context(), identity.WorkspaceID(), dealID)
	if httpkit.HandleError(c, err) {
		return
	}
	resp := make([]transport.StakeholderResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, transport.ToStakeholderResponse(item))
	}
	httpkit.OK(c, resp)
}

// RemoveStakeholder disconnects a party from a deal.
// DELETE /api/v1/deals/:id/stakeholders/:stakeholderId
func (h *Handler) RemoveStakeholder(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	stakeholderID, err := uuid.Parse(c.Param("stakeholderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.svc.RemoveStakeholder(c.Request.Context(), identity.WorkspaceID(), dealID, stakeholderID)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// GetOrgRoster lists candidate points of contact at an organization.
// GET /api/v1/organizations/:id/roster
func (h *Handler) GetOrgRoster(c *gin.Context) {
	organizationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	roster, err := h.svc.GetOrgRoster(c.Request.Context(), identity.WorkspaceID(), organizationID)
	if httpkit.HandleError(c, err) {
		return
	}
	resp := make([]transport.RosterEntryResponse, 0, len(roster))
	for _, entry := range roster {
		resp = append(resp, transport.ToRosterEntryResponse(entry))
	}
	httpkit.OK(c, resp)
}
