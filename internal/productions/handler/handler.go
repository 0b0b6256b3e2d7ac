// Package handler exposes the productions API over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"showdesk_backend/internal/productions/repository"
	"showdesk_backend/internal/productions/service"
	"showdesk_backend/internal/productions/transport"
	"showdesk_backend/platform/httpkit"
	"showdesk_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
	msgInvalidIndex     = "invalid crew index"
)

// Handler handles HTTP requests for productions and their run of show.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListProductions lists productions with filters.
// GET /api/v1/productions
func (h *Handler) ListProductions(c *gin.Context) {
	var req transport.ListProductionsRequest
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

	items, total, err := h.svc.ListProductions(c.Request.Context(), repository.ListProductionsParams{
		WorkspaceID: identity.WorkspaceID(),
		ProjectID:   req.ProjectID,
		Status:      req.Status,
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ProductionListResponse{
		Items:      make([]transport.ProductionResponse, 0, len(items)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	for _, production := range items {
		resp.Items = append(resp.Items, transport.ToProductionResponse(production))
	}
	httpkit.OK(c, resp)
}

// GetProduction retrieves a production by id.
// GET /api/v1/productions/:id
func (h *Handler) GetProduction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	production, err := h.svc.GetProduction(c.Request.Context(), identity.WorkspaceID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProductionResponse(production))
}

// GetRunOfShow retrieves the run-of-show document with its revision.
// GET /api/v1/productions/:id/run-of-show
func (h *Handler) GetRunOfShow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	doc, rev, err := h.svc.GetRunOfShow(c.Request.Context(), identity.WorkspaceID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.RunOfShowResponse{ProductionID: id, Rev: rev, Document: doc})
}

// MergeRunOfShow applies a section-level partial update.
// PATCH /api/v1/productions/:id/run-of-show
func (h *Handler) MergeRunOfShow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.MergeRunOfShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	doc, rev, err := h.svc.MergeRunOfShow(c.Request.Context(), identity.WorkspaceID(), id, req.ToPatch())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.RunOfShowResponse{ProductionID: id, Rev: rev, Document: doc})
}

// AdvanceCrewStatus cycles one crew entry's readiness status.
// POST /api/v1/productions/:id/run-of-show/crew/:index/advance
func (h *Handler) AdvanceCrewStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidIndex, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	doc, rev, err := h.svc.CycleCrewStatus(c.Request.Context(), identity.WorkspaceID(), id, index)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.RunOfShowResponse{ProductionID: id, Rev: rev, Document: doc})
}

// AssignCrewMember attaches a team member to a crew entry.
// POST /api/v1/productions/:id/run-of-show/crew/:index/assign
func (h *Handler) AssignCrewMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidIndex, nil)
		return
	}
	var req transport.AssignCrewMemberRequest
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

	doc, rev, err := h.svc.AssignCrewMember(c.Request.Context(), identity.WorkspaceID(), id, index, req.EntityID, req.AssigneeName)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.RunOfShowResponse{ProductionID: id, Rev: rev, Document: doc})
}

// AdvanceGearStatus cycles one gear item's status.
// POST /api/v1/productions/:id/run-of-show/gear/:gearId/advance
func (h *Handler) AdvanceGearStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	gearID := c.Param("gearId")
	if gearID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	doc, rev, err := h.svc.CycleGearStatus(c.Request.Context(), identity.WorkspaceID(), id, gearID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.RunOfShowResponse{ProductionID: id, Rev: rev, Document: doc})
}

// ToggleLogistics flips one readiness flag.
// POST /api/v1/productions/:id/run-of-show/logistics/:key/toggle
func (h *Handler) ToggleLogistics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	doc, rev, err := h.svc.ToggleLogistics(c.Request.Context(), identity.WorkspaceID(), id, c.Param("key"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.RunOfShowResponse{ProductionID: id, Rev: rev, Document: doc})
}
