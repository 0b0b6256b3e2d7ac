// Package productions provides the productions bounded context module.
package productions

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"showdesk_backend/internal/events"
	apphttp "showdesk_backend/internal/http"
	"showdesk_backend/internal/productions/handler"
	"showdesk_backend/internal/productions/repository"
	"showdesk_backend/internal/productions/service"
	"showdesk_backend/platform/logger"
	"showdesk_backend/platform/validator"
)

// Module is the productions bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the productions module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger, eventBus events.Bus) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "productions"
}

// Service returns the service layer, used by the deals-side gateway adapter.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts production routes on the router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/productions")
	group.GET("", m.handler.ListProductions)
	group.GET("/:id", m.handler.GetProduction)
	group.GET("/:id/run-of-show", m.handler.GetRunOfShow)
	group.PATCH("/:id/run-of-show", m.handler.MergeRunOfShow)
	group.POST("/:id/run-of-show/crew/:index/advance", m.handler.AdvanceCrewStatus)
	group.POST("/:id/run-of-show/crew/:index/assign", m.handler.AssignCrewMember)
	group.POST("/:id/run-of-show/gear/:gearId/advance", m.handler.AdvanceGearStatus)
	group.POST("/:id/run-of-show/logistics/:key/toggle", m.handler.ToggleLogistics)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
