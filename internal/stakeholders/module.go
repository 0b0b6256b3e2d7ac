// Package stakeholders provides the stakeholders bounded context module.
package stakeholders

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"showdesk_backend/internal/events"
	apphttp "showdesk_backend/internal/http"
	"showdesk_backend/internal/stakeholders/handler"
	"showdesk_backend/internal/stakeholders/ports"
	"showdesk_backend/internal/stakeholders/repository"
	"showdesk_backend/internal/stakeholders/service"
	"showdesk_backend/platform/logger"
	"showdesk_backend/platform/validator"
)

// Module is the stakeholders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the stakeholders module. The deal reader
// is an adapter owned by the caller.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger, deals ports.DealReader, eventBus events.Bus, defaultRegion string) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, deals, eventBus, log, defaultRegion)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "stakeholders"
}

// Repository exposes the stakeholders repository for cross-module adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts stakeholder and roster routes on the router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	deals := ctx.Protected.Group("/deals")
	deals.POST("/:id/stakeholders", m.handler.AddStakeholder)
	deals.GET("/:id/stakeholders", m.handler.ListStakeholders)
	deals.DELETE("/:id/stakeholders/:stakeholderId", m.handler.RemoveStakeholder)

	organizations := ctx.Protected.Group("/organizations")
	organizations.GET("/:id/roster", m.handler.GetOrgRoster)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
