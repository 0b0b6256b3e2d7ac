// Package deals implements the sales pipeline and its handover to production.
package deals

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"showdesk_backend/internal/deals/crewplan"
	"showdesk_backend/internal/deals/handler"
	"showdesk_backend/internal/deals/ports"
	"showdesk_backend/internal/deals/repository"
	"showdesk_backend/internal/deals/service"
	"showdesk_backend/internal/events"
	apphttp "showdesk_backend/internal/http"
	"showdesk_backend/platform/logger"
	"showdesk_backend/platform/validator"
)

// Module is the deals bounded context module implementing http.Module.
type Module struct {
	handler      *handler.Handler
	service      *service.Service
	orchestrator *service.Orchestrator
	repo         repository.Repository
}

// NewModule creates and initializes the deals module. The catalog reader,
// production gateway and sync scheduler are adapters owned by the caller so
// this module never imports other bounded contexts directly.
func NewModule(
	pool *pgxpool.Pool,
	val *validator.Validator,
	log *logger.Logger,
	catalog ports.CatalogReader,
	productions ports.ProductionGateway,
	scheduler ports.SyncScheduler,
	eventBus events.Bus,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	expander := crewplan.NewExpander(repo, catalog)
	orch := service.NewOrchestrator(repo, expander, productions, scheduler, eventBus, log)
	h := handler.New(svc, orch, expander, val)

	return &Module{
		handler:      h,
		service:      svc,
		orchestrator: orch,
		repo:         repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "deals"
}

// Orchestrator returns the handover orchestrator, used by the scheduler
// worker to run delayed crew syncs.
func (m *Module) Orchestrator() *service.Orchestrator {
	return m.orchestrator
}

// Repository exposes the deals repository for cross-module adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts deal and proposal routes on the router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/deals")
	group.POST("", m.handler.CreateDeal)
	group.GET("", m.handler.ListDeals)
	group.GET("/:id", m.handler.GetDeal)
	group.PUT("/:id", m.handler.UpdateDeal)
	group.POST("/:id/status", m.handler.TransitionDeal)
	group.POST("/:id/handover", m.handler.HandOver)
	group.GET("/:id/crew-roles", m.handler.DeriveCrewRoles)
	group.GET("/:id/crew-roles/diagnose", m.handler.DiagnoseCrewRoles)
	group.POST("/:id/crew-sync", m.handler.SyncCrew)
	group.POST("/:id/proposals", m.handler.CreateProposal)

	proposals := ctx.Protected.Group("/proposals")
	proposals.POST("/:id/status", m.handler.TransitionProposal)
	proposals.POST("/:id/items", m.handler.AddProposalItem)
	proposals.GET("/:id/items", m.handler.ListProposalItems)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
