// Package catalog provides the catalog bounded context module.
package catalog

import (
	"showdesk_backend/internal/catalog/handler"
	"showdesk_backend/internal/catalog/repository"
	"showdesk_backend/internal/catalog/service"
	apphttp "showdesk_backend/internal/http"
	"showdesk_backend/platform/logger"
	"showdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/catalog")
	group.GET("/packages", m.handler.ListPackages)
	group.GET("/packages/:id", m.handler.GetPackageByID)
	group.POST("/packages", m.handler.CreatePackage)
	group.PUT("/packages/:id", m.handler.UpdatePackage)
	group.DELETE("/packages/:id", m.handler.DeletePackage)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
