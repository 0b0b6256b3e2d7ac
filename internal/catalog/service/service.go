package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"showdesk_backend/internal/catalog/repository"
	"showdesk_backend/internal/catalog/transport"
	"showdesk_backend/platform/apperr"
	"showdesk_backend/platform/logger"
)

// Service provides business logic for the catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetPackageByID retrieves a catalog entry by ID.
func (s *Service) GetPackageByID(ctx context.Context, workspaceID, id uuid.UUID) (transport.PackageResponse, error) {
	pkg, err := s.repo.GetPackageByID(ctx, workspaceID, id)
	if err != nil {
		return transport.PackageResponse{}, err
	}
	return toPackageResponse(pkg), nil
}

// ListPackagesWithFilters retrieves catalog entries with search and pagination.
func (s *Service) ListPackagesWithFilters(ctx context.Context, workspaceID uuid.UUID, req transport.ListPackagesRequest) (transport.PackageListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	params := repository.ListPackagesParams{
		WorkspaceID: workspaceID,
		Search:      strings.TrimSpace(req.Search),
		Category:    req.Category,
		Offset:      (page - 1) * pageSize,
		Limit:       pageSize,
	}

	items, total, err := s.repo.ListPackages(ctx, params)
	if err != nil {
		return transport.PackageListResponse{}, err
	}

	responses := make([]transport.PackageResponse, 0, len(items))
	for _, pkg := range items {
		responses = append(responses, toPackageResponse(pkg))
	}

	totalPages := total / pageSize
	if total%pageSize > 0 {
		totalPages++
	}

	return transport.PackageListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// CreatePackage creates a new catalog entry.
func (s *Service) CreatePackage(ctx context.Context, workspaceID uuid.UUID, req transport.CreatePackageRequest) (transport.PackageResponse, error) {
	if err := validateDefinition(req.Category, req.Definition); err != nil {
		return transport.PackageResponse{}, err
	}

	pkg, err := s.repo.CreatePackage(ctx, repository.CreatePackageParams{
		WorkspaceID: workspaceID,
		Name:        strings.TrimSpace(req.Name),
		Category:    req.Category,
		Definition:  req.Definition,
	})
	if err != nil {
		return transport.PackageResponse{}, err
	}

	s.log.Info("catalog entry created", "id", pkg.ID, "name", pkg.Name, "category", pkg.Category)
	return toPackageResponse(pkg), nil
}

// UpdatePackage updates an existing catalog entry.
func (s *Service) UpdatePackage(ctx context.Context, workspaceID, id uuid.UUID, req transport.UpdatePackageRequest) (transport.PackageResponse, error) {
	name := req.Name
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}

	if req.Category != nil && req.Definition != nil {
		if err := validateDefinition(*req.Category, req.Definition); err != nil {
			return transport.PackageResponse{}, err
		}
	}

	pkg, err := s.repo.UpdatePackage(ctx, repository.UpdatePackageParams{
		ID:          id,
		WorkspaceID: workspaceID,
		Name:        name,
		Category:    req.Category,
		Definition:  req.Definition,
	})
	if err != nil {
		return transport.PackageResponse{}, err
	}

	s.log.Info("catalog entry updated", "id", pkg.ID, "name", pkg.Name)
	return toPackageResponse(pkg), nil
}

// DeletePackage deletes a catalog entry.
func (s *Service) DeletePackage(ctx context.Context, workspaceID, id uuid.UUID) error {
	if err := s.repo.DeletePackage(ctx, workspaceID, id); err != nil {
		return err
	}
	s.log.Info("catalog entry deleted", "id", id)
	return nil
}

// ParseDefinition decodes a stored definition. Malformed payloads decode to an
// empty definition instead of failing: staffing derivation must tolerate
// legacy rows.
func ParseDefinition(raw json.RawMessage) repository.Definition {
	var def repository.Definition
	if len(raw) == 0 {
		return def
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return repository.Definition{}
	}
	return def
}

// StaffRole extracts the trimmed staff role from a service entry's
// definition, or "" when none is set.
func StaffRole(pkg repository.Package) string {
	if pkg.Category != repository.CategoryService {
		return ""
	}
	def := ParseDefinition(pkg.Definition)
	if def.IngredientMeta == nil {
		return ""
	}
	return strings.TrimSpace(def.IngredientMeta.StaffRole)
}

// IngredientIDs extracts the catalog ids referenced by a bundle's line_item
// blocks. Non-bundle entries have no ingredients.
func IngredientIDs(pkg repository.Package) []uuid.UUID {
	if pkg.Category != repository.CategoryPackage {
		return nil
	}
	def := ParseDefinition(pkg.Definition)

	ids := make([]uuid.UUID, 0, len(def.Blocks))
	for _, block := range def.Blocks {
		if block.Type != repository.BlockTypeLineItem || block.CatalogID == nil {
			continue
		}
		ids = append(ids, *block.CatalogID)
	}
	return ids
}

func validateDefinition(category string, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var def repository.Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return apperr.Validation("definition is not valid JSON")
	}
	if category == repository.CategoryPackage && def.IngredientMeta != nil && def.IngredientMeta.StaffRole != "" {
		return apperr.Validation("bundles carry staff roles on their ingredients, not on the bundle itself")
	}
	return nil
}

func toPackageResponse(pkg repository.Package) transport.PackageResponse {
	resp := transport.PackageResponse{
		ID:         pkg.ID,
		Name:       pkg.Name,
		Category:   pkg.Category,
		Definition: pkg.Definition,
		CreatedAt:  pkg.CreatedAt,
		UpdatedAt:  pkg.UpdatedAt,
	}
	if role := StaffRole(pkg); role != "" {
		resp.StaffRole = &role
	}
	return resp
}
