// Package adapters implements the deals domain's outbound ports on top of
// the other bounded contexts.
package adapters

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	catalogrepo "showdesk_backend/internal/catalog/repository"
	catalogsvc "showdesk_backend/internal/catalog/service"
	"showdesk_backend/internal/deals/ports"
)

// CatalogReaderAdapter implements ports.CatalogReader on the catalog
// repository, flattening catalog definitions into the slim shape the
// staffing expansion reads.
type CatalogReaderAdapter struct {
	repo catalogrepo.Repository
}

func NewCatalogReaderAdapter(repo catalogrepo.Repository) *CatalogReaderAdapter {
	return &CatalogReaderAdapter{repo: repo}
}

var _ ports.CatalogReader = (*CatalogReaderAdapter)(nil)

func (a *CatalogReaderAdapter) GetPackagesByIDs(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]ports.PackageInfo, error) {
	if a == nil || a.repo == nil {
		return nil, fmt.Errorf("catalog reader not configured")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	packages, err := a.repo.GetPackagesByIDs(ctx, workspaceID, ids)
	if err != nil {
		return nil, fmt.Errorf("get packages by ids: %w", err)
	}

	out := make([]ports.PackageInfo, 0, len(packages))
	for _, pkg := range packages {
		out = append(out, ports.PackageInfo{
			ID:            pkg.ID,
			Name:          pkg.Name,
			Category:      pkg.Category,
			StaffRole:     catalogsvc.StaffRole(pkg),
			IngredientIDs: catalogsvc.IngredientIDs(pkg),
		})
	}
	return out, nil
}
