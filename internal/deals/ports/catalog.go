// Package ports defines the interfaces the deals domain requires from other
// bounded contexts. The deals side only sees the data it needs, shaped the
// way it wants, so catalog and production internals never leak in.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// PackageInfo is the slice of a catalog entry the staffing expansion needs.
// StaffRole is empty unless the entry is a service carrying a role tag.
// IngredientIDs lists the catalog ids a bundle is composed of.
type PackageInfo struct {
	ID            uuid.UUID
	Name          string
	Category      string
	StaffRole     string
	IngredientIDs []uuid.UUID
}

// CatalogReader looks up catalog entries for staffing expansion. Unknown ids
// are silently omitted from the result slice.
type CatalogReader interface {
	GetPackagesByIDs(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]PackageInfo, error)
}
