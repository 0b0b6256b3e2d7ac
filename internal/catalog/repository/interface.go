package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Package categories. A "package" category entry is a bundle whose definition
// blocks reference other catalog entries; a "service" entry may carry the
// staff role that staffing derivation looks for.
const (
	CategoryPackage    = "package"
	CategoryService    = "service"
	CategoryRental     = "rental"
	CategoryTalent     = "talent"
	CategoryRetailSale = "retail_sale"
	CategoryFee        = "fee"
)

// BlockTypeLineItem is the definition block type that references another
// catalog entry by id.
const BlockTypeLineItem = "line_item"

// Package is a catalog entry.
type Package struct {
	ID          uuid.UUID       `db:"id"`
	WorkspaceID uuid.UUID       `db:"workspace_id"`
	Name        string          `db:"name"`
	Category    string          `db:"category"`
	Definition  json.RawMessage `db:"definition"`
	CreatedAt   string          `db:"created_at"`
	UpdatedAt   string          `db:"updated_at"`
}

// IngredientMeta carries service-entry metadata inside a definition.
type IngredientMeta struct {
	StaffRole string `json:"staff_role"`
}

// Block is one content block of a bundle definition. Only line_item blocks
// carry a catalog reference; other block types (headings, notes) are passed
// through untouched.
type Block struct {
	Type      string     `json:"type"`
	CatalogID *uuid.UUID `json:"catalogId,omitempty"`
}

// Definition is the structured payload of a package. Services carry
// ingredient_meta; bundles carry blocks.
type Definition struct {
	IngredientMeta *IngredientMeta `json:"ingredient_meta,omitempty"`
	Blocks         []Block         `json:"blocks,omitempty"`
}

// CreatePackageParams contains data for creating a catalog entry.
type CreatePackageParams struct {
	WorkspaceID uuid.UUID
	Name        string
	Category    string
	Definition  json.RawMessage
}

// UpdatePackageParams contains data for updating a catalog entry.
type UpdatePackageParams struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	Name        *string
	Category    *string
	Definition  json.RawMessage
}

// ListPackagesParams defines filters for listing catalog entries.
type ListPackagesParams struct {
	WorkspaceID uuid.UUID
	Search      string
	Category    string
	Offset      int
	Limit       int
}

// Repository defines persistence operations for the catalog.
type Repository interface {
	CreatePackage(ctx context.Context, params CreatePackageParams) (Package, error)
	UpdatePackage(ctx context.Context, params UpdatePackageParams) (Package, error)
	DeletePackage(ctx context.Context, workspaceID, id uuid.UUID) error
	GetPackageByID(ctx context.Context, workspaceID, id uuid.UUID) (Package, error)
	GetPackagesByIDs(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]Package, error)
	ListPackages(ctx context.Context, params ListPackagesParams) ([]Package, int, error)
}
