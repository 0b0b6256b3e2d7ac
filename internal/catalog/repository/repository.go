package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"showdesk_backend/platform/apperr"
)

const packageNotFoundMessage = "catalog entry not found"

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreatePackage creates a catalog entry.
func (r *Repo) CreatePackage(ctx context.Context, params CreatePackageParams) (Package, error) {
	query := `
		INSERT INTO packages (workspace_id, name, category, definition)
		VALUES ($1, $2, $3, COALESCE($4, '{}'::jsonb))
		RETURNING id, workspace_id, name, category, definition, created_at, updated_at`

	var pkg Package
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, params.WorkspaceID, params.Name, params.Category, params.Definition).Scan(
		&pkg.ID, &pkg.WorkspaceID, &pkg.Name, &pkg.Category, &pkg.Definition, &createdAt, &updatedAt,
	); err != nil {
		return Package{}, fmt.Errorf("create package: %w", err)
	}

	pkg.CreatedAt = createdAt.Format(time.RFC3339)
	pkg.UpdatedAt = updatedAt.Format(time.RFC3339)
	return pkg, nil
}

// UpdatePackage updates a catalog entry.
func (r *Repo) UpdatePackage(ctx context.Context, params UpdatePackageParams) (Package, error) {
	query := `
		UPDATE packages
		SET name = COALESCE($3, name),
			category = COALESCE($4, category),
			definition = COALESCE($5, definition),
			updated_at = now()
		WHERE id = $1 AND workspace_id = $2
		RETURNING id, workspace_id, name, category, definition, created_at, updated_at`

	var pkg Package
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		params.ID, params.WorkspaceID, params.Name, params.Category, params.Definition,
	).Scan(&pkg.ID, &pkg.WorkspaceID, &pkg.Name, &pkg.Category, &pkg.Definition, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Package{}, apperr.NotFound(packageNotFoundMessage)
		}
		return Package{}, fmt.Errorf("update package: %w", err)
	}

	pkg.CreatedAt = createdAt.Format(time.RFC3339)
	pkg.UpdatedAt = updatedAt.Format(time.RFC3339)
	return pkg, nil
}

// DeletePackage deletes a catalog entry.
func (r *Repo) DeletePackage(ctx context.Context, workspaceID, id uuid.UUID) error {
	query := `DELETE FROM packages WHERE id = $1 AND workspace_id = $2`
	result, err := r.pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(packageNotFoundMessage)
	}
	return nil
}

// GetPackageByID retrieves a catalog entry by ID.
func (r *Repo) GetPackageByID(ctx context.Context, workspaceID, id uuid.UUID) (Package, error) {
	query := `
		SELECT id, workspace_id, name, category, definition, created_at, updated_at
		FROM packages
		WHERE id = $1 AND workspace_id = $2`

	var pkg Package
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, id, workspaceID).Scan(
		&pkg.ID, &pkg.WorkspaceID, &pkg.Name, &pkg.Category, &pkg.Definition, &createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Package{}, apperr.NotFound(packageNotFoundMessage)
		}
		return Package{}, fmt.Errorf("get package by id: %w", err)
	}

	pkg.CreatedAt = createdAt.Format(time.RFC3339)
	pkg.UpdatedAt = updatedAt.Format(time.RFC3339)
	return pkg, nil
}

// GetPackagesByIDs retrieves the catalog entries whose ids are in the given
// set. Ids that no longer resolve are silently absent from the result.
func (r *Repo) GetPackagesByIDs(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]Package, error) {
	if len(ids) == 0 {
		return []Package{}, nil
	}

	query := `
		SELECT id, workspace_id, name, category, definition, created_at, updated_at
		FROM packages
		WHERE workspace_id = $1 AND id = ANY($2)`

	rows, err := r.pool.Query(ctx, query, workspaceID, ids)
	if err != nil {
		return nil, fmt.Errorf("get packages by ids: %w", err)
	}
	defer rows.Close()

	return scanPackages(rows)
}

// ListPackages lists catalog entries with filters and pagination.
func (r *Repo) ListPackages(ctx context.Context, params ListPackagesParams) ([]Package, int, error) {
	whereClauses := []string{"workspace_id = $1"}
	args := []interface{}{params.WorkspaceID}
	argIdx := 2

	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("name ILIKE $%d", argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM packages WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count packages: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT id, workspace_id, name, category, definition, created_at, updated_at
		FROM packages
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	items, err := scanPackages(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func scanPackages(rows pgx.Rows) ([]Package, error) {
	items := make([]Package, 0)
	for rows.Next() {
		var pkg Package
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&pkg.ID, &pkg.WorkspaceID, &pkg.Name, &pkg.Category, &pkg.Definition, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		pkg.CreatedAt = createdAt.Format(time.RFC3339)
		pkg.UpdatedAt = updatedAt.Format(time.RFC3339)
		items = append(items, pkg)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate packages: %w", rows.Err())
	}
	return items, nil
}
