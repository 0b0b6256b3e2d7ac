package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"showdesk_backend/platform/apperr"
)

const productionNotFoundMessage = "production not found"

// Repo implements the productions repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new productions repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const productionColumns = `id, workspace_id, project_id, name, status, venue_entity_id, starts_at, ends_at, created_at, updated_at`

// GetProductionByID retrieves a production by ID.
func (r *Repo) GetProductionByID(ctx context.Context, workspaceID, id uuid.UUID) (Production, error) {
	query := `SELECT ` + productionColumns + ` FROM productions WHERE id = $1 AND workspace_id = $2`

	production, err := scanProduction(r.pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Production{}, apperr.NotFound(productionNotFoundMessage)
		}
		return Production{}, fmt.Errorf("get production by id: %w", err)
	}
	return production, nil
}

// ListProductions lists productions with filters and pagination.
func (r *Repo) ListProductions(ctx context.Context, params ListProductionsParams) ([]Production, int, error) {
	whereClauses := []string{"workspace_id = $1"}
	args := []interface{}{params.WorkspaceID}
	argIdx := 2

	if params.ProjectID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("project_id = $%d", argIdx))
		args = append(args, *params.ProjectID)
		argIdx++
	}
	if params.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM productions WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count productions: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM productions
		WHERE %s
		ORDER BY starts_at ASC
		LIMIT $%d OFFSET $%d
	`, productionColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list productions: %w", err)
	}
	defer rows.Close()

	items := make([]Production, 0)
	for rows.Next() {
		production, err := scanProduction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan production: %w", err)
		}
		items = append(items, production)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate productions: %w", rows.Err())
	}
	return items, total, nil
}

// GetRunOfShow retrieves the run-of-show document and its revision.
func (r *Repo) GetRunOfShow(ctx context.Context, workspaceID, productionID uuid.UUID) (RunOfShowRecord, error) {
	query := `
		SELECT id, run_of_show, run_of_show_rev
		FROM productions
		WHERE id = $1 AND workspace_id = $2`

	var record RunOfShowRecord
	if err := r.pool.QueryRow(ctx, query, productionID, workspaceID).Scan(
		&record.ProductionID, &record.Document, &record.Rev,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RunOfShowRecord{}, apperr.NotFound(productionNotFoundMessage)
		}
		return RunOfShowRecord{}, fmt.Errorf("get run of show: %w", err)
	}
	return record, nil
}

// UpdateRunOfShow replaces the document when the stored revision still equals
// expectedRev, returning the new revision. A revision mismatch yields
// ErrStaleRevision so the caller can re-read and retry.
func (r *Repo) UpdateRunOfShow(ctx context.Context, workspaceID, productionID uuid.UUID, doc json.RawMessage, expectedRev int64) (int64, error) {
	query := `
		UPDATE productions
		SET run_of_show = $3, run_of_show_rev = run_of_show_rev + 1, updated_at = now()
		WHERE id = $1 AND workspace_id = $2 AND run_of_show_rev = $4
		RETURNING run_of_show_rev`

	var newRev int64
	if err := r.pool.QueryRow(ctx, query, productionID, workspaceID, doc, expectedRev).Scan(&newRev); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing production from a lost race.
			if _, getErr := r.GetProductionByID(ctx, workspaceID, productionID); getErr != nil {
				return 0, getErr
			}
			return 0, ErrStaleRevision
		}
		return 0, fmt.Errorf("update run of show: %w", err)
	}
	return newRev, nil
}

func scanProduction(row pgx.Row) (Production, error) {
	var production Production
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&production.ID, &production.WorkspaceID, &production.ProjectID, &production.Name,
		&production.Status, &production.VenueEntityID, &production.StartsAt, &production.EndsAt,
		&createdAt, &updatedAt,
	); err != nil {
		return Production{}, err
	}
	production.CreatedAt = createdAt.Format(time.RFC3339)
	production.UpdatedAt = updatedAt.Format(time.RFC3339)
	return production, nil
}
