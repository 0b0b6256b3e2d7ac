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

const dealNotFoundMessage = "deal not found"

// Repo implements the deals repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new deals repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const dealColumns = `id, workspace_id, title, status, client_org_id, proposed_date, event_id, created_at, updated_at`

// CreateDeal creates a deal in the inquiry status.
func (r *Repo) CreateDeal(ctx context.Context, params CreateDealParams) (Deal, error) {
	query := `
		INSERT INTO deals (workspace_id, title, status, client_org_id, proposed_date)
		VALUES ($1, $2, 'inquiry', $3, $4)
		RETURNING ` + dealColumns

	row := r.pool.QueryRow(ctx, query, params.WorkspaceID, params.Title, params.ClientOrgID, params.ProposedDate)
	deal, err := scanDeal(row)
	if err != nil {
		return Deal{}, fmt.Errorf("create deal: %w", err)
	}
	return deal, nil
}

// GetDealByID retrieves a deal by ID.
func (r *Repo) GetDealByID(ctx context.Context, workspaceID, id uuid.UUID) (Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1 AND workspace_id = $2`

	deal, err := scanDeal(r.pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deal{}, apperr.NotFound(dealNotFoundMessage)
		}
		return Deal{}, fmt.Errorf("get deal by id: %w", err)
	}
	return deal, nil
}

// UpdateDeal updates mutable deal fields.
func (r *Repo) UpdateDeal(ctx context.Context, params UpdateDealParams) (Deal, error) {
	query := `
		UPDATE deals
		SET title = COALESCE($3, title),
			client_org_id = COALESCE($4, client_org_id),
			proposed_date = COALESCE($5, proposed_date),
			updated_at = now()
		WHERE id = $1 AND workspace_id = $2
		RETURNING ` + dealColumns

	row := r.pool.QueryRow(ctx, query, params.ID, params.WorkspaceID, params.Title, params.ClientOrgID, params.ProposedDate)
	deal, err := scanDeal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deal{}, apperr.NotFound(dealNotFoundMessage)
		}
		return Deal{}, fmt.Errorf("update deal: %w", err)
	}
	return deal, nil
}

// UpdateDealStatus moves a deal to a new status.
func (r *Repo) UpdateDealStatus(ctx context.Context, workspaceID, id uuid.UUID, status string) (Deal, error) {
	query := `
		UPDATE deals
		SET status = $3, updated_at = now()
		WHERE id = $1 AND workspace_id = $2
		RETURNING ` + dealColumns

	deal, err := scanDeal(r.pool.QueryRow(ctx, query, id, workspaceID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deal{}, apperr.NotFound(dealNotFoundMessage)
		}
		return Deal{}, fmt.Errorf("update deal status: %w", err)
	}
	return deal, nil
}

// ListDeals lists deals with filters and pagination.
func (r *Repo) ListDeals(ctx context.Context, params ListDealsParams) ([]Deal, int, error) {
	whereClauses := []string{"workspace_id = $1"}
	args := []interface{}{params.WorkspaceID}
	argIdx := 2

	if params.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("title ILIKE $%d", argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM deals WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count deals: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM deals
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, dealColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	items := make([]Deal, 0)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan deal: %w", err)
		}
		items = append(items, deal)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate deals: %w", rows.Err())
	}
	return items, total, nil
}

// ListProjectsByClient lists the projects that belong to a client organization.
func (r *Repo) ListProjectsByClient(ctx context.Context, workspaceID uuid.UUID, clientOrgID uuid.UUID) ([]Project, error) {
	query := `
		SELECT id, workspace_id, name, client_org_id, created_at, updated_at
		FROM projects
		WHERE workspace_id = $1 AND client_org_id = $2
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID, clientOrgID)
	if err != nil {
		return nil, fmt.Errorf("list projects by client: %w", err)
	}
	defer rows.Close()

	items := make([]Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, project)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate projects: %w", rows.Err())
	}
	return items, nil
}

// GetProjectByID retrieves a project by ID.
func (r *Repo) GetProjectByID(ctx context.Context, workspaceID, id uuid.UUID) (Project, error) {
	query := `
		SELECT id, workspace_id, name, client_org_id, created_at, updated_at
		FROM projects
		WHERE id = $1 AND workspace_id = $2`

	project, err := scanProject(r.pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound("project not found")
		}
		return Project{}, fmt.Errorf("get project by id: %w", err)
	}
	return project, nil
}

func scanDeal(row pgx.Row) (Deal, error) {
	var deal Deal
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&deal.ID, &deal.WorkspaceID, &deal.Title, &deal.Status,
		&deal.ClientOrgID, &deal.ProposedDate, &deal.EventID,
		&createdAt, &updatedAt,
	); err != nil {
		return Deal{}, err
	}
	deal.CreatedAt = createdAt.Format(time.RFC3339)
	deal.UpdatedAt = updatedAt.Format(time.RFC3339)
	return deal, nil
}

func scanProject(row pgx.Row) (Project, error) {
	var project Project
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&project.ID, &project.WorkspaceID, &project.Name, &project.ClientOrgID,
		&createdAt, &updatedAt,
	); err != nil {
		return Project{}, err
	}
	project.CreatedAt = createdAt.Format(time.RFC3339)
	project.UpdatedAt = updatedAt.Format(time.RFC3339)
	return project, nil
}
