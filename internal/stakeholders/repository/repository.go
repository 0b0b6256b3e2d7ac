package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"showdesk_backend/platform/apperr"
)

// Postgres error codes the stakeholder tables translate into domain errors.
const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

// Repo implements the stakeholders repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new stakeholders repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// AddStakeholder connects a party to a deal. A duplicate connection (same
// deal, organization, person and role) surfaces as a conflict with a friendly
// message instead of a raw constraint violation.
func (r *Repo) AddStakeholder(ctx context.Context, params AddStakeholderParams) (Stakeholder, error) {
	query := `
		INSERT INTO stakeholders (workspace_id, deal_id, role, organization_id, entity_id, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, workspace_id, deal_id, role, organization_id, entity_id, is_primary, created_at`

	var stakeholder Stakeholder
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		params.WorkspaceID, params.DealID, params.Role, params.OrganizationID, params.EntityID, params.IsPrimary,
	).Scan(
		&stakeholder.ID, &stakeholder.WorkspaceID, &stakeholder.DealID, &stakeholder.Role,
		&stakeholder.OrganizationID, &stakeholder.EntityID, &stakeholder.IsPrimary, &createdAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return Stakeholder{}, apperr.Conflict("this party is already connected to the deal in that role")
			case pgUndefinedTable:
				return Stakeholder{}, apperr.MissingDependency("stakeholders are not provisioned in this workspace")
			}
		}
		return Stakeholder{}, fmt.Errorf("add stakeholder: %w", err)
	}
	stakeholder.CreatedAt = createdAt.Format(time.RFC3339)
	return stakeholder, nil
}

// RemoveStakeholder disconnects a party from a deal.
func (r *Repo) RemoveStakeholder(ctx context.Context, workspaceID, dealID, id uuid.UUID) error {
	query := `DELETE FROM stakeholders WHERE id = $1 AND deal_id = $2 AND workspace_id = $3`
	result, err := r.pool.Exec(ctx, query, id, dealID, workspaceID)
	if err != nil {
		if isUndefinedTable(err) {
			return apperr.NotFound("stakeholder not found")
		}
		return fmt.Errorf("remove stakeholder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("stakeholder not found")
	}
	return nil
}

// ListStakeholders lists a deal's stakeholders with their organization and
// person details resolved. A workspace without the stakeholder tables reads
// as empty rather than erroring, so older data shapes coexist.
func (r *Repo) ListStakeholders(ctx context.Context, workspaceID, dealID uuid.UUID) ([]ResolvedStakeholder, error) {
	query := `
		SELECT s.id, s.workspace_id, s.deal_id, s.role, s.organization_id, s.entity_id, s.is_primary, s.created_at,
			o.name, e.first_name, e.last_name, e.email, e.phone
		FROM stakeholders s
		LEFT JOIN organizations o ON o.id = s.organization_id
		LEFT JOIN entities e ON e.id = s.entity_id
		WHERE s.deal_id = $1 AND s.workspace_id = $2
		ORDER BY s.is_primary DESC, s.created_at ASC`

	rows, err := r.pool.Query(ctx, query, dealID, workspaceID)
	if err != nil {
		if isUndefinedTable(err) {
			return []ResolvedStakeholder{}, nil
		}
		return nil, fmt.Errorf("list stakeholders: %w", err)
	}
	defer rows.Close()

	items := make([]ResolvedStakeholder, 0)
	for rows.Next() {
		var item ResolvedStakeholder
		var createdAt time.Time
		var firstName, lastName *string
		if err := rows.Scan(
			&item.ID, &item.WorkspaceID, &item.DealID, &item.Role,
			&item.OrganizationID, &item.EntityID, &item.IsPrimary, &createdAt,
			&item.OrganizationName, &firstName, &lastName, &item.PersonEmail, &item.PersonPhone,
		); err != nil {
			return nil, fmt.Errorf("scan stakeholder: %w", err)
		}
		item.CreatedAt = createdAt.Format(time.RFC3339)
		item.PersonName = joinName(firstName, lastName)
		items = append(items, item)
	}
	if rows.Err() != nil {
		if isUndefinedTable(rows.Err()) {
			return []ResolvedStakeholder{}, nil
		}
		return nil, fmt.Errorf("iterate stakeholders: %w", rows.Err())
	}
	return items, nil
}

// GetOrganizationByID retrieves an organization by ID.
func (r *Repo) GetOrganizationByID(ctx context.Context, workspaceID, id uuid.UUID) (Organization, error) {
	query := `
		SELECT id, workspace_id, name, email, phone, created_at
		FROM organizations
		WHERE id = $1 AND workspace_id = $2`

	var org Organization
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query, id, workspaceID).Scan(
		&org.ID, &org.WorkspaceID, &org.Name, &org.Email, &org.Phone, &createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Organization{}, apperr.NotFound("organization not found")
		}
		return Organization{}, fmt.Errorf("get organization by id: %w", err)
	}
	org.CreatedAt = createdAt.Format(time.RFC3339)
	return org, nil
}

// GetEntityEmail returns a person's email address, or nil when none is on
// record.
func (r *Repo) GetEntityEmail(ctx context.Context, workspaceID, entityID uuid.UUID) (*string, error) {
	query := `SELECT email FROM entities WHERE id = $1 AND workspace_id = $2`

	var email *string
	if err := r.pool.QueryRow(ctx, query, entityID, workspaceID).Scan(&email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("person not found")
		}
		return nil, fmt.Errorf("get entity email: %w", err)
	}
	return email, nil
}

// ListAffiliationContacts lists an organization's active affiliated people.
func (r *Repo) ListAffiliationContacts(ctx context.Context, workspaceID, organizationID uuid.UUID) ([]RosterEntry, error) {
	query := `
		SELECT a.id, e.id, e.first_name, e.last_name, e.email, e.phone
		FROM affiliations a
		JOIN entities e ON e.id = a.entity_id
		WHERE a.organization_id = $1 AND a.workspace_id = $2 AND a.is_active = true
		ORDER BY e.last_name ASC, e.first_name ASC`

	return r.queryRoster(ctx, query, RosterSourceAffiliation, organizationID, workspaceID)
}

// ListMemberContacts lists an organization's explicit members.
func (r *Repo) ListMemberContacts(ctx context.Context, workspaceID, organizationID uuid.UUID) ([]RosterEntry, error) {
	query := `
		SELECT m.id, e.id, e.first_name, e.last_name, e.email, e.phone
		FROM organization_members m
		JOIN entities e ON e.id = m.entity_id
		WHERE m.organization_id = $1 AND m.workspace_id = $2
		ORDER BY e.last_name ASC, e.first_name ASC`

	return r.queryRoster(ctx, query, RosterSourceMember, organizationID, workspaceID)
}

func (r *Repo) queryRoster(ctx context.Context, query, source string, organizationID, workspaceID uuid.UUID) ([]RosterEntry, error) {
	rows, err := r.pool.Query(ctx, query, organizationID, workspaceID)
	if err != nil {
		if isUndefinedTable(err) {
			return []RosterEntry{}, nil
		}
		return nil, fmt.Errorf("list %s contacts: %w", source, err)
	}
	defer rows.Close()

	items := make([]RosterEntry, 0)
	for rows.Next() {
		var entry RosterEntry
		var firstName, lastName *string
		if err := rows.Scan(&entry.ID, &entry.EntityID, &firstName, &lastName, &entry.Email, &entry.Phone); err != nil {
			return nil, fmt.Errorf("scan %s contact: %w", source, err)
		}
		entry.Source = source
		if name := joinName(firstName, lastName); name != nil {
			entry.DisplayName = *name
		}
		items = append(items, entry)
	}
	if rows.Err() != nil {
		if isUndefinedTable(rows.Err()) {
			return []RosterEntry{}, nil
		}
		return nil, fmt.Errorf("iterate %s contacts: %w", source, rows.Err())
	}
	return items, nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}

func joinName(first, last *string) *string {
	name := ""
	if first != nil {
		name = *first
	}
	if last != nil {
		if name != "" {
			name += " "
		}
		name += *last
	}
	if name == "" {
		return nil
	}
	return &name
}
