package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"showdesk_backend/platform/apperr"
)

// CreateProposal creates a proposal attached to a deal.
func (r *Repo) CreateProposal(ctx context.Context, params CreateProposalParams) (Proposal, error) {
	query := `
		INSERT INTO proposals (workspace_id, deal_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, workspace_id, deal_id, status, accepted_at, created_at, updated_at`

	proposal, err := scanProposal(r.pool.QueryRow(ctx, query, params.WorkspaceID, params.DealID, params.Status))
	if err != nil {
		return Proposal{}, fmt.Errorf("create proposal: %w", err)
	}
	return proposal, nil
}

// GetProposalByID retrieves a proposal by ID.
func (r *Repo) GetProposalByID(ctx context.Context, workspaceID, id uuid.UUID) (Proposal, error) {
	query := `
		SELECT id, workspace_id, deal_id, status, accepted_at, created_at, updated_at
		FROM proposals
		WHERE id = $1 AND workspace_id = $2`

	proposal, err := scanProposal(r.pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Proposal{}, apperr.NotFound("proposal not found")
		}
		return Proposal{}, fmt.Errorf("get proposal by id: %w", err)
	}
	return proposal, nil
}

// UpdateProposalStatus moves a proposal to a new status. Moving to accepted
// stamps accepted_at; the stamp survives later reads unchanged.
func (r *Repo) UpdateProposalStatus(ctx context.Context, workspaceID, id uuid.UUID, status string) (Proposal, error) {
	query := `
		UPDATE proposals
		SET status = $3,
			accepted_at = CASE WHEN $3 = 'accepted' THEN COALESCE(accepted_at, now()) ELSE accepted_at END,
			updated_at = now()
		WHERE id = $1 AND workspace_id = $2
		RETURNING id, workspace_id, deal_id, status, accepted_at, created_at, updated_at`

	proposal, err := scanProposal(r.pool.QueryRow(ctx, query, id, workspaceID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Proposal{}, apperr.NotFound("proposal not found")
		}
		return Proposal{}, fmt.Errorf("update proposal status: %w", err)
	}
	return proposal, nil
}

// GoverningProposal finds the proposal whose line items govern staffing for a
// deal. Accepted, sent and viewed proposals rank ahead of drafts; within a
// rank the newest proposal wins. Returns nil when the deal has no proposals.
func (r *Repo) GoverningProposal(ctx context.Context, workspaceID, dealID uuid.UUID) (*Proposal, error) {
	query := `
		SELECT id, workspace_id, deal_id, status, accepted_at, created_at, updated_at
		FROM proposals
		WHERE workspace_id = $1 AND deal_id = $2
		ORDER BY (status IN ('accepted', 'sent', 'viewed')) DESC, created_at DESC
		LIMIT 1`

	proposal, err := scanProposal(r.pool.QueryRow(ctx, query, workspaceID, dealID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("governing proposal: %w", err)
	}
	return &proposal, nil
}

// ListProposalItems lists the line items of a proposal in insertion order.
func (r *Repo) ListProposalItems(ctx context.Context, proposalID uuid.UUID) ([]ProposalItem, error) {
	query := `
		SELECT id, proposal_id, package_id, origin_package_id, name, quantity, created_at
		FROM proposal_items
		WHERE proposal_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("list proposal items: %w", err)
	}
	defer rows.Close()

	items := make([]ProposalItem, 0)
	for rows.Next() {
		var item ProposalItem
		var createdAt time.Time
		if err := rows.Scan(&item.ID, &item.ProposalID, &item.PackageID, &item.OriginPackageID, &item.Name, &item.Quantity, &createdAt); err != nil {
			return nil, fmt.Errorf("scan proposal item: %w", err)
		}
		item.CreatedAt = createdAt.Format(time.RFC3339)
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate proposal items: %w", rows.Err())
	}
	return items, nil
}

// CreateProposalItem adds a line item to a proposal.
func (r *Repo) CreateProposalItem(ctx context.Context, params CreateProposalItemParams) (ProposalItem, error) {
	query := `
		INSERT INTO proposal_items (proposal_id, package_id, origin_package_id, name, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, proposal_id, package_id, origin_package_id, name, quantity, created_at`

	var item ProposalItem
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query, params.ProposalID, params.PackageID, params.OriginPackageID, params.Name, params.Quantity).Scan(
		&item.ID, &item.ProposalID, &item.PackageID, &item.OriginPackageID, &item.Name, &item.Quantity, &createdAt,
	); err != nil {
		return ProposalItem{}, fmt.Errorf("create proposal item: %w", err)
	}
	item.CreatedAt = createdAt.Format(time.RFC3339)
	return item, nil
}

func scanProposal(row pgx.Row) (Proposal, error) {
	var proposal Proposal
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&proposal.ID, &proposal.WorkspaceID, &proposal.DealID, &proposal.Status,
		&proposal.AcceptedAt, &createdAt, &updatedAt,
	); err != nil {
		return Proposal{}, err
	}
	proposal.CreatedAt = createdAt.Format(time.RFC3339)
	proposal.UpdatedAt = updatedAt.Format(time.RFC3339)
	return proposal, nil
}
