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

// CommitHandover performs every write of a deal handover in one transaction:
// project resolution, production creation, the won transition on the deal and
// the contract seed. The deal row update carries its own guards so a
// concurrent handover of the same deal loses cleanly instead of producing a
// second production.
func (r *Repo) CommitHandover(ctx context.Context, params CommitHandoverParams) (HandoverResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return HandoverResult{}, fmt.Errorf("begin handover: %w", err)
	}
	defer tx.Rollback(ctx)

	var result HandoverResult

	if params.ProjectID != nil {
		result.ProjectID = *params.ProjectID
		// Late-bound client: an existing project picked up by the handover
		// adopts the deal's client when it has none yet.
		if params.ClientOrgID != nil {
			if _, err := tx.Exec(ctx, `
				UPDATE projects
				SET client_org_id = COALESCE(client_org_id, $3), updated_at = now()
				WHERE id = $1 AND workspace_id = $2
			`, *params.ProjectID, params.WorkspaceID, params.ClientOrgID); err != nil {
				return HandoverResult{}, fmt.Errorf("link project client: %w", err)
			}
		}
	} else {
		if err := tx.QueryRow(ctx, `
			INSERT INTO projects (workspace_id, name, client_org_id)
			VALUES ($1, $2, $3)
			RETURNING id
		`, params.WorkspaceID, params.NewProjectName, params.ClientOrgID).Scan(&result.ProjectID); err != nil {
			return HandoverResult{}, fmt.Errorf("create project: %w", err)
		}
	}

	if err := tx.QueryRow(ctx, `
		INSERT INTO productions (workspace_id, project_id, name, status, venue_entity_id, starts_at, ends_at, run_of_show, run_of_show_rev)
		VALUES ($1, $2, $3, 'planned', $4, $5, $6, COALESCE($7, '{}'::jsonb), 1)
		RETURNING id
	`, params.WorkspaceID, result.ProjectID, params.ProductionName, params.VenueEntityID, params.StartsAt, params.EndsAt, params.RunOfShow).Scan(&result.ProductionID); err != nil {
		return HandoverResult{}, fmt.Errorf("create production: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE deals
		SET status = 'won', event_id = $3, updated_at = now()
		WHERE id = $1 AND workspace_id = $2
			AND event_id IS NULL
			AND status IN ('inquiry', 'proposal', 'contract_sent')
	`, params.DealID, params.WorkspaceID, result.ProductionID)
	if err != nil {
		return HandoverResult{}, fmt.Errorf("mark deal won: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return HandoverResult{}, apperr.Conflict("deal was handed over concurrently")
	}

	// A contract is seeded only when the deal actually has an accepted
	// proposal, signed at the proposal's acceptance time. Deals handed over
	// without one carry no contract.
	var acceptedAt *time.Time
	err = tx.QueryRow(ctx, `
		SELECT accepted_at FROM proposals
		WHERE deal_id = $1 AND workspace_id = $2 AND status = 'accepted'
		ORDER BY created_at DESC
		LIMIT 1
	`, params.DealID, params.WorkspaceID).Scan(&acceptedAt)
	switch {
	case err == nil:
		signedAt := time.Now().UTC()
		if acceptedAt != nil {
			signedAt = *acceptedAt
		}
		var contractID uuid.UUID
		if err := tx.QueryRow(ctx, `
			INSERT INTO contracts (workspace_id, deal_id, production_id, status, signed_at)
			VALUES ($1, $2, $3, 'signed', $4)
			RETURNING id
		`, params.WorkspaceID, params.DealID, result.ProductionID, signedAt).Scan(&contractID); err != nil {
			return HandoverResult{}, fmt.Errorf("seed contract: %w", err)
		}
		result.ContractID = &contractID
	case errors.Is(err, pgx.ErrNoRows):
		// no accepted proposal, no contract
	default:
		return HandoverResult{}, fmt.Errorf("find accepted proposal: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return HandoverResult{}, fmt.Errorf("commit handover: %w", err)
	}
	return result, nil
}
