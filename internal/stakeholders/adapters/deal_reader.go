// Package adapters implements the stakeholders domain's outbound ports.
package adapters

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	dealsrepo "showdesk_backend/internal/deals/repository"
	"showdesk_backend/internal/stakeholders/ports"
)

// DealReaderAdapter implements ports.DealReader on the deals repository.
type DealReaderAdapter struct {
	repo dealsrepo.Repository
}

func NewDealReaderAdapter(repo dealsrepo.Repository) *DealReaderAdapter {
	return &DealReaderAdapter{repo: repo}
}

var _ ports.DealReader = (*DealReaderAdapter)(nil)

func (a *DealReaderAdapter) DealExists(ctx context.Context, workspaceID, dealID uuid.UUID) error {
	if a == nil || a.repo == nil {
		return fmt.Errorf("deal reader not configured")
	}
	_, err := a.repo.GetDealByID(ctx, workspaceID, dealID)
	return err
}
