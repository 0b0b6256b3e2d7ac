// Package ports defines the interfaces the stakeholders domain requires from
// other bounded contexts.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// DealReader verifies deal existence before stakeholder writes. A deal
// outside the caller's workspace reads as absent.
type DealReader interface {
	DealExists(ctx context.Context, workspaceID, dealID uuid.UUID) error
}
