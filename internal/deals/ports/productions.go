package ports

import (
	"context"

	"github.com/google/uuid"
)

// CrewState is the production-side crew plan as the deals domain sees it.
type CrewState struct {
	Roles         []string
	AssignedRoles []string
}

// ProductionGateway is how the deals domain reads and repairs the crew plan
// of a production it handed over.
type ProductionGateway interface {
	// GetCrewState returns the declared roles and the roles that already have
	// a crew member attached.
	GetCrewState(ctx context.Context, workspaceID, productionID uuid.UUID) (CrewState, error)

	// MergeCrewRoles adds the given roles to the production's crew plan
	// without disturbing existing entries. Returns how many roles were
	// actually added.
	MergeCrewRoles(ctx context.Context, workspaceID, productionID uuid.UUID, roles []string) (int, error)
}

// SyncScheduler enqueues a delayed crew-plan repair for a production, run
// after the handover settles so late proposal edits are picked up.
type SyncScheduler interface {
	ScheduleCrewSync(ctx context.Context, workspaceID, dealID, productionID uuid.UUID) error
}
