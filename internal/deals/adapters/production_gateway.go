package adapters

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"showdesk_backend/internal/deals/ports"
	productionsvc "showdesk_backend/internal/productions/service"
)

// ProductionGatewayAdapter implements ports.ProductionGateway on the
// productions service, so crew-plan repairs go through the same
// compare-and-set path as every other run-of-show write.
type ProductionGatewayAdapter struct {
	svc *productionsvc.Service
}

func NewProductionGatewayAdapter(svc *productionsvc.Service) *ProductionGatewayAdapter {
	return &ProductionGatewayAdapter{svc: svc}
}

var _ ports.ProductionGateway = (*ProductionGatewayAdapter)(nil)

func (a *ProductionGatewayAdapter) GetCrewState(ctx context.Context, workspaceID, productionID uuid.UUID) (ports.CrewState, error) {
	if a == nil || a.svc == nil {
		return ports.CrewState{}, fmt.Errorf("production gateway not configured")
	}

	doc, _, err := a.svc.GetRunOfShow(ctx, workspaceID, productionID)
	if err != nil {
		return ports.CrewState{}, err
	}

	state := ports.CrewState{
		Roles:         doc.CrewRoles,
		AssignedRoles: make([]string, 0, len(doc.CrewItems)),
	}
	for _, item := range doc.CrewItems {
		if item.EntityID != nil {
			state.AssignedRoles = append(state.AssignedRoles, item.Role)
		}
	}
	return state, nil
}

func (a *ProductionGatewayAdapter) MergeCrewRoles(ctx context.Context, workspaceID, productionID uuid.UUID, roles []string) (int, error) {
	if a == nil || a.svc == nil {
		return 0, fmt.Errorf("production gateway not configured")
	}
	return a.svc.MergeCrewRoles(ctx, workspaceID, productionID, roles)
}
