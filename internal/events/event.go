// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"showdesk_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Deal Domain Events
// =============================================================================

// DealHandedOver is published when a deal is converted into a production.
type DealHandedOver struct {
	BaseEvent
	WorkspaceID    uuid.UUID `json:"workspaceId"`
	DealID         uuid.UUID `json:"dealId"`
	ProjectID      uuid.UUID `json:"projectId"`
	ProductionID   uuid.UUID `json:"productionId"`
	DealTitle      string    `json:"dealTitle"`
	ProductionName string    `json:"productionName"`
	StartsAt       time.Time `json:"startsAt"`
	CrewRoles      []string  `json:"crewRoles"`
}

func (e DealHandedOver) EventName() string { return "deals.handed_over" }

// StakeholderAdded is published when a party is connected to a deal.
type StakeholderAdded struct {
	BaseEvent
	WorkspaceID   uuid.UUID `json:"workspaceId"`
	DealID        uuid.UUID `json:"dealId"`
	StakeholderID uuid.UUID `json:"stakeholderId"`
	Role          string    `json:"role"`
}

func (e StakeholderAdded) EventName() string { return "deals.stakeholder.added" }

// =============================================================================
// Production Domain Events
// =============================================================================

// CrewMemberAssigned is published when an internal team member is assigned to
// a crew slot on a production.
type CrewMemberAssigned struct {
	BaseEvent
	WorkspaceID    uuid.UUID `json:"workspaceId"`
	ProductionID   uuid.UUID `json:"productionId"`
	ProductionName string    `json:"productionName"`
	Role           string    `json:"role"`
	AssigneeID     uuid.UUID `json:"assigneeId"`
	AssigneeName   string    `json:"assigneeName"`
	StartsAt       time.Time `json:"startsAt"`
}

func (e CrewMemberAssigned) EventName() string { return "productions.crew.assigned" }

// CrewRolesSynced is published after a crew-sync repair pass adds derived
// roles to a production's run-of-show.
type CrewRolesSynced struct {
	BaseEvent
	WorkspaceID  uuid.UUID `json:"workspaceId"`
	DealID       uuid.UUID `json:"dealId"`
	ProductionID uuid.UUID `json:"productionId"`
	Roles        []string  `json:"roles"`
	Added        int       `json:"added"`
}

func (e CrewRolesSynced) EventName() string { return "productions.crew.synced" }
