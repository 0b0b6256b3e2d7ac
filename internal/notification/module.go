// Package notification sends emails in response to domain events.
// This module subscribes to the event bus and inverts the dependency: domain
// modules never need to know about SMTP or templates.
package notification

import (
	"context"
	"strings"
	"time"

	"showdesk_backend/internal/email"
	"showdesk_backend/internal/events"
	"showdesk_backend/platform/config"
	"showdesk_backend/platform/logger"

	"github.com/google/uuid"
)

const emailTimeLayout = "Monday, 2 January 2006 15:04"

// EntityEmailReader resolves a person's email address for notification fan-out.
type EntityEmailReader interface {
	GetEntityEmail(ctx context.Context, workspaceID, entityID uuid.UUID) (*string, error)
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender email.Sender
	emails EntityEmailReader
	cfg    config.NotificationConfig
	log    *logger.Logger
}

// New creates a new notification module.
func New(sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		sender: sender,
		cfg:    cfg,
		log:    log,
	}
}

// SetEntityEmailReader injects the reader used to resolve assignee addresses.
func (m *Module) SetEntityEmailReader(reader EntityEmailReader) { m.emails = reader }

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CrewMemberAssigned{}.EventName(), m)
	bus.Subscribe(events.DealHandedOver{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CrewMemberAssigned:
		return m.handleCrewMemberAssigned(ctx, e)
	case events.DealHandedOver:
		return m.handleDealHandedOver(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleCrewMemberAssigned(ctx context.Context, e events.CrewMemberAssigned) error {
	if m.emails == nil {
		return nil
	}

	address, err := m.emails.GetEntityEmail(ctx, e.WorkspaceID, e.AssigneeID)
	if err != nil {
		m.log.Warn("failed to resolve assignee email",
			"assigneeId", e.AssigneeID,
			"productionId", e.ProductionID,
			"error", err,
		)
		return nil
	}
	if address == nil || strings.TrimSpace(*address) == "" {
		m.log.Debug("assignee has no email on record; skipping", "assigneeId", e.AssigneeID)
		return nil
	}

	startsAt := formatEmailTime(e.StartsAt)
	if err := m.sender.SendCrewAssignmentEmail(ctx, *address, e.AssigneeName, e.Role, e.ProductionName, startsAt); err != nil {
		m.log.Error("failed to send crew assignment email",
			"assigneeId", e.AssigneeID,
			"productionId", e.ProductionID,
			"error", err,
		)
		return err
	}
	m.log.Info("crew assignment email sent", "assigneeId", e.AssigneeID, "productionId", e.ProductionID, "role", e.Role)
	return nil
}

func (m *Module) handleDealHandedOver(ctx context.Context, e events.DealHandedOver) error {
	toEmail := strings.TrimSpace(m.cfg.GetOpsNotifyEmail())
	if toEmail == "" {
		return nil
	}

	startsAt := formatEmailTime(e.StartsAt)
	if err := m.sender.SendHandoverEmail(ctx, toEmail, e.DealTitle, e.ProductionName, startsAt); err != nil {
		m.log.Error("failed to send handover email",
			"dealId", e.DealID,
			"productionId", e.ProductionID,
			"error", err,
		)
		return err
	}
	m.log.Info("handover email sent", "dealId", e.DealID, "productionId", e.ProductionID)
	return nil
}

func formatEmailTime(t time.Time) string {
	if t.IsZero() {
		return "to be scheduled"
	}
	return t.Format(emailTimeLayout)
}
