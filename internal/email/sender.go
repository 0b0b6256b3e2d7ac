// Package email sends transactional mail for crew and handover notifications.
package email

import "context"

// Sender delivers the notification emails the event bus subscribers produce.
type Sender interface {
	SendCrewAssignmentEmail(ctx context.Context, toEmail, assigneeName, role, productionName, startsAt string) error
	SendHandoverEmail(ctx context.Context, toEmail, dealTitle, productionName, startsAt string) error
}

// NoopSender drops every email. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendCrewAssignmentEmail(context.Context, string, string, string, string, string) error {
	return nil
}

func (NoopSender) SendHandoverEmail(context.Context, string, string, string, string) error {
	return nil
}
