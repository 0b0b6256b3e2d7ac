package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"showdesk_backend/internal/events"
	"showdesk_backend/platform/logger"
)

type sentMail struct {
	kind    string
	toEmail string
	role    string
}

type fakeSender struct {
	sent []sentMail
}

func (f *fakeSender) SendCrewAssignmentEmail(_ context.Context, toEmail, _, role, _, _ string) error {
	f.sent = append(f.sent, sentMail{kind: "crew_assignment", toEmail: toEmail, role: role})
	return nil
}

func (f *fakeSender) SendHandoverEmail(_ context.Context, toEmail, _, _, _ string) error {
	f.sent = append(f.sent, sentMail{kind: "handover", toEmail: toEmail})
	return nil
}

type fakeEmailReader struct {
	email *string
	err   error
}

func (f *fakeEmailReader) GetEntityEmail(_ context.Context, _, _ uuid.UUID) (*string, error) {
	return f.email, f.err
}

type testConfig struct {
	opsEmail string
}

func (c testConfig) GetOpsNotifyEmail() string { return c.opsEmail }

func newTestModule(sender *fakeSender, reader EntityEmailReader, opsEmail string) *Module {
	m := New(sender, testConfig{opsEmail: opsEmail}, logger.New("development"))
	if reader != nil {
		m.SetEntityEmailReader(reader)
	}
	return m
}

func TestCrewMemberAssignedSendsToAssignee(t *testing.T) {
	address := "dana@example.com"
	sender := &fakeSender{}
	m := newTestModule(sender, &fakeEmailReader{email: &address}, "")

	err := m.Handle(context.Background(), events.CrewMemberAssigned{
		BaseEvent:      events.NewBaseEvent(),
		WorkspaceID:    uuid.New(),
		ProductionID:   uuid.New(),
		ProductionName: "Summer Gala",
		Role:           "audio_tech",
		AssigneeID:     uuid.New(),
		AssigneeName:   "Dana Ortiz",
		StartsAt:       time.Date(2026, 6, 12, 8, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	if sender.sent[0].toEmail != address || sender.sent[0].role != "audio_tech" {
		t.Fatalf("unexpected email: %+v", sender.sent[0])
	}
}

func TestCrewMemberAssignedSkipsWhenNoAddress(t *testing.T) {
	sender := &fakeSender{}
	m := newTestModule(sender, &fakeEmailReader{}, "")

	err := m.Handle(context.Background(), events.CrewMemberAssigned{
		BaseEvent:   events.NewBaseEvent(),
		WorkspaceID: uuid.New(),
		AssigneeID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no email, got %d", len(sender.sent))
	}
}

func TestCrewMemberAssignedLookupFailureDoesNotPropagate(t *testing.T) {
	sender := &fakeSender{}
	m := newTestModule(sender, &fakeEmailReader{err: errors.New("db down")}, "")

	err := m.Handle(context.Background(), events.CrewMemberAssigned{
		BaseEvent:   events.NewBaseEvent(),
		WorkspaceID: uuid.New(),
		AssigneeID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("lookup failure should be swallowed, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("expected no email after lookup failure")
	}
}

func TestDealHandedOverSendsToOpsAddress(t *testing.T) {
	sender := &fakeSender{}
	m := newTestModule(sender, nil, "ops@example.com")

	err := m.Handle(context.Background(), events.DealHandedOver{
		BaseEvent:      events.NewBaseEvent(),
		WorkspaceID:    uuid.New(),
		DealID:         uuid.New(),
		ProductionID:   uuid.New(),
		DealTitle:      "Acme Launch Party",
		ProductionName: "Acme Launch Party",
		StartsAt:       time.Date(2026, 9, 3, 18, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].toEmail != "ops@example.com" {
		t.Fatalf("expected one handover email to ops, got %+v", sender.sent)
	}
}

func TestDealHandedOverSkipsWithoutOpsAddress(t *testing.T) {
	sender := &fakeSender{}
	m := newTestModule(sender, nil, "")

	err := m.Handle(context.Background(), events.DealHandedOver{
		BaseEvent:   events.NewBaseEvent(),
		WorkspaceID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("expected no email without a configured ops address")
	}
}
