package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewIdentityClassification(t *testing.T) {
	orgID := uuid.New()
	entityID := uuid.New()

	identity, ok := NewIdentity(&orgID, nil)
	if !ok || identity.Kind != KindOrganization {
		t.Fatalf("expected organization kind, got %+v ok=%v", identity, ok)
	}

	identity, ok = NewIdentity(nil, &entityID)
	if !ok || identity.Kind != KindPerson {
		t.Fatalf("expected person kind, got %+v ok=%v", identity, ok)
	}

	identity, ok = NewIdentity(&orgID, &entityID)
	if !ok || identity.Kind != KindOrganizationWithContact {
		t.Fatalf("expected dual kind, got %+v ok=%v", identity, ok)
	}

	if _, ok = NewIdentity(nil, nil); ok {
		t.Fatal("an identity needs at least one reference")
	}
}

func TestDisplayRules(t *testing.T) {
	orgID := uuid.New()
	entityID := uuid.New()

	identity, _ := NewIdentity(&orgID, &entityID)
	primary, subtitle := identity.Display("Stage & Sound BV", "Robin Kim")
	if primary != "Robin Kim" || subtitle != "Stage & Sound BV" {
		t.Fatalf("dual node: got primary=%q subtitle=%q", primary, subtitle)
	}

	identity, _ = NewIdentity(&orgID, nil)
	primary, subtitle = identity.Display("Stage & Sound BV", "")
	if primary != "Stage & Sound BV" || subtitle != "" {
		t.Fatalf("organization: got primary=%q subtitle=%q", primary, subtitle)
	}

	identity, _ = NewIdentity(nil, &entityID)
	primary, subtitle = identity.Display("", "Robin Kim")
	if primary != "Robin Kim" || subtitle != "" {
		t.Fatalf("person: got primary=%q subtitle=%q", primary, subtitle)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleBillTo, RolePlanner, RoleVenueContact, RoleVendor} {
		if !ValidRole(role) {
			t.Errorf("%q should be valid", role)
		}
	}
	if ValidRole("caterer") {
		t.Error("unknown role accepted")
	}
}
