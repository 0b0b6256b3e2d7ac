// Package domain provides the stakeholder identity model. A stakeholder slot
// represents a company, a person, or a person-at-a-company; the three cases
// are an explicit tagged variant so every display rule handles all of them.
package domain

import (
	"github.com/google/uuid"
)

// Stakeholder roles a party can hold on a deal.
const (
	RoleBillTo       = "bill_to"
	RolePlanner      = "planner"
	RoleVenueContact = "venue_contact"
	RoleVendor       = "vendor"
)

// Identity kinds.
const (
	KindOrganization            = "organization"
	KindPerson                  = "person"
	KindOrganizationWithContact = "organization_with_contact"
)

// Identity is the party a stakeholder slot points at.
type Identity struct {
	Kind           string
	OrganizationID *uuid.UUID
	EntityID       *uuid.UUID
}

// NewIdentity classifies an organization/person reference pair into one of
// the three identity kinds. Both references absent is not an identity.
func NewIdentity(organizationID, entityID *uuid.UUID) (Identity, bool) {
	switch {
	case organizationID != nil && entityID != nil:
		return Identity{Kind: KindOrganizationWithContact, OrganizationID: organizationID, EntityID: entityID}, true
	case organizationID != nil:
		return Identity{Kind: KindOrganization, OrganizationID: organizationID}, true
	case entityID != nil:
		return Identity{Kind: KindPerson, EntityID: entityID}, true
	default:
		return Identity{}, false
	}
}

// Display resolves the primary display name and subtitle for an identity.
// A person-at-a-company shows the person first with the company beneath;
// a lone organization or person shows just its own name.
func (i Identity) Display(organizationName, personName string) (primary, subtitle string) {
	switch i.Kind {
	case KindOrganizationWithContact:
		return personName, organizationName
	case KindOrganization:
		return organizationName, ""
	case KindPerson:
		return personName, ""
	default:
		return "", ""
	}
}

// ValidRole reports whether a role is one of the known stakeholder roles.
func ValidRole(role string) bool {
	switch role {
	case RoleBillTo, RolePlanner, RoleVenueContact, RoleVendor:
		return true
	default:
		return false
	}
}
