// Package domain provides core business rules for the productions bounded
// context: the run-of-show document, its section-merge semantics, and the
// flight-check status machines that operate on it.
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Crew item statuses. Advancing cycles through them in order.
const (
	CrewStatusRequested  = "requested"
	CrewStatusConfirmed  = "confirmed"
	CrewStatusDispatched = "dispatched"
)

// Gear item statuses. Advancing cycles through them in order.
const (
	GearStatusPending = "pending"
	GearStatusPulled  = "pulled"
	GearStatusLoaded  = "loaded"
)

// Logistics keys addressable by the toggle operation.
const (
	LogisticsVenueAccess = "venue_access_confirmed"
	LogisticsTruckLoaded = "truck_loaded"
	LogisticsCrew        = "crew_confirmed"
)

// CrewItem is one staffed (or to-be-staffed) role on a production.
type CrewItem struct {
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	EntityID     *uuid.UUID `json:"entity_id,omitempty"`
	AssigneeName *string    `json:"assignee_name,omitempty"`
}

// GearItem is one tracked piece of equipment.
type GearItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Logistics holds the three readiness booleans. A document without a
// logistics section reads as all-false.
type Logistics struct {
	VenueAccessConfirmed bool `json:"venue_access_confirmed"`
	TruckLoaded          bool `json:"truck_loaded"`
	CrewConfirmed        bool `json:"crew_confirmed"`
}

// Document is the run-of-show operational state of a production. Sections
// evolve independently: a writer replaces only the sections it provides.
type Document struct {
	CrewRoles         []string   `json:"crew_roles,omitempty"`
	CrewItems         []CrewItem `json:"crew_items,omitempty"`
	GearItems         []GearItem `json:"gear_items,omitempty"`
	Logistics         *Logistics `json:"logistics,omitempty"`
	GearRequirements  *string    `json:"gear_requirements,omitempty"`
	VenueRestrictions *string    `json:"venue_restrictions,omitempty"`
}

// Patch is a partial document update. A nil field leaves the section
// untouched; a non-nil field replaces the section wholesale, including
// replacement with an explicitly empty value.
type Patch struct {
	CrewRoles         *[]string
	CrewItems         *[]CrewItem
	GearItems         *[]GearItem
	Logistics         *Logistics
	GearRequirements  *string
	VenueRestrictions *string
}

// IsEmpty reports whether the patch provides no sections at all.
func (p Patch) IsEmpty() bool {
	return p.CrewRoles == nil && p.CrewItems == nil && p.GearItems == nil &&
		p.Logistics == nil && p.GearRequirements == nil && p.VenueRestrictions == nil
}

// ApplyPatch merges a partial update into the document. Only sections present
// in the patch are replaced; sibling sections are never touched.
func ApplyPatch(doc Document, patch Patch) Document {
	if patch.CrewRoles != nil {
		doc.CrewRoles = *patch.CrewRoles
	}
	if patch.CrewItems != nil {
		doc.CrewItems = *patch.CrewItems
	}
	if patch.GearItems != nil {
		doc.GearItems = *patch.GearItems
	}
	if patch.Logistics != nil {
		logistics := *patch.Logistics
		doc.Logistics = &logistics
	}
	if patch.GearRequirements != nil {
		doc.GearRequirements = patch.GearRequirements
	}
	if patch.VenueRestrictions != nil {
		doc.VenueRestrictions = patch.VenueRestrictions
	}
	return doc
}

// NormalizeCrewItems returns the authoritative crew list for the document.
// A populated crew_items section wins; otherwise one placeholder item per
// crew_roles entry is synthesized with status requested and no assignee.
// The same precedence applies everywhere crew is read for display.
func NormalizeCrewItems(doc Document) []CrewItem {
	if len(doc.CrewItems) > 0 {
		items := make([]CrewItem, len(doc.CrewItems))
		copy(items, doc.CrewItems)
		for i := range items {
			if items[i].Status == "" {
				items[i].Status = CrewStatusRequested
			}
		}
		return items
	}

	items := make([]CrewItem, 0, len(doc.CrewRoles))
	for _, role := range doc.CrewRoles {
		items = append(items, CrewItem{Role: role, Status: CrewStatusRequested})
	}
	return items
}

// NextCrewStatus advances a crew status one step around the
// requested → confirmed → dispatched cycle. Unknown statuses reset to
// requested.
func NextCrewStatus(status string) string {
	switch status {
	case CrewStatusRequested:
		return CrewStatusConfirmed
	case CrewStatusConfirmed:
		return CrewStatusDispatched
	default:
		return CrewStatusRequested
	}
}

// NextGearStatus advances a gear status one step around the
// pending → pulled → loaded cycle. Unknown statuses reset to pending.
func NextGearStatus(status string) string {
	switch status {
	case GearStatusPending:
		return GearStatusPulled
	case GearStatusPulled:
		return GearStatusLoaded
	default:
		return GearStatusPending
	}
}

// ToggleLogistics flips one logistics key. A missing logistics section is
// treated as all-false before the flip, so the untouched keys default rather
// than error.
func ToggleLogistics(doc Document, key string) (Logistics, bool) {
	logistics := Logistics{}
	if doc.Logistics != nil {
		logistics = *doc.Logistics
	}

	switch key {
	case LogisticsVenueAccess:
		logistics.VenueAccessConfirmed = !logistics.VenueAccessConfirmed
	case LogisticsTruckLoaded:
		logistics.TruckLoaded = !logistics.TruckLoaded
	case LogisticsCrew:
		logistics.CrewConfirmed = !logistics.CrewConfirmed
	default:
		return logistics, false
	}
	return logistics, true
}

// UnionRoles appends the trimmed members of extra that are not already in
// base, preserving base's order. Matching is case-sensitive exact-string:
// role names are treated as opaque labels.
func UnionRoles(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	result := make([]string, 0, len(base)+len(extra))
	for _, role := range base {
		trimmed := strings.TrimSpace(role)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		result = append(result, trimmed)
	}
	for _, role := range extra {
		trimmed := strings.TrimSpace(role)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		result = append(result, trimmed)
	}
	return result
}

// MissingRoles returns the members of roles that have no crew item yet.
func MissingRoles(items []CrewItem, roles []string) []string {
	present := make(map[string]bool, len(items))
	for _, item := range items {
		present[strings.TrimSpace(item.Role)] = true
	}

	missing := make([]string, 0)
	for _, role := range roles {
		trimmed := strings.TrimSpace(role)
		if trimmed == "" || present[trimmed] {
			continue
		}
		present[trimmed] = true
		missing = append(missing, trimmed)
	}
	return missing
}
