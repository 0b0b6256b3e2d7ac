package domain

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestApplyPatchReplacesOnlyProvidedSections(t *testing.T) {
	doc := Document{
		CrewItems: []CrewItem{{Role: "DJ", Status: CrewStatusConfirmed}},
		GearItems: []GearItem{{ID: "g1", Name: "PA rig", Status: GearStatusPending}},
		Logistics: &Logistics{TruckLoaded: true},
	}

	updated := ApplyPatch(doc, Patch{
		GearItems: &[]GearItem{{ID: "g2", Name: "Lighting truss", Status: GearStatusPulled}},
	})

	if len(updated.GearItems) != 1 || updated.GearItems[0].ID != "g2" {
		t.Fatalf("expected gear section replaced, got %#v", updated.GearItems)
	}
	if !reflect.DeepEqual(updated.CrewItems, doc.CrewItems) {
		t.Fatalf("crew section must be untouched, got %#v", updated.CrewItems)
	}
	if updated.Logistics == nil || !updated.Logistics.TruckLoaded {
		t.Fatalf("logistics section must be untouched, got %#v", updated.Logistics)
	}
}

func TestApplyPatchReplacesWithExplicitEmpty(t *testing.T) {
	doc := Document{GearItems: []GearItem{{ID: "g1", Name: "PA rig", Status: GearStatusLoaded}}}

	updated := ApplyPatch(doc, Patch{GearItems: &[]GearItem{}})
	if len(updated.GearItems) != 0 {
		t.Fatalf("explicit empty section must clear, got %#v", updated.GearItems)
	}
}

func TestApplyPatchFreeTextFields(t *testing.T) {
	doc := Document{VenueRestrictions: strPtr("no pyro")}
	updated := ApplyPatch(doc, Patch{GearRequirements: strPtr("2x CDJ-3000")})

	if updated.GearRequirements == nil || *updated.GearRequirements != "2x CDJ-3000" {
		t.Fatalf("gear requirements not applied: %#v", updated.GearRequirements)
	}
	if updated.VenueRestrictions == nil || *updated.VenueRestrictions != "no pyro" {
		t.Fatalf("venue restrictions must be untouched: %#v", updated.VenueRestrictions)
	}
}

func TestNormalizeCrewItemsStructuredListWins(t *testing.T) {
	doc := Document{
		CrewRoles: []string{"DJ", "Lighting Tech"},
		CrewItems: []CrewItem{{Role: "DJ", Status: CrewStatusDispatched}},
	}

	items := NormalizeCrewItems(doc)
	if len(items) != 1 || items[0].Status != CrewStatusDispatched {
		t.Fatalf("crew_items must be authoritative, got %#v", items)
	}
}

func TestNormalizeCrewItemsSynthesizesFromRoles(t *testing.T) {
	doc := Document{CrewRoles: []string{"DJ", "Stagehand"}}

	items := NormalizeCrewItems(doc)
	if len(items) != 2 {
		t.Fatalf("expected one item per role, got %#v", items)
	}
	for _, item := range items {
		if item.Status != CrewStatusRequested {
			t.Fatalf("synthesized items must start requested, got %q", item.Status)
		}
		if item.EntityID != nil || item.AssigneeName != nil {
			t.Fatalf("synthesized items must have no assignee, got %#v", item)
		}
	}
}

func TestNormalizeCrewItemsDoesNotAliasDocument(t *testing.T) {
	doc := Document{CrewItems: []CrewItem{{Role: "DJ", Status: CrewStatusRequested}}}

	items := NormalizeCrewItems(doc)
	items[0].Status = CrewStatusDispatched
	if doc.CrewItems[0].Status != CrewStatusRequested {
		t.Fatal("normalization must copy, not alias, the stored list")
	}
}

func TestCrewStatusFullCycle(t *testing.T) {
	status := CrewStatusRequested
	for i := 0; i < 3; i++ {
		status = NextCrewStatus(status)
	}
	if status != CrewStatusRequested {
		t.Fatalf("three advances must return to requested, got %q", status)
	}
}

func TestGearStatusFullCycle(t *testing.T) {
	status := GearStatusPending
	steps := []string{GearStatusPulled, GearStatusLoaded, GearStatusPending}
	for _, want := range steps {
		status = NextGearStatus(status)
		if status != want {
			t.Fatalf("expected %q, got %q", want, status)
		}
	}
}

func TestToggleLogisticsDefaultsMissingSection(t *testing.T) {
	logistics, ok := ToggleLogistics(Document{}, LogisticsTruckLoaded)
	if !ok {
		t.Fatal("known key must toggle")
	}
	if !logistics.TruckLoaded {
		t.Fatal("toggled key must flip from the false default")
	}
	if logistics.VenueAccessConfirmed || logistics.CrewConfirmed {
		t.Fatalf("untouched keys must default to false, got %#v", logistics)
	}
}

func TestToggleLogisticsUnknownKey(t *testing.T) {
	if _, ok := ToggleLogistics(Document{}, "catering_confirmed"); ok {
		t.Fatal("unknown key must be rejected")
	}
}

func TestUnionRolesDedupesAndTrims(t *testing.T) {
	got := UnionRoles([]string{"DJ", " Lighting Tech "}, []string{"DJ", "Stagehand", ""})
	want := []string{"DJ", "Lighting Tech", "Stagehand"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestUnionRolesIsCaseSensitive(t *testing.T) {
	got := UnionRoles([]string{"DJ"}, []string{"dj"})
	if len(got) != 2 {
		t.Fatalf("role names are opaque labels; case variants are distinct, got %v", got)
	}
}

func TestMissingRoles(t *testing.T) {
	items := []CrewItem{{Role: "DJ"}, {Role: "Stagehand"}}
	got := MissingRoles(items, []string{"DJ", "Lighting Tech", "Lighting Tech"})
	if !reflect.DeepEqual(got, []string{"Lighting Tech"}) {
		t.Fatalf("got %v", got)
	}
}
