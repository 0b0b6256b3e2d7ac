// Package crewplan derives the crew roles a production needs from the line
// items of a deal's governing proposal.
package crewplan

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"showdesk_backend/internal/deals/ports"
	"showdesk_backend/internal/deals/repository"
)

// Diagnosis steps, in the order the derivation short-circuits.
const (
	StepNoProposal      = "no_proposal"
	StepNoItems         = "no_items"
	StepNoPackageIDs    = "no_package_ids"
	StepNoPackagesFound = "no_packages_found"
	StepNoRoles         = "no_roles"
	StepOK              = "ok"
)

// maxLookupPasses bounds bundle expansion to one hop: the packages the
// proposal names directly, plus the ingredients of any bundles among them.
// Deeper nesting is ignored rather than followed.
const maxLookupPasses = 2

// ProposalSource is the slice of the deals repository the expander reads.
type ProposalSource interface {
	GoverningProposal(ctx context.Context, workspaceID, dealID uuid.UUID) (*repository.Proposal, error)
	ListProposalItems(ctx context.Context, proposalID uuid.UUID) ([]repository.ProposalItem, error)
}

// ResolvedPackage is one catalog entry the derivation touched, kept for the
// diagnostic trace.
type ResolvedPackage struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	StaffRole   string    `json:"staffRole,omitempty"`
	Ingredients int       `json:"ingredients"`
}

// Diagnosis explains how far a derivation got and what it produced. Step is
// ok when roles came out; otherwise it names the first empty stage.
type Diagnosis struct {
	Step       string            `json:"step"`
	ProposalID *uuid.UUID        `json:"proposalId,omitempty"`
	ItemCount  int               `json:"itemCount"`
	PackageIDs []uuid.UUID       `json:"packageIds"`
	Resolved   []ResolvedPackage `json:"resolved"`
	Roles      []string          `json:"roles"`
}

// Expander derives crew roles from proposal line items via the catalog.
type Expander struct {
	proposals ProposalSource
	catalog   ports.CatalogReader
}

func NewExpander(proposals ProposalSource, catalog ports.CatalogReader) *Expander {
	return &Expander{proposals: proposals, catalog: catalog}
}

// DeriveRoles returns the deduplicated, order-preserving crew roles implied by
// the deal's governing proposal. A deal with no derivable roles yields an
// empty slice, not an error.
func (e *Expander) DeriveRoles(ctx context.Context, workspaceID, dealID uuid.UUID) ([]string, error) {
	diag, err := e.Diagnose(ctx, workspaceID, dealID)
	if err != nil {
		return nil, err
	}
	return diag.Roles, nil
}

// Diagnose runs the derivation and reports every intermediate stage, so an
// empty crew plan can be traced to the exact step that produced nothing.
func (e *Expander) Diagnose(ctx context.Context, workspaceID, dealID uuid.UUID) (Diagnosis, error) {
	diag := Diagnosis{
		PackageIDs: []uuid.UUID{},
		Resolved:   []ResolvedPackage{},
		Roles:      []string{},
	}

	proposal, err := e.proposals.GoverningProposal(ctx, workspaceID, dealID)
	if err != nil {
		return Diagnosis{}, fmt.Errorf("diagnose crew roles: %w", err)
	}
	if proposal == nil {
		diag.Step = StepNoProposal
		return diag, nil
	}
	diag.ProposalID = &proposal.ID

	items, err := e.proposals.ListProposalItems(ctx, proposal.ID)
	if err != nil {
		return Diagnosis{}, fmt.Errorf("diagnose crew roles: %w", err)
	}
	diag.ItemCount = len(items)
	if len(items) == 0 {
		diag.Step = StepNoItems
		return diag, nil
	}

	// Both references count as candidates: the item's own package, and the
	// bundle it was expanded from. The origin keeps staffing reachable when
	// the item's direct package reference dangles.
	visited := make(map[uuid.UUID]bool)
	pending := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		for _, id := range []*uuid.UUID{item.PackageID, item.OriginPackageID} {
			if id == nil || visited[*id] {
				continue
			}
			visited[*id] = true
			pending = append(pending, *id)
		}
	}
	diag.PackageIDs = pending
	if len(pending) == 0 {
		diag.Step = StepNoPackageIDs
		return diag, nil
	}

	seen := make(map[string]bool)
	foundAny := false
	for pass := 0; pass < maxLookupPasses && len(pending) > 0; pass++ {
		packages, err := e.catalog.GetPackagesByIDs(ctx, workspaceID, pending)
		if err != nil {
			return Diagnosis{}, fmt.Errorf("diagnose crew roles: %w", err)
		}
		pending = pending[:0]

		for _, pkg := range packages {
			foundAny = true
			diag.Resolved = append(diag.Resolved, ResolvedPackage{
				ID:          pkg.ID,
				Name:        pkg.Name,
				Category:    pkg.Category,
				StaffRole:   pkg.StaffRole,
				Ingredients: len(pkg.IngredientIDs),
			})

			if pkg.StaffRole != "" && !seen[pkg.StaffRole] {
				seen[pkg.StaffRole] = true
				diag.Roles = append(diag.Roles, pkg.StaffRole)
			}
			for _, id := range pkg.IngredientIDs {
				if visited[id] {
					continue
				}
				visited[id] = true
				pending = append(pending, id)
			}
		}
	}

	switch {
	case !foundAny:
		diag.Step = StepNoPackagesFound
	case len(diag.Roles) == 0:
		diag.Step = StepNoRoles
	default:
		diag.Step = StepOK
	}
	return diag, nil
}
