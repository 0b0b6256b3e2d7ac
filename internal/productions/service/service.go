// Package service implements run-of-show operations for productions.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"showdesk_backend/internal/events"
	"showdesk_backend/internal/productions/domain"
	"showdesk_backend/internal/productions/repository"
	"showdesk_backend/platform/apperr"
	"showdesk_backend/platform/logger"
)

// casAttempts bounds the re-read-and-retry loop on revision conflicts.
// Contention on a single production is human-scale, so a lost retry after
// this many attempts is reported as a conflict rather than looped forever.
const casAttempts = 3

// Service implements production and run-of-show business logic.
type Service struct {
	repo     repository.Repository
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

func (s *Service) GetProduction(ctx context.Context, workspaceID, id uuid.UUID) (repository.Production, error) {
	return s.repo.GetProductionByID(ctx, workspaceID, id)
}

func (s *Service) ListProductions(ctx context.Context, params repository.ListProductionsParams) ([]repository.Production, int, error) {
	if params.Limit <= 0 {
		params.Limit = 20
	}
	return s.repo.ListProductions(ctx, params)
}

// GetRunOfShow returns the current document and its revision. The crew
// section is normalized so readers always see concrete crew entries.
func (s *Service) GetRunOfShow(ctx context.Context, workspaceID, productionID uuid.UUID) (domain.Document, int64, error) {
	record, err := s.repo.GetRunOfShow(ctx, workspaceID, productionID)
	if err != nil {
		return domain.Document{}, 0, err
	}
	doc, err := decodeDocument(record.Document)
	if err != nil {
		return domain.Document{}, 0, err
	}
	doc.CrewItems = domain.NormalizeCrewItems(doc)
	return doc, record.Rev, nil
}

// MergeRunOfShow applies a partial update. Only sections present in the patch
// are replaced; everything else is carried over from the stored document, so
// two writers touching different sections never clobber each other.
func (s *Service) MergeRunOfShow(ctx context.Context, workspaceID, productionID uuid.UUID, patch domain.Patch) (domain.Document, int64, error) {
	if patch.IsEmpty() {
		return domain.Document{}, 0, apperr.Validation("patch provides no sections")
	}
	return s.mutate(ctx, workspaceID, productionID, func(doc domain.Document) (domain.Document, error) {
		return domain.ApplyPatch(doc, patch), nil
	})
}

// MergeCrewRoles adds roles to the crew plan without disturbing existing
// entries: the roles list is unioned and a requested crew item is appended
// for each role that has none yet. Returns the number of roles added.
func (s *Service) MergeCrewRoles(ctx context.Context, workspaceID, productionID uuid.UUID, roles []string) (int, error) {
	added := 0
	_, _, err := s.mutate(ctx, workspaceID, productionID, func(doc domain.Document) (domain.Document, error) {
		items := domain.NormalizeCrewItems(doc)
		missing := domain.MissingRoles(items, roles)
		for _, role := range missing {
			items = append(items, domain.CrewItem{Role: role, Status: domain.CrewStatusRequested})
		}
		doc.CrewItems = items
		doc.CrewRoles = domain.UnionRoles(doc.CrewRoles, roles)
		added = len(missing)
		return doc, nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// CycleCrewStatus advances the status of one crew entry one step around the
// requested, confirmed, dispatched cycle.
func (s *Service) CycleCrewStatus(ctx context.Context, workspaceID, productionID uuid.UUID, index int) (domain.Document, int64, error) {
	return s.mutate(ctx, workspaceID, productionID, func(doc domain.Document) (domain.Document, error) {
		items := domain.NormalizeCrewItems(doc)
		if index < 0 || index >= len(items) {
			return domain.Document{}, apperr.Validation(fmt.Sprintf("crew index %d out of range", index))
		}
		items[index].Status = domain.NextCrewStatus(items[index].Status)
		doc.CrewItems = items
		return doc, nil
	})
}

// AssignCrewMember attaches an internal team member to a crew entry and sets
// the entry to confirmed directly, bypassing the status cycle.
func (s *Service) AssignCrewMember(ctx context.Context, workspaceID, productionID uuid.UUID, index int, entityID uuid.UUID, assigneeName string) (domain.Document, int64, error) {
	var assignedRole string
	doc, rev, err := s.mutate(ctx, workspaceID, productionID, func(doc domain.Document) (domain.Document, error) {
		items := domain.NormalizeCrewItems(doc)
		if index < 0 || index >= len(items) {
			return domain.Document{}, apperr.Validation(fmt.Sprintf("crew index %d out of range", index))
		}
		id := entityID
		name := assigneeName
		items[index].EntityID = &id
		items[index].AssigneeName = &name
		items[index].Status = domain.CrewStatusConfirmed
		assignedRole = items[index].Role
		doc.CrewItems = items
		return doc, nil
	})
	if err != nil {
		return domain.Document{}, 0, err
	}

	production, prodErr := s.repo.GetProductionByID(ctx, workspaceID, productionID)
	if prodErr != nil {
		s.log.Error("assign crew: failed to load production for event", "productionId", productionID, "error", prodErr)
		return doc, rev, nil
	}
	s.eventBus.Publish(ctx, events.CrewMemberAssigned{
		BaseEvent:      events.NewBaseEvent(),
		WorkspaceID:    workspaceID,
		ProductionID:   productionID,
		ProductionName: production.Name,
		Role:           assignedRole,
		AssigneeID:     entityID,
		AssigneeName:   assigneeName,
		StartsAt:       production.StartsAt,
	})
	return doc, rev, nil
}

// CycleGearStatus advances one gear item's status one step around the
// pending, pulled, loaded cycle. Gear items are addressed by their id.
func (s *Service) CycleGearStatus(ctx context.Context, workspaceID, productionID uuid.UUID, gearID string) (domain.Document, int64, error) {
	return s.mutate(ctx, workspaceID, productionID, func(doc domain.Document) (domain.Document, error) {
		for i := range doc.GearItems {
			if doc.GearItems[i].ID == gearID {
				doc.GearItems[i].Status = domain.NextGearStatus(doc.GearItems[i].Status)
				return doc, nil
			}
		}
		return domain.Document{}, apperr.NotFound("gear item not found")
	})
}

// ToggleLogistics flips one logistics readiness flag. A document without a
// logistics section starts from all-false.
func (s *Service) ToggleLogistics(ctx context.Context, workspaceID, productionID uuid.UUID, key string) (domain.Document, int64, error) {
	return s.mutate(ctx, workspaceID, productionID, func(doc domain.Document) (domain.Document, error) {
		logistics, ok := domain.ToggleLogistics(doc, key)
		if !ok {
			return domain.Document{}, apperr.Validation(fmt.Sprintf("unknown logistics key %q", key))
		}
		doc.Logistics = &logistics
		return doc, nil
	})
}

// mutate runs a read-modify-write cycle on the run-of-show document under the
// revision compare-and-set. A lost race re-reads and reapplies the mutation;
// persistent contention surfaces as a conflict.
func (s *Service) mutate(ctx context.Context, workspaceID, productionID uuid.UUID, fn func(domain.Document) (domain.Document, error)) (domain.Document, int64, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		record, err := s.repo.GetRunOfShow(ctx, workspaceID, productionID)
		if err != nil {
			return domain.Document{}, 0, err
		}
		doc, err := decodeDocument(record.Document)
		if err != nil {
			return domain.Document{}, 0, err
		}

		updated, err := fn(doc)
		if err != nil {
			return domain.Document{}, 0, err
		}

		raw, err := json.Marshal(updated)
		if err != nil {
			return domain.Document{}, 0, fmt.Errorf("marshal run of show: %w", err)
		}

		newRev, err := s.repo.UpdateRunOfShow(ctx, workspaceID, productionID, raw, record.Rev)
		if err != nil {
			if errors.Is(err, repository.ErrStaleRevision) {
				continue
			}
			return domain.Document{}, 0, err
		}
		return updated, newRev, nil
	}
	return domain.Document{}, 0, apperr.Conflict("run of show was modified concurrently, retry")
}

func decodeDocument(raw json.RawMessage) (domain.Document, error) {
	var doc domain.Document
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("decode run of show: %w", err)
	}
	return doc, nil
}
