// Package repository provides persistence for productions and their
// run-of-show documents.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrStaleRevision is returned by UpdateRunOfShow when the expected revision
// no longer matches the stored one. Callers re-read and retry.
var ErrStaleRevision = errors.New("run of show revision is stale")

// Production is a scheduled event under a project. VenueEntityID optionally
// points at the venue party hosting it.
type Production struct {
	ID            uuid.UUID
	WorkspaceID   uuid.UUID
	ProjectID     uuid.UUID
	Name          string
	Status        string
	VenueEntityID *uuid.UUID
	StartsAt      time.Time
	EndsAt        time.Time
	CreatedAt     string
	UpdatedAt     string
}

// RunOfShowRecord is the stored document plus its revision counter. Rev
// increments on every successful write and backs the compare-and-set.
type RunOfShowRecord struct {
	ProductionID uuid.UUID
	Document     json.RawMessage
	Rev          int64
}

type ListProductionsParams struct {
	WorkspaceID uuid.UUID
	ProjectID   *uuid.UUID
	Status      string
	Limit       int
	Offset      int
}

// Repository is the persistence surface the productions service depends on.
type Repository interface {
	GetProductionByID(ctx context.Context, workspaceID, id uuid.UUID) (Production, error)
	ListProductions(ctx context.Context, params ListProductionsParams) ([]Production, int, error)
	GetRunOfShow(ctx context.Context, workspaceID, productionID uuid.UUID) (RunOfShowRecord, error)
	UpdateRunOfShow(ctx context.Context, workspaceID, productionID uuid.UUID, doc json.RawMessage, expectedRev int64) (int64, error)
}
