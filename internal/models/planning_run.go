package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// PlanningRunStatus represents the lifecycle phase of one stored planning
// run, mirroring the draft/publish/archive discipline used for other
// versioned documents in this system.
type PlanningRunStatus string

const (
	PlanningRunStatusDraft     PlanningRunStatus = "DRAFT"
	PlanningRunStatusPublished PlanningRunStatus = "PUBLISHED"
	PlanningRunStatusArchived  PlanningRunStatus = "ARCHIVED"
)

// PlanningRun is a versioned, persisted execution of the scheduling
// engine for one term. The full resultados_organizacion-shaped document
// is stored as JSONB in Result; conflict/advisory counts are denormalized
// for cheap list views.
type PlanningRun struct {
	ID              string            `db:"id" json:"id"`
	TermID          string            `db:"term_id" json:"term_id"`
	Version         int               `db:"version" json:"version"`
	Status          PlanningRunStatus `db:"status" json:"status"`
	Result          types.JSONText    `db:"result" json:"result"`
	ConflictCount   int               `db:"conflict_count" json:"conflict_count"`
	AdvisoryCount   int               `db:"advisory_count" json:"advisory_count"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// PlanningRunSummary is the lightweight list-view projection of a run.
type PlanningRunSummary struct {
	ID            string            `db:"id" json:"id"`
	TermID        string            `db:"term_id" json:"term_id"`
	Version       int               `db:"version" json:"version"`
	Status        PlanningRunStatus `db:"status" json:"status"`
	ConflictCount int               `db:"conflict_count" json:"conflict_count"`
	AdvisoryCount int               `db:"advisory_count" json:"advisory_count"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
}

// PlanningRunFilter captures filter options for listing planning runs.
type PlanningRunFilter struct {
	TermID    string
	Status    PlanningRunStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
