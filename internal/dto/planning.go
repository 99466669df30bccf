package dto

import (
	"time"

	"github.com/opticampus/lab-scheduler/internal/models"
)

// GeneratePlanRequest instructs the engine to build a proposal for a term's
// configuration snapshot.
type GeneratePlanRequest struct {
	TermID string `json:"termId" validate:"required"`
}

// GeneratePlanResponse returns a preview proposal that has not been
// persisted as a planning run.
type GeneratePlanResponse struct {
	TermID        string `json:"termId"`
	ConflictCount int    `json:"conflictCount"`
	AdvisoryCount int    `json:"advisoryCount"`
	Result        any    `json:"result"`
}

// CreatePlanRequest instructs the engine to run and persist a new draft
// planning run for a term's configuration snapshot.
type CreatePlanRequest struct {
	TermID string `json:"termId" validate:"required"`
}

// PlanningRunQuery filters planning run summaries by term.
type PlanningRunQuery struct {
	TermID string `form:"termId" json:"termId" validate:"required"`
}

// PlanningRunSummaryView is the list-view projection of a stored run.
type PlanningRunSummaryView struct {
	ID            string                   `json:"id"`
	TermID        string                   `json:"termId"`
	Version       int                      `json:"version"`
	Status        models.PlanningRunStatus `json:"status"`
	ConflictCount int                      `json:"conflictCount"`
	AdvisoryCount int                      `json:"advisoryCount"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// PlanningRunView is the full detail projection of a stored run, including
// the decoded resultados_organizacion-shaped document.
type PlanningRunView struct {
	ID            string                   `json:"id"`
	TermID        string                   `json:"termId"`
	Version       int                      `json:"version"`
	Status        models.PlanningRunStatus `json:"status"`
	ConflictCount int                      `json:"conflictCount"`
	AdvisoryCount int                      `json:"advisoryCount"`
	Result        any                      `json:"result"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}
