package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SubjectRecord represents a persisted academic subject row. LabConfig and
// Grid hold the lab-planning inputs as JSONB and are decoded into the
// engine's Subject shape when assembling a PlanningInput.
type SubjectRecord struct {
	ID              string         `db:"id" json:"id"`
	Code            string         `db:"code" json:"code"`
	Name            string         `db:"name" json:"name"`
	Track           string         `db:"track" json:"track"`
	SubjectGroup    string         `db:"subject_group" json:"subject_group"`
	Semester        int            `db:"semester" json:"semester"`
	SimpleGroupCode string         `db:"simple_group_code" json:"simple_group_code"`
	DualGroupCode   string         `db:"dual_group_code" json:"dual_group_code,omitempty"`
	LabConfig       types.JSONText `db:"lab_config" json:"lab_config,omitempty"`
	Grid            types.JSONText `db:"grid" json:"grid,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Track     string
	Group     string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
