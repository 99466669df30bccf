package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TeacherUnavailableSlot describes a blocked teaching window.
type TeacherUnavailableSlot struct {
	DayOfWeek string `json:"day_of_week"`
	TimeRange string `json:"time_range"`
}

// TeacherPreference stores capacity and availability rules for a teacher.
// WorkingDays and UnavailableDates, together with Unavailable (the
// recurring weekly blocked windows), supply the three eligibility facets
// spec.md §3's Teacher entity names: working weekdays, per-weekday
// blocked time-ranges, and date-level unavailability.
type TeacherPreference struct {
	ID               string         `db:"id" json:"id"`
	TeacherID        string         `db:"teacher_id" json:"teacher_id"`
	MaxLoadPerDay    int            `db:"max_load_per_day" json:"max_load_per_day"`
	MaxLoadPerWeek   int            `db:"max_load_per_week" json:"max_load_per_week"`
	WorkingDays      types.JSONText `db:"working_days" json:"working_days"`
	Unavailable      types.JSONText `db:"unavailable" json:"unavailable"`
	UnavailableDates types.JSONText `db:"unavailable_dates" json:"unavailable_dates"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}
