package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/opticampus/lab-scheduler/internal/models"
)

// RoomRepository reads physical laboratory rooms along with the subject
// associations and date-unavailability the engine's Resource Tracker
// needs to determine eligibility.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListAll returns every room regardless of availability; callers filter
// by the Available flag where relevant.
func (r *RoomRepository) ListAll(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, name, capacity, available, created_at, updated_at FROM rooms ORDER BY name`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListSubjectAssociations returns every room-subject eligibility pairing.
func (r *RoomRepository) ListSubjectAssociations(ctx context.Context) ([]models.RoomSubject, error) {
	const query = `SELECT room_id, subject_id FROM room_subjects`
	var rows []models.RoomSubject
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list room subject associations: %w", err)
	}
	return rows, nil
}

// ListUnavailability returns every room's blacklisted dates.
func (r *RoomRepository) ListUnavailability(ctx context.Context) ([]models.RoomUnavailability, error) {
	const query = `SELECT room_id, date FROM room_unavailabilities`
	var rows []models.RoomUnavailability
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list room unavailability: %w", err)
	}
	return rows, nil
}
