package models

import "time"

// Room represents a physical laboratory room available for scheduling.
// It carries the capacity and eligibility data the engine needs.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Available bool      `db:"available" json:"available"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomSubject associates a room with a subject it may host.
type RoomSubject struct {
	RoomID    string `db:"room_id" json:"room_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
}

// RoomUnavailability records one date a room cannot be used.
type RoomUnavailability struct {
	RoomID string `db:"room_id" json:"room_id"`
	Date   string `db:"date" json:"date"` // DD/MM/YYYY
}

// RoomFilter captures filtering options for listing rooms.
type RoomFilter struct {
	Search    string
	Available *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
