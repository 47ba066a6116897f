package model

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewID returns a time-ordered identifier.
// A ULID has the same 128-bit layout as a UUID, so new rows sort by creation
// time in the primary key index while staying valid GUIDs on the wire.
func NewID() uuid.UUID {
	return uuid.UUID(ulid.Make())
}

// IDTime returns the creation time encoded in an ID produced by NewID.
func IDTime(id uuid.UUID) uint64 {
	return ulid.ULID(id).Time()
}
