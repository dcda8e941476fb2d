package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// LoadID identifies one model-context load; a new one is minted on
	// every (re)load so downstream consumers can tell contexts apart.
	LoadID ID
	// RequestID identifies a single inference request.
	RequestID ID
)

// String conversions for domain IDs
func (id LoadID) String() string    { return ID(id).String() }
func (id RequestID) String() string { return ID(id).String() }

// NewLoadID mints a fresh load identifier.
func NewLoadID() LoadID { return LoadID(NewID()) }

// NewRequestID mints a fresh request identifier.
func NewRequestID() RequestID { return RequestID(NewID()) }
