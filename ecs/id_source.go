package ecs

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// IDSource produces unique entity identifiers. Implementations are called
// from the world's single mutator thread and need no internal locking.
type IDSource interface {
	Next() EntityID
}

// SequentialIDs issues monotonically increasing ids starting at 1.
// Id 0 is reserved and never issued.
type SequentialIDs struct {
	last uint64
}

// NewSequentialIDs returns the default id source.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

func (s *SequentialIDs) Next() EntityID {
	s.last++
	return EntityID(s.last)
}

// UUIDSource derives ids from random v4 UUIDs, for worlds whose entity ids
// must be unique across processes.
type UUIDSource struct{}

// NewUUIDSource returns a UUID-backed id source.
func NewUUIDSource() *UUIDSource {
	return &UUIDSource{}
}

func (UUIDSource) Next() EntityID {
	for {
		u := uuid.New()
		if id := EntityID(binary.BigEndian.Uint64(u[:8])); id != 0 {
			return id
		}
	}
}
