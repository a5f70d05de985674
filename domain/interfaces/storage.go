package interfaces

import "shopqa/domain/entities"

// StateStore keeps a browser state snapshot for seeding later tests
type StateStore interface {
	// Save persists the snapshot
	Save(snapshot entities.StateSnapshot) error

	// Load returns the last saved snapshot, or an empty one when none exists
	Load() (entities.StateSnapshot, error)
}
