package store

import (
	"github.com/gsbellu/mindfulday/internal/models"
)

// DB is the local durable storage interface. The local copy is a
// cache, not the source of truth, so callers are free to swallow
// write errors.
type DB interface {
	// State returns the saved session record, or nil if none has been
	// stored yet. A corrupt record is treated as missing.
	State() (*models.SessionState, error)
	// SaveState overwrites the stored session record.
	SaveState(s *models.SessionState) error
	// DeviceID returns this device's stable identifier, generating and
	// persisting one on first use.
	DeviceID() (string, error)
	// Open begins a database connection.
	Open() error
	// Close ends the database connection.
	Close() error
}
