package store

import (
	"errors"

	"stockledger/internal/ledger"
)

var (
	ErrNotFound  = errors.New("snapshot not found")
	ErrNotObject = errors.New("snapshot is not a JSON object")
	ErrMalformed = errors.New("snapshot is malformed")
)

// Store persists whole-ledger snapshots. Save replaces whatever was stored
// before; Load returns ErrNotFound when nothing has been saved yet.
// Implementations exist for a JSON document (jsonfile) and bbolt (bolt);
// the interface allows swapping backends without touching the controller.
type Store interface {
	Save(snap ledger.Snapshot) error
	Load() (ledger.Snapshot, error)
	Close() error
	Path() string // location used in diagnostics
}
