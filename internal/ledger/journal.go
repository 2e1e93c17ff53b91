package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LogEntry is a human-readable record of one mutation.
type LogEntry struct {
	ID      uuid.UUID
	Time    time.Time
	Message string
}

// ShortIDLen is the number of leading ID characters shown in listings.
const ShortIDLen = 8

var (
	ErrEntryNotFound = errors.New("journal entry not found")
	ErrAmbiguousID   = errors.New("journal id prefix is ambiguous")
)

// ShortID returns the leading characters of the entry ID.
func (e LogEntry) ShortID() string {
	return e.ID.String()[:ShortIDLen]
}

func (e LogEntry) String() string {
	return "[" + e.ShortID() + "] " + e.Time.Format("2006-01-02 15:04:05.000000") + ": " + e.Message
}

// Journal collects LogEntry records in append order. It is never persisted.
type Journal struct {
	entries []LogEntry
	now     func() time.Time
}

// NewJournal returns an empty journal stamped with the wall clock.
func NewJournal() *Journal {
	return &Journal{now: time.Now}
}

// Append records msg with the current time and a fresh ID.
func (j *Journal) Append(msg string) LogEntry {
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	e := LogEntry{ID: uuid.New(), Time: now(), Message: msg}
	j.entries = append(j.entries, e)
	return e
}

// Entries returns a copy of the recorded entries.
func (j *Journal) Entries() []LogEntry {
	out := make([]LogEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Find returns the entry with the given ID.
func (j *Journal) Find(id uuid.UUID) (LogEntry, bool) {
	for _, e := range j.entries {
		if e.ID == id {
			return e, true
		}
	}
	return LogEntry{}, false
}

// Lookup resolves ref, either a full ID or a unique prefix of one such as
// the short ID shown by String.
func (j *Journal) Lookup(ref string) (LogEntry, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if e, ok := j.Find(id); ok {
			return e, nil
		}
		return LogEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, ref)
	}

	prefix := strings.ToLower(ref)
	var (
		match LogEntry
		n     int
	)
	for _, e := range j.entries {
		if prefix != "" && strings.HasPrefix(e.ID.String(), prefix) {
			match = e
			n++
		}
	}
	switch n {
	case 0:
		return LogEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, ref)
	case 1:
		return match, nil
	default:
		return LogEntry{}, fmt.Errorf("%w: %s matches %d entries", ErrAmbiguousID, ref, n)
	}
}

// Len returns the number of recorded entries.
func (j *Journal) Len() int {
	return len(j.entries)
}
