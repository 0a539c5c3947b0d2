// Package history records the lines evaluated by a shell session.
//
// History is a log only: entries are never evaluated again.
package history

import (
	"errors"
	"time"
)

// Store persists history entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores an entry. An entry with the same (SessionID, Seq)
	// is overwritten.
	Append(e Entry) error

	// List returns the entries of a session ordered by Seq.
	// Returns empty slice (not error) if the session has no entries.
	List(sessionID string) ([]Entry, error)

	// Clear removes every entry of a session.
	Clear(sessionID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one evaluated line.
type Entry struct {
	SessionID string
	Seq       int
	Input     string
	Result    float64 // Meaningless when Err is set.
	Err       string
	Kind      string // Error kind, "" on success.
	Timestamp time.Time
}

// OK reports whether the line evaluated successfully.
func (e Entry) OK() bool {
	return e.Err == ""
}

// Sentinel errors for history operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("history store closed")
)

// Open returns a SQLite store at path, or a MemoryStore when path is empty.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(path)
}
