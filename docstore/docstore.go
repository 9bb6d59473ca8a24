// Package docstore provides the document storage capability the pairing and
// attendance flows are built on: get/create by id, atomic version-conditioned
// updates, and per-document change subscriptions with an explicit Close.
package docstore

import "errors"

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrExists indicates a create hit an already existing document id.
	ErrExists = errors.New("document already exists")
	// ErrConflict indicates a conditional write lost to a concurrent writer.
	ErrConflict = errors.New("document version conflict")
	// ErrUnavailable indicates the backing store could not be reached.
	ErrUnavailable = errors.New("document store unavailable")
)

// Document is a versioned snapshot of one stored document. Data must be
// treated as read-only by callers; writers build a fresh map per write.
type Document struct {
	ID      string
	Data    map[string]any
	Version int64
}

// Event is one observation of a document's state on a change stream. Exists
// is false when the document is (or became) absent.
type Event struct {
	Doc    Document
	Exists bool
}

// Store is the capability consumed by the pairing and attendance cores.
// Implementations must deliver, for every Subscribe, the current state as the
// first event and every subsequent committed write in commit order.
type Store interface {
	Get(id string) (Document, error)
	Create(id string, data map[string]any) error
	SetIfVersion(id string, data map[string]any, expectedVersion int64) error
	Subscribe(id string) (*Subscription, error)
}
