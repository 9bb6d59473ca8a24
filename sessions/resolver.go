package sessions

import (
	"errors"
	"fmt"
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/docstore"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
)

var (
	// ErrSessionNotPending indicates the session already holds a terminal
	// status. A resolver never overwrites a resolved session.
	ErrSessionNotPending = errors.New("session already resolved")
	// ErrSessionExpired indicates the session is missing or past its TTL.
	ErrSessionExpired = errors.New("session expired")
)

const resolveAttempts = 3

// Resolver performs the mobile side's half of the pairing protocol: the
// conditional write that moves a session from pending to a terminal status.
// The write is guarded on the document being unchanged since it was read and
// on the session still being pending and unexpired.
type Resolver struct {
	store docstore.Store
	clock func() time.Time
}

func NewResolver(store docstore.Store) *Resolver {
	return &Resolver{store: store, clock: time.Now}
}

// Accept resolves the session with the issued token.
func (r *Resolver) Accept(sessionID, token string) error {
	if token == "" {
		return errors.New("accept requires a non-empty token")
	}
	return r.resolve(sessionID, func(data map[string]any) {
		data[models.FieldStatus] = models.StatusAccepted
		data[models.FieldToken] = token
	})
}

// Reject resolves the session with an error message.
func (r *Resolver) Reject(sessionID, message string) error {
	return r.resolve(sessionID, func(data map[string]any) {
		data[models.FieldStatus] = models.StatusError
		data[models.FieldMessage] = message
	})
}

func (r *Resolver) resolve(sessionID string, mutate func(map[string]any)) error {
	for attempt := 0; attempt < resolveAttempts; attempt++ {
		doc, err := r.store.Get(sessionID)
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrSessionExpired
		}
		if err != nil {
			return fmt.Errorf("%w: read session %s: %v", docstore.ErrUnavailable, sessionID, err)
		}
		status, ok := doc.Data[models.FieldStatus].(string)
		if !ok {
			return ErrSessionNotPending
		}
		if status != models.StatusPending {
			return ErrSessionNotPending
		}
		expiresAt, ok := asInt64(doc.Data[models.FieldExpiresAt])
		if !ok || r.clock().UnixMilli() > expiresAt {
			return ErrSessionExpired
		}

		data := make(map[string]any, len(doc.Data)+2)
		for k, v := range doc.Data {
			data[k] = v
		}
		mutate(data)

		err = r.store.SetIfVersion(sessionID, data, doc.Version)
		if err == nil {
			return nil
		}
		if errors.Is(err, docstore.ErrConflict) {
			// Someone else wrote the document; re-read and re-check the guard.
			continue
		}
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrSessionExpired
		}
		return fmt.Errorf("%w: resolve session %s: %v", docstore.ErrUnavailable, sessionID, err)
	}
	return docstore.ErrConflict
}
