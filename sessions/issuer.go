// Package sessions implements the QR pairing protocol: issuing pairing
// session documents, watching them for the mobile side's resolution, bounding
// the wait with the session TTL, and the conditional writes the mobile side
// uses to resolve a session.
package sessions

import (
	"fmt"
	"log"
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/docstore"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
	"github.com/google/uuid"
)

// Issuer creates pairing session documents. The returned id is the opaque
// payload the desktop renders as a QR code.
type Issuer struct {
	store docstore.Store
	ttl   time.Duration
	clock func() time.Time
	newID func() string
}

func NewIssuer(store docstore.Store, ttl time.Duration) *Issuer {
	return &Issuer{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		newID: uuid.NewString,
	}
}

// CreateSession writes a new pending session document and returns its id.
// The caller must not render a QR code unless this succeeds.
func (i *Issuer) CreateSession() (string, error) {
	id := i.newID()
	now := i.clock()
	data := map[string]any{
		models.FieldStatus:    models.StatusPending,
		models.FieldCreatedAt: now.UnixMilli(),
		models.FieldExpiresAt: now.Add(i.ttl).UnixMilli(),
	}
	if err := i.store.Create(id, data); err != nil {
		return "", fmt.Errorf("%w: create pairing session: %v", docstore.ErrUnavailable, err)
	}
	log.Println("Created pairing session", id)
	return id, nil
}
