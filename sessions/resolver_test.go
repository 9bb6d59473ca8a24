package sessions

import (
	"errors"
	"testing"
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/docstore"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
)

func TestAcceptPendingSession(t *testing.T) {
	store := docstore.NewMemoryStore()
	id := createTestSession(t, store, time.Minute)

	if err := NewResolver(store).Accept(id, "tok-1"); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	doc, err := store.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Data[models.FieldStatus] != models.StatusAccepted {
		t.Errorf("status = %v, want accepted", doc.Data[models.FieldStatus])
	}
	if doc.Data[models.FieldToken] != "tok-1" {
		t.Errorf("token = %v, want tok-1", doc.Data[models.FieldToken])
	}
}

func TestAcceptRequiresToken(t *testing.T) {
	store := docstore.NewMemoryStore()
	id := createTestSession(t, store, time.Minute)

	if err := NewResolver(store).Accept(id, ""); err == nil {
		t.Fatal("Accept with empty token succeeded")
	}
}

func TestResolverRefusesResolvedSession(t *testing.T) {
	store := docstore.NewMemoryStore()
	id := createTestSession(t, store, time.Minute)
	resolver := NewResolver(store)

	if err := resolver.Accept(id, "tok-1"); err != nil {
		t.Fatal(err)
	}
	if err := resolver.Accept(id, "tok-2"); !errors.Is(err, ErrSessionNotPending) {
		t.Fatalf("second Accept = %v, want ErrSessionNotPending", err)
	}
	if err := resolver.Reject(id, "too late"); !errors.Is(err, ErrSessionNotPending) {
		t.Fatalf("Reject after Accept = %v, want ErrSessionNotPending", err)
	}

	// The first resolution stands.
	doc, err := store.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Data[models.FieldToken] != "tok-1" {
		t.Errorf("token = %v, want tok-1", doc.Data[models.FieldToken])
	}
}

func TestResolverRefusesExpiredSession(t *testing.T) {
	store := docstore.NewMemoryStore()
	id := createTestSession(t, store, time.Minute)

	resolver := NewResolver(store)
	resolver.clock = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if err := resolver.Accept(id, "tok-1"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Accept on expired session = %v, want ErrSessionExpired", err)
	}
}

func TestResolverRefusesMissingSession(t *testing.T) {
	store := docstore.NewMemoryStore()
	if err := NewResolver(store).Accept("ghost", "tok-1"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Accept on missing session = %v, want ErrSessionExpired", err)
	}
}

// conflictOnceStore fails the first conditional write so the resolver has to
// re-read and retry.
type conflictOnceStore struct {
	docstore.Store
	conflicted bool
}

func (s *conflictOnceStore) SetIfVersion(id string, data map[string]any, expectedVersion int64) error {
	if !s.conflicted {
		s.conflicted = true
		return docstore.ErrConflict
	}
	return s.Store.SetIfVersion(id, data, expectedVersion)
}

func TestResolverRetriesBenignConflict(t *testing.T) {
	memory := docstore.NewMemoryStore()
	id := createTestSession(t, memory, time.Minute)

	store := &conflictOnceStore{Store: memory}
	if err := NewResolver(store).Accept(id, "tok-1"); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	doc, err := memory.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Data[models.FieldStatus] != models.StatusAccepted {
		t.Errorf("status = %v, want accepted", doc.Data[models.FieldStatus])
	}
}
