package docstore

import "sync"

// MemoryStore is a mutex-guarded in-memory Store. It backs tests and local
// runs without a database file.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]Document
	hub  *hub
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]Document),
		hub:  newHub(),
	}
}

func (m *MemoryStore) Get(id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return cloneDocument(doc), nil
}

func (m *MemoryStore) Create(id string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; ok {
		return ErrExists
	}
	doc := Document{ID: id, Data: cloneData(data), Version: 1}
	m.docs[id] = doc
	m.hub.publish(id, Event{Doc: cloneDocument(doc), Exists: true})
	return nil
}

func (m *MemoryStore) SetIfVersion(id string, data map[string]any, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	if doc.Version != expectedVersion {
		return ErrConflict
	}
	doc = Document{ID: id, Data: cloneData(data), Version: expectedVersion + 1}
	m.docs[id] = doc
	m.hub.publish(id, Event{Doc: cloneDocument(doc), Exists: true})
	return nil
}

// Delete removes a document and notifies subscribers with an absent event.
// Session retention/cleanup uses it; it is deliberately not part of Store.
func (m *MemoryStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return
	}
	delete(m.docs, id)
	m.hub.publish(id, Event{Doc: Document{ID: id}, Exists: false})
}

func (m *MemoryStore) Subscribe(id string) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	initial := Event{Doc: Document{ID: id}}
	if doc, ok := m.docs[id]; ok {
		initial = Event{Doc: cloneDocument(doc), Exists: true}
	}
	return m.hub.subscribe(id, initial), nil
}

func cloneDocument(doc Document) Document {
	return Document{ID: doc.ID, Data: cloneData(doc.Data), Version: doc.Version}
}

func cloneData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneData(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}
