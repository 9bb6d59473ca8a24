package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

type documentRow struct {
	ID      string `gorm:"primaryKey"`
	Data    string
	Version int64
}

func (documentRow) TableName() string { return "documents" }

// GormStore persists documents in a sqlite documents table. Access is
// serialized with a mutex so change events are published in commit order,
// same as the rest of the database layer.
type GormStore struct {
	mu  sync.Mutex
	db  *gorm.DB
	hub *hub
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrate documents table: %w", err)
	}
	return &GormStore{db: db, hub: newHub()}, nil
}

func (s *GormStore) Get(id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *GormStore) get(id string) (Document, error) {
	var row documentRow
	err := s.db.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rowToDocument(row)
}

func (s *GormStore) Create(id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row := documentRow{ID: id, Data: string(raw), Version: 1}
	if err := s.db.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") {
			return ErrExists
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	doc, err := rowToDocument(row)
	if err != nil {
		return err
	}
	s.hub.publish(id, Event{Doc: doc, Exists: true})
	return nil
}

func (s *GormStore) SetIfVersion(id string, data map[string]any, expectedVersion int64) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.db.Model(&documentRow{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{"data": string(raw), "version": expectedVersion + 1})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.get(id); errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return ErrConflict
	}
	doc, err := rowToDocument(documentRow{ID: id, Data: string(raw), Version: expectedVersion + 1})
	if err != nil {
		return err
	}
	s.hub.publish(id, Event{Doc: doc, Exists: true})
	return nil
}

func (s *GormStore) Subscribe(id string) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	initial := Event{Doc: Document{ID: id}}
	doc, err := s.get(id)
	switch {
	case err == nil:
		initial = Event{Doc: doc, Exists: true}
	case errors.Is(err, ErrNotFound):
	default:
		return nil, err
	}
	return s.hub.subscribe(id, initial), nil
}

// PurgeExpiredSessions deletes pairing session documents whose deadline
// lapsed before cutoff. Course documents carry no expiresAt field and are
// never matched. Watchers are long gone by then: the expiry monitor ends
// every watch at the TTL, so no absence event is published.
func (s *GormStore) PurgeExpiredSessions(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.db.Delete(&documentRow{}, "json_extract(data, '$.expiresAt') < ?", cutoff.UnixMilli())
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, res.Error)
	}
	return res.RowsAffected, nil
}

func rowToDocument(row documentRow) (Document, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		return Document{}, fmt.Errorf("decode document %s: %w", row.ID, err)
	}
	return Document{ID: row.ID, Data: data, Version: row.Version}, nil
}
