package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bookbase/ledger-service/internal/model"
)

// memoryStore keeps blobs in a map. It backs tests and storage-less runs,
// round-tripping through JSON so it behaves like the durable stores.
type memoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// FailWrites makes every save return this error, for exercising the
	// persistence-failure path in tests.
	FailWrites error
}

func NewMemoryStore() *memoryStore {
	return &memoryStore{blobs: make(map[string][]byte)}
}

func (s *memoryStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap Snapshot
	if raw, ok := s.blobs[BooksKey]; ok {
		_ = json.Unmarshal(raw, &snap.Books)
	}
	if raw, ok := s.blobs[RecordsKey]; ok {
		_ = json.Unmarshal(raw, &snap.Records)
	}
	if raw, ok := s.blobs[UsersKey]; ok {
		_ = json.Unmarshal(raw, &snap.Users)
	}
	return snap, nil
}

func (s *memoryStore) save(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.blobs[key] = data
	return nil
}

func (s *memoryStore) SaveBooks(_ context.Context, books []model.Book) error {
	return s.save(BooksKey, books)
}

func (s *memoryStore) SaveRecords(_ context.Context, records []model.BorrowRecord) error {
	return s.save(RecordsKey, records)
}

func (s *memoryStore) SaveUsers(_ context.Context, users []model.User) error {
	return s.save(UsersKey, users)
}
