package repository

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bookbase/ledger-service/internal/model"
)

type redisStore struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisStore(client *redis.Client, log *zap.Logger) *redisStore {
	return &redisStore{
		client: client,
		log:    log.Named("redis-store"),
	}
}

func (s *redisStore) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if err := s.load(ctx, BooksKey, &snap.Books); err != nil {
		return Snapshot{}, err
	}
	if err := s.load(ctx, RecordsKey, &snap.Records); err != nil {
		return Snapshot{}, err
	}
	if err := s.load(ctx, UsersKey, &snap.Users); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// load leaves dst nil when the key is missing or holds a malformed blob;
// malformed entries are replaced by the seed set on the next save.
func (s *redisStore) load(ctx context.Context, key string, dst any) error {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return errors.Wrapf(err, "get %s", key)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		s.log.Warn("malformed blob, falling back to seed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (s *redisStore) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "set %s", key)
	}
	return nil
}

func (s *redisStore) SaveBooks(ctx context.Context, books []model.Book) error {
	return s.save(ctx, BooksKey, books)
}

func (s *redisStore) SaveRecords(ctx context.Context, records []model.BorrowRecord) error {
	return s.save(ctx, RecordsKey, records)
}

func (s *redisStore) SaveUsers(ctx context.Context, users []model.User) error {
	return s.save(ctx, UsersKey, users)
}
