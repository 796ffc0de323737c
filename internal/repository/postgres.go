package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbase/ledger-service/internal/model"
)

const (
	blobsTableName = `ledger_blobs`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// postgresStore keeps the same key/blob layout as the redis store, one jsonb
// row per collection.
type postgresStore struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewPostgresStore(db *sqlx.DB, log *zap.Logger) *postgresStore {
	return &postgresStore{
		db:  db,
		log: log.Named("pg-store"),
	}
}

func (s *postgresStore) Load(ctx context.Context) (Snapshot, error) {
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

func (s *postgresStore) load(ctx context.Context, key string, dst any) error {
	query, args, err := qb.Select("data").
		From(blobsTableName).
		Where(sq.Eq{"key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return err
	}

	var raw []byte
	if err := s.db.GetContext(ctx, &raw, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		s.log.Error("load", zap.String("q", query), zap.Any("args", args))
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn("malformed blob, falling back to seed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (s *postgresStore) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	query, args, err := qb.Insert(blobsTableName).
		Columns("key", "data", "updated_at").
		Values(key, data, sq.Expr("now()")).
		Suffix("on conflict (key) do update set data = excluded.data, updated_at = now()").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "save %s", key)
	}
	return nil
}

func (s *postgresStore) SaveBooks(ctx context.Context, books []model.Book) error {
	return s.save(ctx, BooksKey, books)
}

func (s *postgresStore) SaveRecords(ctx context.Context, records []model.BorrowRecord) error {
	return s.save(ctx, RecordsKey, records)
}

func (s *postgresStore) SaveUsers(ctx context.Context, users []model.User) error {
	return s.save(ctx, UsersKey, users)
}
