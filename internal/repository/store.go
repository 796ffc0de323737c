package repository

import (
	"context"

	"github.com/bookbase/ledger-service/internal/model"
)

// Collections are persisted as JSON arrays under fixed keys, one key per
// collection. The keys match the original deployment's storage layout, so a
// store can be pointed at existing data.
const (
	BooksKey   = "library-books"
	RecordsKey = "library-borrow-records"
	UsersKey   = "library-users"
)

// Snapshot holds everything the ledger owns. A nil slice means the blob was
// absent or unreadable; the ledger decides what to seed in its place.
type Snapshot struct {
	Books   []model.Book
	Records []model.BorrowRecord
	Users   []model.User
}

type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	SaveBooks(ctx context.Context, books []model.Book) error
	SaveRecords(ctx context.Context, records []model.BorrowRecord) error
	SaveUsers(ctx context.Context, users []model.User) error
}
