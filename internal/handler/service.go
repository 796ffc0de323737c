package handler

import (
	"context"

	"github.com/bookbase/ledger-service/internal/model"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// LedgerService is the surface the HTTP layer consumes, implemented by
// internal/ledger.
type LedgerService interface {
	AddBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error
	GetBook(ctx context.Context, id string) (model.Book, error)
	BorrowBook(ctx context.Context, req model.BorrowBookRequest) (model.BorrowRecord, error)
	ReturnBook(ctx context.Context, recordID, handlerID string) (model.BorrowRecord, error)
	SearchBooks(ctx context.Context, filters model.SearchFilters) ([]model.Book, error)
	DashboardStats(ctx context.Context) (model.DashboardStats, error)
	StudentBorrowHistory(ctx context.Context, studentID string) ([]model.BorrowRecord, error)
	OverdueBooks(ctx context.Context) ([]model.OverdueItem, error)
	GenerateReport(ctx context.Context, rt model.ReportType) (model.ReportData, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}
