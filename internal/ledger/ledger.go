package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbase/ledger-service/internal/errs"
	"github.com/bookbase/ledger-service/internal/events"
	"github.com/bookbase/ledger-service/internal/model"
	"github.com/bookbase/ledger-service/internal/repository"
)

// Ledger owns the book catalog, the borrow-record log and the user
// directory. Every mutation goes through its lock and is written through to
// the store; on a failed write the in-memory state is kept and the error is
// surfaced to the caller, the next successful write reconverges storage.
type Ledger struct {
	log   *zap.Logger
	store repository.Store
	pub   *events.Publisher

	mu      sync.RWMutex
	books   []model.Book
	records []model.BorrowRecord
	users   []model.User

	now func() time.Time
}

// New loads the collections from the store. Absent or malformed blobs are
// replaced by the built-in sample set, which is written back so the next run
// starts from storage, as the original deployment does on first launch.
func New(ctx context.Context, store repository.Store, pub *events.Publisher, log *zap.Logger) (*Ledger, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load ledger state")
	}

	l := &Ledger{
		log:     log.Named("ledger"),
		store:   store,
		pub:     pub,
		books:   snap.Books,
		records: snap.Records,
		users:   snap.Users,
		now:     time.Now,
	}

	if l.books == nil {
		l.books = seedBooks()
		if err := store.SaveBooks(ctx, l.books); err != nil {
			return nil, errors.Wrap(err, "seed books")
		}
	}
	if l.records == nil {
		l.records = seedRecords()
		if err := store.SaveRecords(ctx, l.records); err != nil {
			return nil, errors.Wrap(err, "seed records")
		}
	}
	if l.users == nil {
		l.users = []model.User{}
	}

	l.log.Info("ledger loaded",
		zap.Int("books", len(l.books)),
		zap.Int("records", len(l.records)),
		zap.Int("users", len(l.users)))
	return l, nil
}

func (l *Ledger) AddBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UTC()
	book := model.Book{
		ID:                uuid.NewString(),
		Title:             req.Title,
		Author:            req.Author,
		ISBN:              req.ISBN,
		Category:          req.Category,
		TotalQuantity:     req.TotalQuantity,
		AvailableQuantity: req.AvailableQuantity,
		ShelfLocation:     req.ShelfLocation,
		PublicationYear:   req.PublicationYear,
		Publisher:         req.Publisher,
		LoanDurationDays:  req.LoanDurationDays,
		Description:       req.Description,
		CoverURL:          req.CoverURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	l.books = append(l.books, book)
	if err := l.store.SaveBooks(ctx, l.books); err != nil {
		return model.Book{}, err
	}
	return book, nil
}

func (l *Ledger) UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.bookIndex(id)
	if i < 0 {
		return model.Book{}, errs.ErrNotFound
	}

	b := &l.books[i]
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.ISBN != nil {
		b.ISBN = *req.ISBN
	}
	if req.Category != nil {
		b.Category = *req.Category
	}
	if req.TotalQuantity != nil {
		b.TotalQuantity = *req.TotalQuantity
	}
	if req.AvailableQuantity != nil {
		b.AvailableQuantity = *req.AvailableQuantity
	}
	if req.ShelfLocation != nil {
		b.ShelfLocation = *req.ShelfLocation
	}
	if req.PublicationYear != nil {
		b.PublicationYear = *req.PublicationYear
	}
	if req.Publisher != nil {
		b.Publisher = *req.Publisher
	}
	if req.LoanDurationDays != nil {
		b.LoanDurationDays = *req.LoanDurationDays
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.CoverURL != nil {
		b.CoverURL = *req.CoverURL
	}
	b.UpdatedAt = l.now().UTC()

	if err := l.store.SaveBooks(ctx, l.books); err != nil {
		return model.Book{}, err
	}
	return *b, nil
}

// DeleteBook removes the book outright. Outstanding active records are left
// in place; the overdue join drops them once the book is gone.
func (l *Ledger) DeleteBook(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.bookIndex(id)
	if i < 0 {
		return errs.ErrNotFound
	}

	l.books = append(l.books[:i], l.books[i+1:]...)
	return l.store.SaveBooks(ctx, l.books)
}

func (l *Ledger) GetBook(_ context.Context, id string) (model.Book, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.bookIndex(id)
	if i < 0 {
		return model.Book{}, errs.ErrNotFound
	}
	return l.books[i], nil
}

// BorrowBook creates an active record and decrements availability as one
// unit. Nothing is mutated when a precondition fails.
func (l *Ledger) BorrowBook(ctx context.Context, req model.BorrowBookRequest) (model.BorrowRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.bookIndex(req.BookID)
	if i < 0 {
		return model.BorrowRecord{}, errs.ErrNotFound
	}
	book := &l.books[i]
	if book.AvailableQuantity <= 0 {
		return model.BorrowRecord{}, errs.ErrBookNotAvailable
	}

	now := l.now().UTC()
	record := model.BorrowRecord{
		ID:        uuid.NewString(),
		BookID:    req.BookID,
		StudentID: req.StudentID,
		HandlerID: req.HandlerID,
		IssueDate: now,
		DueDate:   now.AddDate(0, 0, book.LoanDurationDays),
		Status:    model.StatusActive,
	}

	l.records = append(l.records, record)
	if err := l.store.SaveRecords(ctx, l.records); err != nil {
		return model.BorrowRecord{}, err
	}

	book.AvailableQuantity--
	if err := l.store.SaveBooks(ctx, l.books); err != nil {
		return model.BorrowRecord{}, err
	}

	l.pub.Publish(events.Event{
		Type:       events.TypeBookBorrowed,
		RecordID:   record.ID,
		BookID:     record.BookID,
		StudentID:  record.StudentID,
		HandlerID:  record.HandlerID,
		OccurredAt: now,
	})
	return record, nil
}

// ReturnBook closes an active record. A second return fails with
// ErrAlreadyReturned, and availability never grows past TotalQuantity.
func (l *Ledger) ReturnBook(ctx context.Context, recordID, handlerID string) (model.BorrowRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ri := -1
	for i := range l.records {
		if l.records[i].ID == recordID {
			ri = i
			break
		}
	}
	if ri < 0 {
		return model.BorrowRecord{}, errs.ErrNotFound
	}
	record := &l.records[ri]
	if record.Status != model.StatusActive {
		return model.BorrowRecord{}, errs.ErrAlreadyReturned
	}

	now := l.now().UTC()
	record.ReturnDate = &now
	record.Status = model.StatusReturned
	if err := l.store.SaveRecords(ctx, l.records); err != nil {
		return model.BorrowRecord{}, err
	}

	if bi := l.bookIndex(record.BookID); bi >= 0 {
		book := &l.books[bi]
		if book.AvailableQuantity < book.TotalQuantity {
			book.AvailableQuantity++
		}
		if err := l.store.SaveBooks(ctx, l.books); err != nil {
			return model.BorrowRecord{}, err
		}
	}

	l.pub.Publish(events.Event{
		Type:       events.TypeBookReturned,
		RecordID:   record.ID,
		BookID:     record.BookID,
		StudentID:  record.StudentID,
		HandlerID:  handlerID,
		OccurredAt: now,
	})
	return *record, nil
}

// SearchBooks applies the filters with logical AND, in collection order.
func (l *Ledger) SearchBooks(_ context.Context, filters model.SearchFilters) ([]model.Book, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Book, 0, len(l.books))
	for _, b := range l.books {
		if !matches(b, filters) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func matches(b model.Book, f model.SearchFilters) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) &&
			!strings.Contains(b.ISBN, f.Query) {
			return false
		}
	}
	if f.Category != "" && b.Category != f.Category {
		return false
	}
	if f.Author != "" && !strings.Contains(strings.ToLower(b.Author), strings.ToLower(f.Author)) {
		return false
	}
	if f.ISBN != "" && !strings.Contains(b.ISBN, f.ISBN) {
		return false
	}
	if f.Availability == model.AvailabilityAvailable && b.AvailableQuantity <= 0 {
		return false
	}
	if f.Availability == model.AvailabilityBorrowed && b.AvailableQuantity >= b.TotalQuantity {
		return false
	}
	return true
}

func (l *Ledger) DashboardStats(_ context.Context) (model.DashboardStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	now := l.now().UTC()

	var stats model.DashboardStats
	for _, b := range l.books {
		stats.TotalBooks += b.TotalQuantity
		stats.AvailableBooks += b.AvailableQuantity
	}
	stats.BooksOnLoan = stats.TotalBooks - stats.AvailableBooks

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, r := range l.records {
		if r.EffectiveStatus(now) == model.StatusOverdue {
			stats.OverdueBooks++
		}
		if !r.IssueDate.Before(monthStart) {
			stats.MonthlyTransactions++
		}
	}

	for _, u := range l.users {
		if u.Role == model.RoleStudent {
			stats.TotalStudents++
		}
	}

	stats.CategoryStats = make([]model.CategoryStats, 0, len(model.Categories))
	for _, cat := range model.Categories {
		var cs model.CategoryStats
		for _, b := range l.books {
			if b.Category != cat {
				continue
			}
			cs.Total += b.TotalQuantity
			cs.Available += b.AvailableQuantity
		}
		if cs.Total == 0 {
			continue
		}
		cs.Category = cat
		cs.OnLoan = cs.Total - cs.Available
		stats.CategoryStats = append(stats.CategoryStats, cs)
	}

	return stats, nil
}

// StudentBorrowHistory returns every record for the student, any status, in
// collection order. Statuses are projected against now, so an active record
// past due reads as overdue without being rewritten in storage.
func (l *Ledger) StudentBorrowHistory(_ context.Context, studentID string) ([]model.BorrowRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	now := l.now().UTC()
	out := make([]model.BorrowRecord, 0)
	for _, r := range l.records {
		if r.StudentID != studentID {
			continue
		}
		r.Status = r.EffectiveStatus(now)
		out = append(out, r)
	}
	return out, nil
}

// OverdueBooks joins overdue records with their book and student. Records
// whose book or student cannot be resolved are dropped, not reported.
func (l *Ledger) OverdueBooks(_ context.Context) ([]model.OverdueItem, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	now := l.now().UTC()
	out := make([]model.OverdueItem, 0)
	for _, r := range l.records {
		if r.EffectiveStatus(now) != model.StatusOverdue {
			continue
		}
		bi := l.bookIndex(r.BookID)
		if bi < 0 {
			continue
		}
		student, ok := l.userByStudentID(r.StudentID)
		if !ok {
			continue
		}
		r.Status = model.StatusOverdue
		out = append(out, model.OverdueItem{
			Record:  r,
			Book:    l.books[bi],
			Student: student,
		})
	}
	return out, nil
}

// GenerateReport aggregates circulation over a window ending now: daily is
// today from midnight, weekly the trailing seven days, monthly the current
// calendar month.
func (l *Ledger) GenerateReport(_ context.Context, rt model.ReportType) (model.ReportData, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	now := l.now().UTC()
	var start time.Time
	switch rt {
	case model.ReportDaily:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case model.ReportWeekly:
		start = now.AddDate(0, 0, -7)
	case model.ReportMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return model.ReportData{}, errors.Errorf("unknown report type %q", rt)
	}

	report := model.ReportData{
		Type:      rt,
		StartDate: start,
		EndDate:   now,
	}

	borrowCounts := make(map[string]int)
	for _, r := range l.records {
		if !r.IssueDate.Before(start) {
			report.BooksIssued++
			borrowCounts[r.BookID]++
		}
		if r.ReturnDate != nil && !r.ReturnDate.Before(start) {
			report.BooksReturned++
		}
		if r.EffectiveStatus(now) == model.StatusOverdue {
			report.OverdueItems++
		}
	}
	report.TotalTransactions = report.BooksIssued + report.BooksReturned

	popular := make([]model.PopularBook, 0, len(borrowCounts))
	for bookID, count := range borrowCounts {
		bi := l.bookIndex(bookID)
		if bi < 0 {
			continue
		}
		popular = append(popular, model.PopularBook{
			BookID:      bookID,
			Title:       l.books[bi].Title,
			BorrowCount: count,
		})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].BorrowCount != popular[j].BorrowCount {
			return popular[i].BorrowCount > popular[j].BorrowCount
		}
		return popular[i].Title < popular[j].Title
	})
	const topN = 5
	if len(popular) > topN {
		popular = popular[:topN]
	}
	report.PopularBooks = popular

	return report, nil
}

func (l *Ledger) GetUser(_ context.Context, id string) (model.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, u := range l.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (l *Ledger) ListUsers(_ context.Context) ([]model.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.User, len(l.users))
	copy(out, l.users)
	return out, nil
}

func (l *Ledger) bookIndex(id string) int {
	for i := range l.books {
		if l.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) userByStudentID(studentID string) (model.User, bool) {
	for _, u := range l.users {
		if u.StudentID == studentID {
			return u, true
		}
	}
	return model.User{}, false
}
