package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookbase/ledger-service/internal/errs"
	"github.com/bookbase/ledger-service/internal/handler"
	service_mocks "github.com/bookbase/ledger-service/internal/handler/mocks"
	"github.com/bookbase/ledger-service/internal/model"
	"github.com/bookbase/ledger-service/pkg/auth"
	"github.com/bookbase/ledger-service/pkg/validate"
)

func newTestRouter(t *testing.T) (*service_mocks.MockLedgerService, *echo.Echo) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	svc := service_mocks.NewMockLedgerService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(svc, log)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.GET("/books", h.SearchBooks)
	e.POST("/books", h.AddBook)
	e.POST("/borrow-records", h.BorrowBook, auth.MiddlewareUserName)
	e.POST("/borrow-records/:recordId/return", h.ReturnBook, auth.MiddlewareUserName)
	e.GET("/stats/dashboard", h.DashboardStats)
	return svc, e
}

func TestHandler_SearchBooks(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLedgerService)

	var tests = []struct {
		name         string
		target       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok",
			target: "/books?query=math&availability=available",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().
					SearchBooks(context.Background(), model.SearchFilters{
						Query:        "math",
						Availability: model.AvailabilityAvailable,
					}).
					Return([]model.Book{
						{
							ID:                "2",
							Title:             "Advanced Mathematics",
							Author:            "Jane Doe",
							ISBN:              "978-0987654321",
							Category:          model.CategoryMathematics,
							TotalQuantity:     8,
							AvailableQuantity: 6,
							ShelfLocation:     "MATH-045",
							PublicationYear:   2022,
							Publisher:         "Academic Press",
							LoanDurationDays:  21,
							CreatedAt:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
							UpdatedAt:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
						},
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[{"id":"2","title":"Advanced Mathematics","author":"Jane Doe","isbn":"978-0987654321","category":"Mathematics","totalQuantity":8,"availableQuantity":6,"shelfLocation":"MATH-045","publicationYear":2022,"publisher":"Academic Press","loanDurationDays":21,"createdAt":"2024-01-02T00:00:00Z","updatedAt":"2024-01-02T00:00:00Z"}]`,
			},
		},
		{
			name:         "err. availability invalid",
			target:       "/books?availability=lost",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"availability is invalid"}`,
			},
		},
		{
			name:   "err. internal",
			target: "/books",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().
					SearchBooks(context.Background(), model.SearchFilters{}).
					Return(nil, errors.New("store internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"store internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newTestRouter(t)
			tt.mockBehavior(svc)

			r := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_BorrowBook(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLedgerService)

	var tests = []struct {
		name         string
		body         string
		userName     string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:     "ok",
			body:     `{"bookId":"1","studentId":"STU002"}`,
			userName: "HND001",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().
					BorrowBook(context.Background(), model.BorrowBookRequest{
						BookID:    "1",
						StudentID: "STU002",
						HandlerID: "HND001",
					}).
					Return(model.BorrowRecord{
						ID:        "r1",
						BookID:    "1",
						StudentID: "STU002",
						HandlerID: "HND001",
						IssueDate: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
						DueDate:   time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC),
						Status:    model.StatusActive,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":"r1","bookId":"1","studentId":"STU002","handlerId":"HND001","issueDate":"2024-03-10T12:00:00Z","dueDate":"2024-03-24T12:00:00Z","status":"active"}`,
			},
		},
		{
			name:         "err. no user header",
			body:         `{"bookId":"1","studentId":"STU002"}`,
			userName:     "",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"No X-User-Name Header"}`,
			},
		},
		{
			name:     "err. no stock",
			body:     `{"bookId":"1","studentId":"STU002"}`,
			userName: "HND001",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().
					BorrowBook(context.Background(), gomock.Any()).
					Return(model.BorrowRecord{}, errs.ErrBookNotAvailable)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"book not available"}`,
			},
		},
		{
			name:     "err. unknown book",
			body:     `{"bookId":"nope","studentId":"STU002"}`,
			userName: "HND001",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().
					BorrowBook(context.Background(), gomock.Any()).
					Return(model.BorrowRecord{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newTestRouter(t)
			tt.mockBehavior(svc)

			r := httptest.NewRequest(http.MethodPost, "/borrow-records", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.userName != "" {
				r.Header.Set(auth.XUserNameHeader, tt.userName)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ReturnBook(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, e := newTestRouter(t)
		returnDate := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
		svc.EXPECT().
			ReturnBook(context.Background(), "r1", "HND002").
			Return(model.BorrowRecord{
				ID:         "r1",
				BookID:     "1",
				StudentID:  "STU002",
				HandlerID:  "HND001",
				IssueDate:  time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
				DueDate:    time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC),
				ReturnDate: &returnDate,
				Status:     model.StatusReturned,
			}, nil)

		r := httptest.NewRequest(http.MethodPost, "/borrow-records/r1/return", http.NoBody)
		r.Header.Set(auth.XUserNameHeader, "HND002")
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t,
			`{"id":"r1","bookId":"1","studentId":"STU002","handlerId":"HND001","issueDate":"2024-03-10T12:00:00Z","dueDate":"2024-03-24T12:00:00Z","returnDate":"2024-03-20T12:00:00Z","status":"returned"}`,
			strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("err. already returned", func(t *testing.T) {
		t.Parallel()
		svc, e := newTestRouter(t)
		svc.EXPECT().
			ReturnBook(context.Background(), "r1", "HND002").
			Return(model.BorrowRecord{}, errs.ErrAlreadyReturned)

		r := httptest.NewRequest(http.MethodPost, "/borrow-records/r1/return", http.NoBody)
		r.Header.Set(auth.XUserNameHeader, "HND002")
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, `{"message":"record already returned"}`, strings.Trim(w.Body.String(), "\n"))
	})
}

func TestHandler_AddBook(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, e := newTestRouter(t)
		created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		svc.EXPECT().
			AddBook(context.Background(), model.CreateBookRequest{
				Title:             "Clean Architecture",
				Author:            "Robert Martin",
				ISBN:              "978-0134494166",
				Category:          model.CategoryComputerScience,
				TotalQuantity:     4,
				AvailableQuantity: 4,
				ShelfLocation:     "CS-010",
				PublicationYear:   2017,
				Publisher:         "Prentice Hall",
				LoanDurationDays:  21,
			}).
			Return(model.Book{
				ID:                "b1",
				Title:             "Clean Architecture",
				Author:            "Robert Martin",
				ISBN:              "978-0134494166",
				Category:          model.CategoryComputerScience,
				TotalQuantity:     4,
				AvailableQuantity: 4,
				ShelfLocation:     "CS-010",
				PublicationYear:   2017,
				Publisher:         "Prentice Hall",
				LoanDurationDays:  21,
				CreatedAt:         created,
				UpdatedAt:         created,
			}, nil)

		body := `{"title":"Clean Architecture","author":"Robert Martin","isbn":"978-0134494166","category":"Computer Science","totalQuantity":4,"availableQuantity":4,"shelfLocation":"CS-010","publicationYear":2017,"publisher":"Prentice Hall","loanDurationDays":21}`
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("err. validation", func(t *testing.T) {
		t.Parallel()
		_, e := newTestRouter(t)

		// loanDurationDays out of range, title missing
		body := `{"author":"Robert Martin","isbn":"978-0134494166","category":"Computer Science","totalQuantity":4,"shelfLocation":"CS-010","publicationYear":2017,"publisher":"Prentice Hall","loanDurationDays":500}`
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_DashboardStats(t *testing.T) {
	t.Parallel()
	svc, e := newTestRouter(t)
	svc.EXPECT().
		DashboardStats(context.Background()).
		Return(model.DashboardStats{
			TotalBooks:          23,
			AvailableBooks:      17,
			BooksOnLoan:         6,
			OverdueBooks:        1,
			TotalStudents:       2,
			MonthlyTransactions: 0,
			CategoryStats: []model.CategoryStats{
				{Category: model.CategoryLiterature, Total: 10, Available: 8, OnLoan: 2},
				{Category: model.CategoryMathematics, Total: 8, Available: 6, OnLoan: 2},
				{Category: model.CategoryComputerScience, Total: 5, Available: 3, OnLoan: 2},
			},
		}, nil)

	r := httptest.NewRequest(http.MethodGet, "/stats/dashboard", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`{"totalBooks":23,"availableBooks":17,"booksOnLoan":6,"overdueBooks":1,"totalStudents":2,"monthlyTransactions":0,"categoryStats":[{"category":"Literature","total":10,"available":8,"onLoan":2},{"category":"Mathematics","total":8,"available":6,"onLoan":2},{"category":"Computer Science","total":5,"available":3,"onLoan":2}]}`,
		strings.Trim(w.Body.String(), "\n"))
}
