package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbase/ledger-service/internal/errs"
	"github.com/bookbase/ledger-service/internal/model"
	"github.com/bookbase/ledger-service/pkg/auth"
	"github.com/bookbase/ledger-service/pkg/validate"
)

type Handler struct {
	ledgerSvc LedgerService
	log       *zap.Logger
}

func New(ledgerSvc LedgerService, log *zap.Logger) *Handler {
	return &Handler{
		ledgerSvc: ledgerSvc,
		log:       log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig()),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	api.POST("/books", h.AddBook)
	api.GET("/books", h.SearchBooks)
	api.GET("/books/:bookId", h.GetBook)
	api.PATCH("/books/:bookId", h.UpdateBook)
	api.DELETE("/books/:bookId", h.DeleteBook)

	api.POST("/borrow-records", h.BorrowBook, auth.MiddlewareUserName)
	api.POST("/borrow-records/:recordId/return", h.ReturnBook, auth.MiddlewareUserName)
	api.GET("/borrow-records/overdue", h.OverdueBooks)

	api.GET("/students/:studentId/borrow-records", h.StudentBorrowHistory)

	api.GET("/stats/dashboard", h.DashboardStats)
	api.GET("/stats/report", h.GenerateReport)

	api.GET("/users", h.ListUsers)
	api.GET("/users/:id", h.GetUser)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) AddBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	book, err := h.ledgerSvc.AddBook(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	bookID := c.Param("bookId")
	if bookID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty bookId")
	}
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	book, err := h.ledgerSvc.UpdateBook(c.Request().Context(), bookID, req)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	bookID := c.Param("bookId")
	if bookID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty bookId")
	}
	if err := h.ledgerSvc.DeleteBook(c.Request().Context(), bookID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetBook(c echo.Context) error {
	bookID := c.Param("bookId")
	book, err := h.ledgerSvc.GetBook(c.Request().Context(), bookID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) SearchBooks(c echo.Context) error {
	filters := model.SearchFilters{
		Query:        c.QueryParam("query"),
		Category:     model.Category(c.QueryParam("category")),
		Author:       c.QueryParam("author"),
		ISBN:         c.QueryParam("isbn"),
		Availability: model.Availability(c.QueryParam("availability")),
	}
	switch filters.Availability {
	case "", model.AvailabilityAll, model.AvailabilityAvailable, model.AvailabilityBorrowed:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "availability is invalid")
	}

	books, err := h.ledgerSvc.SearchBooks(c.Request().Context(), filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) BorrowBook(c echo.Context) error {
	var req model.BorrowBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	handlerID, err := auth.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.HandlerID = handlerID
	if err := c.Validate(req); err != nil {
		return err
	}

	record, err := h.ledgerSvc.BorrowBook(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrBookNotAvailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, record)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	recordID := c.Param("recordId")
	if recordID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty recordId")
	}
	handlerID, err := auth.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	record, err := h.ledgerSvc.ReturnBook(c.Request().Context(), recordID, handlerID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrAlreadyReturned):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, record)
}

func (h *Handler) OverdueBooks(c echo.Context) error {
	items, err := h.ledgerSvc.OverdueBooks(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) StudentBorrowHistory(c echo.Context) error {
	studentID := c.Param("studentId")
	if studentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty studentId")
	}
	records, err := h.ledgerSvc.StudentBorrowHistory(c.Request().Context(), studentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) DashboardStats(c echo.Context) error {
	stats, err := h.ledgerSvc.DashboardStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) GenerateReport(c echo.Context) error {
	rt := model.ReportType(c.QueryParam("type"))
	switch rt {
	case model.ReportDaily, model.ReportWeekly, model.ReportMonthly:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "type is invalid")
	}

	report, err := h.ledgerSvc.GenerateReport(c.Request().Context(), rt)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.ledgerSvc.ListUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c echo.Context) error {
	id := c.Param("id")
	user, err := h.ledgerSvc.GetUser(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}
