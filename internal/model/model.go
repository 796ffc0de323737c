package model

import (
	"time"
)

type Category string

const (
	CategoryScience         Category = "Science"
	CategoryArts            Category = "Arts"
	CategoryEngineering     Category = "Engineering"
	CategoryLiterature      Category = "Literature"
	CategoryMathematics     Category = "Mathematics"
	CategoryHistory         Category = "History"
	CategoryPhilosophy      Category = "Philosophy"
	CategoryComputerScience Category = "Computer Science"
	CategoryBusiness        Category = "Business"
	CategoryOther           Category = "Other"
)

// Categories is the fixed catalog taxonomy, in the order dashboard
// aggregation reports it.
var Categories = []Category{
	CategoryScience,
	CategoryArts,
	CategoryEngineering,
	CategoryLiterature,
	CategoryMathematics,
	CategoryHistory,
	CategoryPhilosophy,
	CategoryComputerScience,
	CategoryBusiness,
	CategoryOther,
}

type Book struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	ISBN              string    `json:"isbn"`
	Category          Category  `json:"category"`
	TotalQuantity     int       `json:"totalQuantity"`
	AvailableQuantity int       `json:"availableQuantity"`
	ShelfLocation     string    `json:"shelfLocation"`
	PublicationYear   int       `json:"publicationYear"`
	Publisher         string    `json:"publisher"`
	LoanDurationDays  int       `json:"loanDurationDays"`
	Description       string    `json:"description,omitempty"`
	CoverURL          string    `json:"coverUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type RecordStatus string

const (
	// StatusActive and StatusReturned are the only statuses ever persisted.
	// Overdue is a projection over an active record's due date, see
	// BorrowRecord.EffectiveStatus.
	StatusActive   RecordStatus = "active"
	StatusReturned RecordStatus = "returned"
	StatusOverdue  RecordStatus = "overdue"
)

type BorrowRecord struct {
	ID         string       `json:"id"`
	BookID     string       `json:"bookId"`
	StudentID  string       `json:"studentId"`
	HandlerID  string       `json:"handlerId"`
	IssueDate  time.Time    `json:"issueDate"`
	DueDate    time.Time    `json:"dueDate"`
	ReturnDate *time.Time   `json:"returnDate,omitempty"`
	Status     RecordStatus `json:"status"`
	LateFee    float64      `json:"lateFee,omitempty"`
	Notes      string       `json:"notes,omitempty"`
}

// EffectiveStatus projects the stored status against now: an active record
// past its due date reads as overdue.
func (r BorrowRecord) EffectiveStatus(now time.Time) RecordStatus {
	if r.Status == StatusActive && r.DueDate.Before(now) {
		return StatusOverdue
	}
	return r.Status
}

type Role string

const (
	RoleStudent Role = "student"
	RoleHandler Role = "handler"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	StudentID string    `json:"studentId,omitempty"`
	HandlerID string    `json:"handlerId,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type Availability string

const (
	AvailabilityAll       Availability = "all"
	AvailabilityAvailable Availability = "available"
	AvailabilityBorrowed  Availability = "borrowed"
)

// SearchFilters are combined with logical AND; zero values mean "no filter".
type SearchFilters struct {
	Query        string
	Category     Category
	Author       string
	ISBN         string
	Availability Availability
}

type CategoryStats struct {
	Category  Category `json:"category"`
	Total     int      `json:"total"`
	Available int      `json:"available"`
	OnLoan    int      `json:"onLoan"`
}

type DashboardStats struct {
	TotalBooks          int             `json:"totalBooks"`
	AvailableBooks      int             `json:"availableBooks"`
	BooksOnLoan         int             `json:"booksOnLoan"`
	OverdueBooks        int             `json:"overdueBooks"`
	TotalStudents       int             `json:"totalStudents"`
	MonthlyTransactions int             `json:"monthlyTransactions"`
	CategoryStats       []CategoryStats `json:"categoryStats"`
}

// OverdueItem is an overdue record joined with its book and the borrowing
// student.
type OverdueItem struct {
	Record  BorrowRecord `json:"record"`
	Book    Book         `json:"book"`
	Student User         `json:"student"`
}

type ReportType string

const (
	ReportDaily   ReportType = "daily"
	ReportWeekly  ReportType = "weekly"
	ReportMonthly ReportType = "monthly"
)

type PopularBook struct {
	BookID      string `json:"bookId"`
	Title       string `json:"title"`
	BorrowCount int    `json:"borrowCount"`
}

type ReportData struct {
	Type              ReportType    `json:"type"`
	StartDate         time.Time     `json:"startDate"`
	EndDate           time.Time     `json:"endDate"`
	TotalTransactions int           `json:"totalTransactions"`
	BooksIssued       int           `json:"booksIssued"`
	BooksReturned     int           `json:"booksReturned"`
	OverdueItems      int           `json:"overdueItems"`
	PopularBooks      []PopularBook `json:"popularBooks"`
}
