package model

// CreateBookRequest carries every caller-supplied Book field. Validation
// happens at the HTTP edge; the ledger trusts its input.
type CreateBookRequest struct {
	Title             string   `json:"title" validate:"required"`
	Author            string   `json:"author" validate:"required"`
	ISBN              string   `json:"isbn" validate:"required"`
	Category          Category `json:"category" validate:"required,oneof=Science Arts Engineering Literature Mathematics History Philosophy 'Computer Science' Business Other"`
	TotalQuantity     int      `json:"totalQuantity" validate:"required,gte=1"`
	AvailableQuantity int      `json:"availableQuantity" validate:"gte=0,ltefield=TotalQuantity"`
	ShelfLocation     string   `json:"shelfLocation" validate:"required"`
	PublicationYear   int      `json:"publicationYear" validate:"required,gte=0"`
	Publisher         string   `json:"publisher" validate:"required"`
	LoanDurationDays  int      `json:"loanDurationDays" validate:"required,gte=1,lte=365"`
	Description       string   `json:"description"`
	CoverURL          string   `json:"coverUrl"`
}

// UpdateBookRequest is a partial Book: nil fields are left untouched.
type UpdateBookRequest struct {
	Title             *string   `json:"title"`
	Author            *string   `json:"author"`
	ISBN              *string   `json:"isbn"`
	Category          *Category `json:"category" validate:"omitempty,oneof=Science Arts Engineering Literature Mathematics History Philosophy 'Computer Science' Business Other"`
	TotalQuantity     *int      `json:"totalQuantity" validate:"omitempty,gte=1"`
	AvailableQuantity *int      `json:"availableQuantity" validate:"omitempty,gte=0"`
	ShelfLocation     *string   `json:"shelfLocation"`
	PublicationYear   *int      `json:"publicationYear"`
	Publisher         *string   `json:"publisher"`
	LoanDurationDays  *int      `json:"loanDurationDays" validate:"omitempty,gte=1,lte=365"`
	Description       *string   `json:"description"`
	CoverURL          *string   `json:"coverUrl"`
}

type BorrowBookRequest struct {
	BookID    string `json:"bookId" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
	HandlerID string `json:"-" validate:"required"`
}
