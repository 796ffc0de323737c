package ledger

import (
	"time"

	"github.com/bookbase/ledger-service/internal/model"
)

// Built-in sample set used when the store holds no prior state.
func seedBooks() []model.Book {
	return []model.Book{
		{
			ID:                "1",
			Title:             "Introduction to Computer Science",
			Author:            "John Smith",
			ISBN:              "978-0123456789",
			Category:          model.CategoryComputerScience,
			TotalQuantity:     5,
			AvailableQuantity: 3,
			ShelfLocation:     "CS-001",
			PublicationYear:   2023,
			Publisher:         "Tech Publications",
			LoanDurationDays:  14,
			Description:       "Comprehensive introduction to computer science fundamentals",
			CoverURL:          "https://images.unsplash.com/photo-1516321318423-f06f85e504b3?w=300&h=400&fit=crop",
			CreatedAt:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
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
			Description:       "Advanced mathematical concepts and applications",
			CoverURL:          "https://images.unsplash.com/photo-1635070041078-e363dbe005cb?w=300&h=400&fit=crop",
			CreatedAt:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			UpdatedAt:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:                "3",
			Title:             "Modern Literature Anthology",
			Author:            "Various Authors",
			ISBN:              "978-0456789123",
			Category:          model.CategoryLiterature,
			TotalQuantity:     10,
			AvailableQuantity: 8,
			ShelfLocation:     "LIT-102",
			PublicationYear:   2023,
			Publisher:         "Literary House",
			LoanDurationDays:  14,
			Description:       "Collection of modern literary works",
			CoverURL:          "https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=300&h=400&fit=crop",
			CreatedAt:         time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			UpdatedAt:         time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	}
}

func seedRecords() []model.BorrowRecord {
	return []model.BorrowRecord{
		{
			ID:        "1",
			BookID:    "1",
			StudentID: "STU001",
			HandlerID: "HND001",
			IssueDate: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			DueDate:   time.Date(2024, 1, 29, 10, 0, 0, 0, time.UTC),
			Status:    model.StatusActive,
		},
	}
}
