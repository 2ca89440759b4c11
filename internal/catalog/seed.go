package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orchidbooks/storefront/internal/hash"
	"github.com/orchidbooks/storefront/internal/models"
)

type CategoryInfo struct {
	ID            models.Category `json:"id"`
	Name          string          `json:"name"`
	Subcategories []string        `json:"subcategories"`
}

func Categories() []CategoryInfo {
	return []CategoryInfo{
		{ID: models.CategoryBooks, Name: "Books", Subcategories: []string{"Fiction", "Non-Fiction", "Academic", "Children"}},
		{ID: models.CategoryStationery, Name: "Stationery", Subcategories: []string{"Pens", "Notebooks", "Art Supplies", "Office Supplies"}},
		{ID: models.CategoryISPPackages, Name: "ISP Packages", Subcategories: []string{"Fiber", "Business", "Home", "Mobile"}},
	}
}

func day(n int) time.Time {
	return time.Date(2024, time.January, n, 0, 0, 0, 0, time.UTC)
}

// SeedProducts is the static catalog for this build. Records are
// created once and never mutated at runtime.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Title:       "The Great Gatsby",
			Author:      "F. Scott Fitzgerald",
			Description: "A classic American novel set in the Jazz Age, exploring themes of wealth, love, and the American Dream.",
			Price:       decimal.NewFromFloat(12.99),
			Category:    models.CategoryBooks,
			Subcategory: "Fiction",
			Stock:       25,
			Images:      []string{"https://images.pexels.com/photos/1029141/pexels-photo-1029141.jpeg"},
			Rating:      4.5,
			Reviews: []models.Review{
				{
					ID:        "1",
					UserID:    "1",
					UserName:  "Sarah Johnson",
					Rating:    5,
					Comment:   "A timeless masterpiece! Beautifully written.",
					CreatedAt: day(15),
				},
			},
			Featured:  true,
			CreatedAt: day(1),
			UpdatedAt: day(1),
		},
		{
			ID:          "2",
			Title:       "To Kill a Mockingbird",
			Author:      "Harper Lee",
			Description: "A gripping tale of racial injustice and childhood innocence in the American South.",
			Price:       decimal.NewFromFloat(14.99),
			Category:    models.CategoryBooks,
			Subcategory: "Fiction",
			Stock:       18,
			Images:      []string{"https://images.pexels.com/photos/1029141/pexels-photo-1029141.jpeg"},
			Rating:      4.8,
			Featured:    true,
			CreatedAt:   day(2),
			UpdatedAt:   day(2),
		},
		{
			ID:          "3",
			Title:       "Introduction to Computer Science",
			Author:      "Dr. Michael Chen",
			Description: "Comprehensive guide to computer science fundamentals, perfect for students and professionals.",
			Price:       decimal.NewFromFloat(89.99),
			Category:    models.CategoryBooks,
			Subcategory: "Academic",
			Stock:       12,
			Images:      []string{"https://images.pexels.com/photos/159866/books-book-pages-read-literature-159866.jpeg"},
			Rating:      4.3,
			CreatedAt:   day(3),
			UpdatedAt:   day(3),
		},
		{
			ID:          "4",
			Title:       "The Little Prince",
			Author:      "Antoine de Saint-Exupéry",
			Description: "A beloved children's story about friendship, love, and the importance of seeing with the heart.",
			Price:       decimal.NewFromFloat(9.99),
			Category:    models.CategoryBooks,
			Subcategory: "Children",
			Stock:       30,
			Images:      []string{"https://images.pexels.com/photos/1029141/pexels-photo-1029141.jpeg"},
			Rating:      4.7,
			Featured:    true,
			CreatedAt:   day(4),
			UpdatedAt:   day(4),
		},
		{
			ID:          "5",
			Title:       "Premium Fountain Pen Set",
			Description: "Elegant fountain pen set with multiple ink cartridges, perfect for writing enthusiasts.",
			Price:       decimal.NewFromFloat(45.99),
			Category:    models.CategoryStationery,
			Subcategory: "Pens",
			Stock:       15,
			Images:      []string{"https://images.pexels.com/photos/1329296/pexels-photo-1329296.jpeg"},
			Rating:      4.6,
			Featured:    true,
			CreatedAt:   day(5),
			UpdatedAt:   day(5),
		},
		{
			ID:          "6",
			Title:       "Leather Bound Journal",
			Description: "Handcrafted leather journal with lined pages, perfect for daily writing and note-taking.",
			Price:       decimal.NewFromFloat(24.99),
			Category:    models.CategoryStationery,
			Subcategory: "Notebooks",
			Stock:       22,
			Images:      []string{"https://images.pexels.com/photos/1329296/pexels-photo-1329296.jpeg"},
			Rating:      4.4,
			CreatedAt:   day(6),
			UpdatedAt:   day(6),
		},
		{
			ID:          "7",
			Title:       "Professional Art Set",
			Description: "Complete art set with colored pencils, markers, and sketching tools for artists of all levels.",
			Price:       decimal.NewFromFloat(67.99),
			Category:    models.CategoryStationery,
			Subcategory: "Art Supplies",
			Stock:       8,
			Images:      []string{"https://images.pexels.com/photos/1329296/pexels-photo-1329296.jpeg"},
			Rating:      4.8,
			Featured:    true,
			CreatedAt:   day(7),
			UpdatedAt:   day(7),
		},
		{
			ID:          "8",
			Title:       "High-Speed Fiber 100Mbps",
			Description: "Ultra-fast fiber internet with 100Mbps download and upload speeds, perfect for streaming and gaming.",
			Price:       decimal.NewFromFloat(49.99),
			Category:    models.CategoryISPPackages,
			Subcategory: "Fiber",
			Stock:       100,
			Images:      []string{"https://images.pexels.com/photos/1148820/pexels-photo-1148820.jpeg"},
			Rating:      4.5,
			Featured:    true,
			CreatedAt:   day(8),
			UpdatedAt:   day(8),
		},
		{
			ID:          "9",
			Title:       "Business Premium 500Mbps",
			Description: "Enterprise-grade internet solution with 500Mbps speeds and priority support for businesses.",
			Price:       decimal.NewFromFloat(129.99),
			Category:    models.CategoryISPPackages,
			Subcategory: "Business",
			Stock:       50,
			Images:      []string{"https://images.pexels.com/photos/1148820/pexels-photo-1148820.jpeg"},
			Rating:      4.7,
			CreatedAt:   day(9),
			UpdatedAt:   day(9),
		},
		{
			ID:          "10",
			Title:       "Home Basic 50Mbps",
			Description: "Affordable home internet package with 50Mbps speeds, ideal for everyday browsing and streaming.",
			Price:       decimal.NewFromFloat(29.99),
			Category:    models.CategoryISPPackages,
			Subcategory: "Home",
			Stock:       75,
			Images:      []string{"https://images.pexels.com/photos/1148820/pexels-photo-1148820.jpeg"},
			Rating:      4.2,
			CreatedAt:   day(10),
			UpdatedAt:   day(10),
		},
	}
}

// SeedUsers are the mock accounts backing the credential store.
func SeedUsers() []models.User {
	return []models.User{
		{
			ID:           "1",
			Email:        "admin@orchidbookshop.com",
			Name:         "Admin User",
			PasswordHash: mustHash("admin123"),
			Role:         models.RoleAdmin,
			CreatedAt:    day(1),
			UpdatedAt:    day(1),
		},
		{
			ID:           "2",
			Email:        "operator@orchidbookshop.com",
			Name:         "Shop Operator",
			PasswordHash: mustHash("operator123"),
			Role:         models.RoleOperator,
			CreatedAt:    day(1),
			UpdatedAt:    day(1),
		},
		{
			ID:           "3",
			Email:        "customer@example.com",
			Name:         "John Customer",
			PasswordHash: mustHash("customer123"),
			Role:         models.RoleCustomer,
			CreatedAt:    day(1),
			UpdatedAt:    day(1),
		},
	}
}

func mustHash(password string) string {
	h, err := hash.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return h
}
