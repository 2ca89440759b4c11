package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orchidbooks/storefront/internal/models"
)

var ErrNotFound = errors.New("product not found")

// Source abstracts where the catalog comes from, so the query engine
// and the handlers can be fed by any backing store.
type Source interface {
	Products(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, id string) (*models.Product, error)
}

type GormSource struct {
	DB *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{DB: db}
}

func (s *GormSource) Products(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := s.DB.WithContext(ctx).
		Preload("Reviews").
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return items, nil
}

func (s *GormSource) Product(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.DB.WithContext(ctx).
		Preload("Reviews").
		Where("id = ?", id).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load product %s: %w", id, err)
	}
	return &p, nil
}

// Seed populates an empty store with the built-in catalog and the mock
// accounts. Existing data is left alone.
func (s *GormSource) Seed(ctx context.Context) error {
	db := s.DB.WithContext(ctx)

	var products int64
	if err := db.Model(&models.Product{}).Count(&products).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if products == 0 {
		seed := SeedProducts()
		if err := db.Create(&seed).Error; err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users == 0 {
		seed := SeedUsers()
		if err := db.Create(&seed).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}
	return nil
}
