package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the closed set of catalog departments.
type Category string

const (
	CategoryBooks       Category = "books"
	CategoryStationery  Category = "stationery"
	CategoryISPPackages Category = "isp-packages"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryBooks, CategoryStationery, CategoryISPPackages:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Role is the closed set of account roles. Adding a role means touching
// ParseRole and the authgate policy switch, both of which enumerate it.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleCustomer Role = "customer"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleOperator, RoleCustomer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type Product struct {
	ID          string          `gorm:"primaryKey"                json:"id"`
	Title       string          `gorm:"not null"                  json:"title"`
	Author      string          `json:"author,omitempty"`
	Description string          `gorm:"not null"                  json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    Category        `gorm:"index;not null"            json:"category"`
	Subcategory string          `gorm:"index"                     json:"subcategory"`
	Stock       uint            `json:"stock"`
	Images      []string        `gorm:"serializer:json"           json:"images"`
	Rating      float64         `json:"rating"`
	Reviews     []Review        `gorm:"foreignKey:ProductID"      json:"reviews"`
	Featured    bool            `json:"featured"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// InStock reports whether the product can be ordered. Out-of-stock
// products stay visible in the catalog.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Review is append-only: no update or delete path exists.
type Review struct {
	ID        string    `gorm:"primaryKey"     json:"id"`
	ProductID string    `gorm:"index;not null" json:"product_id"`
	UserID    string    `gorm:"not null"       json:"user_id"`
	UserName  string    `gorm:"not null"       json:"user_name"`
	Rating    int       `gorm:"check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           string    `gorm:"primaryKey"           json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"not null"             json:"name"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	Role         Role      `gorm:"not null"             json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	UserID    string    `gorm:"index;not null"       json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"             json:"expires_at"`
	Revoked   bool      `gorm:"default:false"        json:"revoked"`
}
