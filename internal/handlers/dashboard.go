package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/orchidbooks/storefront/internal/cart"
	"github.com/orchidbooks/storefront/internal/catalog"
	"github.com/orchidbooks/storefront/internal/logging"
	authmw "github.com/orchidbooks/storefront/internal/middleware/auth"
	"github.com/orchidbooks/storefront/internal/models"
)

const lowStockThreshold = 3

// DashboardHandler serves the role-scoped landing pages. Access control
// happens in the middleware layer, these handlers only assemble data.
type DashboardHandler struct {
	DB      *gorm.DB
	Catalog catalog.Source
	Store   *cart.Store
}

func (h *DashboardHandler) Admin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard_admin")

	var productCount, userCount, reviewCount int64
	if err := h.DB.WithContext(ctx).Model(&models.Product{}).Count(&productCount).Error; err != nil {
		l.Error("dashboard_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "dashboard failed")
	}
	if err := h.DB.WithContext(ctx).Model(&models.User{}).Count(&userCount).Error; err != nil {
		l.Error("dashboard_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "dashboard failed")
	}
	if err := h.DB.WithContext(ctx).Model(&models.Review{}).Count(&reviewCount).Error; err != nil {
		l.Error("dashboard_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "dashboard failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"role":     models.RoleAdmin,
		"products": productCount,
		"users":    userCount,
		"reviews":  reviewCount,
	})
}

func (h *DashboardHandler) Operator(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard_operator")

	products, err := h.Catalog.Products(ctx)
	if err != nil {
		l.Error("dashboard_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "dashboard failed")
	}

	lowStock := make([]models.Product, 0)
	outOfStock := make([]models.Product, 0)
	for _, p := range products {
		switch {
		case p.Stock == 0:
			outOfStock = append(outOfStock, p)
		case p.Stock <= lowStockThreshold:
			lowStock = append(lowStock, p)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"role":         models.RoleOperator,
		"low_stock":    lowStock,
		"out_of_stock": outOfStock,
	})
}

func (h *DashboardHandler) Customer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard_customer")

	userID, ok := authmw.UserID(c)
	if !ok {
		l.Warn("dashboard_failed", "status", 401, "reason", "no session")
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	state, err := h.Store.Get(ctx, userID)
	if err != nil {
		l.Error("dashboard_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "dashboard failed")
	}

	items := 0
	for _, it := range state.Items {
		items += int(it.Quantity)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"role":          models.RoleCustomer,
		"cart_items":    items,
		"wishlist_size": len(state.Wishlist),
	})
}
