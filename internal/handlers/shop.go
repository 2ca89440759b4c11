package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/orchidbooks/storefront/internal/catalog"
	"github.com/orchidbooks/storefront/internal/logging"
	"github.com/orchidbooks/storefront/internal/models"
	"github.com/orchidbooks/storefront/internal/util"
)

type ShopHandler struct {
	Catalog catalog.Source
}

func (h *ShopHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, catalog.Categories())
}

// GetProducts runs the filter/sort engine over the catalog snapshot and
// pages the result. Unparseable filter values are ignored rather than
// rejected; the engine's garbage-in policy covers the rest.
func (h *ShopHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.get_products")

	filter := parseFilter(c)
	sortKey := catalog.ParseSortKey(c.QueryParam("sort"))
	search := c.QueryParam("q")

	products, err := h.Catalog.Products(ctx)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "reason", "cannot load catalog", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load catalog")
	}

	result := catalog.Query(products, search, filter, sortKey)

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total := len(result)
	pageItems := paginate(result, offset, limit)

	l.Info("get_products_success", "total", total, "returned", len(pageItems))
	return c.JSON(http.StatusOK, map[string]any{
		"data": pageItems,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + limit - 1) / limit,
			"has_prev":    page > 1,
			"has_next":    offset+limit < total,
		},
	})
}

func (h *ShopHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.get_product")

	p, err := h.Catalog.Product(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load product")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ShopHandler) GetProductReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.get_product_reviews")

	p, err := h.Catalog.Product(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.Warn("get_product_reviews_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_reviews_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load product")
	}

	reviews := p.Reviews
	if reviews == nil {
		reviews = []models.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

func parseFilter(c echo.Context) catalog.Filter {
	var f catalog.Filter

	for _, raw := range splitCSV(c.QueryParam("categories")) {
		if cat, err := models.ParseCategory(raw); err == nil {
			f.Categories = append(f.Categories, cat)
		}
	}
	f.Subcategories = splitCSV(c.QueryParam("subcategories"))

	if v := c.QueryParam("price_min"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.PriceMin = d
		}
	}
	if v := c.QueryParam("price_max"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.PriceMax = d
		}
	}
	if v := c.QueryParam("rating"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.Rating, _ = d.Float64()
		}
	}
	f.InStock = c.QueryParam("in_stock") == "true"
	f.Featured = c.QueryParam("featured") == "true"
	return f
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func paginate(items []models.Product, offset, limit int) []models.Product {
	if offset >= len(items) {
		return []models.Product{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
