package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/orchidbooks/storefront/internal/cart"
	"github.com/orchidbooks/storefront/internal/catalog"
	"github.com/orchidbooks/storefront/internal/events"
	"github.com/orchidbooks/storefront/internal/logging"
	authmw "github.com/orchidbooks/storefront/internal/middleware/auth"
	"github.com/orchidbooks/storefront/internal/models"
)

type CartHandler struct {
	Store    *cart.Store
	Catalog  catalog.Source
	Producer *events.Producer
}

type cartItemView struct {
	Product  models.Product  `json:"product"`
	Quantity uint            `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Items    []cartItemView   `json:"items"`
	Total    decimal.Decimal  `json:"total"`
	Wishlist []models.Product `json:"wishlist"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	state, err := h.Store.Get(ctx, userID)
	if err != nil {
		l.Error("get_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}
	return h.renderState(c, state)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  uint   `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" {
		l.Warn("add_to_cart_failed", "status", 400, "reason", "product_id required")
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	p, err := h.Catalog.Product(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.Warn("add_to_cart_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_to_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load product")
	}

	state, err := h.Store.AddToCart(ctx, userID, p, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrOutOfStock) {
			l.Warn("add_to_cart_failed", "status", 409, "reason", "out of stock")
			return echo.NewHTTPError(http.StatusConflict, "out of stock")
		}
		l.Error("add_to_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}

	h.publishCartEvent(c, userID, map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": p.ID,
		"quantity":   req.Quantity,
	})

	l.Info("add_to_cart_success", "product_id", p.ID)
	return h.renderState(c, state)
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	productID := c.Param("id")
	p, err := h.Catalog.Product(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.Warn("update_cart_item_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("update_cart_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load product")
	}

	state, err := h.Store.UpdateQuantity(ctx, userID, p, req.Quantity)
	if err != nil {
		l.Error("update_cart_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}

	l.Info("update_cart_item_success", "product_id", productID, "quantity", req.Quantity)
	return h.renderState(c, state)
}

func (h *CartHandler) RemoveCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	// absent rows are a no-op, not an error
	state, err := h.Store.RemoveFromCart(ctx, userID, c.Param("id"))
	if err != nil {
		l.Error("remove_cart_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}

	h.publishCartEvent(c, userID, map[string]any{
		"type":       "cart_item_removed",
		"user_id":    userID,
		"product_id": c.Param("id"),
	})

	return h.renderState(c, state)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	state, err := h.Store.ClearCart(ctx, userID)
	if err != nil {
		l.Error("clear_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot clear cart")
	}

	h.publishCartEvent(c, userID, map[string]any{
		"type":    "cart_cleared",
		"user_id": userID,
	})

	l.Info("clear_cart_success")
	return h.renderState(c, state)
}

func (h *CartHandler) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	state, err := h.Store.Get(ctx, userID)
	if err != nil {
		l.Error("get_wishlist_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load wishlist")
	}

	products, err := h.hydrateWishlist(ctx, state)
	if err != nil {
		l.Error("get_wishlist_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load wishlist")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CartHandler) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_wishlist_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Catalog.Product(ctx, req.ProductID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.Warn("add_to_wishlist_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_to_wishlist_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load product")
	}

	state, err := h.Store.AddToWishlist(ctx, userID, req.ProductID)
	if err != nil {
		l.Error("add_to_wishlist_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update wishlist")
	}

	products, err := h.hydrateWishlist(ctx, state)
	if err != nil {
		l.Error("add_to_wishlist_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load wishlist")
	}

	l.Info("add_to_wishlist_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, products)
}

func (h *CartHandler) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	state, err := h.Store.RemoveFromWishlist(ctx, userID, c.Param("id"))
	if err != nil {
		l.Error("remove_from_wishlist_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update wishlist")
	}

	products, err := h.hydrateWishlist(ctx, state)
	if err != nil {
		l.Error("remove_from_wishlist_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load wishlist")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CartHandler) renderState(c echo.Context, state cart.State) error {
	ctx := c.Request().Context()

	view := cartView{
		Items:    []cartItemView{},
		Total:    decimal.Zero,
		Wishlist: []models.Product{},
	}
	for _, it := range state.Items {
		p, err := h.Catalog.Product(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart products")
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		view.Items = append(view.Items, cartItemView{Product: *p, Quantity: it.Quantity, Subtotal: subtotal})
		view.Total = view.Total.Add(subtotal)
	}

	wishlist, err := h.hydrateWishlist(ctx, state)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load wishlist products")
	}
	view.Wishlist = wishlist

	return c.JSON(http.StatusOK, view)
}

func (h *CartHandler) hydrateWishlist(ctx context.Context, state cart.State) ([]models.Product, error) {
	out := []models.Product{}
	for _, id := range state.Wishlist {
		p, err := h.Catalog.Product(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (h *CartHandler) publishCartEvent(c echo.Context, key string, event map[string]any) {
	if err := h.Producer.Publish(c.Request().Context(), events.TopicCartEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("publish cart event", "error", err)
	}
}
