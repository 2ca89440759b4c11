package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchidbooks/storefront/internal/cart"
	authmw "github.com/orchidbooks/storefront/internal/middleware/auth"
	"github.com/orchidbooks/storefront/internal/models"
)

type memStorage struct {
	data map[string][]byte
}

func (m *memStorage) Load(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memStorage) Save(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func testCartHandler() *CartHandler {
	return &CartHandler{
		Store:   cart.NewStore(&memStorage{data: map[string][]byte{}}),
		Catalog: testCatalog(),
	}
}

// doJSON drives a handler as the customer session "u1".
func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(authmw.CtxUserID, "u1")
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartView {
	t.Helper()

	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestGetCartEmpty(t *testing.T) {
	t.Parallel()

	h := testCartHandler()
	rec := doJSON(t, h.GetCart, http.MethodGet, "/api/v1/customer/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCart(t, rec)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
	assert.Empty(t, view.Wishlist)
}

func TestAddToCart(t *testing.T) {
	t.Parallel()

	h := testCartHandler()
	rec := doJSON(t, h.AddToCart, http.MethodPost, "/api/v1/customer/cart",
		`{"product_id":"1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCart(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "1", view.Items[0].Product.ID)
	assert.Equal(t, uint(2), view.Items[0].Quantity)
	assert.Equal(t, "25.98", view.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "25.98", view.Total.StringFixed(2))
}

func TestAddToCartValidation(t *testing.T) {
	t.Parallel()

	h := testCartHandler()

	rec := doJSON(t, h.AddToCart, http.MethodPost, "/api/v1/customer/cart", `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h.AddToCart, http.MethodPost, "/api/v1/customer/cart",
		`{"product_id":"999","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddToCartOutOfStock(t *testing.T) {
	t.Parallel()

	h := testCartHandler()

	// product 2 has zero stock in the fixture
	rec := doJSON(t, h.AddToCart, http.MethodPost, "/api/v1/customer/cart",
		`{"product_id":"2","quantity":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h.GetCart, http.MethodGet, "/api/v1/customer/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Items)
}

func TestUpdateCartItemClampsToStock(t *testing.T) {
	t.Parallel()

	h := testCartHandler()
	rec := doJSON(t, h.AddToCart, http.MethodPost, "/api/v1/customer/cart",
		`{"product_id":"1","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.UpdateCartItem, http.MethodPatch, "/api/v1/customer/cart/items/1",
		`{"quantity":9999}`, "id", "1")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCart(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(8), view.Items[0].Quantity)
}

func TestUpdateCartItemZeroRemoves(t *testing.T) {
	t.Parallel()

	h := testCartHandler()
	rec := doJSON(t, h.AddToCart, http.MethodPost, "/api/v1/customer/cart",
		`{"product_id":"1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.UpdateCartItem, http.MethodPatch, "/api/v1/customer/cart/items/1",
		`{"quantity":0}`, "id", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Items)
}

func TestRemoveCartItemIsNoopWhenAbsent(t *testing.T) {
	t.Parallel()

	h := testCartHandler()
	rec := doJSON(t, h.RemoveCartItem, http.MethodDelete, "/api/v1/customer/cart/items/1", "", "id", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Items)
}

func TestClearCartKeepsWishlist(t *testing.T) {
	t.Parallel()

	h := testCartHandler()
	rec := doJSON(t, h.AddToCart, http.MethodPost, "/api/v1/customer/cart",
		`{"product_id":"1","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h.AddToWishlist, http.MethodPost, "/api/v1/customer/wishlist",
		`{"product_id":"3"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.ClearCart, http.MethodDelete, "/api/v1/customer/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCart(t, rec)
	assert.Empty(t, view.Items)
	require.Len(t, view.Wishlist, 1)
	assert.Equal(t, "3", view.Wishlist[0].ID)
}

func TestWishlistRoundTrip(t *testing.T) {
	t.Parallel()

	h := testCartHandler()

	rec := doJSON(t, h.AddToWishlist, http.MethodPost, "/api/v1/customer/wishlist",
		`{"product_id":"999"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h.AddToWishlist, http.MethodPost, "/api/v1/customer/wishlist",
		`{"product_id":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// adding twice keeps a single entry
	rec = doJSON(t, h.AddToWishlist, http.MethodPost, "/api/v1/customer/wishlist",
		`{"product_id":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "1", products[0].ID)

	rec = doJSON(t, h.RemoveFromWishlist, http.MethodDelete, "/api/v1/customer/wishlist/1", "", "id", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCartRequiresSession(t *testing.T) {
	t.Parallel()

	h := testCartHandler()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customer/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetCart(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
