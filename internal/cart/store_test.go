package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchidbooks/storefront/internal/models"
)

type memStorage struct {
	data map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string][]byte)}
}

func (m *memStorage) Load(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memStorage) Save(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

// brokenStorage accepts a fixed number of writes and then fails every
// save, so transitions can be observed failing after a good prefix.
type brokenStorage struct {
	memStorage
	writesLeft int
}

func (b *brokenStorage) Save(ctx context.Context, key string, value []byte) error {
	if b.writesLeft <= 0 {
		return errors.New("disk full")
	}
	b.writesLeft--
	return b.memStorage.Save(ctx, key, value)
}

func product(id string, stock uint) *models.Product {
	return &models.Product{ID: id, Title: "p-" + id, Price: decimal.NewFromFloat(9.99), Stock: stock}
}

func TestStoreGetUnknownUser(t *testing.T) {
	t.Parallel()

	s := NewStore(newMemStorage())
	st, err := s.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, st.Items)
	assert.Empty(t, st.Wishlist)
}

func TestStoreAddToCartMergesAndClamps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(newMemStorage())
	p := product("1", 3)

	st, err := s.AddToCart(ctx, "u1", p, 2)
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, uint(2), st.Items[0].Quantity)

	// second add merges into the same row and clamps at stock
	st, err = s.AddToCart(ctx, "u1", p, 2)
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, uint(3), st.Items[0].Quantity)
}

func TestStoreAddToCartZeroQuantityMeansOne(t *testing.T) {
	t.Parallel()

	s := NewStore(newMemStorage())
	st, err := s.AddToCart(context.Background(), "u1", product("1", 10), 0)
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, uint(1), st.Items[0].Quantity)
}

func TestStoreAddToCartOutOfStock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(newMemStorage())

	_, err := s.AddToCart(ctx, "u1", product("1", 0), 1)
	require.ErrorIs(t, err, ErrOutOfStock)

	// persisted state is untouched
	st, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, st.Items)
}

func TestStoreUpdateQuantity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(newMemStorage())
	p := product("1", 5)

	_, err := s.AddToCart(ctx, "u1", p, 2)
	require.NoError(t, err)

	st, err := s.UpdateQuantity(ctx, "u1", p, 4)
	require.NoError(t, err)
	assert.Equal(t, uint(4), st.Items[0].Quantity)

	// clamped, not rejected
	st, err = s.UpdateQuantity(ctx, "u1", p, 9999)
	require.NoError(t, err)
	assert.Equal(t, uint(5), st.Items[0].Quantity)

	// zero removes the row
	st, err = s.UpdateQuantity(ctx, "u1", p, 0)
	require.NoError(t, err)
	assert.Empty(t, st.Items)
}

func TestStoreUpdateQuantityAbsentRowIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(newMemStorage())

	_, err := s.AddToCart(ctx, "u1", product("1", 5), 1)
	require.NoError(t, err)

	st, err := s.UpdateQuantity(ctx, "u1", product("2", 5), 3)
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, "1", st.Items[0].ProductID)
}

func TestStoreRemoveFromCartIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(newMemStorage())

	_, err := s.AddToCart(ctx, "u1", product("1", 5), 1)
	require.NoError(t, err)

	st, err := s.RemoveFromCart(ctx, "u1", "1")
	require.NoError(t, err)
	assert.Empty(t, st.Items)

	st, err = s.RemoveFromCart(ctx, "u1", "1")
	require.NoError(t, err)
	assert.Empty(t, st.Items)
}

func TestStoreClearCartKeepsWishlist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(newMemStorage())

	_, err := s.AddToCart(ctx, "u1", product("1", 5), 1)
	require.NoError(t, err)
	_, err = s.AddToWishlist(ctx, "u1", "2")
	require.NoError(t, err)

	st, err := s.ClearCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, st.Items)
	assert.Equal(t, []string{"2"}, st.Wishlist)
}

func TestStoreWishlistIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(newMemStorage())

	_, err := s.AddToWishlist(ctx, "u1", "7")
	require.NoError(t, err)
	st, err := s.AddToWishlist(ctx, "u1", "7")
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, st.Wishlist)

	st, err = s.RemoveFromWishlist(ctx, "u1", "7")
	require.NoError(t, err)
	assert.Empty(t, st.Wishlist)

	st, err = s.RemoveFromWishlist(ctx, "u1", "7")
	require.NoError(t, err)
	assert.Empty(t, st.Wishlist)
}

func TestStoreFailedSaveSurfacesAndKeepsState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	broken := &brokenStorage{
		memStorage: memStorage{data: make(map[string][]byte)},
		writesLeft: 1,
	}
	s := NewStore(broken)

	_, err := s.AddToCart(ctx, "u1", product("1", 5), 2)
	require.NoError(t, err)

	// the second write hits the failure and the transition surfaces it
	_, err = s.AddToCart(ctx, "u1", product("2", 5), 1)
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")

	// readers still see the last successfully saved state
	st, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, "1", st.Items[0].ProductID)
	assert.Equal(t, uint(2), st.Items[0].Quantity)
}

func TestStoreUsersAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(newMemStorage())

	_, err := s.AddToCart(ctx, "u1", product("1", 5), 1)
	require.NoError(t, err)

	st, err := s.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, st.Items)
}

func TestStoreStateSurvivesStoreInstances(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := newMemStorage()

	first := NewStore(mem)
	_, err := first.AddToCart(ctx, "u1", product("1", 5), 2)
	require.NoError(t, err)
	_, err = first.AddToWishlist(ctx, "u1", "9")
	require.NoError(t, err)

	second := NewStore(mem)
	st, err := second.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, uint(2), st.Items[0].Quantity)
	assert.Equal(t, []string{"9"}, st.Wishlist)
}
