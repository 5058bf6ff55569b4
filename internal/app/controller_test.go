// internal/app/controller_test.go
package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/pkg/logger"
)

type fakeFetcher struct {
	calls    atomic.Int32
	products []catalog.Product
	err      error
}

func (f *fakeFetcher) FetchCatalog(context.Context) ([]catalog.Product, error) {
	f.calls.Add(1)
	return f.products, f.err
}

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("10.00"), Image: "b.jpg"},
		{ID: 2, Title: "Jacket", Price: decimal.RequireFromString("55.99"), Image: "j.jpg"},
	}
}

func setup(t *testing.T, fetcher CatalogFetcher) (*Controller, storage.Slot) {
	t.Helper()
	slot := storage.NewMemorySlot()
	store := cart.Open(context.Background(), slot, "modernshop-cart", logger.Discard())
	return NewController(fetcher, store, logger.Discard()), slot
}

func TestController_InitialState(t *testing.T) {
	c, _ := setup(t, &fakeFetcher{})

	state, msg := c.State()
	assert.Equal(t, StateLoading, state)
	assert.Equal(t, LoadingMessage, msg)

	_, err := c.AddToCart(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = c.Products()
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = c.ToggleCart()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestController_StartSuccess(t *testing.T) {
	fetcher := &fakeFetcher{products: sampleProducts()}
	c, _ := setup(t, fetcher)

	require.NoError(t, c.Start(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, ViewCatalog, snap.View)
	assert.Empty(t, snap.Message)
	assert.Len(t, snap.Products, 2)
	assert.Empty(t, snap.CartItems)
}

func TestController_StartFetchesOnce(t *testing.T) {
	fetcher := &fakeFetcher{products: sampleProducts()}
	c, _ := setup(t, fetcher)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Start(context.Background())
		}()
	}
	wg.Wait()
	require.NoError(t, c.Start(context.Background()))

	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestController_StartFailureAgainstServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := catalog.NewClientWithHTTP(srv.URL, srv.Client(), logger.Discard())
	c, _ := setup(t, client)

	err := c.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)

	state, msg := c.State()
	assert.Equal(t, StateFailed, state)
	assert.NotEmpty(t, msg)
	assert.Equal(t, "Failed to fetch products. Please try again later.", msg)

	// failed stays failed: no automatic retry
	require.NoError(t, c.Start(context.Background()))
	state, _ = c.State()
	assert.Equal(t, StateFailed, state)
}

func TestController_FailureMessageFallback(t *testing.T) {
	c, _ := setup(t, &fakeFetcher{err: errors.New("")})

	require.Error(t, c.Start(context.Background()))
	_, msg := c.State()
	assert.Equal(t, "An unexpected error occurred", msg)
}

func TestController_ReloadRecovers(t *testing.T) {
	fetcher := &fakeFetcher{err: &catalog.UnavailableError{StatusCode: 503, Message: "down"}}
	c, _ := setup(t, fetcher)

	require.Error(t, c.Start(context.Background()))
	state, _ := c.State()
	require.Equal(t, StateFailed, state)

	fetcher.err = nil
	fetcher.products = sampleProducts()
	require.NoError(t, c.Reload(context.Background()))

	state, _ = c.State()
	assert.Equal(t, StateReady, state)
	assert.Equal(t, int32(2), fetcher.calls.Load())
}

func TestController_ReloadKeepsPersistedCart(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{products: sampleProducts()}
	c, _ := setup(t, fetcher)
	require.NoError(t, c.Start(ctx))

	_, err := c.AddToCart(ctx, 2)
	require.NoError(t, err)
	_, err = c.ToggleCart()
	require.NoError(t, err)

	require.NoError(t, c.Reload(ctx))

	snap := c.Snapshot()
	assert.Equal(t, ViewCatalog, snap.View)
	require.Len(t, snap.CartItems, 1)
	assert.Equal(t, 2, snap.CartItems[0].ID)
}

func TestController_CartOperations(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t, &fakeFetcher{products: sampleProducts()})
	require.NoError(t, c.Start(ctx))

	items, err := c.AddToCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = c.AddToCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].Quantity)

	_, err = c.AddToCart(ctx, 404)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = c.AddToCart(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, c.CartQuantity())

	items, err = c.UpdateQuantity(ctx, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, items[1].Quantity)

	items, err = c.UpdateQuantity(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = c.RemoveFromCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = c.AddToCart(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, c.ClearCart(ctx))
	lines, totals := c.Cart()
	assert.Empty(t, lines)
	assert.Zero(t, totals.TotalQuantity)
}

func TestController_CartDoesNotTouchCatalog(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{products: sampleProducts()}
	c, _ := setup(t, fetcher)
	require.NoError(t, c.Start(ctx))

	before, err := c.Products()
	require.NoError(t, err)

	_, _ = c.AddToCart(ctx, 1)
	_, _ = c.UpdateQuantity(ctx, 1, 9)
	_, _ = c.RemoveFromCart(ctx, 1)

	after, err := c.Products()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestController_ViewModes(t *testing.T) {
	c, _ := setup(t, &fakeFetcher{products: sampleProducts()})
	require.NoError(t, c.Start(context.Background()))

	v, err := c.ToggleCart()
	require.NoError(t, err)
	assert.Equal(t, ViewCart, v)

	v, err = c.ToggleCart()
	require.NoError(t, err)
	assert.Equal(t, ViewCatalog, v)

	v, err = c.ShowCart()
	require.NoError(t, err)
	assert.Equal(t, ViewCart, v)

	v, err = c.ShowCatalog()
	require.NoError(t, err)
	assert.Equal(t, ViewCatalog, v)
}
