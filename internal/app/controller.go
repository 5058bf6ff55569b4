// internal/app/controller.go
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
)

// State is the top-level lifecycle of the storefront
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// View is the page shown while ready
type View string

const (
	ViewCatalog View = "catalog"
	ViewCart    View = "cart"
)

const (
	LoadingMessage    = "Loading amazing products..."
	unexpectedMessage = "An unexpected error occurred"
)

var (
	ErrNotReady        = errors.New("storefront is not ready")
	ErrProductNotFound = errors.New("product not found in catalog")
)

// CatalogFetcher lists the catalog
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) ([]catalog.Product, error)
}

// Controller owns the catalog, the view mode and the cart store. All
// transitions and cart operations are serialized.
type Controller struct {
	mu      sync.Mutex
	fetcher CatalogFetcher
	cart    *cart.Store
	log     logrus.FieldLogger

	state    State
	view     View
	message  string
	products []catalog.Product
	started  bool
	// bumped by every load so a stale fetch cannot overwrite a newer one
	generation int
}

// Snapshot is a read-only copy of everything the display needs
type Snapshot struct {
	State        State             `json:"state"`
	View         View              `json:"view,omitempty"`
	Message      string            `json:"message,omitempty"`
	Products     []catalog.Product `json:"products"`
	CartItems    []cart.LineItem   `json:"cart_items"`
	Totals       cart.Totals       `json:"totals"`
	CartQuantity int               `json:"cart_quantity"`
	MemoryOnly   bool              `json:"memory_only"`
}

// NewController creates a controller in the loading state
func NewController(fetcher CatalogFetcher, store *cart.Store, log logrus.FieldLogger) *Controller {
	return &Controller{
		fetcher: fetcher,
		cart:    store,
		log:     log.WithField("component", "controller"),
		state:   StateLoading,
		message: LoadingMessage,
	}
}

// Start fetches the catalog. Only the first call does anything; later calls
// return nil immediately. Failures are not retried.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	return c.load(ctx, gen)
}

// Reload is the user-initiated retry: back to loading, cart re-read from
// its slot, catalog fetched once more.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.started = true
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.view = ""
	c.message = LoadingMessage
	c.products = nil
	c.mu.Unlock()

	c.cart.Reload(ctx)
	return c.load(ctx, gen)
}

func (c *Controller) load(ctx context.Context, gen int) error {
	c.log.Info("Fetching catalog")
	products, err := c.fetcher.FetchCatalog(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.log.Debug("Discarding stale catalog fetch")
		return err
	}

	if err != nil {
		c.state = StateFailed
		c.view = ""
		c.message = failureMessage(err)
		c.products = nil
		c.log.WithError(err).Error("Catalog fetch failed")
		return err
	}

	c.state = StateReady
	c.view = ViewCatalog
	c.message = ""
	c.products = products
	c.log.WithField("products", len(products)).Info("Storefront ready")
	return nil
}

func failureMessage(err error) string {
	var unavailable *catalog.UnavailableError
	if errors.As(err, &unavailable) && unavailable.Message != "" {
		return unavailable.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unexpectedMessage
}

// State returns the lifecycle state and its message
func (c *Controller) State() (State, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state, c.message
}

// Snapshot copies the current view state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:        c.state,
		View:         c.view,
		Message:      c.message,
		Products:     c.productsLocked(),
		CartItems:    c.cart.Items(),
		Totals:       c.cart.Totals(),
		CartQuantity: c.cart.TotalQuantity(),
		MemoryOnly:   c.cart.MemoryOnly(),
	}
}

// Products returns the fetched catalog in upstream order
func (c *Controller) Products() ([]catalog.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return nil, ErrNotReady
	}
	return c.productsLocked(), nil
}

// CartQuantity is the header badge count
func (c *Controller) CartQuantity() int {
	return c.cart.TotalQuantity()
}

// MemoryOnly reports whether the cart has stopped persisting
func (c *Controller) MemoryOnly() bool {
	return c.cart.MemoryOnly()
}

// Cart returns the cart lines and their totals
func (c *Controller) Cart() ([]cart.LineItem, cart.Totals) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cart.Items(), c.cart.Totals()
}

// AddToCart adds one unit of a catalog product
func (c *Controller) AddToCart(ctx context.Context, productID int) ([]cart.LineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return nil, ErrNotReady
	}

	for _, p := range c.products {
		if p.ID == productID {
			return c.cart.AddItem(ctx, p), nil
		}
	}
	return nil, ErrProductNotFound
}

// UpdateQuantity sets a line's quantity; zero or less removes it
func (c *Controller) UpdateQuantity(ctx context.Context, productID, quantity int) ([]cart.LineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return nil, ErrNotReady
	}
	return c.cart.UpdateQuantity(ctx, productID, quantity), nil
}

// RemoveFromCart deletes a line
func (c *Controller) RemoveFromCart(ctx context.Context, productID int) ([]cart.LineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return nil, ErrNotReady
	}
	return c.cart.RemoveItem(ctx, productID), nil
}

// ClearCart empties the cart
func (c *Controller) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNotReady
	}
	c.cart.Clear(ctx)
	return nil
}

// ToggleCart flips between the catalog and the cart page
func (c *Controller) ToggleCart() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return "", ErrNotReady
	}
	if c.view == ViewCart {
		c.view = ViewCatalog
	} else {
		c.view = ViewCart
	}
	return c.view, nil
}

// ShowCart switches to the cart page
func (c *Controller) ShowCart() (View, error) {
	return c.setView(ViewCart)
}

// ShowCatalog goes back to the products page
func (c *Controller) ShowCatalog() (View, error) {
	return c.setView(ViewCatalog)
}

func (c *Controller) setView(v View) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return "", ErrNotReady
	}
	c.view = v
	return c.view, nil
}

func (c *Controller) productsLocked() []catalog.Product {
	out := make([]catalog.Product, len(c.products))
	copy(out, c.products)
	return out
}
