// internal/domain/catalog/client.go
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
)

const (
	msgProductsUnavailable = "Failed to fetch products. Please try again later."
	msgProductUnavailable  = "Failed to fetch product. Please try again later."
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client reads products from the catalog service. A malformed element rejects
// the whole response; nothing is cached and failed requests are not retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient creates a catalog client from configuration
func NewClient(cfg *config.Config, log logrus.FieldLogger) *Client {
	return NewClientWithHTTP(cfg.Catalog.BaseURL, &http.Client{Timeout: cfg.Catalog.Timeout}, log)
}

// NewClientWithHTTP creates a catalog client using the given transport
func NewClientWithHTTP(baseURL string, httpClient *http.Client, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log.WithField("component", "catalog"),
	}
}

// FetchCatalog lists every product in upstream order
func (c *Client) FetchCatalog(ctx context.Context) ([]Product, error) {
	var wire []wireProduct
	if err := c.get(ctx, "/products", &wire, msgProductsUnavailable); err != nil {
		c.log.WithError(err).Error("Error fetching products")
		return nil, err
	}

	products, err := toProducts(wire)
	if err != nil {
		err = &UnavailableError{Message: msgProductsUnavailable, Err: err}
		c.log.WithError(err).Error("Error fetching products")
		return nil, err
	}

	c.log.WithField("count", len(products)).Debug("Catalog fetched")
	return products, nil
}

// FetchProduct reads a single product by id
func (c *Client) FetchProduct(ctx context.Context, id int) (*Product, error) {
	var wire wireProduct
	if err := c.get(ctx, "/products/"+strconv.Itoa(id), &wire, msgProductUnavailable); err != nil {
		c.log.WithError(err).WithField("product_id", id).Error("Error fetching product")
		return nil, err
	}

	product, err := wire.toProduct()
	if err != nil {
		err = &UnavailableError{Message: msgProductUnavailable, Err: err}
		c.log.WithError(err).WithField("product_id", id).Error("Error fetching product")
		return nil, err
	}
	return &product, nil
}

// FetchByCategory lists the products of one category in upstream order
func (c *Client) FetchByCategory(ctx context.Context, category string) ([]Product, error) {
	var wire []wireProduct
	path := "/products/category/" + url.PathEscape(category)
	if err := c.get(ctx, path, &wire, msgProductsUnavailable); err != nil {
		c.log.WithError(err).WithField("category", category).Error("Error fetching products for category")
		return nil, err
	}

	products, err := toProducts(wire)
	if err != nil {
		err = &UnavailableError{Message: msgProductsUnavailable, Err: err}
		c.log.WithError(err).WithField("category", category).Error("Error fetching products for category")
		return nil, err
	}
	return products, nil
}

func (c *Client) get(ctx context.Context, path string, dest interface{}, message string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &UnavailableError{Message: message, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UnavailableError{Message: message, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return &UnavailableError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Err:        fmt.Errorf("HTTP error! status: %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &UnavailableError{Message: message, Err: fmt.Errorf("malformed payload: %w", err)}
	}
	return nil
}

func toProducts(wire []wireProduct) ([]Product, error) {
	if wire == nil {
		return nil, fmt.Errorf("malformed payload: expected an array")
	}

	products := make([]Product, 0, len(wire))
	for i, w := range wire {
		p, err := w.toProduct()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}
