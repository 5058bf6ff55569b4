// internal/domain/catalog/errors.go
package catalog

import (
	"errors"
	"fmt"
)

// ErrCatalogUnavailable matches every catalog fetch failure via errors.Is
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// UnavailableError describes a failed catalog request. StatusCode is zero
// when the request never produced an HTTP response or the body was unusable.
type UnavailableError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UnavailableError) Error() string {
	return e.Message
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrCatalogUnavailable
}

// Detail includes the underlying cause, for logs rather than users
func (e *UnavailableError) Detail() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%v)", e.Message, e.Err)
	}
	return e.Message
}
