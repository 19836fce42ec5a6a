package hook

import (
	"context"
	"errors"
)

/* Small, focused interfaces following "The Go Way"
 * The request flow only ever reads hooks; writes belong to admin tooling
 */

// ErrNotFound is returned when a hook does not exist
var ErrNotFound = errors.New("hook not found")

// Reader provides read operations for hooks
type Reader interface {
	/* List returns the hooks of a variant type sorted by order ascending
	 * An unknown type yields an empty list, not an error
	 */
	List(ctx context.Context, typeID string) ([]Hook, error)
	Get(ctx context.Context, id string) (Hook, error)
}

// Writer provides write operations for hooks
type Writer interface {
	Save(ctx context.Context, h Hook) error
	Delete(ctx context.Context, id string) error
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */
type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
