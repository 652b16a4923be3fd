package archive

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("archive not found")

// Store keeps finished archives by download id.
type Store interface {
	Put(ctx context.Context, id string, content []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	// GetURL returns a direct download URL, or "" when the store serves
	// content only through Get.
	GetURL(ctx context.Context, id, filename string) (string, error)
}
