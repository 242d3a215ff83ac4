package bank

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownItem is returned by StaticNameResolver for ids it has no name for.
var ErrUnknownItem = errors.New("unknown item id")

// NameResolver maps a numeric item id to its display name.
//
// On failure, implementations return an error together with the best name they have,
// which may be empty or a placeholder. The Extractor keeps that name and does not drop the record.
type NameResolver interface {
	ResolveName(ctx context.Context, itemID int) (string, error)
}

// NameResolverFunc adapts an ordinary function to the NameResolver interface.
type NameResolverFunc func(ctx context.Context, itemID int) (string, error)

// ResolveName calls f(ctx, itemID).
func (f NameResolverFunc) ResolveName(ctx context.Context, itemID int) (string, error) {
	return f(ctx, itemID)
}

// PlaceholderName is the fallback display name for an item id without a known name.
func PlaceholderName(itemID int) string {
	return fmt.Sprintf("Item %d", itemID)
}

// StaticNameResolver resolves names from a fixed table.
// Unknown ids yield PlaceholderName together with ErrUnknownItem.
type StaticNameResolver map[int]string

// ResolveName implements NameResolver.
func (r StaticNameResolver) ResolveName(_ context.Context, itemID int) (string, error) {
	if name, ok := r[itemID]; ok {
		return name, nil
	}

	return PlaceholderName(itemID), errors.Join(ErrUnknownItem, fmt.Errorf("item id %d", itemID))
}
