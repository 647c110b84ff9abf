package repositories

import (
	"context"
	"errors"

	"catalog/internal/models"
)

var (
	// ErrProductNotFound is returned when no product carries the requested id.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProductID is returned when a product is stored under an id already in use.
	ErrDuplicateProductID = errors.New("duplicate product id")
)

// ProductRepository defines the interface for product data access.
// Implementations keep products in insertion order.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Delete removes the product with the given id and returns its final state.
	Delete(ctx context.Context, id models.ID) (*models.Product, error)
	Count(ctx context.Context) (int, error)
}
