package repositories

import (
	"context"
	"fmt"
	"sync"

	"catalog/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products []models.Product
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make([]models.Product, 0),
	}
}

// GetAll returns a copy of all products in insertion order.
func (r *MemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, len(r.products))
	copy(productList, r.products)
	return productList, nil
}

// Create appends a product. The product must already carry its id.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	if product.ID == "" {
		return fmt.Errorf("product has no id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(product.ID) >= 0 {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrDuplicateProductID)
	}
	r.products = append(r.products, *product)
	return nil
}

// Delete removes the first product with the given id.
func (r *MemoryProductRepository) Delete(_ context.Context, id models.ID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	removed := r.products[i]
	r.products = append(r.products[:i], r.products[i+1:]...)
	return &removed, nil
}

// Count returns the number of stored products.
func (r *MemoryProductRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products), nil
}

// indexOf must be called with the lock held.
func (r *MemoryProductRepository) indexOf(id models.ID) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}
