package repository

import (
	"context"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
)

// DirectoryRepository defines the interface for the loaded reference lists
type DirectoryRepository interface {
	Replace(ctx context.Context, dir models.Directory) error
	Get(ctx context.Context) (models.Directory, error)
	ProductByID(ctx context.Context, id int64) (*models.Product, error)
	CustomerByID(ctx context.Context, id int64) (*models.Customer, error)
}

// InMemoryDirectoryRepository implements DirectoryRepository with in-memory storage.
// A directory is swapped in whole, readers never observe a partially loaded one.
type InMemoryDirectoryRepository struct {
	mu        sync.RWMutex
	dir       models.Directory
	loaded    bool
	products  map[int64]models.Product
	customers map[int64]models.Customer
}

// NewInMemoryDirectoryRepository creates an empty repository
func NewInMemoryDirectoryRepository() *InMemoryDirectoryRepository {
	return &InMemoryDirectoryRepository{
		products:  make(map[int64]models.Product),
		customers: make(map[int64]models.Customer),
	}
}

// Replace swaps in a fully loaded directory
func (r *InMemoryDirectoryRepository) Replace(ctx context.Context, dir models.Directory) error {
	products := make(map[int64]models.Product, len(dir.Products))
	for _, p := range dir.Products {
		products[p.ID] = p
	}
	customers := make(map[int64]models.Customer, len(dir.Customers))
	for _, c := range dir.Customers {
		customers[c.ID] = c
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.dir = dir
	r.products = products
	r.customers = customers
	r.loaded = true
	return nil
}

// Get returns the current directory
func (r *InMemoryDirectoryRepository) Get(ctx context.Context) (models.Directory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.loaded {
		return models.Directory{}, models.ErrNotLoaded
	}
	return r.dir, nil
}

// ProductByID returns a product by its ID
func (r *InMemoryDirectoryRepository) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, models.ErrProductNotFound
	}
	return &product, nil
}

// CustomerByID returns a customer by its ID
func (r *InMemoryDirectoryRepository) CustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, exists := r.customers[id]
	if !exists {
		return nil, models.ErrCustomerNotFound
	}
	return &customer, nil
}
