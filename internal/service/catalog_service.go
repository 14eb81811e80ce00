package service

import (
	"context"
	"log/slog"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/search"
)

// DirectoryLoader fetches every reference list in one batch
type DirectoryLoader interface {
	LoadDirectory(ctx context.Context, token string) (models.Directory, error)
}

// TokenSource yields the access token of the current session
type TokenSource interface {
	Token() string
}

// CatalogService loads the remote directory and searches it
type CatalogService struct {
	repo   repository.DirectoryRepository
	loader DirectoryLoader
	tokens TokenSource
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo repository.DirectoryRepository, loader DirectoryLoader, tokens TokenSource, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		loader: loader,
		tokens: tokens,
		logger: logger,
	}
}

// Load fetches all lists and replaces the stored directory. On failure the
// previously stored directory is left as it was.
func (s *CatalogService) Load(ctx context.Context) (models.DirectorySummary, error) {
	token := s.tokens.Token()
	if token == "" {
		return models.DirectorySummary{}, models.ErrMissingToken
	}

	dir, err := s.loader.LoadDirectory(ctx, token)
	if err != nil {
		s.logger.Error("failed to load directory", "error", err)
		return models.DirectorySummary{}, err
	}

	if err := s.repo.Replace(ctx, dir); err != nil {
		return models.DirectorySummary{}, err
	}

	summary := dir.Summary()
	s.logger.Info("directory loaded",
		"organizations", summary.Organizations,
		"warehouses", summary.Warehouses,
		"price_types", summary.PriceTypes,
		"payboxes", summary.Payboxes,
		"products", summary.Products,
		"customers", summary.Customers,
	)
	return summary, nil
}

// Directory returns the loaded directory
func (s *CatalogService) Directory(ctx context.Context) (models.Directory, error) {
	return s.repo.Get(ctx)
}

// SearchCustomers filters the loaded customers by phone digits
func (s *CatalogService) SearchCustomers(ctx context.Context, phone string) ([]models.Customer, error) {
	dir, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return search.Customers(dir.Customers, phone), nil
}

// SearchProducts filters the loaded products by name
func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	dir, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return search.Products(dir.Products, query), nil
}

// GetProduct returns a loaded product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.ProductByID(ctx, id)
}

// GetCustomer returns a loaded customer by ID
func (s *CatalogService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return s.repo.CustomerByID(ctx, id)
}
