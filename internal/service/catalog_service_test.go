package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	dir   models.Directory
	err   error
	calls int
	token string
}

func (s *stubLoader) LoadDirectory(ctx context.Context, token string) (models.Directory, error) {
	s.calls++
	s.token = token
	return s.dir, s.err
}

type staticToken string

func (t staticToken) Token() string { return string(t) }

func sampleDirectory() models.Directory {
	return models.Directory{
		Organizations: []models.Option{{ID: 1, Label: "Ромашка"}},
		Warehouses:    []models.Option{{ID: 2, Label: "Main"}},
		Products: []models.Product{
			{ID: 7, Name: "Coffee", Price: decimal.NewFromInt(100), Unit: 116},
			{ID: 8, Name: "Cocoa", Price: decimal.NewFromInt(80)},
			{ID: 9, Name: "Tea", Price: decimal.NewFromInt(60)},
		},
		Customers: []models.Customer{
			{ID: 20, Name: "Anna", Phone: "+7 (900) 123-45-67"},
			{ID: 21, Name: "Boris", Phone: "8 900 555 00 11"},
		},
	}
}

func TestCatalogService_Load(t *testing.T) {
	loader := &stubLoader{dir: sampleDirectory()}
	repo := repository.NewInMemoryDirectoryRepository()
	svc := NewCatalogService(repo, loader, staticToken("secret"), logger.New("error"))

	summary, err := svc.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "secret", loader.token)
	assert.Equal(t, 1, summary.Organizations)
	assert.Equal(t, 3, summary.Products)
	assert.Equal(t, 2, summary.Customers)

	dir, err := svc.Directory(context.Background())
	require.NoError(t, err)
	assert.Len(t, dir.Products, 3)
}

func TestCatalogService_Load_MissingToken(t *testing.T) {
	loader := &stubLoader{dir: sampleDirectory()}
	svc := NewCatalogService(repository.NewInMemoryDirectoryRepository(), loader, staticToken(""), logger.New("error"))

	_, err := svc.Load(context.Background())

	require.ErrorIs(t, err, models.ErrMissingToken)
	assert.Equal(t, 0, loader.calls)
}

func TestCatalogService_Load_FailureKeepsPreviousDirectory(t *testing.T) {
	repo := repository.NewInMemoryDirectoryRepository()

	// Nothing loaded yet, a failure leaves the repository empty
	failing := &stubLoader{err: errors.Join(models.ErrDirectoryLoad, models.ErrUnexpectedResponse)}
	svc := NewCatalogService(repo, failing, staticToken("secret"), logger.New("error"))
	_, err := svc.Load(context.Background())
	require.ErrorIs(t, err, models.ErrDirectoryLoad)

	_, err = svc.Directory(context.Background())
	require.ErrorIs(t, err, models.ErrNotLoaded)

	// A loaded directory survives a later failure
	require.NoError(t, repo.Replace(context.Background(), sampleDirectory()))
	_, err = svc.Load(context.Background())
	require.Error(t, err)

	dir, err := svc.Directory(context.Background())
	require.NoError(t, err)
	assert.Len(t, dir.Customers, 2)
}

func TestCatalogService_Search(t *testing.T) {
	repo := repository.NewInMemoryDirectoryRepository()
	svc := NewCatalogService(repo, &stubLoader{}, staticToken("secret"), logger.New("error"))

	_, err := svc.SearchProducts(context.Background(), "co")
	require.ErrorIs(t, err, models.ErrNotLoaded)

	require.NoError(t, repo.Replace(context.Background(), sampleDirectory()))

	products, err := svc.SearchProducts(context.Background(), "CO")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(7), products[0].ID)
	assert.Equal(t, int64(8), products[1].ID)

	customers, err := svc.SearchCustomers(context.Background(), "900-123")
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Anna", customers[0].Name)

	customers, err = svc.SearchCustomers(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, customers, 2)
}
