package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/models"
)

type organizationRecord struct {
	ID        int64  `json:"id"`
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
}

type namedRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// listLoadResult holds the outcome of loading a single list
type listLoadResult struct {
	index int
	err   error
}

type listLoader struct {
	name string
	load func(ctx context.Context, token string) error
}

// LoadDirectory reads the six reference lists concurrently and waits for all of
// them. A single failed read fails the whole load and no list is returned.
func (c *Client) LoadDirectory(ctx context.Context, token string) (models.Directory, error) {
	var (
		orgs       []organizationRecord
		warehouses []namedRecord
		priceTypes []namedRecord
		payboxes   []namedRecord
		products   []models.Product
		customers  []models.Customer
	)

	loaders := []listLoader{
		{"organizations", listInto(c, "organizations/", &orgs)},
		{"warehouses", listInto(c, "warehouses/", &warehouses)},
		{"price_types", listInto(c, "price_types/", &priceTypes)},
		{"payboxes", listInto(c, "payboxes/", &payboxes)},
		{"nomenclature", listInto(c, "nomenclature/", &products)},
		{"contragents", listInto(c, "contragents/", &customers)},
	}

	resultChan := make(chan listLoadResult, len(loaders))

	var wg sync.WaitGroup
	for i, l := range loaders {
		wg.Add(1)
		go func(index int, loader listLoader) {
			defer wg.Done()
			resultChan <- listLoadResult{index: index, err: loader.load(ctx, token)}
		}(i, l)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results maintaining order
	results := make([]listLoadResult, len(loaders))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			return models.Directory{}, fmt.Errorf("%w: %s: %w", models.ErrDirectoryLoad, loaders[i].name, result.err)
		}
	}

	dir := models.Directory{
		Organizations: make([]models.Option, 0, len(orgs)),
		Warehouses:    namedOptions(warehouses),
		PriceTypes:    namedOptions(priceTypes),
		Payboxes:      namedOptions(payboxes),
		Products:      products,
		Customers:     customers,
		LoadedAt:      time.Now().UTC(),
	}
	for _, o := range orgs {
		label := o.ShortName
		if label == "" {
			label = o.Name
		}
		dir.Organizations = append(dir.Organizations, models.Option{ID: o.ID, Label: label})
	}

	return dir, nil
}

// listInto returns a loader that normalizes the list at path into dst
func listInto[T any](c *Client, path string, dst *[]T) func(ctx context.Context, token string) error {
	return func(ctx context.Context, token string) error {
		status, body, err := c.do(ctx, http.MethodGet, path, token, nil)
		if err != nil {
			return err
		}

		items, err := NormalizeList[T](body)
		if err != nil {
			return err
		}
		if status < 200 || status >= 300 {
			return fmt.Errorf("%w: %s returned %d: %s", models.ErrRemoteRejected, path, status, snippet(body))
		}

		*dst = items
		return nil
	}
}

func namedOptions(records []namedRecord) []models.Option {
	out := make([]models.Option, 0, len(records))
	for _, r := range records {
		out = append(out, models.Option{ID: r.ID, Label: r.Name})
	}
	return out
}
