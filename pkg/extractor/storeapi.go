// pkg/extractor/storeapi.go
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/retaildc/ingress/pkg/config"
	"github.com/retaildc/ingress/pkg/dataset"
)

// storeColumns is the fixed column order of the store API payload.
var storeColumns = []string{
	"address",
	"longitude",
	"lat",
	"locality",
	"store_code",
	"staff_numbers",
	"opening_date",
	"store_type",
	"latitude",
	"country_code",
	"continent",
}

// StoreAPIExtractor retrieves store details from the paginated store API.
type StoreAPIExtractor struct {
	cfg    *config.StoreAPIConfig
	client *http.Client
	logger *zap.Logger
}

// NewStoreAPIExtractor creates a store API client.
func NewStoreAPIExtractor(cfg *config.StoreAPIConfig, logger *zap.Logger) *StoreAPIExtractor {
	return &StoreAPIExtractor{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.Named("store-api"),
	}
}

// NumberOfStores queries the count endpoint.
func (e *StoreAPIExtractor) NumberOfStores(ctx context.Context) (int, error) {
	body, status, err := e.get(ctx, e.cfg.CountEndpoint)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("store count endpoint returned status %d", status)
	}

	var payload struct {
		NumberStores int `json:"number_stores"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("failed to decode store count: %w", err)
	}
	return payload.NumberStores, nil
}

// RetrieveStores fetches stores 0..n-1 one page at a time and assembles
// them into a single dataset. Pages that fail with a non-200 status are
// skipped with a warning log; the remainder of the batch still loads.
func (e *StoreAPIExtractor) RetrieveStores(ctx context.Context, n int) (*dataset.Dataset, error) {
	values := make(map[string][]any, len(storeColumns))
	for _, col := range storeColumns {
		values[col] = []any{}
	}
	var index []int64

	fetched := 0
	for store := 0; store < n; store++ {
		url := fmt.Sprintf("%s%d", e.cfg.StoreEndpoint, store)
		body, status, err := e.get(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch store %d: %w", store, err)
		}
		if status != http.StatusOK {
			e.logger.Warn("Skipping store page",
				zap.Int("store", store),
				zap.Int("status", status))
			continue
		}

		var record map[string]any
		if err := json.Unmarshal(body, &record); err != nil {
			return nil, fmt.Errorf("failed to decode store %d: %w", store, err)
		}

		id := int64(fetched)
		if raw, ok := record[indexColumn]; ok {
			if f, ok := raw.(float64); ok {
				id = int64(f)
			}
		}
		index = append(index, id)

		for _, col := range storeColumns {
			v := record[col]
			// JSON numbers arrive as float64; the recipes expect text
			// until explicit type coercion runs.
			values[col] = append(values[col], v)
		}
		fetched++
	}

	ds := dataset.New(index)
	for _, col := range storeColumns {
		if err := ds.AddColumn(col, dataset.String, values[col]); err != nil {
			return nil, fmt.Errorf("failed to assemble store dataset: %w", err)
		}
	}

	e.logger.Info("Store retrieval complete",
		zap.Int("requested", n),
		zap.Int("fetched", fetched))

	return ds, nil
}

// get performs an authenticated GET against the store API.
func (e *StoreAPIExtractor) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	if e.cfg.HeaderKey != "" {
		req.Header.Set(e.cfg.HeaderKey, e.cfg.HeaderValue)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
