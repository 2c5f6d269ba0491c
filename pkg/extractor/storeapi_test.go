// pkg/extractor/storeapi_test.go
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/retaildc/ingress/pkg/config"
)

const testAPIKey = "test-key"

// newStoreAPIServer serves a count endpoint and per-store pages. Store 1
// always answers 500 to exercise the skip path.
func newStoreAPIServer(t *testing.T, stores int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/number_stores", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != testAPIKey {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"number_stores": stores})
	})
	mux.HandleFunc("/store_details/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != testAPIKey {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var store int
		if _, err := fmt.Sscanf(r.URL.Path, "/store_details/%d", &store); err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if store == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"index":         store,
			"address":       fmt.Sprintf("%d high street", store),
			"store_code":    fmt.Sprintf("ST-%03d", store),
			"staff_numbers": "12",
			"country_code":  "GB",
			"continent":     "Europe",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestStoreAPI(t *testing.T, server *httptest.Server) *StoreAPIExtractor {
	t.Helper()
	return NewStoreAPIExtractor(&config.StoreAPIConfig{
		CountEndpoint: server.URL + "/number_stores",
		StoreEndpoint: server.URL + "/store_details/",
		HeaderKey:     "x-api-key",
		HeaderValue:   testAPIKey,
	}, zaptest.NewLogger(t))
}

func TestStoreAPINumberOfStores(t *testing.T) {
	server := newStoreAPIServer(t, 451)
	api := newTestStoreAPI(t, server)

	n, err := api.NumberOfStores(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 451, n)
}

func TestStoreAPINumberOfStoresUnauthorized(t *testing.T) {
	server := newStoreAPIServer(t, 451)
	api := NewStoreAPIExtractor(&config.StoreAPIConfig{
		CountEndpoint: server.URL + "/number_stores",
		StoreEndpoint: server.URL + "/store_details/",
		HeaderKey:     "x-api-key",
		HeaderValue:   "wrong-key",
	}, zaptest.NewLogger(t))

	_, err := api.NumberOfStores(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestStoreAPIRetrieveStoresSkipsFailedPages(t *testing.T) {
	server := newStoreAPIServer(t, 3)
	api := newTestStoreAPI(t, server)

	ds, err := api.RetrieveStores(context.Background(), 3)
	require.NoError(t, err)

	// Store 1 fails server-side and is skipped; the identifiers of the
	// surviving pages come from the payload, not the fetch counter.
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, []int64{0, 2}, ds.Index())

	codes, err := ds.Values("store_code")
	require.NoError(t, err)
	assert.Equal(t, []any{"ST-000", "ST-002"}, codes)

	// Fields the payload omits arrive as missing cells.
	longitudes, err := ds.Values("longitude")
	require.NoError(t, err)
	assert.Equal(t, []any{nil, nil}, longitudes)
}
