// pkg/extractor/jsonsource.go
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/retaildc/ingress/pkg/dataset"
)

// JSONExtractor retrieves a column-oriented JSON document over HTTP: a map
// of column name to a map of row identifier to value.
type JSONExtractor struct {
	client *http.Client
	logger *zap.Logger
}

// NewJSONExtractor creates a JSON document extractor.
func NewJSONExtractor(logger *zap.Logger) *JSONExtractor {
	return &JSONExtractor{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger.Named("json-extractor"),
	}
}

// ExtractJSON fetches and decodes the document into a dataset. Row
// identifiers are the document's numeric row keys, ordered ascending.
func (e *JSONExtractor) ExtractJSON(ctx context.Context, url string) (*dataset.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch of %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var doc map[string]map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON document: %w", err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("empty JSON document at %s", url)
	}

	// Column order is not significant in the document; sort for
	// deterministic datasets.
	columns := make([]string, 0, len(doc))
	for col := range doc {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	index, err := rowIdentifiers(doc[columns[0]])
	if err != nil {
		return nil, err
	}

	ds := dataset.New(index)
	for _, col := range columns {
		cells := doc[col]
		if len(cells) != len(index) {
			return nil, fmt.Errorf("column %q has %d cells, expected %d", col, len(cells), len(index))
		}
		vals := make([]any, len(index))
		for i, id := range index {
			vals[i] = cells[strconv.FormatInt(id, 10)]
		}
		if err := ds.AddColumn(col, dataset.String, vals); err != nil {
			return nil, fmt.Errorf("failed to assemble JSON dataset: %w", err)
		}
	}

	e.logger.Info("Extracted JSON document",
		zap.String("url", url),
		zap.Int("rows", len(index)),
		zap.Int("columns", len(columns)))

	return ds, nil
}

// rowIdentifiers extracts and sorts the numeric row keys of one column.
func rowIdentifiers(cells map[string]any) ([]int64, error) {
	index := make([]int64, 0, len(cells))
	for key := range cells {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric row key %q in JSON document", key)
		}
		index = append(index, id)
	}
	sort.Slice(index, func(i, j int) bool { return index[i] < index[j] })
	return index, nil
}
