// pkg/extractor/rds.go
package extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/retaildc/ingress/pkg/dataset"
)

// indexColumn is the source-table column holding the stable row identifier.
const indexColumn = "index"

// RDSExtractor reads source tables from the RDS database into datasets.
type RDSExtractor struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRDSExtractor wraps an open source-database handle.
func NewRDSExtractor(db *sqlx.DB, logger *zap.Logger) *RDSExtractor {
	return &RDSExtractor{
		db:     db,
		logger: logger.Named("rds-extractor"),
	}
}

// ReadTable reads a whole table into a dataset. When the table carries an
// "index" column it becomes the dataset's row identifiers; otherwise rows
// are numbered positionally.
func (e *RDSExtractor) ReadTable(ctx context.Context, table string) (*dataset.Dataset, error) {
	start := time.Now()

	// Table names come from configuration, not user input
	rows, err := e.db.QueryxContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	values := make(map[string][]any, len(columns))
	for _, col := range columns {
		values[col] = []any{}
	}

	count := 0
	for rows.Next() {
		row := make(map[string]any, len(columns))
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan row %d of %s: %w", count, table, err)
		}
		for _, col := range columns {
			values[col] = append(values[col], normalizeDBValue(row[col]))
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table %s: %w", table, err)
	}

	ds, err := buildDataset(columns, values, count)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble dataset for %s: %w", table, err)
	}

	e.logger.Info("Read source table",
		zap.String("table", table),
		zap.Int("rows", count),
		zap.Duration("elapsed", time.Since(start)))

	return ds, nil
}

// buildDataset assembles a dataset from column-ordered values, consuming an
// "index" column as the row identifiers when present and integer-valued.
func buildDataset(columns []string, values map[string][]any, count int) (*dataset.Dataset, error) {
	index := make([]int64, count)
	useIndexColumn := false

	if idxVals, ok := values[indexColumn]; ok {
		useIndexColumn = true
		for i, v := range idxVals {
			id, ok := toInt64(v)
			if !ok {
				useIndexColumn = false
				break
			}
			index[i] = id
		}
	}
	if !useIndexColumn {
		for i := range index {
			index[i] = int64(i)
		}
	}

	ds := dataset.New(index)
	for _, col := range columns {
		if col == indexColumn && useIndexColumn {
			continue
		}
		if err := ds.AddColumn(col, dataset.String, values[col]); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// normalizeDBValue maps driver-specific scan types onto the dataset's value
// domain.
func normalizeDBValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	default:
		return v
	}
}

func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int32:
		return int64(val), true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}
