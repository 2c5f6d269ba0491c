// pkg/loader/uploader.go
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/retaildc/ingress/pkg/connector"
	"github.com/retaildc/ingress/pkg/dataset"
)

// targetSchema is the destination schema for all dimension and fact tables.
const targetSchema = "public"

// Uploader bulk-loads cleaned datasets into the destination database.
type Uploader struct {
	pg     *connector.PostgresConnector
	logger *zap.Logger
}

// NewUploader creates an uploader over the target connection.
func NewUploader(pg *connector.PostgresConnector, logger *zap.Logger) (*Uploader, error) {
	if pg == nil {
		return nil, errors.New("target connector cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Uploader{
		pg:     pg,
		logger: logger.Named("uploader"),
	}, nil
}

// Replace drops and recreates the destination table from the dataset's
// declared column kinds, then bulk-inserts every row. The dataset's row
// index is not uploaded; index columns the destination needs are regular
// columns by the time cleaning finishes.
func (u *Uploader) Replace(ctx context.Context, table string, ds *dataset.Dataset) error {
	columns := ds.Columns()
	if len(columns) == 0 {
		return fmt.Errorf("dataset for table %s has no columns", table)
	}

	if err := u.pg.DropTableIfExists(ctx, targetSchema, table); err != nil {
		return err
	}

	columnDefs := make([]string, len(columns))
	kinds := make([]dataset.Kind, len(columns))
	for i, col := range columns {
		kind, err := ds.Kind(col)
		if err != nil {
			return err
		}
		kinds[i] = kind
		columnDefs[i] = fmt.Sprintf("%q %s", col, sqlType(kind))
	}
	if err := u.pg.CreateTableIfNotExists(ctx, targetSchema, table, columnDefs, ""); err != nil {
		return err
	}

	valueRows := make([][]interface{}, ds.Len())
	for pos := 0; pos < ds.Len(); pos++ {
		row := make([]interface{}, len(columns))
		for i, col := range columns {
			v, err := ds.Cell(col, pos)
			if err != nil {
				return err
			}
			row[i] = sqlValue(v, kinds[i])
		}
		valueRows[pos] = row
	}

	inserted, err := u.pg.BatchInsert(ctx, targetSchema, table, columns, valueRows, 1000)
	if err != nil {
		return fmt.Errorf("failed to upload table %s: %w", table, err)
	}

	u.logger.Info("Uploaded table",
		zap.String("table", table),
		zap.Int64("rows", inserted))
	return nil
}

// sqlType maps a dataset kind onto a PostgreSQL column type.
func sqlType(kind dataset.Kind) string {
	switch kind {
	case dataset.Int:
		return "BIGINT"
	case dataset.Float:
		return "DOUBLE PRECISION"
	case dataset.Date:
		return "DATE"
	case dataset.Time:
		return "TIME"
	case dataset.Timestamp:
		return "TIMESTAMP WITH TIME ZONE"
	default:
		return "TEXT"
	}
}

// sqlValue converts a dataset cell into a driver value. Time-of-day cells
// are anchored to the zero date in memory; the driver gets the clock
// reading only. Text columns may still hold non-string cells when a
// best-effort coercion left the column mixed, so those are rendered to
// text instead of handed to the driver's text codec as-is.
func sqlValue(v any, kind dataset.Kind) interface{} {
	if v == nil {
		return nil
	}
	if t, ok := v.(time.Time); ok && kind == dataset.Time {
		return t.Format("15:04:05")
	}
	if kind == dataset.String || kind == dataset.Category {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return v
}
