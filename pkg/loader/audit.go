// pkg/loader/audit.go
package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/retaildc/ingress/pkg/cleaner"
)

// AuditRecorder persists cleaning warnings to a tracking table so the
// quality of each ingress run can be inspected after the fact.
type AuditRecorder struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuditRecorder creates an AuditRecorder and ensures the tracking table
// exists.
func NewAuditRecorder(db *sql.DB, logger *zap.Logger) (*AuditRecorder, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	recorder := &AuditRecorder{
		db:     db,
		logger: logger.Named("audit"),
	}

	if err := recorder.setupTrackingTable(); err != nil {
		return nil, fmt.Errorf("failed to setup tracking table: %w", err)
	}

	return recorder, nil
}

// setupTrackingTable ensures the cleaned_on_ingress tracking table exists.
func (r *AuditRecorder) setupTrackingTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS public.cleaned_on_ingress (
			id SERIAL PRIMARY KEY,
			dataset_name TEXT NOT NULL,
			pass TEXT NOT NULL,
			column_name TEXT,
			row_identifier BIGINT,
			original_value TEXT,
			reason TEXT NOT NULL,
			cleaned_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := r.db.ExecContext(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create tracking table: %w", err)
	}

	r.logger.Info("Ensured cleaned_on_ingress table exists")
	return nil
}

// Record batch-inserts one dataset's cleaning warnings into the tracking
// table.
func (r *AuditRecorder) Record(ctx context.Context, datasetName string, warnings []cleaner.Warning) error {
	if len(warnings) == 0 {
		return nil
	}

	insertCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(insertCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	stmt, err := tx.PrepareContext(insertCtx, `
		INSERT INTO public.cleaned_on_ingress
		(dataset_name, pass, column_name, row_identifier, original_value, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, w := range warnings {
		var rowID interface{}
		if w.Row >= 0 {
			rowID = w.Row
		}
		_, err = stmt.ExecContext(insertCtx,
			datasetName,
			w.Pass,
			nullableString(w.Column),
			rowID,
			nullableString(w.Value),
			w.Reason,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cleaning warning: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("Recorded cleaning warnings",
		zap.String("dataset", datasetName),
		zap.Int("count", len(warnings)))
	return nil
}

// nullableString maps empty strings to SQL NULL.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
