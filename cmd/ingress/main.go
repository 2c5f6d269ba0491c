// cmd/ingress/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/retaildc/ingress/pkg/cleaner"
	"github.com/retaildc/ingress/pkg/config"
	"github.com/retaildc/ingress/pkg/connector"
	"github.com/retaildc/ingress/pkg/dataset"
	"github.com/retaildc/ingress/pkg/extractor"
	"github.com/retaildc/ingress/pkg/loader"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Fatal("Ingress run failed", zap.Error(err))
	}

	logger.Info("Ingress run complete")
}

// run executes the six dataset ETLs sequentially. Extraction and load
// failures are fatal; cleaning never fails on data quality, only on
// structurally missing columns.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	source, err := connector.NewPostgresConnector(ctx, "source", cfg.Source)
	if err != nil {
		return fmt.Errorf("source connection failed: %w", err)
	}
	defer source.Close()

	target, err := connector.NewPostgresConnector(ctx, "target", cfg.Target)
	if err != nil {
		return fmt.Errorf("target connection failed: %w", err)
	}
	defer target.Close()

	if err := target.Validate(); err != nil {
		return fmt.Errorf("target validation failed: %w", err)
	}

	sourceDB := sqlx.NewDb(source.DB(), "pgx")

	rds := extractor.NewRDSExtractor(sourceDB, logger)
	cardPDF := extractor.NewCardPDFExtractor(logger)
	storeAPI := extractor.NewStoreAPIExtractor(cfg.API, logger)
	jsonSrc := extractor.NewJSONExtractor(logger)

	s3Src, err := extractor.NewS3Extractor(ctx, cfg.S3.Region, logger)
	if err != nil {
		return fmt.Errorf("S3 client setup failed: %w", err)
	}

	clean, err := cleaner.NewCleaner(logger)
	if err != nil {
		return err
	}

	uploader, err := loader.NewUploader(target, logger)
	if err != nil {
		return err
	}

	audit, err := loader.NewAuditRecorder(target.DB(), logger)
	if err != nil {
		return fmt.Errorf("audit recorder setup failed: %w", err)
	}

	tables, err := source.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list source tables: %w", err)
	}
	logger.Info("Source tables available", zap.Strings("tables", tables))

	// Users
	if err := etl(ctx, "users", "dim_users", uploader, audit, logger,
		func() (*dataset.Dataset, error) { return rds.ReadTable(ctx, "legacy_users") },
		clean.CleanUserData,
	); err != nil {
		return err
	}

	// Card details
	if err := etl(ctx, "cards", "dim_card_details", uploader, audit, logger,
		func() (*dataset.Dataset, error) { return cardPDF.RetrieveCardDetails(ctx, cfg.PDFURL) },
		clean.CleanCardData,
	); err != nil {
		return err
	}

	// Stores
	if err := etl(ctx, "stores", "dim_store_details", uploader, audit, logger,
		func() (*dataset.Dataset, error) {
			n, err := storeAPI.NumberOfStores(ctx)
			if err != nil {
				return nil, err
			}
			return storeAPI.RetrieveStores(ctx, n)
		},
		clean.CleanStoreData,
	); err != nil {
		return err
	}

	// Products
	if err := etl(ctx, "products", "dim_products", uploader, audit, logger,
		func() (*dataset.Dataset, error) { return s3Src.ExtractCSV(ctx, cfg.S3.Address) },
		clean.CleanProductsData,
	); err != nil {
		return err
	}

	// Orders
	if err := etl(ctx, "orders", "orders_table", uploader, audit, logger,
		func() (*dataset.Dataset, error) { return rds.ReadTable(ctx, "orders_table") },
		clean.CleanOrdersData,
	); err != nil {
		return err
	}

	// Date events
	if err := etl(ctx, "date_events", "dim_date_times", uploader, audit, logger,
		func() (*dataset.Dataset, error) { return jsonSrc.ExtractJSON(ctx, cfg.DateEventsURL) },
		clean.CleanDateEventsData,
	); err != nil {
		return err
	}

	return nil
}

// etl runs one dataset through fetch, clean, audit and upload.
func etl(
	ctx context.Context,
	name string,
	table string,
	uploader *loader.Uploader,
	audit *loader.AuditRecorder,
	logger *zap.Logger,
	fetch func() (*dataset.Dataset, error),
	recipe func(*dataset.Dataset) (*dataset.Dataset, []cleaner.Warning, error),
) error {
	logger.Info("Starting dataset ETL", zap.String("dataset", name))

	raw, err := fetch()
	if err != nil {
		return fmt.Errorf("%s: fetch failed: %w", name, err)
	}

	cleaned, warnings, err := recipe(raw)
	if err != nil {
		return fmt.Errorf("%s: cleaning failed: %w", name, err)
	}

	if err := audit.Record(ctx, name, warnings); err != nil {
		return fmt.Errorf("%s: audit recording failed: %w", name, err)
	}

	if err := uploader.Replace(ctx, table, cleaned); err != nil {
		return fmt.Errorf("%s: upload failed: %w", name, err)
	}

	return nil
}

// buildLogger constructs the process logger from configuration.
func buildLogger(level, format string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	if format == "console" {
		zapCfg.Encoding = "console"
	}

	return zapCfg.Build()
}
