// pkg/extractor/s3.go
package extractor

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/retaildc/ingress/pkg/dataset"
)

// unnamedIndexColumn is the header pandas-style CSV exports leave on the
// positional index column. The products recipe renames it.
const unnamedIndexColumn = "Unnamed: 0"

// S3Extractor retrieves flat files from object storage.
type S3Extractor struct {
	client *s3.Client
	logger *zap.Logger
}

// NewS3Extractor builds an S3 client from the ambient AWS configuration.
func NewS3Extractor(ctx context.Context, region string, logger *zap.Logger) (*S3Extractor, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &S3Extractor{
		client: s3.NewFromConfig(cfg),
		logger: logger.Named("s3-extractor"),
	}, nil
}

// ExtractCSV downloads a CSV object addressed as s3://bucket/key and
// decodes it into a dataset. The first record is the header row; an empty
// leading header is normalized to the unnamed-index placeholder.
func (e *S3Extractor) ExtractCSV(ctx context.Context, address string) (*dataset.Dataset, error) {
	bucket, key, err := splitS3Address(address)
	if err != nil {
		return nil, err
	}

	out, err := e.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	reader := csv.NewReader(out.Body)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode CSV from s3://%s/%s: %w", bucket, key, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV at s3://%s/%s", bucket, key)
	}

	header := records[0]
	for i, name := range header {
		if name == "" {
			header[i] = unnamedIndexColumn
		}
	}

	body := records[1:]
	values := make(map[string][]any, len(header))
	for _, col := range header {
		values[col] = make([]any, 0, len(body))
	}
	for _, record := range body {
		for i, col := range header {
			if i < len(record) {
				values[col] = append(values[col], record[i])
			} else {
				values[col] = append(values[col], nil)
			}
		}
	}

	ds, err := buildDataset(header, values, len(body))
	if err != nil {
		return nil, fmt.Errorf("failed to assemble dataset from s3://%s/%s: %w", bucket, key, err)
	}

	e.logger.Info("Extracted CSV from object storage",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("rows", len(body)))

	return ds, nil
}

// splitS3Address splits "s3://bucket/key" into its parts.
func splitS3Address(address string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(address, "s3://")
	if trimmed == address {
		return "", "", fmt.Errorf("invalid S3 address %q: missing s3:// scheme", address)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 address %q", address)
	}
	return parts[0], parts[1], nil
}
