// pkg/extractor/pdf.go
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/retaildc/ingress/pkg/dataset"
)

// cardColumns is the column layout of the card-details table embedded in
// the PDF.
var cardColumns = []string{
	"card_number",
	"expiry_date",
	"card_provider",
	"date_payment_confirmed",
}

// CardPDFExtractor retrieves the card-details table from a PDF document.
type CardPDFExtractor struct {
	client *http.Client
	logger *zap.Logger
}

// NewCardPDFExtractor creates a card PDF extractor.
func NewCardPDFExtractor(logger *zap.Logger) *CardPDFExtractor {
	return &CardPDFExtractor{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger.Named("card-pdf"),
	}
}

// RetrieveCardDetails downloads the PDF and extracts the card table from
// every page into a dataset.
func (e *CardPDFExtractor) RetrieveCardDetails(ctx context.Context, url string) (*dataset.Dataset, error) {
	data, err := e.download(ctx, url)
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open card details PDF: %w", err)
	}

	values := make(map[string][]any, len(cardColumns))
	for _, col := range cardColumns {
		values[col] = []any{}
	}

	count := 0
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
		}

		for _, row := range rows {
			fields := rowFields(row)
			record, ok := parseCardRow(fields)
			if !ok {
				continue
			}
			for _, col := range cardColumns {
				values[col] = append(values[col], record[col])
			}
			count++
		}
	}

	ds := dataset.NewWithSize(count)
	for _, col := range cardColumns {
		if err := ds.AddColumn(col, dataset.String, values[col]); err != nil {
			return nil, fmt.Errorf("failed to assemble card dataset: %w", err)
		}
	}

	e.logger.Info("Extracted card details from PDF",
		zap.String("url", url),
		zap.Int("rows", count))

	return ds, nil
}

// download fetches the PDF into memory.
func (e *CardPDFExtractor) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build PDF request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download PDF: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PDF download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF body: %w", err)
	}
	return data, nil
}

// rowFields flattens a PDF text row into whitespace-delimited fields.
func rowFields(row *pdf.Row) []string {
	var b strings.Builder
	for _, text := range row.Content {
		b.WriteString(text.S)
		b.WriteByte(' ')
	}
	return strings.Fields(b.String())
}

// parseCardRow maps a flattened text row onto the card columns. The
// provider name may span several fields; the card number is first and the
// payment date is last. Header repetitions on each page are skipped.
func parseCardRow(fields []string) (map[string]any, bool) {
	if len(fields) < 4 {
		return nil, false
	}
	if fields[0] == "card_number" {
		return nil, false
	}

	return map[string]any{
		"card_number":            fields[0],
		"expiry_date":            fields[1],
		"card_provider":          strings.Join(fields[2:len(fields)-1], " "),
		"date_payment_confirmed": fields[len(fields)-1],
	}, true
}
