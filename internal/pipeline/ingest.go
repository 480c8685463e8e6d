package pipeline

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go-trip-pipeline/internal/dataset"
	"go-trip-pipeline/internal/model"
	"go-trip-pipeline/pkg/logging"
)

// rawRecord is one undecoded source record, field name to raw value.
type rawRecord map[string]any

// Ingest materializes the source into a Dataset conforming to its declared
// schema. Rows that fail schema validation are skipped and counted, not
// fatal; a source that cannot be opened or read is.
func Ingest(ctx context.Context, src model.Source, bufferSize int) (*dataset.Dataset, error) {
	log := logging.FromContext(ctx)

	schema, err := buildSchema(src.Schema)
	if err != nil {
		return nil, err
	}

	if bufferSize <= 0 {
		bufferSize = 100
	}
	recordsCh := make(chan rawRecord, bufferSize)
	errCh := make(chan error, 1)

	go func() {
		defer close(recordsCh)
		defer close(errCh)
		if err := readSource(ctx, src, recordsCh); err != nil {
			errCh <- err
		}
	}()

	var rows []dataset.Row
	skipped := 0
	for rec := range recordsCh {
		row, err := validateRecord(rec, schema)
		if err != nil {
			skipped++
			if skipped <= 5 {
				log.Warnw("skipping record", "source", src.URL, "error", err)
			}
			continue
		}
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}

	log.Infow("ingestion done", "source", src.URL, "rows", len(rows), "skipped", skipped)
	return dataset.New(schema, rows), nil
}

func buildSchema(fields []model.FieldSpec) (dataset.Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("source schema is empty")
	}
	schema := make(dataset.Schema, 0, len(fields))
	for _, f := range fields {
		t, ok := f.DatasetType()
		if !ok {
			return nil, fmt.Errorf("unknown column type %q for column %q", f.Type, f.Name)
		}
		schema = append(schema, dataset.Field{Name: f.Name, Type: t})
	}
	return schema, nil
}

// readSource streams the raw records of a single source into out.
func readSource(ctx context.Context, src model.Source, out chan<- rawRecord) error {
	reader, closer, err := openSource(src.URL)
	if err != nil {
		return err
	}
	defer closer()

	switch strings.ToLower(src.Type) {
	case "ndjson", "json":
		return readNDJSON(ctx, reader, out)
	case "csv":
		return readCSV(ctx, reader, out)
	default:
		return fmt.Errorf("unknown source type: %s", src.Type)
	}
}

func openSource(pathOrURL string) (io.Reader, func(), error) {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		resp, err := http.Get(pathOrURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to GET source: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, nil, fmt.Errorf("source returned status %s", resp.Status)
		}
		return resp.Body, func() { resp.Body.Close() }, nil
	}
	file, err := os.Open(pathOrURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open source file: %w", err)
	}
	return file, func() { file.Close() }, nil
}

// readNDJSON decodes one JSON object per line, the shape of the trip feed.
func readNDJSON(ctx context.Context, r io.Reader, out chan<- rawRecord) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec rawRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return fmt.Errorf("line %d: bad JSON: %w", line, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- rec:
		}
	}
	return scanner.Err()
}

func readCSV(ctx context.Context, r io.Reader, out chan<- rawRecord) error {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
	}

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("CSV read error: %w", err)
		}
		rec := make(rawRecord, len(headers))
		for i, h := range headers {
			if i < len(record) {
				rec[h] = record[i]
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- rec:
		}
	}
}
