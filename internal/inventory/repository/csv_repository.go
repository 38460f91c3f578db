package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/inventory-monitor/internal/inventory/domain"
)

// Columns the history CSV must carry, matched by header name.
var csvColumns = []string{"product_id", "product_name", "stock_level", "price", "timestamp", "expiry_date"}

var csvTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CSVRecordRepository reads the historical record store from a CSV file. The
// file is re-read on every Latest call so each evaluation sees a fresh
// snapshot. The repository is read-only; Append is not supported.
type CSVRecordRepository struct {
	path string
}

func NewCSVRecordRepository(path string) *CSVRecordRepository {
	return &CSVRecordRepository{path: path}
}

// Latest loads the full history and keeps the newest record per product.
// Rows appearing later in the file win timestamp ties. Output preserves the
// order in which products first appear in the file. A missing or unparsable
// field fails the whole load; rows are never silently skipped.
func (r *CSVRecordRepository) Latest(ctx context.Context) ([]domain.InventoryRecord, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]int, len(records))
	order := make([]string, 0, len(records))
	for i, rec := range records {
		prev, seen := latest[rec.ProductID]
		if !seen {
			latest[rec.ProductID] = i
			order = append(order, rec.ProductID)
			continue
		}
		if !rec.Timestamp.Before(records[prev].Timestamp) {
			latest[rec.ProductID] = i
		}
	}

	out := make([]domain.InventoryRecord, 0, len(order))
	for _, id := range order {
		out = append(out, records[latest[id]])
	}
	return out, nil
}

func (r *CSVRecordRepository) Append(ctx context.Context, record *domain.InventoryRecord) error {
	return fmt.Errorf("csv record store %q is read-only", r.path)
}

func (r *CSVRecordRepository) CountRecords(ctx context.Context) (int64, error) {
	records, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

func (r *CSVRecordRepository) load(ctx context.Context) ([]domain.InventoryRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err == io.EOF {
		// Empty store: empty snapshot, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range csvColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("record store %q is missing column %q", r.path, name)
		}
	}

	var records []domain.InventoryRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", line, err)
		}

		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("record store row %d: %w", line, err)
		}
		rec.ID = uint(line)
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, cols map[string]int) (domain.InventoryRecord, error) {
	var rec domain.InventoryRecord

	field := func(name string) (string, error) {
		idx := cols[name]
		if idx >= len(row) || row[idx] == "" {
			return "", fmt.Errorf("missing field %q", name)
		}
		return row[idx], nil
	}

	id, err := field("product_id")
	if err != nil {
		return rec, err
	}
	rec.ProductID = id

	rec.ProductName, err = field("product_name")
	if err != nil {
		return rec, fmt.Errorf("product %q: %w", rec.ProductID, err)
	}

	stock, err := field("stock_level")
	if err != nil {
		return rec, fmt.Errorf("product %q: %w", rec.ProductID, err)
	}
	rec.StockLevel, err = strconv.Atoi(stock)
	if err != nil {
		return rec, fmt.Errorf("product %q: bad stock_level %q", rec.ProductID, stock)
	}

	price, err := field("price")
	if err != nil {
		return rec, fmt.Errorf("product %q: %w", rec.ProductID, err)
	}
	rec.Price, err = decimal.NewFromString(price)
	if err != nil {
		return rec, fmt.Errorf("product %q: bad price %q", rec.ProductID, price)
	}

	ts, err := field("timestamp")
	if err != nil {
		return rec, fmt.Errorf("product %q: %w", rec.ProductID, err)
	}
	rec.Timestamp, err = parseTime(ts)
	if err != nil {
		return rec, fmt.Errorf("product %q: bad timestamp %q", rec.ProductID, ts)
	}

	expiry, err := field("expiry_date")
	if err != nil {
		return rec, fmt.Errorf("product %q: %w", rec.ProductID, err)
	}
	rec.ExpiryDate, err = parseTime(expiry)
	if err != nil {
		return rec, fmt.Errorf("product %q: bad expiry_date %q", rec.ProductID, expiry)
	}

	return rec, nil
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}
