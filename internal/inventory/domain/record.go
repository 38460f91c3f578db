package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord is one historical observation of a product, keyed by
// (product_id, timestamp). The store is append-only; the snapshot provider
// reduces it to the latest record per product.
type InventoryRecord struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProductID   string          `json:"product_id" gorm:"not null;index:idx_records_product_time,priority:1"`
	ProductName string          `json:"product_name" gorm:"not null"`
	StockLevel  int             `json:"stock_level" gorm:"not null;default:0"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Timestamp   time.Time       `json:"timestamp" gorm:"not null;index:idx_records_product_time,priority:2"`
	ExpiryDate  time.Time       `json:"expiry_date" gorm:"not null"`
}

// TableName specifies the table name
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// RecordRepository defines the contract for the historical record store.
// Latest returns exactly one record per distinct product id: the one with the
// maximum timestamp, ties broken by the record loaded last (highest id or row
// offset). An empty store yields an empty slice, not an error; a malformed
// row fails the whole load with an error naming the row.
type RecordRepository interface {
	Latest(ctx context.Context) ([]InventoryRecord, error)
	Append(ctx context.Context, record *InventoryRecord) error
	CountRecords(ctx context.Context) (int64, error)
}
