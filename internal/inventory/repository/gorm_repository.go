package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tair/inventory-monitor/internal/inventory/domain"
)

type GormRecordRepository struct {
	db *gorm.DB
}

func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

func (r *GormRecordRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.InventoryRecord{})
}

// Latest selects the newest record per product. Ties on timestamp go to the
// row inserted last (highest id). Output is ordered by product id, which
// keeps snapshot order stable across calls.
func (r *GormRecordRepository) Latest(ctx context.Context) ([]domain.InventoryRecord, error) {
	var records []domain.InventoryRecord
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (product_id) *
		     FROM inventory_records
		     ORDER BY product_id, timestamp DESC, id DESC`).
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *GormRecordRepository) Append(ctx context.Context, record *domain.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *GormRecordRepository) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.InventoryRecord{}).Count(&count).Error
	return count, err
}
