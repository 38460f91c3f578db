package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-monitor/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-record-repository")

// TracingRecordRepository decorates any RecordRepository with tracing spans.
type TracingRecordRepository struct {
	inner domain.RecordRepository
}

// NewTracingRecordRepository wraps the given repository with tracing.
func NewTracingRecordRepository(inner domain.RecordRepository) *TracingRecordRepository {
	return &TracingRecordRepository{inner: inner}
}

func (r *TracingRecordRepository) Latest(ctx context.Context) ([]domain.InventoryRecord, error) {
	ctx, span := tracer.Start(ctx, "repository.Latest")
	defer span.End()

	records, err := r.inner.Latest(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("records.count", len(records)))
	return records, nil
}

func (r *TracingRecordRepository) Append(ctx context.Context, record *domain.InventoryRecord) error {
	ctx, span := tracer.Start(ctx, "repository.Append",
		trace.WithAttributes(
			attribute.String("record.product_id", record.ProductID),
			attribute.Int("record.stock_level", record.StockLevel),
		),
	)
	defer span.End()

	if err := r.inner.Append(ctx, record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r *TracingRecordRepository) CountRecords(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.CountRecords")
	defer span.End()

	count, err := r.inner.CountRecords(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("records.total", count))
	return count, nil
}
