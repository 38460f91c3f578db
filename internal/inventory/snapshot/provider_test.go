package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-monitor/internal/inventory/domain"
)

type stubRecords struct {
	records []domain.InventoryRecord
	err     error
}

func (s *stubRecords) Latest(ctx context.Context) ([]domain.InventoryRecord, error) {
	return s.records, s.err
}

func (s *stubRecords) Append(ctx context.Context, record *domain.InventoryRecord) error {
	return nil
}

func (s *stubRecords) CountRecords(ctx context.Context) (int64, error) {
	return int64(len(s.records)), nil
}

type stubScores struct {
	scores map[string]float64
	err    error
}

func (s *stubScores) Score(ctx context.Context, productID string) (float64, bool, error) {
	if s.err != nil {
		return 0, false, s.err
	}
	score, ok := s.scores[productID]
	return score, ok, nil
}

func testRecord(id, name string) domain.InventoryRecord {
	return domain.InventoryRecord{
		ProductID:   id,
		ProductName: name,
		StockLevel:  40,
		Price:       decimal.NewFromFloat(2.50),
		Timestamp:   time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
		ExpiryDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSnapshotMapsRecordsToItems(t *testing.T) {
	records := &stubRecords{records: []domain.InventoryRecord{testRecord("P-1", "Milk")}}
	scores := &stubScores{scores: map[string]float64{"P-1": 0.9}}
	provider := NewProvider(records, scores)

	items, err := provider.Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "P-1", items[0].ID)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, 40, items[0].Quantity)
	assert.True(t, items[0].Price.Equal(decimal.NewFromFloat(2.50)))
	assert.Equal(t, 0.9, items[0].DemandScore)
}

func TestSnapshotUsesPlaceholderScoreOnMiss(t *testing.T) {
	records := &stubRecords{records: []domain.InventoryRecord{testRecord("P-1", "Milk")}}
	provider := NewProvider(records, &stubScores{})

	items, err := provider.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDemandScore, items[0].DemandScore)
}

func TestSnapshotDegradesOnScoreStoreError(t *testing.T) {
	records := &stubRecords{records: []domain.InventoryRecord{testRecord("P-1", "Milk")}}
	scores := &stubScores{err: errors.New("redis down")}
	provider := NewProvider(records, scores)

	items, err := provider.Snapshot(context.Background())
	require.NoError(t, err, "a score store outage must not fail the snapshot")
	assert.Equal(t, domain.DefaultDemandScore, items[0].DemandScore)
}

func TestSnapshotWithNilScoreStore(t *testing.T) {
	records := &stubRecords{records: []domain.InventoryRecord{testRecord("P-1", "Milk")}}
	provider := NewProvider(records, nil)

	items, err := provider.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDemandScore, items[0].DemandScore)
}

func TestSnapshotRecordStoreErrorPropagates(t *testing.T) {
	records := &stubRecords{err: errors.New("store unavailable")}
	provider := NewProvider(records, nil)

	_, err := provider.Snapshot(context.Background())
	require.Error(t, err)
}

func TestSnapshotEmptyStoreYieldsEmptySnapshot(t *testing.T) {
	provider := NewProvider(&stubRecords{}, nil)

	items, err := provider.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
