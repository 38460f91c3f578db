// Package snapshot assembles evaluation snapshots from the historical record
// store, enriched with externally supplied demand scores.
package snapshot

import (
	"context"
	"fmt"

	"github.com/tair/inventory-monitor/internal/inventory/domain"
	"github.com/tair/inventory-monitor/internal/rules"
	"github.com/tair/inventory-monitor/pkg/logger"
)

// Provider reduces the record store to one rules.Item per product. Each call
// re-reads the store, so concurrent evaluations are fully independent.
type Provider struct {
	records domain.RecordRepository
	scores  domain.DemandScoreStore
}

// NewProvider creates a snapshot provider. scores may be nil, in which case
// every item carries the placeholder demand score.
func NewProvider(records domain.RecordRepository, scores domain.DemandScoreStore) *Provider {
	return &Provider{records: records, scores: scores}
}

// Snapshot returns the current item set: exactly one item per distinct
// product id, from the latest record for that product.
func (p *Provider) Snapshot(ctx context.Context) ([]rules.Item, error) {
	records, err := p.records.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory records: %w", err)
	}

	items := make([]rules.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, rules.Item{
			ID:          rec.ProductID,
			Name:        rec.ProductName,
			Quantity:    rec.StockLevel,
			ExpiryDate:  rec.ExpiryDate,
			Price:       rec.Price,
			DemandScore: p.demandScore(ctx, rec.ProductID),
		})
	}
	return items, nil
}

// demandScore looks up the stored score for a product. Score store outages
// degrade to the placeholder instead of failing the snapshot; the score is a
// stub signal, not a required field of the record store.
func (p *Provider) demandScore(ctx context.Context, productID string) float64 {
	if p.scores == nil {
		return domain.DefaultDemandScore
	}

	score, found, err := p.scores.Score(ctx, productID)
	if err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("product_id", productID).
			Msg("Demand score lookup failed, using placeholder")
		return domain.DefaultDemandScore
	}
	if !found {
		return domain.DefaultDemandScore
	}
	return score
}
