package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-monitor/internal/forecast"
	"github.com/tair/inventory-monitor/internal/rules"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type stubSnapshots struct {
	items []rules.Item
	err   error
}

func (s *stubSnapshots) Snapshot(ctx context.Context) ([]rules.Item, error) {
	return s.items, s.err
}

type stubPredictor struct {
	kind     forecast.ModelKind
	features []float64
	result   float64
	err      error
}

func (p *stubPredictor) Predict(kind forecast.ModelKind, features []float64) (float64, error) {
	p.kind = kind
	p.features = features
	return p.result, p.err
}

func testItem(name string, quantity int) rules.Item {
	return rules.Item{
		ID:          name,
		Name:        name,
		Quantity:    quantity,
		ExpiryDate:  testNow.AddDate(0, 1, 0),
		Price:       decimal.NewFromFloat(5.00),
		DemandScore: 0.5,
	}
}

func TestListAlertsEvaluatesSnapshot(t *testing.T) {
	snapshots := &stubSnapshots{items: []rules.Item{testItem("Milk", 3), testItem("Bread", 50)}}
	handler := NewListAlertsHandler(snapshots, rules.NewEngine(rules.DefaultConfig()))

	alerts, err := handler.Handle(context.Background(), testNow)
	require.NoError(t, err)

	require.Len(t, alerts, 1)
	assert.Equal(t, rules.AlertLowStock, alerts[0].Kind)
	assert.Equal(t, "Milk", alerts[0].ItemName)
}

func TestListAlertsSnapshotErrorPropagates(t *testing.T) {
	snapshots := &stubSnapshots{err: errors.New("store unavailable")}
	handler := NewListAlertsHandler(snapshots, rules.NewEngine(rules.DefaultConfig()))

	_, err := handler.Handle(context.Background(), testNow)
	require.Error(t, err)
}

func TestSuggestPricesEvaluatesSnapshot(t *testing.T) {
	overstocked := testItem("Rice", 90)
	snapshots := &stubSnapshots{items: []rules.Item{overstocked, testItem("Bread", 50)}}
	handler := NewSuggestPricesHandler(snapshots, rules.NewEngine(rules.DefaultConfig()))

	suggestions, err := handler.Handle(context.Background(), testNow)
	require.NoError(t, err)

	require.Len(t, suggestions, 1)
	assert.Equal(t, "Rice", suggestions[0].ItemName)
	assert.Equal(t, rules.ReasonOverstockDiscount, suggestions[0].Reason)
	assert.Equal(t, "4.00", suggestions[0].SuggestedPrice.StringFixed(2))
}

func TestCheckItemRunsBatchRules(t *testing.T) {
	handler := NewCheckItemHandler(rules.NewEngine(rules.DefaultConfig()))

	item := testItem("Milk", 3)
	item.DemandScore = 0.9
	result, err := handler.Handle(context.Background(), CheckItemQuery{Item: item, Now: testNow})
	require.NoError(t, err)

	require.Len(t, result.Alerts, 1)
	assert.Equal(t, rules.AlertLowStock, result.Alerts[0].Kind)
	require.NotNil(t, result.Suggestion)
	assert.Equal(t, rules.ReasonDemandIncrease, result.Suggestion.Reason)
	assert.Equal(t, "5.75", result.Suggestion.SuggestedPrice.StringFixed(2))
}

func TestCheckItemHealthyItemHasNoFindings(t *testing.T) {
	handler := NewCheckItemHandler(rules.NewEngine(rules.DefaultConfig()))

	result, err := handler.Handle(context.Background(), CheckItemQuery{Item: testItem("Bread", 50), Now: testNow})
	require.NoError(t, err)

	assert.Empty(t, result.Alerts)
	assert.Nil(t, result.Suggestion)
}

func TestCheckItemRejectsMalformedItem(t *testing.T) {
	handler := NewCheckItemHandler(rules.NewEngine(rules.DefaultConfig()))

	item := testItem("Milk", -1)
	_, err := handler.Handle(context.Background(), CheckItemQuery{Item: item, Now: testNow})

	var inputErr *rules.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "quantity", inputErr.Field)
}

func TestPredictDemandEncodesWeather(t *testing.T) {
	predictor := &stubPredictor{result: 42.5}
	handler := NewPredictDemandHandler(predictor)

	got, err := handler.Handle(context.Background(), PredictDemandQuery{
		Model:     "linear_regression",
		PrevSales: 120,
		Price:     4.99,
		Weather:   "Rainy",
	})
	require.NoError(t, err)

	assert.Equal(t, 42.5, got)
	assert.Equal(t, forecast.ModelLinearRegression, predictor.kind)
	assert.Equal(t, []float64{120, 4.99, 1}, predictor.features)
}

func TestPredictDemandRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		query PredictDemandQuery
	}{
		{
			name:  "negative sales",
			query: PredictDemandQuery{Model: "linear_regression", PrevSales: -1, Price: 2, Weather: "Clear"},
		},
		{
			name:  "negative price",
			query: PredictDemandQuery{Model: "linear_regression", PrevSales: 10, Price: -2, Weather: "Clear"},
		},
		{
			name:  "unknown weather",
			query: PredictDemandQuery{Model: "linear_regression", PrevSales: 10, Price: 2, Weather: "Hail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predictor := &stubPredictor{}
			handler := NewPredictDemandHandler(predictor)

			_, err := handler.Handle(context.Background(), tt.query)
			require.Error(t, err)
			assert.Nil(t, predictor.features, "the model must not run on rejected input")
		})
	}
}

func TestPredictDemandUnknownModelPropagates(t *testing.T) {
	predictor := &stubPredictor{err: errors.New(`unknown or unavailable model "lstm"`)}
	handler := NewPredictDemandHandler(predictor)

	_, err := handler.Handle(context.Background(), PredictDemandQuery{
		Model:     "lstm",
		PrevSales: 10,
		Price:     2,
		Weather:   "Clear",
	})
	require.Error(t, err)
}
