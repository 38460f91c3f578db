package rules

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func testItem(id string, mutate func(*Item)) Item {
	item := Item{
		ID:          id,
		Name:        "Item " + id,
		Quantity:    50,
		ExpiryDate:  testNow.Add(10 * 24 * time.Hour),
		Price:       decimal.NewFromFloat(100.00),
		DemandScore: 0.5,
	}
	if mutate != nil {
		mutate(&item)
	}
	return item
}

func TestEvaluateAlertsLowStockBoundary(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{"well below threshold", 3, 1},
		{"one below threshold", 9, 1},
		{"at threshold", 10, 0},
		{"above threshold", 11, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []Item{testItem("P1", func(i *Item) { i.Quantity = tt.quantity })}
			alerts, err := engine.EvaluateAlerts(items, testNow)
			require.NoError(t, err)

			var lowStock int
			for _, a := range alerts {
				if a.Kind == AlertLowStock {
					lowStock++
				}
			}
			assert.Equal(t, tt.want, lowStock)
		})
	}
}

func TestEvaluateAlertsExpiryBoundaryInclusive(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	exactly := testItem("P1", func(i *Item) { i.ExpiryDate = testNow.Add(3 * 24 * time.Hour) })
	alerts, err := engine.EvaluateAlerts([]Item{exactly}, testNow)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertExpiringSoon, alerts[0].Kind)
	assert.Equal(t, "Expires on 2026-03-18.", alerts[0].Reason)

	justPast := testItem("P2", func(i *Item) { i.ExpiryDate = testNow.Add(3*24*time.Hour + time.Second) })
	alerts, err = engine.EvaluateAlerts([]Item{justPast}, testNow)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestEvaluateAlertsMultipleConditionsPerItem(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// Low stock and expiring at the same time; check emission order.
	item := testItem("P1", func(i *Item) {
		i.Quantity = 2
		i.ExpiryDate = testNow.Add(24 * time.Hour)
	})
	alerts, err := engine.EvaluateAlerts([]Item{item}, testNow)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, AlertLowStock, alerts[0].Kind)
	assert.Equal(t, "Only 2 left in stock.", alerts[0].Reason)
	assert.Equal(t, AlertExpiringSoon, alerts[1].Kind)
}

func TestEvaluateAlertsOverstocked(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	items := []Item{
		testItem("P1", func(i *Item) { i.Quantity = 80 }),
		testItem("P2", func(i *Item) { i.Quantity = 81 }),
	}
	alerts, err := engine.EvaluateAlerts(items, testNow)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertOverstocked, alerts[0].Kind)
	assert.Equal(t, "Item P2", alerts[0].ItemName)
	assert.Equal(t, "81 in stock.", alerts[0].Reason)
}

func TestEvaluateAlertsFollowsInputOrder(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	items := []Item{
		testItem("B", func(i *Item) { i.Quantity = 1 }),
		testItem("A", func(i *Item) { i.Quantity = 1 }),
	}
	alerts, err := engine.EvaluateAlerts(items, testNow)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Item B", alerts[0].ItemName)
	assert.Equal(t, "Item A", alerts[1].ItemName)
}

func TestEvaluatePriceSuggestionsPriorityChain(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// Overstocked and expiring: only the overstock discount applies.
	item := testItem("P1", func(i *Item) {
		i.Quantity = 90
		i.ExpiryDate = testNow.Add(24 * time.Hour)
	})
	suggestions, err := engine.EvaluatePriceSuggestions([]Item{item}, testNow)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, ReasonOverstockDiscount, suggestions[0].Reason)
	assert.True(t, suggestions[0].SuggestedPrice.Equal(decimal.NewFromFloat(80.00)),
		"got %s", suggestions[0].SuggestedPrice)
}

func TestEvaluatePriceSuggestionsExpiryDiscount(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	item := testItem("P1", func(i *Item) {
		i.ExpiryDate = testNow.Add(2 * 24 * time.Hour)
		i.Price = decimal.NewFromFloat(10.00)
	})
	suggestions, err := engine.EvaluatePriceSuggestions([]Item{item}, testNow)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, ReasonExpiryDiscount, suggestions[0].Reason)
	assert.True(t, suggestions[0].SuggestedPrice.Equal(decimal.NewFromFloat(7.00)))
}

func TestEvaluatePriceSuggestionsRoundingIsExact(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// 19.99 * 0.80 = 15.992, which must round to exactly 15.99.
	item := testItem("P1", func(i *Item) {
		i.Quantity = 100
		i.Price = decimal.NewFromFloat(19.99)
	})
	suggestions, err := engine.EvaluatePriceSuggestions([]Item{item}, testNow)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "15.99", suggestions[0].SuggestedPrice.StringFixed(2))
}

func TestEvaluatePriceSuggestionsNoRuleMatches(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	suggestions, err := engine.EvaluatePriceSuggestions([]Item{testItem("P1", nil)}, testNow)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestHighDemandLowStockScenario(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	item := testItem("P1", func(i *Item) {
		i.Quantity = 5
		i.Price = decimal.NewFromFloat(100.00)
		i.DemandScore = 0.9
	})

	alerts, err := engine.EvaluateAlerts([]Item{item}, testNow)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertLowStock, alerts[0].Kind)

	suggestions, err := engine.EvaluatePriceSuggestions([]Item{item}, testNow)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, ReasonDemandIncrease, suggestions[0].Reason)
	assert.Equal(t, "115.00", suggestions[0].SuggestedPrice.StringFixed(2))
}

func TestOverstockedScenario(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	item := testItem("P2", func(i *Item) {
		i.Quantity = 90
		i.Price = decimal.NewFromFloat(50.00)
		i.DemandScore = 0.1
	})

	alerts, err := engine.EvaluateAlerts([]Item{item}, testNow)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertOverstocked, alerts[0].Kind)

	suggestions, err := engine.EvaluatePriceSuggestions([]Item{item}, testNow)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, ReasonOverstockDiscount, suggestions[0].Reason)
	assert.Equal(t, "40.00", suggestions[0].SuggestedPrice.StringFixed(2))
}

func TestEvaluationIsIdempotent(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	items := []Item{
		testItem("P1", func(i *Item) { i.Quantity = 2 }),
		testItem("P2", func(i *Item) { i.Quantity = 250 }),
		testItem("P3", func(i *Item) { i.ExpiryDate = testNow.Add(time.Hour) }),
	}

	first, err := engine.EvaluateAlerts(items, testNow)
	require.NoError(t, err)
	second, err := engine.EvaluateAlerts(items, testNow)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	firstPrices, err := engine.EvaluatePriceSuggestions(items, testNow)
	require.NoError(t, err)
	secondPrices, err := engine.EvaluatePriceSuggestions(items, testNow)
	require.NoError(t, err)
	assert.Equal(t, firstPrices, secondPrices)
}

func TestEmptySnapshot(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	alerts, err := engine.EvaluateAlerts(nil, testNow)
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)

	suggestions, err := engine.EvaluatePriceSuggestions([]Item{}, testNow)
	require.NoError(t, err)
	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestMalformedItemFailsFast(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name   string
		mutate func(*Item)
		field  string
	}{
		{"missing id", func(i *Item) { i.ID = "" }, "id"},
		{"negative quantity", func(i *Item) { i.Quantity = -1 }, "quantity"},
		{"missing expiry", func(i *Item) { i.ExpiryDate = time.Time{} }, "expiry_date"},
		{"negative price", func(i *Item) { i.Price = decimal.NewFromFloat(-1) }, "price"},
		{"demand score above one", func(i *Item) { i.DemandScore = 1.5 }, "demand_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []Item{testItem("BAD", tt.mutate)}

			_, err := engine.EvaluateAlerts(items, testNow)
			require.Error(t, err)
			var inputErr *InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.field, inputErr.Field)

			_, err = engine.EvaluatePriceSuggestions(items, testNow)
			require.Error(t, err)
		})
	}
}
