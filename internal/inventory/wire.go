//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"

	httpDelivery "github.com/tair/inventory-monitor/internal/inventory/delivery/http"
	"github.com/tair/inventory-monitor/internal/inventory/domain"
	"github.com/tair/inventory-monitor/internal/inventory/snapshot"
	"github.com/tair/inventory-monitor/internal/inventory/usecase/command"
	"github.com/tair/inventory-monitor/internal/inventory/usecase/query"
	"github.com/tair/inventory-monitor/internal/forecast"
	"github.com/tair/inventory-monitor/internal/notify"
	"github.com/tair/inventory-monitor/internal/rules"
)

// ProvideRuleEngine provides the engine with the stock rule set
func ProvideRuleEngine() *rules.Engine {
	return rules.NewEngine(rules.DefaultConfig())
}

// ProvideSnapshotProvider provides the snapshot provider
func ProvideSnapshotProvider(records domain.RecordRepository, scores domain.DemandScoreStore) domain.SnapshotProvider {
	return snapshot.NewProvider(records, scores)
}

// Wire sets
var EngineSet = wire.NewSet(
	ProvideRuleEngine,
	ProvideSnapshotProvider,
)

var UsecaseSet = wire.NewSet(
	command.NewTriggerAlertsHandler,
	command.NewApplyPricesHandler,
	query.NewListAlertsHandler,
	query.NewSuggestPricesHandler,
	query.NewCheckItemHandler,
	query.NewPredictDemandHandler,
)

// InitializeMonitorHandler initializes the HTTP handler with all dependencies
func InitializeMonitorHandler(
	records domain.RecordRepository,
	scores domain.DemandScoreStore,
	dispatcher *notify.Dispatcher,
	predictor forecast.Predictor,
) (*httpDelivery.MonitorHandler, error) {
	wire.Build(
		EngineSet,
		UsecaseSet,
		httpDelivery.NewMonitorHandler,
	)
	return nil, nil
}
