package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-monitor/internal/forecast"
)

// PredictDemandQuery represents a demand prediction request
type PredictDemandQuery struct {
	Model     string
	PrevSales float64
	Price     float64
	Weather   string
}

// PredictDemandHandler handles demand prediction queries
type PredictDemandHandler struct {
	predictor forecast.Predictor
}

// NewPredictDemandHandler creates a new predict demand handler
func NewPredictDemandHandler(predictor forecast.Predictor) *PredictDemandHandler {
	return &PredictDemandHandler{predictor: predictor}
}

// Handle runs the chosen pretrained model over the request features.
func (h *PredictDemandHandler) Handle(ctx context.Context, q PredictDemandQuery) (float64, error) {
	if q.PrevSales < 0 {
		return 0, fmt.Errorf("prev_sales cannot be negative")
	}
	if q.Price < 0 {
		return 0, fmt.Errorf("price cannot be negative")
	}

	weather, err := forecast.EncodeWeather(q.Weather)
	if err != nil {
		return 0, err
	}

	return h.predictor.Predict(
		forecast.ModelKind(q.Model),
		[]float64{q.PrevSales, q.Price, weather},
	)
}
