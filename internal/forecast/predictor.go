// Package forecast loads pretrained demand-regression models and serves
// predictions. Forecasting is an external signal to the monitor: the rule
// engine only ever consumes a demand score, it never computes one.
package forecast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tair/inventory-monitor/pkg/logger"
)

// ModelKind names one pretrained regression model.
type ModelKind string

const (
	ModelLinearRegression ModelKind = "linear_regression"
	ModelRandomForest     ModelKind = "random_forest"
)

// FeatureCount is the fixed model input width: previous-day sales, price and
// encoded weather, in that order.
const FeatureCount = 3

// Weather encoding used when the models were trained.
var weatherCodes = map[string]float64{
	"Clear":  0,
	"Rainy":  1,
	"Cloudy": 2,
	"Snowy":  3,
}

// EncodeWeather maps a weather label onto its training-time code.
func EncodeWeather(name string) (float64, error) {
	code, ok := weatherCodes[name]
	if !ok {
		return 0, fmt.Errorf("unknown weather %q", name)
	}
	return code, nil
}

// Predictor serves demand predictions from pretrained models.
type Predictor interface {
	Predict(kind ModelKind, features []float64) (float64, error)
}

type model interface {
	predict(features []float64) float64
}

// Registry is a Predictor backed by model files loaded at startup.
type Registry struct {
	models map[ModelKind]model
}

// LoadRegistry reads every known model file under dir. A missing file leaves
// that model kind unavailable rather than failing the load; a present but
// malformed file fails it.
func LoadRegistry(dir string) (*Registry, error) {
	registry := &Registry{models: make(map[ModelKind]model)}

	loaders := map[ModelKind]func([]byte) (model, error){
		ModelLinearRegression: loadLinearModel,
		ModelRandomForest:     loadForestModel,
	}

	for kind, load := range loaders {
		path := filepath.Join(dir, string(kind)+".json")
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			logger.Logger.Warn().
				Str("model", string(kind)).
				Str("path", path).
				Msg("Model file not found, kind unavailable")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read model %s: %w", kind, err)
		}

		m, err := load(data)
		if err != nil {
			return nil, fmt.Errorf("failed to load model %s: %w", kind, err)
		}
		registry.models[kind] = m

		logger.Logger.Info().
			Str("model", string(kind)).
			Str("path", path).
			Msg("Model loaded")
	}

	return registry, nil
}

// Predict runs the named model over the features.
func (r *Registry) Predict(kind ModelKind, features []float64) (float64, error) {
	if len(features) != FeatureCount {
		return 0, fmt.Errorf("expected %d features, got %d", FeatureCount, len(features))
	}
	m, ok := r.models[kind]
	if !ok {
		return 0, fmt.Errorf("unknown or unavailable model %q", kind)
	}
	return m.predict(features), nil
}

// Kinds lists the loaded model kinds.
func (r *Registry) Kinds() []ModelKind {
	kinds := make([]ModelKind, 0, len(r.models))
	for kind := range r.models {
		kinds = append(kinds, kind)
	}
	return kinds
}

// minMaxScaler mirrors the scaler the models were trained with. Zero ranges
// pass values through unscaled.
type minMaxScaler struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

func (s *minMaxScaler) transform(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, v := range features {
		if i < len(s.Min) && i < len(s.Max) && s.Max[i] != s.Min[i] {
			out[i] = (v - s.Min[i]) / (s.Max[i] - s.Min[i])
		} else {
			out[i] = v
		}
	}
	return out
}

// linearModel is ordinary least squares: w·x + b, with optional feature and
// target scaling carried over from training.
type linearModel struct {
	Weights      []float64     `json:"weights"`
	Intercept    float64       `json:"intercept"`
	FeatureScale *minMaxScaler `json:"feature_scaler,omitempty"`
	TargetMin    *float64      `json:"target_min,omitempty"`
	TargetMax    *float64      `json:"target_max,omitempty"`
}

func loadLinearModel(data []byte) (model, error) {
	var m linearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Weights) != FeatureCount {
		return nil, fmt.Errorf("expected %d weights, got %d", FeatureCount, len(m.Weights))
	}
	return &m, nil
}

func (m *linearModel) predict(features []float64) float64 {
	if m.FeatureScale != nil {
		features = m.FeatureScale.transform(features)
	}
	sum := m.Intercept
	for i, w := range m.Weights {
		sum += w * features[i]
	}
	if m.TargetMin != nil && m.TargetMax != nil {
		// Inverse of the target min-max scaling applied during training.
		sum = sum*(*m.TargetMax-*m.TargetMin) + *m.TargetMin
	}
	return sum
}

// forestModel is a regression tree ensemble in the flattened array layout
// scikit-learn exports: a node is a leaf when its left child is -1.
type forestModel struct {
	Trees []forestTree `json:"trees"`
}

type forestTree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

func loadForestModel(data []byte) (model, error) {
	var m forestModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	for i, tree := range m.Trees {
		n := len(tree.Feature)
		if len(tree.Threshold) != n || len(tree.Left) != n || len(tree.Right) != n || len(tree.Value) != n {
			return nil, fmt.Errorf("tree %d has inconsistent node arrays", i)
		}
		if n == 0 {
			return nil, fmt.Errorf("tree %d is empty", i)
		}
		// Index validation up front so walk can never panic on a model that
		// parsed but is internally broken.
		for node := 0; node < n; node++ {
			if tree.Left[node] == -1 {
				if tree.Right[node] != -1 {
					return nil, fmt.Errorf("tree %d node %d: leaf with a right child", i, node)
				}
				continue
			}
			if tree.Feature[node] < 0 || tree.Feature[node] >= FeatureCount {
				return nil, fmt.Errorf("tree %d node %d: feature index %d out of range", i, node, tree.Feature[node])
			}
			if tree.Left[node] >= n || tree.Right[node] < 0 || tree.Right[node] >= n {
				return nil, fmt.Errorf("tree %d node %d: child index out of range", i, node)
			}
			// Children must point forward or walk could loop forever.
			if tree.Left[node] <= node || tree.Right[node] <= node {
				return nil, fmt.Errorf("tree %d node %d: child index does not advance", i, node)
			}
		}
	}
	return &m, nil
}

func (m *forestModel) predict(features []float64) float64 {
	var sum float64
	for _, tree := range m.Trees {
		sum += tree.walk(features)
	}
	return sum / float64(len(m.Trees))
}

func (t *forestTree) walk(features []float64) float64 {
	node := 0
	for t.Left[node] != -1 {
		if features[t.Feature[node]] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return t.Value[node]
}
