// Package health polls the monitor service's /health endpoint so the gateway
// can answer readiness probes without forwarding traffic to a dead upstream.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tair/inventory-monitor/api-gateway/config"
	"github.com/tair/inventory-monitor/pkg/logger"
)

// ServiceHealth is the outcome of one upstream health probe.
type ServiceHealth struct {
	Name      string        `json:"name"`
	Status    string        `json:"status"` // healthy, unhealthy
	URL       string        `json:"url"`
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// GatewayHealth is the gateway's readiness view: the gateway is ready only
// when every configured upstream answers its health check.
type GatewayHealth struct {
	Gateway  string                   `json:"gateway"`
	Status   string                   `json:"status"` // healthy, unhealthy
	Services map[string]ServiceHealth `json:"services"`
	Uptime   time.Duration            `json:"uptime_seconds"`
}

// HealthChecker probes the configured upstreams. In the normal deployment
// that is exactly one service, the monitor.
type HealthChecker struct {
	config    *config.GatewayConfig
	client    *http.Client
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(cfg *config.GatewayConfig) *HealthChecker {
	return &HealthChecker{
		config: cfg,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		startTime: time.Now(),
	}
}

// CheckService probes one upstream's health endpoint. The monitor's /health
// pings its record store, so an unhealthy result here usually means the
// database behind the monitor is down, not the monitor process itself.
func (h *HealthChecker) CheckService(ctx context.Context, name string, svc config.ServiceConfig) ServiceHealth {
	start := time.Now()

	result := ServiceHealth{
		Name:      name,
		URL:       svc.BaseURL,
		Timestamp: start,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", svc.BaseURL+svc.HealthCheck, nil)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Failed to create request: %v", err)
		result.Latency = time.Since(start)
		return result
	}

	resp, err := h.client.Do(req)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Failed to reach service: %v", err)
		result.Latency = time.Since(start)
		return result
	}
	defer resp.Body.Close()

	result.Latency = time.Since(start)

	if resp.StatusCode == http.StatusOK {
		result.Status = "healthy"
	} else {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Unexpected status code: %d", resp.StatusCode)
	}

	return result
}

// CheckAllServices probes every configured upstream. One unhealthy upstream
// makes the gateway unhealthy: with the monitor as the only service there is
// nothing to degrade to.
func (h *HealthChecker) CheckAllServices(ctx context.Context) GatewayHealth {
	services := make(map[string]ServiceHealth, len(h.config.Services))
	status := "healthy"

	for name, svc := range h.config.Services {
		result := h.CheckService(ctx, name, svc)
		services[name] = result

		if result.Status == "healthy" {
			logger.Logger.Debug().
				Str("service", name).
				Dur("latency", result.Latency).
				Msg("Upstream health check passed")
			continue
		}

		status = "unhealthy"
		logger.Logger.Warn().
			Str("service", name).
			Str("url", result.URL).
			Str("error", result.Error).
			Msg("Upstream health check failed")
	}

	return GatewayHealth{
		Gateway:  "inventory-monitor-gateway",
		Status:   status,
		Services: services,
		Uptime:   time.Since(h.startTime),
	}
}

// QuickCheck reports the gateway process itself, without probing upstreams.
func (h *HealthChecker) QuickCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":    "healthy",
		"gateway":   "inventory-monitor-gateway",
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}
