// Package health serves liveness, readiness and detailed status of an ammd
// node over HTTP.
//
// Endpoints:
// - /health - Basic liveness check
// - /health/ready - Store and invariant checks, cached
// - /health/detailed - Every check plus per-pool figures
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"

	"github.com/paw-chain/cpamm/x/amm/keeper"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metrics   map[string]any `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// TelemetryChecker reports whether exporters are usable.
type TelemetryChecker interface {
	HealthCheck() error
}

// Checker performs health checks against the AMM keeper.
type Checker struct {
	logger    log.Logger
	keeper    *keeper.Keeper
	telemetry TelemetryChecker

	maxResponseTime time.Duration

	mu            sync.RWMutex
	lastCheck     time.Time
	cachedHealth  *HealthCheck
	cacheDuration time.Duration
}

// Config holds configuration for the health checker
type Config struct {
	// MaxResponseTime is the store read latency above which the store is
	// reported degraded (at half) or unhealthy.
	MaxResponseTime time.Duration

	// CacheDuration is how long to cache readiness results
	CacheDuration time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		MaxResponseTime: time.Second,
		CacheDuration:   5 * time.Second,
	}
}

// NewChecker creates a new health checker. telemetry may be nil.
func NewChecker(logger log.Logger, cfg Config, k *keeper.Keeper, telemetry TelemetryChecker) (*Checker, error) {
	if k == nil {
		return nil, fmt.Errorf("keeper is required")
	}
	if cfg.MaxResponseTime <= 0 {
		return nil, fmt.Errorf("max response time must be positive")
	}

	return &Checker{
		logger:          logger.With("module", "health"),
		keeper:          k,
		telemetry:       telemetry,
		maxResponseTime: cfg.MaxResponseTime,
		cacheDuration:   cfg.CacheDuration,
	}, nil
}

// Check runs the health checks. Non-detailed results are cached.
func (c *Checker) Check(ctx context.Context, detailed bool) *HealthCheck {
	if !detailed {
		if cached := c.cached(); cached != nil {
			return cached
		}
	}

	health := &HealthCheck{
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}

	checks := map[string]func(context.Context) ComponentHealth{
		"store":      c.checkStore,
		"invariants": c.checkInvariants,
		"telemetry":  c.checkTelemetry,
	}
	if detailed {
		checks["pools"] = c.checkPools
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, fn := range checks {
		wg.Add(1)
		go func(name string, fn func(context.Context) ComponentHealth) {
			defer wg.Done()
			result := fn(ctx)
			mu.Lock()
			health.Components[name] = result
			mu.Unlock()
		}(name, fn)
	}
	wg.Wait()

	health.Status = calculateOverallStatus(health.Components)

	if !detailed {
		c.mu.Lock()
		c.lastCheck = time.Now()
		c.cachedHealth = health
		c.mu.Unlock()
	}

	return health
}

// checkStore times a read of the pool count.
func (c *Checker) checkStore(ctx context.Context) ComponentHealth {
	start := time.Now()
	count := c.keeper.PoolCount(ctx)
	duration := time.Since(start)

	metrics := map[string]any{
		"query_time_ms": duration.Milliseconds(),
		"pools":         count,
	}

	switch {
	case duration > c.maxResponseTime:
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("Store read took %s", duration),
			Timestamp: time.Now(),
			Metrics:   metrics,
		}
	case duration > c.maxResponseTime/2:
		return ComponentHealth{
			Status:    StatusDegraded,
			Message:   "Store response time is degraded",
			Timestamp: time.Now(),
			Metrics:   metrics,
		}
	}

	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "Store is responsive",
		Timestamp: time.Now(),
		Metrics:   metrics,
	}
}

// checkInvariants runs every registered invariant.
func (c *Checker) checkInvariants(ctx context.Context) ComponentHealth {
	invariants := keeper.RegisteredInvariants(*c.keeper)

	routes := make([]string, 0, len(invariants))
	for route := range invariants {
		routes = append(routes, route)
	}
	sort.Strings(routes)

	var broken []string
	results := make(map[string]any, len(routes))
	for _, route := range routes {
		msg, isBroken := invariants[route](ctx)
		results[route] = !isBroken
		if isBroken {
			broken = append(broken, route)
			c.logger.Error("invariant broken", "route", route, "details", msg)
		}
	}

	if len(broken) > 0 {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("Broken invariants: %v", broken),
			Timestamp: time.Now(),
			Metrics:   results,
		}
	}

	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "All invariants hold",
		Timestamp: time.Now(),
		Metrics:   results,
	}
}

func (c *Checker) checkTelemetry(_ context.Context) ComponentHealth {
	if c.telemetry == nil {
		return ComponentHealth{Status: StatusHealthy, Message: "Telemetry disabled", Timestamp: time.Now()}
	}
	if err := c.telemetry.HealthCheck(); err != nil {
		return ComponentHealth{
			Status:    StatusDegraded,
			Message:   fmt.Sprintf("Telemetry unavailable: %v", err),
			Timestamp: time.Now(),
		}
	}
	return ComponentHealth{Status: StatusHealthy, Message: "Telemetry exporting", Timestamp: time.Now()}
}

// checkPools summarizes pool state.
func (c *Checker) checkPools(ctx context.Context) ComponentHealth {
	pools, err := c.keeper.GetAllPools(ctx)
	if err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("Failed to read pools: %v", err),
			Timestamp: time.Now(),
		}
	}

	empty := 0
	fees := make(map[string]any, len(pools))
	for _, pool := range pools {
		if pool.IsEmpty() {
			empty++
		}
		fees[pool.ID] = pool.FeeBps
	}

	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   fmt.Sprintf("%d pools, %d empty", len(pools), empty),
		Timestamp: time.Now(),
		Metrics: map[string]any{
			"total":   len(pools),
			"empty":   empty,
			"fee_bps": fees,
		},
	}
}

// calculateOverallStatus determines the overall health status based on component statuses
func calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

func (c *Checker) cached() *HealthCheck {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil || time.Since(c.lastCheck) >= c.cacheDuration {
		return nil
	}
	return c.cachedHealth
}

// RegisterRoutes registers health check endpoints on router
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods(http.MethodGet)
	router.HandleFunc("/health/detailed", c.handleHealthDetailed).Methods(http.MethodGet)
}

// handleHealth handles the basic liveness check endpoint
func (c *Checker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	c.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleHealthReady handles the readiness check endpoint. Degraded nodes are
// still ready.
func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), false)
	c.writeJSON(w, statusCode(health), health)
}

// handleHealthDetailed handles the detailed health check endpoint
func (c *Checker) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), true)
	c.writeJSON(w, statusCode(health), health)
}

func statusCode(health *HealthCheck) int {
	if health.Status == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func (c *Checker) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Error("failed to write health response", "error", err)
	}
}
