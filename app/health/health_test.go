package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/paw-chain/cpamm/testutil/keeper"
)

type stubTelemetry struct{ err error }

func (s stubTelemetry) HealthCheck() error { return s.err }

type HealthCheckTestSuite struct {
	suite.Suite
	fixture keepertest.Fixture
	checker *Checker
	router  *mux.Router
}

func TestHealthCheckTestSuite(t *testing.T) {
	suite.Run(t, new(HealthCheckTestSuite))
}

func (suite *HealthCheckTestSuite) SetupTest() {
	suite.fixture = keepertest.AMMKeeper(suite.T())
	suite.fixture.CreateTestPool(suite.T(), "pool-1", 1_000_000, 1_000_000, 1_000_000, 30)
	suite.fixture.InitTestPool(suite.T(), "pool-2", 5)

	checker, err := NewChecker(log.NewNopLogger(), DefaultConfig(), suite.fixture.Keeper, nil)
	suite.Require().NoError(err)
	suite.checker = checker

	suite.router = mux.NewRouter()
	checker.RegisterRoutes(suite.router)
}

func (suite *HealthCheckTestSuite) get(path string) (*httptest.ResponseRecorder, HealthCheck) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)

	var body HealthCheck
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func (suite *HealthCheckTestSuite) TestLiveness() {
	rec, _ := suite.get("/health")
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("application/json", rec.Header().Get("Content-Type"))
}

func (suite *HealthCheckTestSuite) TestReadyWhenInvariantsHold() {
	rec, body := suite.get("/health/ready")
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal(StatusHealthy, body.Status)
	suite.Contains(body.Components, "store")
	suite.Contains(body.Components, "invariants")
	suite.NotContains(body.Components, "pools")
}

func (suite *HealthCheckTestSuite) TestDetailedReportsPools() {
	rec, body := suite.get("/health/detailed")
	suite.Equal(http.StatusOK, rec.Code)

	pools := body.Components["pools"]
	suite.Equal(StatusHealthy, pools.Status)
	suite.Equal("2 pools, 1 empty", pools.Message)
}

func (suite *HealthCheckTestSuite) TestBrokenInvariantIsUnhealthy() {
	f := suite.fixture
	pool, err := f.Keeper.GetPool(f.Ctx, "pool-1")
	suite.Require().NoError(err)
	suite.Require().NoError(f.Bank.Bank.Credit(f.Ctx, pool.Vault, "thief", pool.AssetX, 10))

	rec, body := suite.get("/health/detailed")
	suite.Equal(http.StatusServiceUnavailable, rec.Code)
	suite.Equal(StatusUnhealthy, body.Status)
	suite.Equal(StatusUnhealthy, body.Components["invariants"].Status)
}

func (suite *HealthCheckTestSuite) TestReadinessIsCached() {
	first := suite.checker.Check(suite.fixture.Ctx, false)
	second := suite.checker.Check(suite.fixture.Ctx, false)
	suite.Same(first, second)

	detailed := suite.checker.Check(suite.fixture.Ctx, true)
	suite.NotSame(first, detailed)
}

func (suite *HealthCheckTestSuite) TestPostNotAllowed() {
	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	suite.Equal(http.StatusMethodNotAllowed, rec.Code)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, time.Second, cfg.MaxResponseTime)
	require.Equal(t, 5*time.Second, cfg.CacheDuration)
}

func TestNewChecker(t *testing.T) {
	f := keepertest.AMMKeeper(t)

	_, err := NewChecker(log.NewNopLogger(), DefaultConfig(), nil, nil)
	require.ErrorContains(t, err, "keeper is required")

	_, err = NewChecker(log.NewNopLogger(), Config{}, f.Keeper, nil)
	require.ErrorContains(t, err, "max response time")

	c, err := NewChecker(log.NewNopLogger(), DefaultConfig(), f.Keeper, stubTelemetry{err: errors.New("exporter down")})
	require.NoError(t, err)

	health := c.Check(f.Ctx, true)
	require.Equal(t, StatusDegraded, health.Status)
	require.Equal(t, StatusDegraded, health.Components["telemetry"].Status)
}

func TestCalculateOverallStatus(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]ComponentHealth
		want       Status
	}{
		{"all healthy", map[string]ComponentHealth{"a": {Status: StatusHealthy}, "b": {Status: StatusHealthy}}, StatusHealthy},
		{"one degraded", map[string]ComponentHealth{"a": {Status: StatusHealthy}, "b": {Status: StatusDegraded}}, StatusDegraded},
		{"unhealthy wins", map[string]ComponentHealth{"a": {Status: StatusDegraded}, "b": {Status: StatusUnhealthy}}, StatusUnhealthy},
		{"no components", map[string]ComponentHealth{}, StatusHealthy},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, calculateOverallStatus(tc.components))
		})
	}
}
