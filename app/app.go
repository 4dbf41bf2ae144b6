// Package app assembles an ammd node: the KV store, the custody ledger, the
// AMM keeper and the operational surfaces around them.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cosmossdk.io/log"
	"cosmossdk.io/store/dbadapter"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/paw-chain/cpamm/app/health"
	"github.com/paw-chain/cpamm/app/telemetry"
	"github.com/paw-chain/cpamm/x/amm/client/cli"
	"github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/ledger"
	"github.com/paw-chain/cpamm/x/amm/types"
)

const (
	// Name is the application name.
	Name = "ammd"

	bankStorePrefix = "bank/"
	genesisFileName = "genesis.json"
)

var genesisLoadedKey = []byte("meta/genesis-loaded")

var _ cli.Backend = (*App)(nil)

// App is a running node.
type App struct {
	cfg        Config
	logger     log.Logger
	instanceID string

	db   dbm.DB
	root storetypes.KVStore

	registry  *prometheus.Registry
	telemetry *telemetry.Provider
	health    *health.Checker

	Bank      *ledger.Bank
	Keeper    *keeper.Keeper
	msgServer types.MsgServer
}

// New opens the node's database under homeDir and wires the keeper. On the
// first open of a fresh database the genesis file in homeDir/config is loaded
// when present.
func New(ctx context.Context, cfg Config, homeDir string, logger log.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var (
		db  dbm.DB
		err error
	)
	backend := dbm.BackendType(cfg.DB.Backend)
	if backend == dbm.MemDBBackend {
		db = dbm.NewMemDB()
	} else {
		dataDir := filepath.Join(homeDir, "data")
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		db, err = dbm.NewDB(cfg.DB.Name, backend, dataDir)
		if err != nil {
			return nil, fmt.Errorf("open %s database: %w", backend, err)
		}
	}

	app, err := newApp(cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := app.loadGenesisOnce(ctx, filepath.Join(homeDir, "config", genesisFileName)); err != nil {
		app.Close(ctx)
		return nil, err
	}
	return app, nil
}

// NewInMemory returns a node over a fresh in-memory database.
func NewInMemory(cfg Config, logger log.Logger) (*App, error) {
	return newApp(cfg, dbm.NewMemDB(), logger)
}

func newApp(cfg Config, db dbm.DB, logger log.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	instanceID := uuid.NewString()
	tp, err := telemetry.NewProvider(telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		SampleRate:  cfg.Telemetry.SampleRate,
		Environment: cfg.Telemetry.Environment,
		InstanceID:  instanceID,
		DBBackend:   cfg.DB.Backend,
		Registerer:  registry,
	})
	if err != nil {
		return nil, err
	}

	root := &dbadapter.Store{DB: db}
	bank, k := newModules(root, logger, keeper.NewAMMMetrics(registry), cfg.Pool.DefaultPrecision)
	if err := tp.ObservePools(k.PoolCount); err != nil {
		return nil, errors.Join(err, tp.Shutdown(context.Background()))
	}

	app := &App{
		cfg:        cfg,
		logger:     logger.With("module", "app", "instance", instanceID),
		instanceID: instanceID,
		db:         db,
		root:       root,
		registry:   registry,
		telemetry:  tp,
		Bank:       bank,
		Keeper:     k,
		msgServer:  keeper.NewMsgServerImpl(*k),
	}

	var tc health.TelemetryChecker
	if cfg.Telemetry.Enabled {
		tc = tp
	}
	app.health, err = health.NewChecker(logger, health.DefaultConfig(), k, tc)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// newModules wires a ledger and an AMM keeper over the prefixes of root.
func newModules(root storetypes.KVStore, logger log.Logger, metrics *keeper.AMMMetrics, precision uint8) (*ledger.Bank, *keeper.Keeper) {
	bank := ledger.NewBank(prefix.NewStore(root, []byte(bankStorePrefix)), logger)
	k := keeper.NewKeeper(
		prefix.NewStore(root, []byte(types.StoreKey+"/")),
		bank,
		bank,
		logger,
		metrics,
		precision,
	)
	return bank, k
}

func (app *App) loadGenesisOnce(ctx context.Context, path string) error {
	if app.root.Has(genesisLoadedKey) {
		return nil
	}

	gs, err := LoadGenesisFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		app.logger.Info("no genesis file, starting empty", "path", path)
	case err != nil:
		return err
	default:
		if err := app.InitGenesis(ctx, gs); err != nil {
			return err
		}
	}

	app.root.Set(genesisLoadedKey, []byte{1})
	return nil
}

// Config returns the configuration the node was opened with.
func (app *App) Config() Config { return app.cfg }

// InstanceID identifies this process in logs and exported telemetry.
func (app *App) InstanceID() string { return app.instanceID }

// Logger returns the application logger.
func (app *App) Logger() log.Logger { return app.logger }

// Registry returns the Prometheus registry backing /metrics.
func (app *App) Registry() *prometheus.Registry { return app.registry }

// MsgServer implements cli.Backend.
func (app *App) MsgServer() types.MsgServer { return app.msgServer }

// AMMKeeper implements cli.Backend.
func (app *App) AMMKeeper() *keeper.Keeper { return app.Keeper }

// Balances implements cli.Backend.
func (app *App) Balances(account string) map[string]uint64 {
	return app.Bank.Balances(account)
}

// DefaultFeeBps is the fee applied by init-pool when none is given.
func (app *App) DefaultFeeBps() uint16 { return app.cfg.Pool.DefaultFeeBps }

// Fund credits an account from outside the pools. Share assets are refused:
// their supply equals the pool's LP supply.
func (app *App) Fund(ctx context.Context, account, asset string, amount uint64) error {
	pools, err := app.Keeper.GetAllPools(ctx)
	if err != nil {
		return err
	}
	for _, pool := range pools {
		if pool.ShareAsset == asset {
			return types.ErrInvalidAmount.Wrapf("%s is the share asset of pool %s", asset, pool.ID)
		}
	}
	return app.Bank.Fund(ctx, account, asset, amount)
}

// Close flushes telemetry and closes the database.
func (app *App) Close(ctx context.Context) error {
	var errs []error
	if err := app.telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
