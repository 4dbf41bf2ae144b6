package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
	"github.com/paw-chain/cpamm/x/amm/keeper"
)

const (
	flagAddress        = "address"
	flagInvCheckPeriod = "inv-check-period"

	shutdownTimeout = 10 * time.Second
)

// StartCmd runs the node: the metrics and health endpoints plus periodic
// invariant checks, until interrupted.
func StartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the node and serve /metrics and /health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nc, err := getNodeContext(cmd)
			if err != nil {
				return err
			}

			addr, _ := cmd.Flags().GetString(flagAddress)
			if addr == "" {
				addr = nc.cfg.Server.Address
			}
			period, _ := cmd.Flags().GetDuration(flagInvCheckPeriod)

			a, err := app.New(cmd.Context(), nc.cfg, nc.home, nc.logger)
			if err != nil {
				return err
			}
			nc.logger = nc.logger.With("instance", a.InstanceID())
			defer func() {
				if err := a.Close(context.Background()); err != nil {
					nc.logger.Error("failed to close node", "error", err)
				}
			}()

			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}
			return serve(cmd.Context(), a, listener, period, nc.logger)
		},
	}

	cmd.Flags().String(flagAddress, "", "listen address (overrides server.address)")
	cmd.Flags().Duration(flagInvCheckPeriod, time.Minute, "interval between invariant sweeps (0 disables)")
	return cmd
}

// serve blocks until ctx is done or the HTTP server fails.
func serve(ctx context.Context, a *app.App, listener net.Listener, period time.Duration, logger log.Logger) error {
	server := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics and health", "address", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sweepCtx, stopSweeps := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		stopSweeps()
		wg.Wait()
	}()
	if period > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checkInvariants(sweepCtx, a, period, logger)
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func checkInvariants(ctx context.Context, a *app.App, period time.Duration, logger log.Logger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	invariant := keeper.AllInvariants(*a.Keeper)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if msg, broken := invariant(ctx); broken {
				logger.Error("invariant broken", "details", msg)
			}
		}
	}
}
