package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/types"
)

// Backend is the node state the commands execute against.
type Backend interface {
	MsgServer() types.MsgServer
	AMMKeeper() *keeper.Keeper
	Balances(account string) map[string]uint64
}

// FeeDefaulter is implemented by backends that configure the fee init-pool
// applies when --fee-bps is not given.
type FeeDefaulter interface {
	DefaultFeeBps() uint16
}

type backendKey struct{}

// WithBackend attaches b to ctx for the commands to find.
func WithBackend(ctx context.Context, b Backend) context.Context {
	return context.WithValue(ctx, backendKey{}, b)
}

// GetBackend returns the backend attached to the command's context.
func GetBackend(cmd *cobra.Command) (Backend, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New("command has no context")
	}
	b, ok := ctx.Value(backendKey{}).(Backend)
	if !ok {
		return nil, errors.New("no node state attached to command")
	}
	return b, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

func parseAmount(name, arg string) (uint64, error) {
	v, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s (must be an unsigned integer)", name, arg)
	}
	return v, nil
}
