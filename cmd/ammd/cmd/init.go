package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
)

const flagOverwrite = "overwrite"

// InitCmd returns a command that writes the default app.toml and an empty
// genesis into the node home.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the node configuration and genesis files",
		Long: `Write config/app.toml with default settings and an empty config/genesis.json.

Example:
  ammd init --home ~/.ammd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nc, err := getNodeContext(cmd)
			if err != nil {
				return err
			}
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)

			genPath := filepath.Join(nc.home, configDirName, "genesis.json")
			if !overwrite {
				for _, path := range []string{configPath(nc.home), genPath} {
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("%s already exists; use --%s to replace it", path, flagOverwrite)
					}
				}
			}

			if err := WriteConfig(nc.home, nc.cfg); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			bz, err := json.MarshalIndent(app.NewDefaultGenesisState(), "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(genPath, bz, 0o644); err != nil {
				return fmt.Errorf("write genesis: %w", err)
			}

			nc.logger.Info("initialized node", "home", nc.home)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), nc.home)
			return err
		},
	}

	cmd.Flags().Bool(flagOverwrite, false, "replace existing configuration and genesis files")
	return cmd
}

// ConfigCmd prints the effective configuration.
func ConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration after file and environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nc, err := getNodeContext(cmd)
			if err != nil {
				return err
			}
			return appTemplate.Execute(cmd.OutOrStdout(), nc.cfg)
		},
	}
}
