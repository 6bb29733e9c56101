// Command weightduel runs the two-user weight log service and its
// maintenance commands.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"weightduel/internal/config"
)

type rootFlags struct {
	env        string
	configPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:          "weightduel",
		Short:        "Two-user daily weight log with trend statistics",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flags.env, "env", "development", "config section to use (development|production)")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "config.toml", "path to the TOML config file")

	cmd.AddCommand(
		newServeCmd(flags),
		newImportCmd(flags),
		newExportCmd(flags),
		newStatsCmd(flags),
		newHashPasscodeCmd(),
	)
	return cmd
}

func (f *rootFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.env, f.configPath)
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %s config from %s, store: %s", f.env, f.configPath, cfg.Store)
	return cfg, nil
}
