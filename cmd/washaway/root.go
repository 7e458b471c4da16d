package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/washaway/config"
)

// app is the state shared by every subcommand once the root has loaded config
type app struct {
	configPath string
	debug      bool

	cfg     *config.Config
	log     *slog.Logger
	logFile *os.File
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "washaway",
		Short:         "Wash one picture away to reveal the next",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.teardown()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (.toml, .yaml, .json)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "write debug logs to the log directory")

	root.AddCommand(
		newPlayCmd(a),
		newSimulateCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log, a.logFile = setupLogging(cfg.Log.Dir, a.debug, cfg.SlogLevel())
	a.log.Debug("config loaded", "path", a.configPath, "images", cfg.ImageCount())
	return nil
}

func (a *app) teardown() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}
