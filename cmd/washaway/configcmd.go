package main

import (
	"github.com/spf13/cobra"

	"github.com/lixenwraith/washaway/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration after file and env overrides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.Encode(a.cfg, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format: toml, yaml, json")
	return cmd
}
