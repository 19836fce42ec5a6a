package main

import (
	"github.com/marcelsud/webhook-workflow/config"
	"github.com/spf13/cobra"
)

var (
	configDir string
	cfg       *config.Config
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hookctl",
		Short:         "Validate, import and dry-run webhook hook definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configDir)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", ".", "directory holding the .env config file")

	cmd.AddCommand(
		cmdValidate(),
		cmdImport(),
		cmdMatch(),
		cmdWorkflow(),
	)
	return cmd
}
