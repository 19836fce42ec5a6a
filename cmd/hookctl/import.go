package main

import (
	"fmt"

	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/marcelsud/webhook-workflow/internal/bootstrap"
	"github.com/spf13/cobra"
)

func cmdImport() *cobra.Command {
	return &cobra.Command{
		Use:   "import [hooks.yaml]",
		Short: "Copy the hooks of a file into the configured hook store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hooksFile := cfg.HooksFile
			if len(args) > 0 {
				hooksFile = args[0]
			}

			loader := hook.NewLoader()
			if err := loader.Load(hooksFile); err != nil {
				return err
			}

			ctx := cmd.Context()
			repo, err := bootstrap.OpenRepository(ctx, cfg)
			if err != nil {
				return err
			}
			defer repo.Close(ctx)

			all := loader.All()
			for _, h := range all {
				if err := repo.Save(ctx, h); err != nil {
					return fmt.Errorf("importing hook %s: %w", h.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d hook(s) into %s\n", len(all), cfg.HookSource)
			return nil
		},
	}
}
