package main

import (
	"fmt"

	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/spf13/cobra"
)

func cmdValidate() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [hooks.yaml]",
		Short: "Validate a hooks file and print the hooks it defines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hooksFile := cfg.HooksFile
			if len(args) > 0 {
				hooksFile = args[0]
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Validating hooks file: %s\n", hooksFile)

			loader := hook.NewLoader()
			if err := loader.Load(hooksFile); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			all := loader.All()
			fmt.Fprintf(out, "Loaded %d hook(s):\n", len(all))
			for i, h := range all {
				printHook(out, i+1, h)
			}
			fmt.Fprintln(out, "All hooks are valid")
			return nil
		},
	}
}
