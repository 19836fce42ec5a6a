package main

import (
	"fmt"

	"github.com/marcelsud/webhook-workflow/internal/bootstrap"
	"github.com/spf13/cobra"
)

func cmdWorkflow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Manage workflow types of the Redis queue engine",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "register TYPE...",
		Short: "Register workflow types so hooks can activate them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			queue, err := bootstrap.NewQueue(cfg)
			if err != nil {
				return err
			}
			defer queue.Close(ctx)

			for _, typeID := range args {
				if err := queue.RegisterType(ctx, typeID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered workflow type %s\n", typeID)
			}
			return nil
		},
	})
	return cmd
}
