package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"xptrack/internal/ui"
)

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ref, err := resolveRef(a, args[0])
			if err != nil {
				return err
			}
			t, err := a.svc.DeleteTask(ctx, ref)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Deleted "+t.Name))
			return nil
		},
	}
	return cmd
}
