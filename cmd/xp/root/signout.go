package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"xptrack/internal/ui"
)

func newSignoutCmd() *cobra.Command {
	var keep bool
	var noPush bool

	cmd := &cobra.Command{
		Use:   "signout",
		Short: "Push local state, end the session and clear the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if a.svc.HasRemote() && !noPush {
				if err := a.svc.SyncUp(ctx); err != nil {
					if !keep {
						return fmt.Errorf("%w; local data kept (retry, or use --no-push to discard)", err)
					}
					a.log.Warn("signout: push failed", "error", err)
				}
			}
			a.svc.EndSession()
			a.svc.Wait()

			if keep {
				fmt.Fprintln(out, ui.Muted.Render("Session ended; local data kept."))
				return nil
			}
			if err := a.local.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Good.Render("Signed out; local cache cleared."))
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "Keep the local cache")
	cmd.Flags().BoolVar(&noPush, "no-push", false, "Do not push local state before signing out")
	return cmd
}
