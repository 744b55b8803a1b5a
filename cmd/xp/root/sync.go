package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"xptrack/internal/engine"
	"xptrack/internal/storage"
	"xptrack/internal/ui"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "sync [down|up]",
		Short:     "Pull from (default) or push to the remote store",
		ValidArgs: []string{"down", "up"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "down"
			if len(args) == 1 {
				dir = args[0]
			}

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			switch dir {
			case "up":
				err = a.svc.SyncUp(ctx)
			default:
				var tasks []storage.Task
				tasks, err = a.svc.SyncDown(ctx)
				if tasks != nil {
					fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("%d task(s) after sync", len(tasks))))
				}
			}

			var serr *engine.SyncError
			switch {
			case errors.As(err, &serr):
				fmt.Fprintln(out, ui.Warn.Render(fmt.Sprintf("%s Sync %s finished with %d failed record(s):", ui.IconWarn, dir, len(serr.Failed))))
				for name, ferr := range serr.Failed {
					fmt.Fprintf(out, "- %s: %v\n", name, ferr)
				}
				return errors.New("sync incomplete; retry later")
			case errors.Is(err, engine.ErrNoRemote):
				return errors.New("no remote configured (set remote.url or remote.path in the config)")
			case err != nil:
				return err
			}
			fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("%s Synced %s.", ui.IconCloud, dir)))
			return nil
		},
	}
	return cmd
}
