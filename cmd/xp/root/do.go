package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"xptrack/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "do <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a task's completion",
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
			res, err := a.svc.ToggleCompletion(ctx, ref)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.Completed {
				fmt.Fprintf(out, "%s %s %s\n", ui.Check(false), res.Task.Name, ui.Muted.Render(fmt.Sprintf("(-%d XP)", res.XPRevoked)))
				return nil
			}
			fmt.Fprintf(out, "%s %s %s\n", ui.IconDone, ui.Good.Render(res.Task.Name), ui.Gold.Render(fmt.Sprintf("+%d XP", res.XPAwarded)))
			if res.LevelUp {
				fmt.Fprintf(out, "%s %s level %d → %d\n", ui.IconTrophy, ui.BadgeLevelUp, res.LevelBefore, res.LevelAfter)
				if res.Reward != "" {
					fmt.Fprintf(out, "%s %s\n", ui.IconGift, ui.Gold.Render("Reward unlocked: "+res.Reward))
				}
			}
			p := a.svc.Progress()
			fmt.Fprintln(out, ui.XPLine(p.Level, p.Total, p.MaxXP, 30))
			return nil
		},
	}
	return cmd
}
