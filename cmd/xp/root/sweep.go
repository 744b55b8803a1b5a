package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"xptrack/internal/ui"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Reset tasks whose cycle has elapsed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			// Opening the app already ran the reset pass.
			sum := a.swept
			out := cmd.OutOrStdout()
			if len(sum.Reset) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Nothing to reset."))
				return nil
			}
			fmt.Fprintf(out, "%s Reset %d task(s)", ui.IconLoop, len(sum.Reset))
			if sum.BankedXP > 0 {
				fmt.Fprintf(out, ", banked %s", ui.Gold.Render(fmt.Sprintf("+%d XP", sum.BankedXP)))
			}
			fmt.Fprintln(out)
			if sum.LevelUp() {
				fmt.Fprintf(out, "%s %s level %d → %d\n", ui.IconTrophy, ui.BadgeLevelUp, sum.LevelBefore, sum.LevelAfter)
			}
			return nil
		},
	}
	return cmd
}
