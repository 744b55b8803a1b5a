package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"xptrack/internal/engine"
	"xptrack/internal/ui"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show top category, XP by category and streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			tasks := a.svc.Tasks()
			fmt.Fprintln(out, ui.Heading(ui.IconBolt, "Stats"))
			if top, ok := engine.TopCategory(tasks); ok {
				fmt.Fprintln(out, ui.LabelValue("Top category", fmt.Sprintf("%s (%d done)", top.Category, top.Count)))
			} else {
				fmt.Fprintln(out, ui.LabelValue("Top category", ui.Muted.Render("none yet")))
			}
			fmt.Fprintln(out, ui.LabelValue(ui.IconFire+" Streak", fmt.Sprintf("%d day(s)", a.svc.Scheduler().Streak(tasks))))

			byCat := engine.XPByCategory(tasks)
			if len(byCat) == 0 {
				return nil
			}
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.H2.Render("XP by category"))
			top := byCat[0].XP
			for _, c := range byCat {
				fmt.Fprintf(out, "- %-18s %s %d\n", c.Category, ui.XPBar(c.XP, top, 20), c.XP)
			}
			return nil
		},
	}
	return cmd
}
