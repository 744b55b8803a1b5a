package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"xptrack/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, XP and the current reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			p := a.svc.Progress()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Status"))
			fmt.Fprintln(out, ui.XPLine(p.Level, p.Total, p.MaxXP, 30))
			fmt.Fprintln(out, ui.LabelValue("This cycle", fmt.Sprintf("%d XP", p.AccumulatedXP)))
			fmt.Fprintln(out, ui.LabelValue("Banked", fmt.Sprintf("%d XP", p.EarnedXP)))
			fmt.Fprintln(out, ui.LabelValue("To next level", fmt.Sprintf("%d XP", max(p.MaxXP-p.Total, 0))))
			if p.Reward != "" {
				fmt.Fprintln(out, ui.LabelValue(ui.IconGift+" Level reward", ui.Gold.Render(p.Reward)))
			}
			if next := a.svc.Reward(p.Level + 1); next != "" {
				fmt.Fprintln(out, ui.LabelValue("Next reward", next))
			}

			done := 0
			tasks := a.svc.Tasks()
			for _, t := range tasks {
				if t.Completed {
					done++
				}
			}
			fmt.Fprintln(out, ui.LabelValue("Tasks", fmt.Sprintf("%d/%d done this cycle", done, len(tasks))))

			switch at := a.svc.LastSync(); {
			case !a.svc.HasRemote():
				fmt.Fprintln(out, ui.LabelValue("Sync", ui.Muted.Render("local only")))
			case at == nil:
				fmt.Fprintln(out, ui.LabelValue("Sync", ui.Warn.Render("never")))
			default:
				fmt.Fprintln(out, ui.LabelValue("Last sync", at.In(a.svc.Scheduler().Zone).Format("Jan 2 15:04")))
			}
			return nil
		},
	}
	return cmd
}
