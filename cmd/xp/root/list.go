package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"xptrack/internal/engine"
	"xptrack/internal/ui"
)

func newListCmd() *cobra.Command {
	var pendingOnly bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			tasks := a.svc.Tasks()
			if len(tasks) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No tasks yet. Add one with `xp add <name> --xp 20`."))
				return nil
			}
			zone := a.svc.Scheduler().Zone
			fmt.Fprintln(out, ui.Heading(ui.IconTask, "Tasks"))
			for i, t := range tasks {
				if pendingOnly && t.Completed {
					continue
				}
				due := ""
				if t.NextDueAt != nil {
					due = "resets " + t.NextDueAt.In(zone).Format("Mon Jan 2")
				}
				fmt.Fprintf(out, "%2d. %s %s %s %s %s\n",
					i+1,
					ui.Check(t.Completed),
					t.Name,
					ui.Gold.Render(fmt.Sprintf("+%d", t.XPValue)),
					ui.Muted.Render(fmt.Sprintf("[%s · %s · %s]", t.Category, frequencyLabel(t.Frequency, engine.ResetDays(t)), shortID(t.ID))),
					ui.Muted.Render(due),
				)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Only show tasks not yet completed this cycle")
	return cmd
}

func frequencyLabel(freq, days int) string {
	f := engine.Frequency(freq)
	if f.IsValid() && f.Days() == days {
		return f.String()
	}
	return engine.Frequency(days).String()
}
