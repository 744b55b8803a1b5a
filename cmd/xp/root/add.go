package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"xptrack/internal/engine"
	"xptrack/internal/ui"
)

func newAddCmd() *cobra.Command {
	var xp int
	var category string
	var freq string
	var days int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a recurring task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := engine.ParseCategory(category)
			if err != nil {
				return err
			}
			f, err := engine.ParseFrequency(freq)
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := a.svc.AddTask(ctx, engine.CreateTaskInput{
				Name:               strings.Join(args, " "),
				XP:                 xp,
				Category:           cat,
				Frequency:          f,
				ResetFrequencyDays: days,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				ui.IconPlus,
				ui.Good.Render(t.Name),
				ui.Gold.Render(fmt.Sprintf("+%d XP", t.XPValue)),
				ui.Muted.Render(fmt.Sprintf("(%s, resets every %d day(s), id %s)", t.Category, engine.ResetDays(t), shortID(t.ID))),
			)
			return nil
		},
	}

	cmd.Flags().IntVarP(&xp, "xp", "x", 10, "XP awarded on completion (1-1000)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category (e.g. habits, finance, work)")
	cmd.Flags().StringVarP(&freq, "freq", "f", "daily", "Frequency (daily|other|3|weekly|monthly)")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "Reset every N days (overrides --freq)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
