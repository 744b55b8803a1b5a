package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"xptrack/internal/engine"
	"xptrack/internal/ui"
)

func newEditCmd() *cobra.Command {
	var name string
	var xp int
	var category string
	var freq string
	var days int

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task's name, XP, category or cadence",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch engine.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("xp") {
				patch.XP = &xp
			}
			if flags.Changed("category") {
				c, err := engine.ParseCategory(category)
				if err != nil {
					return err
				}
				patch.Category = &c
			}
			if flags.Changed("freq") {
				f, err := engine.ParseFrequency(freq)
				if err != nil {
					return err
				}
				patch.Frequency = &f
			}
			if flags.Changed("days") {
				patch.ResetFrequencyDays = &days
			}
			if patch == (engine.TaskPatch{}) {
				return errors.New("nothing to change (use --name, --xp, --category, --freq or --days)")
			}

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
			t, err := a.svc.UpdateTask(ctx, ref, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.IconSparkle, ui.Good.Render(t.Name),
				ui.Muted.Render(fmt.Sprintf("(+%d XP, %s, every %d day(s))", t.XPValue, t.Category, engine.ResetDays(t))))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().IntVarP(&xp, "xp", "x", 0, "New XP value")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")
	cmd.Flags().StringVarP(&freq, "freq", "f", "", "New frequency")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "Reset every N days")
	return cmd
}
