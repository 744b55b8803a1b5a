package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"xptrack/internal/ui"
)

func newRewardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reward",
		Short: "Manage per-level rewards",
	}
	cmd.AddCommand(newRewardListCmd(), newRewardSetCmd())
	return cmd
}

func newRewardListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the reward catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			entries := a.svc.Rewards()
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No rewards set. Try `xp reward set 5 \"weekend trip\"`."))
				return nil
			}
			level := a.svc.Progress().Level
			fmt.Fprintln(out, ui.Heading(ui.IconGift, "Rewards"))
			for _, e := range entries {
				text := e.Reward
				if text == "" {
					text = ui.Muted.Render("(none)")
				}
				marker := "  "
				switch {
				case e.Level == level:
					marker = "▶ "
				case e.Level < level:
					text = ui.Muted.Render(text)
				}
				fmt.Fprintf(out, "%sLv %-3d %s\n", marker, e.Level, text)
			}
			return nil
		},
	}
}

func newRewardSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <level> <reward>",
		Short: "Set the reward for reaching a level (empty text clears it)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("level is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("level must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			level, _ := strconv.Atoi(args[0])
			text := strings.Join(args[1:], " ")

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.svc.SetReward(ctx, level, text); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s Level %d reward: %q", ui.IconGift, level, text)))
			return nil
		},
	}
}
