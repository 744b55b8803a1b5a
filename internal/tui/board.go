package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"xptrack/internal/engine"
)

// RunBoard opens the interactive task board. A Sweeper resets elapsed tasks
// on open and every sweepEvery while the board runs.
func RunBoard(ctx context.Context, svc *engine.Service, sweepEvery time.Duration, out io.Writer) error {
	p := tea.NewProgram(newBoardModel(ctx, svc), tea.WithOutput(out), tea.WithContext(ctx))
	w := engine.NewSweeper(svc, sweepEvery, func(sum engine.SweepSummary) {
		p.Send(sweptMsg{sum: sum})
	})

	// Send blocks until the program runs, so the first pass cannot happen
	// on this goroutine.
	started := make(chan struct{})
	go func() {
		defer close(started)
		w.Start()
	}()
	_, err := p.Run()
	<-started
	w.Stop()
	return err
}
