package root

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"xptrack/internal/remote"
	"xptrack/internal/storage"
)

func newServeCmd() *cobra.Command {
	var addr string
	var path string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a SQLite document store over HTTP for other devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if path == "" {
				path = cfg.Remote.Path
			}
			if path == "" {
				return errors.New("a document file is required (--path or remote.path)")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := storage.Open(ctx, path)
			if err != nil {
				return err
			}
			defer db.Close()

			srv := remote.NewServer(remote.NewSQLiteStore(db), addr, log)
			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			log.Info("shutting down document server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return <-errc
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default server.addr)")
	cmd.Flags().StringVar(&path, "path", "", "SQLite document file (default remote.path)")
	return cmd
}
