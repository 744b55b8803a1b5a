package root

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"xptrack/internal/config"
	"xptrack/internal/engine"
	"xptrack/internal/remote"
	"xptrack/internal/storage"
)

// clock is the wall clock handed to the engine.
var clock = time.Now

type app struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *sql.DB
	local *storage.Local
	svc   *engine.Service
	// swept is the foreground reset pass run when the app opened.
	swept engine.SweepSummary

	remoteDB *sql.DB
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, log, nil
}

// openRemote picks the document store from config: HTTP when a URL is set,
// a SQLite file when a path is set, otherwise none.
func openRemote(ctx context.Context, cfg *config.Config) (remote.DocStore, *sql.DB, error) {
	switch {
	case cfg.Remote.URL != "":
		return remote.NewHTTPStore(cfg.Remote.URL, cfg.Remote.Timeout), nil, nil
	case cfg.Remote.Path != "":
		db, err := storage.Open(ctx, cfg.Remote.Path)
		if err != nil {
			return nil, nil, err
		}
		return remote.NewSQLiteStore(db), db, nil
	default:
		return nil, nil, nil
	}
}

func openApp(ctx context.Context) (*app, func(), error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	zone, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	store, remoteDB, err := openRemote(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	a := &app{cfg: cfg, log: log, db: db, remoteDB: remoteDB}
	a.local = storage.NewLocal(storage.NewKV(db), log)
	a.svc = engine.NewService(ctx, a.local, engine.Options{
		UserID:        cfg.UserID,
		Zone:          zone,
		Remote:        store,
		RemoteTimeout: cfg.Remote.Timeout,
		Clock:         clock,
		Logger:        log,
	})

	cleanup := func() {
		a.svc.Wait()
		if a.remoteDB != nil {
			_ = a.remoteDB.Close()
		}
		_ = a.db.Close()
	}

	if a.swept, err = a.svc.Sweep(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	if len(a.swept.Reset) > 0 {
		log.Info("foreground sweep", "reset", len(a.swept.Reset), "banked_xp", a.swept.BankedXP)
	}
	return a, cleanup, nil
}
