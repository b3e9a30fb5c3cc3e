package app

import (
	"context"
	"log/slog"

	"github.com/ddshop/reports-manager/config"
	httpapi "github.com/ddshop/reports-manager/internal/api/http"
	"github.com/ddshop/reports-manager/internal/dependency"
	"github.com/ddshop/reports-manager/internal/stats"
	"github.com/ddshop/reports-manager/internal/store"
)

// App is the main application
type App struct {
	hs   *httpapi.Server
	db   dependency.Repository
	c    *config.Config
	done chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting reports manager")

	a.db, err = store.New(ctx, a.c.DB)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql",
			slog.String("err", err.Error()))
		return err
	}

	loc, err := a.c.Reports.Location()
	if err != nil {
		slog.Default().ErrorContext(ctx, "invalid store timezone",
			slog.String("err", err.Error()))
		return err
	}

	engine := stats.New(a.db,
		stats.WithTimezone(loc),
		stats.WithListLimit(a.c.Reports.ListLimit),
	)

	srv, err := NewServer(&a.c.Auth, a.db, engine)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to create api server",
			slog.String("err", err.Error()))
		return err
	}

	a.hs = httpapi.New(&a.c.HTTP)
	if err := a.hs.Start(ctx, srv.Router()); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()))
		return err
	}

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		a.hs.Stop(ctx)
	}
	if a.db != nil {
		a.db.Close()
	}
	close(a.done)
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
