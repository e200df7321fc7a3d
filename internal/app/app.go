package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vk/depgridgo/internal/ctxlog"
	"github.com/vk/depgridgo/internal/goals"
	"github.com/vk/depgridgo/internal/graph"
	"github.com/vk/depgridgo/internal/graphstore"
	"github.com/vk/depgridgo/internal/inmemorygraph"
	"github.com/vk/depgridgo/internal/model"
	"github.com/vk/depgridgo/internal/pgstore"
	"github.com/vk/depgridgo/internal/server"
	"github.com/zclconf/go-cty/cty"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. Goal output goes to outW; log lines go to the logger's own
// writer, so piping the output stays clean.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger writing to logW.
func NewApp(outW, logW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: config,
	}
}

// Logger returns the application's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run loads the workspace, builds the graph snapshot, and dispatches the
// configured goal.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "goal", a.config.Goal)

	overrides := make(map[string]cty.Value, len(a.config.Vars))
	for name, value := range a.config.Vars {
		overrides[name] = cty.StringVal(value)
	}

	ws, err := model.Load(ctx, a.config.WorkspacePath, overrides)
	if err != nil {
		return fmt.Errorf("failed to load workspace: %w", err)
	}
	a.logger.Debug("Workspace loaded.", "targets", len(ws.Targets))

	store, cleanup, err := a.openStore(ctx, ws)
	if err != nil {
		return err
	}
	defer cleanup()

	m := graph.New(store)

	switch a.config.Goal {
	case GoalDependents:
		return goals.Dependents(ctx, m, goals.DependentsOptions{
			Roots:        a.config.Roots,
			Transitive:   a.config.Transitive,
			IncludeRoots: a.config.IncludeRoots,
			Format:       a.config.Format,
			Workers:      a.config.WorkerCount,
		}, a.outW)
	case GoalDependencies:
		return goals.Dependencies(ctx, m, goals.DependenciesOptions{
			Roots:        a.config.Roots,
			Transitive:   a.config.Transitive,
			IncludeRoots: a.config.IncludeRoots,
			Format:       a.config.Format,
			Workers:      a.config.WorkerCount,
		}, a.outW)
	case GoalPaths:
		return goals.Paths(ctx, m, goals.PathsOptions{
			From: a.config.From,
			To:   a.config.To,
		}, a.outW)
	case GoalServe:
		return server.New(m, a.logger).Listen(a.config.ListenPort)
	default:
		return fmt.Errorf("unknown goal %q", a.config.Goal)
	}
}

// openStore picks the snapshot backend: PostgreSQL when a database URL is
// configured, otherwise in-memory. The returned cleanup closes whatever
// the backend holds open.
func (a *App) openStore(ctx context.Context, ws *model.Workspace) (graphstore.Store, func(), error) {
	if a.config.DBURL == "" {
		store, err := inmemorygraph.FromWorkspace(ctx, ws)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build graph snapshot: %w", err)
		}
		return store, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, a.config.DBURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pgstore.CreateSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	snapshotID, err := pgstore.ImportWorkspace(ctx, pool, ws)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pgstore.New(pool, snapshotID), pool.Close, nil
}
