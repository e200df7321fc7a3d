package app

import "fmt"

// Goal names understood by the dispatcher.
const (
	GoalDependents   = "dependents"
	GoalDependencies = "dependencies"
	GoalPaths        = "paths"
	GoalServe        = "serve"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Goal          string
	WorkspacePath string

	// Roots are the query root address specs for the dependents and
	// dependencies goals.
	Roots []string

	Transitive   bool
	IncludeRoots bool
	Format       string

	// From and To are the endpoint specs for the paths goal.
	From []string
	To   []string

	// Vars override workspace variables by name.
	Vars map[string]string

	// DBURL switches the graph snapshot from in-memory to PostgreSQL.
	DBURL string

	ListenPort  int
	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Goal {
	case GoalDependents, GoalDependencies, GoalPaths, GoalServe:
		// valid
	case "":
		return nil, fmt.Errorf("a goal is required: one of %q, %q, %q, %q",
			GoalDependents, GoalDependencies, GoalPaths, GoalServe)
	default:
		return nil, fmt.Errorf("unknown goal %q", cfg.Goal)
	}

	if cfg.WorkspacePath == "" {
		return nil, fmt.Errorf("WorkspacePath is a required configuration field and cannot be empty")
	}

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Format != "text" && cfg.Format != "json" {
		return nil, fmt.Errorf("invalid format %q: must be 'text' or 'json'", cfg.Format)
	}

	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}

	if cfg.Goal == GoalServe && (cfg.ListenPort < 1 || cfg.ListenPort > 65535) {
		return nil, fmt.Errorf("invalid listen-port %d", cfg.ListenPort)
	}

	return &cfg, nil
}
