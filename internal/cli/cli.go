package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/depgridgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// splitSpecs turns a comma-separated flag value into individual address
// specs, dropping empty fragments.
func splitSpecs(value string) []string {
	var specs []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			specs = append(specs, part)
		}
	}
	return specs
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	flagSet := flag.NewFlagSet("depgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
depgrid - a dependency graph query tool for HCL target workspaces.

Usage:
  depgrid <goal> [options] [TARGET...]

Goals:
  dependents     List targets that depend on the given targets.
  dependencies   List targets the given targets depend on.
  paths          List all dependency paths between --from and --to.
  serve          Serve graph queries over HTTP.

Arguments:
  TARGET
    Target addresses like path/to/dir:name, used as query roots.

Options:
`)
		flagSet.PrintDefaults()
	}

	workspaceFlag := flagSet.String("workspace", ".", "Path to the workspace root directory.")
	wFlag := flagSet.String("w", "", "Path to the workspace root directory (shorthand).")
	transitiveFlag := flagSet.Bool("transitive", false, "Expand transitively instead of one hop.")
	closedFlag := flagSet.Bool("closed", false, "Include the query roots themselves in the result.")
	formatFlag := flagSet.String("format", "text", "Output format. Options: 'text' or 'json'.")
	fromFlag := flagSet.String("from", "", "Comma-separated path origin addresses (paths goal).")
	toFlag := flagSet.String("to", "", "Comma-separated path destination addresses (paths goal).")
	dbURLFlag := flagSet.String("db-url", "", "PostgreSQL URL for snapshot storage. Empty keeps the graph in memory.")
	listenPortFlag := flagSet.Int("listen-port", 8745, "Port for the HTTP query server (serve goal).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent workers for per-root queries.")

	var varFlags stringList
	flagSet.Var(&varFlags, "var", "Workspace variable override as name=value. Repeatable.")

	if len(args) == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	goal := args[0]
	rest := args[1:]
	if goal == "-h" || goal == "--help" || goal == "help" {
		flagSet.Usage()
		return nil, true, nil
	}

	if err := flagSet.Parse(rest); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "goal", goal)

	workspace := *workspaceFlag
	if *wFlag != "" {
		workspace = *wFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	vars := make(map[string]string, len(varFlags))
	for _, pair := range varFlags {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid --var %q: must be name=value", pair)}
		}
		vars[name] = value
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Goal:          goal,
		WorkspacePath: workspace,
		Roots:         flagSet.Args(),
		Transitive:    *transitiveFlag,
		IncludeRoots:  *closedFlag,
		Format:        strings.ToLower(*formatFlag),
		From:          splitSpecs(*fromFlag),
		To:            splitSpecs(*toFlag),
		Vars:          vars,
		DBURL:         *dbURLFlag,
		ListenPort:    *listenPortFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		WorkerCount:   *workersFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
