package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/mcp"
	"github.com/hpungsan/jot/internal/ops"
	"github.com/hpungsan/jot/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
     _       _
    | | ___ | |_
 _  | |/ _ \| __|
| |_| | (_) | |_
 \___/ \___/ \__|

  Tagged note store

  Usage: jot <command> [options]
         jot --help

  MCP server mode requires piped input.`)
}

// newLogger builds the process logger. JOT_VERBOSITY overrides the
// configured level when set.
func newLogger(cfg *config.Config) zerolog.Logger {
	levelName := cfg.LogLevel
	if env := os.Getenv("JOT_VERBOSITY"); env != "" {
		levelName = env
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// openStore builds the configured storage engine. The returned closer is
// a no-op for the memory engine.
func openStore(cfg *config.Config, baseDir string) (store.Persister, func() error, error) {
	switch cfg.Engine {
	case config.EngineSQLite:
		s, err := store.OpenSQLite(baseDir)
		if err != nil {
			return nil, nil, err
		}
		if cfg.DBMaxOpenConns > 0 {
			s.ConfigurePool(cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
		}
		return s, s.Close, nil
	default:
		return store.NewMemory(), func() error { return nil }, nil
	}
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before touching the store
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, zerolog.Nop())
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	baseDir, err := config.BaseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)

	persister, closeStore, err := openStore(cfg, baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	service := ops.NewService(persister)

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Warn().Strs("tools", unknown).Msg("ignoring unknown disabled tools")
	}

	// CLI mode: any argument is handled by the CLI app
	if len(os.Args) >= 2 {
		app := newCLIApp(service, cfg, log)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// MCP server mode (no args, piped stdin)
	if err := mcp.Run(service, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
