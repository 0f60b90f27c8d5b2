package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jobledger/backend/internal/infrastructure/config"
	"github.com/jobledger/backend/internal/infrastructure/logger"
	"github.com/jobledger/backend/internal/infrastructure/migration"
	"github.com/jobledger/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var errUsage = errors.New("invalid usage")

// dbCommand runs against a live schema
type dbCommand struct {
	usage string
	nargs int
	run   func(m *migration.Migrator, log *zap.Logger, args []string) error
}

var dbCommands = map[string]dbCommand{
	"up": {
		usage: "up                    Apply all pending migrations",
		run:   func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Up() },
	},
	"down": {
		usage: "down                  Roll back all migrations",
		run:   func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Down() },
	},
	"step": {
		usage: "step <n>              Apply n migrations (negative rolls back)",
		nargs: 1,
		run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("step count %q: %w", args[0], errUsage)
			}
			return m.Steps(n)
		},
	},
	"goto": {
		usage: "goto <version>        Migrate up or down to a version",
		nargs: 1,
		run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
			v, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("version %q: %w", args[0], errUsage)
			}
			return m.GoTo(uint(v))
		},
	},
	"force": {
		usage: "force <version>       Record a version without running it (repairs a dirty schema)",
		nargs: 1,
		run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("version %q: %w", args[0], errUsage)
			}
			return m.Force(v)
		},
	},
	"version": {
		usage: "version               Show the applied version",
		run: func(m *migration.Migrator, log *zap.Logger, _ []string) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			log.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
			return nil
		},
	},
}

func main() {
	path := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", Output: "stdout", Service: "jobledger-migrate"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	err = run(log, *path, args[0], args[1:])
	_ = log.Sync()
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		os.Exit(2)
	case err != nil:
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger, path, command string, args []string) error {
	// create and list only touch files
	switch command {
	case "create":
		if len(args) == 0 {
			return fmt.Errorf("create needs a name: %w", errUsage)
		}
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(diskPath(path), args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created", zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath), zap.String("down_file", mf.DownPath))
		return nil
	case "list":
		names, err := migration.ListMigrations(diskPath(path))
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println("  -", name)
		}
		return nil
	}

	cmd, ok := dbCommands[command]
	if !ok {
		return fmt.Errorf("unknown command %q: %w", command, errUsage)
	}
	if len(args) < cmd.nargs {
		return fmt.Errorf("%s: missing argument: %w", command, errUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := newMigrator(db, path, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return cmd.run(m, log, args)
}

func newMigrator(db *sql.DB, path string, log *zap.Logger) (*migration.Migrator, error) {
	if path == "" {
		return migration.NewFromFS(db, migrations.FS, log)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve migrations path: %w", err)
	}
	log.Info("Using migrations from disk", zap.String("path", abs))
	return migration.New(db, abs, log)
}

// diskPath resolves the directory create and list operate on
func diskPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if _, err := os.Stat(defaultMigrationsPath); err == nil {
		return defaultMigrationsPath
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return defaultMigrationsPath
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [-path dir] [-log-level level] <command> [args]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	for _, name := range []string{"up", "down", "step", "goto", "version", "force"} {
		fmt.Fprintln(os.Stderr, "  "+dbCommands[name].usage)
	}
	fmt.Fprintln(os.Stderr, "  create <name> [desc]  Create the next sequential migration pair")
	fmt.Fprintln(os.Stderr, "  list                  List migrations on disk")
	fmt.Fprintln(os.Stderr, "\nDatabase settings come from config.toml and JOBLEDGER_DATABASE_* variables.")
}
