package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/premiumgate/premiumgate/internal/pkg/config"
	"github.com/premiumgate/premiumgate/internal/pkg/env"
	"github.com/premiumgate/premiumgate/internal/pkg/logging"
)

func main() {
	env.SetupEnvFile()
	cfg := config.Load()
	l := logging.New(cfg.LogLevel, cfg.Dev).WithPrefix("migrate")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]

	if cfg.Database.Driver != "mysql" {
		l.Fatal("versioned migrations target mysql; sqlite databases are migrated on startup", "driver", cfg.Database.Driver)
	}

	db := cfg.Database
	dbURL := fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		db.User, db.Password, db.Host, db.Port, db.Name)
	l.Info("connecting", "user", db.User, "host", db.Host, "port", db.Port, "database", db.Name)

	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		l.Fatal("failed to initialise migrations", "err", err)
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			l.Error("failed to close migration resources", "source_err", sourceErr, "db_err", dbErr)
		}
	}()

	switch command {
	case "up":
		err := m.Up()
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			l.Info("no change: database is up to date")
		case err != nil:
			l.Fatal("failed to apply migrations", "err", err)
		default:
			l.Info("migrations applied")
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			l.Fatal("failed to roll back the last migration", "err", err)
		}
		l.Info("last migration rolled back")

	case "goto":
		if len(os.Args) < 3 {
			l.Fatal("goto needs a version number")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			l.Fatal("invalid version", "err", err)
		}
		err = m.Migrate(uint(version))
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			l.Info("no change", "version", version)
		case err != nil:
			l.Fatal("failed to migrate", "version", version, "err", err)
		default:
			l.Info("migrated", "version", version)
		}

	case "status":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			l.Info("no migrations applied yet")
		case err != nil:
			l.Fatal("failed to read migration version", "err", err)
		default:
			l.Info("current version", "version", version, "dirty", dirty)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [command]")
	fmt.Println("Commands:")
	fmt.Println("  up     - apply all pending migrations")
	fmt.Println("  down   - roll back the last migration")
	fmt.Println("  goto N - migrate to version N")
	fmt.Println("  status - show the current migration version")
}
