// Command sprig-migrate applies or rolls back the Postgres schema,
// grounded on the teacher's shared/cmd/migrate: golang-migrate over a
// file:// source, one subcommand per flag.Arg(0).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/satu-n/sprig/internal/config"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	flag.Parse()
	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	migrationsPath := findMigrationsDir()
	log.Info().Str("path", migrationsPath).Msg("using migrations directory")

	dbURL := cfg.Database.DSN()
	if !strings.Contains(dbURL, "sslmode=") {
		sep := "?"
		if strings.Contains(dbURL, "?") {
			sep = "&"
		}
		dbURL += sep + "sslmode=disable"
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create migrator")
	}
	defer m.Close()

	switch command {
	case "up":
		log.Info().Msg("running migrations up")
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("migrations completed")

	case "down":
		log.Info().Msg("rolling back last migration")
		if err := m.Steps(-1); err != nil && err != migrate.ErrNoChange {
			log.Fatal().Err(err).Msg("rollback failed")
		}
		log.Info().Msg("rollback completed")

	case "down-all":
		log.Info().Msg("rolling back all migrations")
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatal().Err(err).Msg("rollback failed")
		}
		log.Info().Msg("all migrations rolled back")

	case "version":
		version, dirty, err := m.Version()
		if err != nil && err != migrate.ErrNilVersion {
			log.Fatal().Err(err).Msg("failed to get version")
		}
		if err == migrate.ErrNilVersion {
			fmt.Println("no migrations applied yet")
		} else {
			fmt.Printf("version: %d, dirty: %v\n", version, dirty)
		}

	case "force":
		versionStr := flag.Arg(1)
		if versionStr == "" {
			log.Fatal().Msg("version required for force command")
		}
		var version int
		fmt.Sscanf(versionStr, "%d", &version)
		if err := m.Force(version); err != nil {
			log.Fatal().Err(err).Msg("force failed")
		}
		log.Info().Int("version", version).Msg("forced version")

	default:
		fmt.Println("usage: sprig-migrate [command]")
		fmt.Println("commands: up, down, down-all, version, force N")
		os.Exit(1)
	}
}

func findMigrationsDir() string {
	candidates := []string{
		"database/migrations",
		"../database/migrations",
		"../../database/migrations",
	}

	cwd, _ := os.Getwd()
	for _, candidate := range candidates {
		path := filepath.Join(cwd, candidate)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(path)
			return abs
		}
	}

	log.Fatal().Msg("could not find migrations directory")
	return ""
}
