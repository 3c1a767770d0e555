package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/sumopedidos/sumo-backend/pkg/config"
	"github.com/sumopedidos/sumo-backend/pkg/db"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
	"github.com/sumopedidos/sumo-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "up|down|status|version|create|validate")
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	name := flag.String("name", "", "migration name for -cmd=create")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": *cmd, "dir": *dir})

	var source fs.FS = migrate.Embedded()
	if *dir != "" {
		source = os.DirFS(*dir)
	}

	switch *cmd {
	case "create":
		if *name == "" {
			fail("missing -name for create")
		}
		target := *dir
		if target == "" {
			target = migrate.SourceDir
		}
		path, err := migrate.CreateSQLMigration(target, *name, time.Now())
		if err != nil {
			fail("create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.Validate(source); err != nil {
			fail("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	if cfg.FeatureFlags.UseSQLite {
		fail("goose migrations target postgres; sqlite databases are migrated by the api on startup")
	}
	dbClient, err := db.New(ctx, cfg.DB, false, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	var steps []migrate.Step
	switch *cmd {
	case "up", "down", "status":
		steps, err = migrate.Run(ctx, sqlDB, source, *cmd)
	case "version":
		if *version == "" {
			fail("missing -version for version command")
		}
		steps, err = migrate.MigrateToVersion(ctx, sqlDB, source, *version)
	default:
		fail("unknown -cmd value: %s", *cmd)
	}
	if err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}

	printSteps(*cmd, steps)
	logg.Info(logg.WithField(ctx, "migrations", len(steps)), "migrate finished")
}

func printSteps(cmd string, steps []migrate.Step) {
	if len(steps) == 0 {
		fmt.Println("nothing to do")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	for _, step := range steps {
		switch {
		case cmd == "status" && step.Applied:
			fmt.Fprintf(w, "%d\t%s\tapplied %s\n", step.Version, step.Path, step.AppliedAt.Format(time.RFC3339))
		case cmd == "status":
			fmt.Fprintf(w, "%d\t%s\tpending\n", step.Version, step.Path)
		case step.Applied:
			fmt.Fprintf(w, "%d\t%s\tup\t%s\n", step.Version, step.Path, step.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(w, "%d\t%s\tdown\t%s\n", step.Version, step.Path, step.Duration.Round(time.Millisecond))
		}
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
