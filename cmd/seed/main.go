package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sumopedidos/sumo-backend/internal/bootstrap"
	"github.com/sumopedidos/sumo-backend/pkg/config"
	"github.com/sumopedidos/sumo-backend/pkg/db"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
	"github.com/sumopedidos/sumo-backend/pkg/migrate"
	"github.com/sumopedidos/sumo-backend/pkg/whatsapp"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	requireResource(ctx, logg, "migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	// seeding never messages anyone
	services, err := bootstrap.Build(bootstrap.Params{
		Config: cfg,
		Logger: logg,
		DB:     dbClient,
		Sender: whatsapp.Disabled{},
	})
	requireResource(ctx, logg, "services", err)

	result, err := bootstrap.Seed(ctx, services, logg, time.Now())
	requireResource(ctx, logg, "seed", err)

	logg.Info(logg.WithFields(ctx, map[string]any{
		"menu_created":  result.MenuCreated,
		"order_created": result.OrderCreated,
		"slug":          result.OrderSlug,
	}), "seed complete")
	fmt.Println("demo order:", services.Dispatcher.Composer().OrderLink(result.OrderSlug))
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
