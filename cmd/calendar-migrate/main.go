package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"ms-calendar/internal/config"
	"ms-calendar/internal/database"
	"ms-calendar/internal/database/migrations"
	"ms-calendar/internal/logger"
)

func main() {
	_ = godotenv.Load()

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [up|down|seed]\n", os.Args[0])
	}
	flag.Parse()
	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}
	appLogger, err := logger.NewLogger(logger.Options{Service: "calendar-migrate", Debug: cfg.Log.Debug})
	if err != nil {
		log.Fatalf("[Logger] %v", err)
	}
	defer appLogger.Close()

	ctx := context.Background()
	bunDB, err := database.Connect(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	switch command {
	case "up":
		err = migrations.Apply(ctx, bunDB, cfg.Database.Driver, appLogger)
	case "down":
		var runner *migrations.Runner
		runner, err = migrations.NewRunner(bunDB, cfg.Database.Driver, appLogger)
		if err == nil {
			err = runner.MigrateDown()
			runner.Close()
		}
	case "seed":
		var n int
		n, err = database.Seed(ctx, bunDB, cfg.Calendar.Location)
		if err == nil {
			appLogger.Info("DATABASE", fmt.Sprintf("Seeded %d sample events", n))
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		appLogger.Fatal("MIGRATE", fmt.Sprintf("%s failed: %v", command, err))
	}
	appLogger.Info("MIGRATE", fmt.Sprintf("✅ %s complete", command))
}
