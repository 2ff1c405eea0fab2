package main

import (
	"flag"
	"fmt"
	"os"

	"product_dashboard/internal/db"
	"product_dashboard/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	apply := flag.Bool("apply", false, "apply pending migrations")
	down := flag.Bool("down", false, "roll back all migrations")
	flag.Parse()

	switch {
	case *down:
		if err := db.MigrateDown(dsn); err != nil {
			logger.Fatal("rollback failed", "error", err)
		}
		fmt.Println("rolled back all migrations")
	case *apply:
		if err := db.MigrateUp(dsn); err != nil {
			logger.Fatal("migration failed", "error", err)
		}
		fmt.Println("migrations applied")
	default:
		names, err := db.MigrationNames()
		if err != nil {
			logger.Fatal("read migrations", "error", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
	}
}
