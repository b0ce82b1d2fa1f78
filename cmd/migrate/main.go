package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pickboard/pickboard-backend/internal/config"
	"github.com/pickboard/pickboard-backend/internal/database"
	"github.com/pickboard/pickboard-backend/internal/migration"
	"gorm.io/gorm"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	seed := flag.Bool("seed", false, "insert the demo account and picks into an empty database")
	verify := flag.Bool("verify", false, "show row and orphan counts per table")
	rollback := flag.Bool("rollback", false, "drop all tables")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *verbose {
		cfg.Database.LogLevel = "info"
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	switch {
	case *rollback:
		if !cfg.IsDevelopment() {
			log.Fatalf("[rollback] refusing to drop tables in %s", cfg.Server.Env)
		}
		runRollback(db)
	case *verify:
		runVerify(db)
	default:
		runMigration(db, *seed)
	}
}

func runMigration(db *gorm.DB, seed bool) {
	start := time.Now()
	log.Println("[migrate] Starting")
	if err := migration.Run(db); err != nil {
		log.Printf("[migrate] FAILED: %v", err)
		os.Exit(1)
	}
	log.Printf("[migrate] Completed in %v", time.Since(start))

	if seed {
		if err := migration.SeedDemo(db); err != nil {
			log.Printf("[seed] FAILED: %v", err)
			os.Exit(1)
		}
		log.Printf("[seed] Demo login: demo@pickboard.local / %s", migration.DemoPassword)
	}
}

func runVerify(db *gorm.DB) {
	reports, err := migration.Verify(db)
	if err != nil {
		log.Fatalf("[verify] %v", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════╦══════════════╦══════════════╗")
	fmt.Println("║ Table         ║     Rows     ║   Orphans    ║")
	fmt.Println("╠═══════════════╬══════════════╬══════════════╣")
	for _, r := range reports {
		if !r.Exists {
			fmt.Printf("║ %-13s ║ %12s ║ %12s ║\n", r.Table, "missing", "-")
			continue
		}
		fmt.Printf("║ %-13s ║ %12d ║ %12d ║\n", r.Table, r.Rows, r.Orphans)
	}
	fmt.Println("╚═══════════════╩══════════════╩══════════════╝")
	fmt.Println()
}

func runRollback(db *gorm.DB) {
	log.Println("[rollback] WARNING: This will DROP all pickboard tables!")
	log.Println("[rollback] Press Ctrl+C to cancel within 5 seconds...")
	time.Sleep(5 * time.Second)

	if err := migration.Drop(db); err != nil {
		log.Fatalf("[rollback] %v", err)
	}
	log.Println("[rollback] Complete.")
}
