package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"whitebeat/config"
	"whitebeat/internal/domain/user"
	"whitebeat/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const usage = `
White Beat - Database CLI Tool

Usage:
  migrate [command]

Commands:
  up          Run GORM migrations
  status      Show database connection status
  seed-dev    Seed with development/test users

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed-dev
`

func main() {
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch flag.Arg(0) {
	case "up":
		runMigrationsUp(db)
	case "status":
		showStatus(db)
	case "seed-dev":
		runSeedDevelopment(db)
	default:
		fmt.Printf("Unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(db *gorm.DB) {
	log.Println("Running migrations...")
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully")
}

func showStatus(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Database handle unavailable: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	for _, model := range database.Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			continue
		}
		table := stmt.Schema.Table
		if db.Migrator().HasTable(model) {
			var count int64
			db.Table(table).Count(&count)
			log.Printf("Table %-22s exists (%d rows)", table, count)
		} else {
			log.Printf("Table %-22s does not exist", table)
		}
	}
}

func runSeedDevelopment(db *gorm.DB) {
	log.Println("Seeding development users...")

	names := []string{"alice", "bob", "carol", "dave"}
	for _, name := range names {
		u := user.User{
			ID:          uuid.New(),
			Username:    name,
			DisplayName: name,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := db.Where("username = ?", name).FirstOrCreate(&u).Error; err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Printf("User %-8s %s", name, u.ID)
	}
	log.Println("Development seeding completed")
}
