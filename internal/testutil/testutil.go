package testutil

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"whitebeat/pkg/database"
)

// TestDatabase holds the in-memory SQLite connection for a test.
type TestDatabase struct {
	DB *gorm.DB
}

// TestRedis wraps a miniredis instance and a client bound to it.
type TestRedis struct {
	Server *miniredis.Miniredis
	Client *goredis.Client
}

// SetupTestDatabase opens a per-test in-memory SQLite database with the
// full schema applied. The database name is derived from the test so
// parallel tests never share state.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDatabase{DB: db}
}

// Teardown closes the test database.
func (td *TestDatabase) Teardown(t *testing.T) {
	t.Helper()
	sqlDB, err := td.DB.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}

// SetupTestRedis starts an in-memory Redis and a client pointed at it.
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})

	return &TestRedis{Server: server, Client: client}
}

// Teardown stops the mock Redis.
func (tr *TestRedis) Teardown(t *testing.T) {
	t.Helper()
	_ = tr.Client.Close()
	tr.Server.Close()
}
