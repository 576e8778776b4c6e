// Package databasetest starts a shared PostgreSQL container for integration
// tests and hands out one fresh database per test.
package databasetest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"spaceapp/internal/shared/database"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	image    = "postgres:16-alpine"
	user     = "spaceapp"
	password = "test_password"
)

type container struct {
	testcontainers.Container
	host string
	port string
}

var (
	shared     *container
	sharedOnce sync.Once
	sharedErr  error
	dbCounter  atomic.Int64
)

func getContainer(t *testing.T) *container {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedOnce.Do(func() {
		shared, sharedErr = startContainer()
	})

	if sharedErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedErr)
	}

	return shared
}

func startContainer() (*container, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "postgres",
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &container{Container: c, host: host, port: port.Port()}, nil
}

func (c *container) url(dbName string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, c.host, c.port, dbName)
}

// NewDatabaseURL creates an empty database for the calling test and returns
// its connection URL. The database is dropped when the test ends.
func NewDatabaseURL(t *testing.T) string {
	t.Helper()

	c := getContainer(t)
	name := fmt.Sprintf("test_%s_%d", sanitize(t.Name()), dbCounter.Add(1))

	admin, err := sql.Open("postgres", c.url("postgres"))
	if err != nil {
		t.Fatalf("failed to open admin connection: %v", err)
	}
	defer admin.Close()

	if _, err := admin.Exec("CREATE DATABASE " + name); err != nil {
		t.Fatalf("failed to create database %s: %v", name, err)
	}

	t.Cleanup(func() {
		admin, err := sql.Open("postgres", c.url("postgres"))
		if err != nil {
			return
		}
		defer admin.Close()
		_, _ = admin.Exec("DROP DATABASE IF EXISTS " + name + " WITH (FORCE)")
	})

	return c.url(name)
}

// NewMigratedDB returns a connection to a fresh database with every
// migration applied.
func NewMigratedDB(t *testing.T) *database.DB {
	t.Helper()

	url := NewDatabaseURL(t)

	m, err := database.NewMigrator(url)
	if err != nil {
		t.Fatalf("failed to create migrator: %v", err)
	}
	if err := m.Up(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("failed to close migrator: %v", err)
	}

	return Open(t, url)
}

// Open connects to url and closes the pool when the test ends.
func Open(t *testing.T, url string) *database.DB {
	t.Helper()

	sqlDB, err := sql.Open("postgres", url)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	return &database.DB{DB: sqlDB}
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
