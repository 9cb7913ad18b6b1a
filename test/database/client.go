// Package database provides a real-Postgres test client for package-level
// integration tests, grounded on the teacher's test/database/client.go
// testcontainers pattern — simplified to a single container-per-test path
// since this module has no CI-external-database split to preserve.
package database

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/codeready-toolchain/inbox/pkg/database"
)

// image carries the pgvector extension the migrations' `CREATE EXTENSION
// vector` statement (pkg/database/migrations.go) requires — plain
// postgres:16-alpine has no such extension available.
const image = "pgvector/pgvector:pg16"

// NewTestClient spins up a disposable PostgreSQL+pgvector container, runs
// the real migration set through database.NewClient (embedded SQL files,
// golang-migrate, GIN/ivfflat index creation — the same path production
// takes), and registers cleanup.
func NewTestClient(t *testing.T) *database.Client {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase("inbox_test"),
		postgres.WithUsername("inbox_test"),
		postgres.WithPassword("inbox_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	port, err := strconv.Atoi(mappedPort.Port())
	require.NoError(t, err)

	cfg := database.Config{
		Host:            host,
		Port:            port,
		User:            "inbox_test",
		Password:        "inbox_test",
		Database:        "inbox_test",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 15 * time.Minute,
	}

	client, err := database.NewClient(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
