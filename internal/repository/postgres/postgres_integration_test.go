package postgres

import (
	"context"
	"database/sql"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/PierrickMartos/slub/config"
	"github.com/PierrickMartos/slub/internal/entities"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	id, err := entities.ParsePRIdentifier("akeneo/pim-community-dev/1111")
	require.NoError(t, err)
	message, err := entities.ParseMessageIdentifier("C024BE91L@1234567890.001")
	require.NoError(t, err)

	pr := entities.NewPullRequest(id, message)
	pr.ReleaseEvents()
	require.NoError(t, repo.CreatePR(ctx, pr))

	err = repo.CreatePR(ctx, pr)
	require.ErrorIs(t, err, entities.ErrPRExists)

	fetched, err := repo.GetPR(ctx, id)
	require.NoError(t, err)
	require.Equal(t, entities.CIPending, fetched.CIStatus())
	latest, err := fetched.LatestMessageID()
	require.NoError(t, err)
	require.Equal(t, message, latest)

	updated, err := repo.UpdatePR(ctx, id, func(pr *entities.PullRequest) error {
		pr.Approve()
		pr.MarkCIRed("https://ci.example.com/1")
		return nil
	})
	require.NoError(t, err)
	updated.ReleaseEvents()

	reloaded, err := repo.GetPR(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.Normalize().GTMs)
	require.Equal(t, entities.CIRedStatus, reloaded.CIStatus())
	require.False(t, reloaded.IsMerged())

	second, err := entities.ParseMessageIdentifier("C024BE91L@1234567891.002")
	require.NoError(t, err)
	_, err = repo.UpdatePR(ctx, id, func(pr *entities.PullRequest) error {
		pr.PutBackToReview(second)
		pr.MarkMerged()
		return nil
	})
	require.NoError(t, err)

	final, err := repo.GetPR(ctx, id)
	require.NoError(t, err)
	require.True(t, final.IsMerged())
	require.Len(t, final.MessageIDs(), 2)
	latest, err = final.LatestMessageID()
	require.NoError(t, err)
	require.Equal(t, second, latest)
}

func TestRepositoryMissingPRIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	id, err := entities.ParsePRIdentifier("akeneo/pim-community-dev/404")
	require.NoError(t, err)

	_, err = repo.GetPR(ctx, id)
	require.ErrorIs(t, err, entities.ErrPRNotFound)

	_, err = repo.UpdatePR(ctx, id, func(pr *entities.PullRequest) error {
		pr.MarkMerged()
		return nil
	})
	require.ErrorIs(t, err, entities.ErrPRNotFound)
}

// Concurrent deliveries mutating the same PR must serialize on the row lock;
// every approval lands, none is overwritten by a stale read.
func TestConcurrentApprovalsIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	id, err := entities.ParsePRIdentifier("akeneo/pim-community-dev/2222")
	require.NoError(t, err)
	message, err := entities.ParseMessageIdentifier("C024BE91L@1")
	require.NoError(t, err)

	pr := entities.NewPullRequest(id, message)
	pr.ReleaseEvents()
	require.NoError(t, repo.CreatePR(ctx, pr))

	const approvals = 8
	errs := make(chan error, approvals)
	var wg sync.WaitGroup
	for i := 0; i < approvals; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdatePR(ctx, id, func(pr *entities.PullRequest) error {
				pr.Approve()
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	final, err := repo.GetPR(ctx, id)
	require.NoError(t, err)
	require.Equal(t, approvals, final.Normalize().GTMs)
}

func TestDeliveredEventIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	delivered, err := repo.HasEventBeenDelivered(ctx, "delivery-1")
	require.NoError(t, err)
	require.False(t, delivered)

	require.NoError(t, repo.MarkEventDelivered(ctx, "delivery-1"))

	delivered, err = repo.HasEventBeenDelivered(ctx, "delivery-1")
	require.NoError(t, err)
	require.True(t, delivered)

	// marking twice must not fail, replays race each other
	require.NoError(t, repo.MarkEventDelivered(ctx, "delivery-1"))

	delivered, err = repo.HasEventBeenDelivered(ctx, "delivery-2")
	require.NoError(t, err)
	require.False(t, delivered)
}

func setupPostgres(t *testing.T) (*config.Config, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=slub_db",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)

	hostPort := resource.GetPort("5432/tcp")

	port, err := strconv.Atoi(hostPort)
	require.NoError(t, err)
	migrationsDir, err := filepath.Abs(filepath.Join("..", "..", "..", "db", "migrations"))
	require.NoError(t, err)
	require.DirExists(t, migrationsDir)

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "0.0.0.0", Port: 8080, ShutdownTimeout: 5 * time.Second},
		HTTP:   config.HTTPConfig{RequestTimeout: 5 * time.Second},
		Postgres: config.PostgresConfig{
			Host:           "localhost",
			Port:           port,
			User:           "postgres",
			Password:       "postgres",
			DBName:         "slub_db",
			SSLMode:        "disable",
			MigrationsDir:  migrationsDir,
			QueryTimeout:   10 * time.Second,
			MigrateTimeout: 20 * time.Second,
			MaxConns:       4,
			MinConns:       1,
		},
	}

	require.NoError(t, pool.Retry(func() error {
		db, err := sql.Open("postgres", "host=localhost port="+hostPort+" user=postgres password=postgres dbname=slub_db sslmode=disable")
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	}))

	cleanup := func() {
		_ = pool.Purge(resource)
	}

	return cfg, cleanup
}

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()

	l, _ := zap.NewDevelopment()
	t.Cleanup(func() { _ = l.Sync() })
	return l.Sugar()
}
