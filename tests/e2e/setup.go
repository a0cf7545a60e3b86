//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"shop-order-scheduler/cmd/bootstrap"
	"shop-order-scheduler/internal/infra/db"
	"shop-order-scheduler/internal/pkg/config"
	"shop-order-scheduler/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

var (
	postgresContainerOnce sync.Once
	postgresTestContainer testcontainers.Container

	redisContainerOnce sync.Once
	redisTestContainer testcontainers.Container

	testUser     = "test"
	testPassword = "testpass"
)

type ContainerInfo struct {
	Host string
	Port nat.Port
}

// ------------------------------------------------------------
// Containers
// ------------------------------------------------------------
func startContainers(t *testing.T) (ContainerInfo, ContainerInfo) {
	gin.SetMode(gin.TestMode)
	startPostgreSQLContainerOnce(t)
	startRedisContainerOnce(t)

	postgresInfo, err := getContainerHostPort(postgresTestContainer, "5432/tcp")
	require.NoError(t, err, "failed to resolve postgres container address")

	redisInfo, err := getContainerHostPort(redisTestContainer, "6379/tcp")
	require.NoError(t, err, "failed to resolve redis container address")

	return postgresInfo, redisInfo
}

// ------------------------------------------------------------
// Database per test process
// ------------------------------------------------------------
func prepareDatabase(t *testing.T, postgresInfo ContainerInfo) (*pgxpool.Pool, config.DBConfig) {
	dbName := "testdb_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, postgresInfo.Host, postgresInfo.Port.Port())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "admin connection failed")
	defer adminPool.Close()

	var createErr error
	for attempts := range 5 {
		if attempts > 0 {
			waitTime := min(time.Duration(500+attempts*500)*time.Millisecond, 3*time.Second)
			time.Sleep(waitTime)
			slog.Warn("retrying database creation", "attempt", attempts+1, "error", createErr.Error())
		}
		_, createErr = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
		if createErr == nil {
			break
		}
	}
	require.NoError(t, createErr, "failed to create test database")

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()

		cleanupPool, err := pgxpool.New(cleanupCtx, adminDSN)
		if err != nil {
			slog.Warn("cleanup connection failed", "database", dbName, "error", err.Error())
			return
		}
		defer cleanupPool.Close()

		if _, err := cleanupPool.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", dbName, "error", err.Error())
		}
	})

	dbConfig := config.DBConfig{
		Host:     postgresInfo.Host,
		Port:     postgresInfo.Port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "UTC",
	}

	pool, cleanup, err := db.Connect(ctx, dbConfig, slog.Default())
	require.NoError(t, err, "database connection failed")
	t.Cleanup(cleanup)

	return pool, dbConfig
}

// ------------------------------------------------------------
// App construction. The journal creates its own schema on start.
// ------------------------------------------------------------
func buildE2EApp(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	var router *gin.Engine

	app := fx.New(
		fx.Provide(func() config.Config { return cfg }),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.CoreModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start fx app")

	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := app.Stop(stopCtx); err != nil {
			slog.Warn("failed to stop fx app", "error", err.Error())
		}
	})

	require.NotNil(t, router, "router was not populated")
	return router
}

func createTestConfig(dbConfig config.DBConfig, redisInfo ContainerInfo) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbConfig
	cfg.Journal.Driver = "postgres"
	cfg.Idempotency.Driver = "redis"
	cfg.Redis = config.RedisConfig{
		Addr:    redisInfo.Host + ":" + redisInfo.Port.Port(),
		Timeout: 2 * time.Second,
	}
	return cfg
}

func startGenericContainer(req testcontainers.ContainerRequest, timeoutSec int) (testcontainers.Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
}

func startPostgreSQLContainerOnce(t *testing.T) {
	postgresContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=256m",
			},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "synchronous_commit=off",
				"-c", "log_statement=none",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testUser, testPassword, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
			Labels: map[string]string{"purpose": "e2e-tests"},
		}

		var err error
		postgresTestContainer, err = startGenericContainer(req, 180)
		require.NoError(t, err, "failed to start postgres container")

		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := postgresTestContainer.Terminate(ctx); err != nil {
				slog.Warn("failed to terminate postgres container", "error", err.Error())
			}
		})
	})
}

func startRedisContainerOnce(t *testing.T) {
	redisContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
			Labels:       map[string]string{"purpose": "e2e-tests"},
		}

		var err error
		redisTestContainer, err = startGenericContainer(req, 120)
		require.NoError(t, err, "failed to start redis container")

		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := redisTestContainer.Terminate(ctx); err != nil {
				slog.Warn("failed to terminate redis container", "error", err.Error())
			}
		})
	})
}

func getContainerHostPort(c testcontainers.Container, port string) (ContainerInfo, error) {
	ctx := context.Background()
	mappedPort, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return ContainerInfo{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return ContainerInfo{}, err
	}
	return ContainerInfo{Host: host, Port: mappedPort}, nil
}

// ------------------------------------------------------------
// Shared suite
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	postgresInfo, redisInfo := startContainers(t)
	pool, dbConfig := prepareDatabase(t, postgresInfo)
	s.DB = pool
	s.Config = createTestConfig(dbConfig, redisInfo)
	require.NotNil(t, s.DB)
}

// SetupSubTest empties the journal and starts a fresh app so every subtest
// sees the seeded resources and no orders.
func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "failed to reset database state")
	s.Router = buildE2EApp(s.T(), s.Config)
}

// Restart builds a new app over the same database, as a process restart would.
func (s *SharedSuite) Restart() {
	s.Router = buildE2EApp(s.T(), s.Config)
}
