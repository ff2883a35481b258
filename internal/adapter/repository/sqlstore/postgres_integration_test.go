//go:build integration

package sqlstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vadimbarashkov/og-shortener/internal/entity"
	"github.com/vadimbarashkov/og-shortener/pkg/sqldb"
)

type PostgresTestSuite struct {
	suite.Suite
	pgCont testcontainers.Container
	db     *sqlx.DB
	repo   *RecordRepository
}

func (suite *PostgresTestSuite) SetupSuite() {
	ctx := context.Background()

	var err error
	suite.pgCont, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "postgres:16-alpine",
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "og_shortener",
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor:   wait.ForListeningPort("5432/tcp"),
		},
		Started: true,
	})
	if err != nil {
		suite.T().Fatalf("Failed to start postgres container: %v", err)
	}
	suite.T().Cleanup(func() {
		if err := suite.pgCont.Terminate(ctx); err != nil {
			suite.T().Fatalf("Failed to terminate postgres container: %v", err)
		}
	})

	host, err := suite.pgCont.Host(ctx)
	if err != nil {
		suite.T().Fatalf("Failed to get postgres container host: %v", err)
	}

	port, err := suite.pgCont.MappedPort(ctx, "5432")
	if err != nil {
		suite.T().Fatalf("Failed to get postgres container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://test:test@%s:%d/og_shortener?sslmode=disable", host, port.Int())

	suite.db, err = sqldb.Open(ctx, sqldb.DriverPostgres, dsn, sqldb.WithConnectAttempts(10, 0))
	if err != nil {
		suite.T().Fatalf("Failed to connect to database: %v", err)
	}
	suite.T().Cleanup(func() {
		suite.db.Close()
	})

	migrations, err := filepath.Abs("../../../../migrations/postgres")
	if err != nil {
		suite.T().Fatalf("Failed to resolve migrations path: %v", err)
	}

	if err := sqldb.RunMigrations("file://"+migrations, dsn); err != nil {
		suite.T().Fatalf("Failed to run migrations: %v", err)
	}

	suite.repo = NewRecordRepository(suite.db)
}

func (suite *PostgresTestSuite) TearDownSubTest() {
	if _, err := suite.db.Exec(`TRUNCATE TABLE link_records`); err != nil {
		suite.T().Fatalf("Failed to clean link_records table: %v", err)
	}
}

func (suite *PostgresTestSuite) TestGetSet() {
	ctx := context.Background()

	suite.Run("link not found", func() {
		_, err := suite.repo.Get(ctx, "abc")

		suite.ErrorIs(err, entity.ErrLinkNotFound)
	})

	suite.Run("set then overwrite", func() {
		suite.Require().NoError(suite.repo.Set(ctx, "abc", "https://first.com"))
		suite.Require().NoError(suite.repo.Set(ctx, "abc", "https://second.com"))

		value, err := suite.repo.Get(ctx, "abc")

		suite.NoError(err)
		suite.Equal("https://second.com", value)
	})
}

func TestPostgres(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}
