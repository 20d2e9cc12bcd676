package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/domain/repository"
	"github.com/vendor-discovery/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewSessionRepositoryForTest creates a session repository with test database and logger
func NewSessionRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.SessionRepository {
	return postgres.NewSessionRepository(NewDBForTest(db, logger), logger)
}
