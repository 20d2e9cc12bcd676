package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
)

type sessionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSessionRepository создает хранилище логинов экранных сессий
func NewSessionRepository(db *DB, logger *zap.Logger) repository.SessionRepository {
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// sessionRow - строка screen_sessions; identity хранится как JSONB
type sessionRow struct {
	ScreenID  uuid.UUID      `db:"screen_id"`
	Token     string         `db:"token"`
	Identity  sql.NullString `db:"identity"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r *sessionRepository) Save(ctx context.Context, record *domain.SessionRecord) error {
	var identity sql.NullString
	if record.Identity != nil {
		data, err := json.Marshal(record.Identity)
		if err != nil {
			return fmt.Errorf("marshal identity: %w", err)
		}
		identity = sql.NullString{String: string(data), Valid: true}
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	query := `
		INSERT INTO screen_sessions (screen_id, token, identity, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $5)
		ON CONFLICT (screen_id) DO UPDATE
		SET token = EXCLUDED.token,
		    identity = EXCLUDED.identity,
		    updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query,
		record.ScreenID, record.Token, identity, record.CreatedAt, record.UpdatedAt,
	); err != nil {
		r.logger.Error("failed to save session",
			zap.String("screen_id", record.ScreenID.String()),
			zap.Error(err))
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, screenID uuid.UUID) (*domain.SessionRecord, error) {
	query := `
		SELECT screen_id, token, identity::text AS identity, created_at, updated_at
		FROM screen_sessions
		WHERE screen_id = $1
	`

	var row sessionRow
	if err := r.db.GetContext(ctx, &row, query, screenID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	record := &domain.SessionRecord{
		ScreenID:  row.ScreenID,
		Token:     row.Token,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Identity.Valid {
		var identity domain.Identity
		if err := json.Unmarshal([]byte(row.Identity.String), &identity); err != nil {
			r.logger.Warn("stored identity is unreadable",
				zap.String("screen_id", screenID.String()),
				zap.Error(err))
		} else {
			record.Identity = &identity
		}
	}
	return record, nil
}

func (r *sessionRepository) Delete(ctx context.Context, screenID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM screen_sessions WHERE screen_id = $1`, screenID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteMany(ctx context.Context, screenIDs []uuid.UUID) (int64, error) {
	if len(screenIDs) == 0 {
		return 0, nil
	}

	ids := make([]string, len(screenIDs))
	for i, id := range screenIDs {
		ids[i] = id.String()
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM screen_sessions WHERE screen_id = ANY($1::uuid[])`,
		pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}

	r.logger.Info("sessions revoked", zap.Int64("count", n))
	return n, nil
}
