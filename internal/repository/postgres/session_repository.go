package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// SessionRepository реализует domain.SessionRepository для PostgreSQL.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository создаёт новый SessionRepository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create сохраняет новую сессию.
func (r *SessionRepository) Create(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session (token, account_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		s.Token, s.AccountID, s.CreatedAt, s.ExpiresAt,
	)

	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// GetByToken возвращает живую (неистёкшую) сессию по токену.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (domain.Session, error) {
	var s domain.Session

	err := r.db.QueryRowContext(ctx,
		`SELECT token, account_id, created_at, expires_at
		   FROM session
		  WHERE token = $1
		    AND expires_at > now()`,
		token,
	).Scan(&s.Token, &s.AccountID, &s.CreatedAt, &s.ExpiresAt)

	if err == sql.ErrNoRows {
		return domain.Session{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Session{}, fmt.Errorf("select session: %w", err)
	}

	return s, nil
}

// Delete удаляет сессию по токену.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE token = $1`, token)

	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteExpired удаляет истёкшие сессии.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE expires_at <= $1`, now)

	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}

	return nil
}
