package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// AccountRepository реализует domain.AccountRepository для PostgreSQL.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository создаёт новый AccountRepository.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create вставляет новую учётную запись и возвращает её с присвоенным id.
func (r *AccountRepository) Create(ctx context.Context, username, passwordHash string) (domain.Account, error) {
	var a domain.Account

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO account (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, username, password_hash, is_admin`,
		username, passwordHash,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.IsAdmin)

	if err != nil {
		return domain.Account{}, fmt.Errorf("insert account: %w", err)
	}

	return a, nil
}

// GetByID возвращает учётную запись по идентификатору.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	var a domain.Account

	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_admin FROM account WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.IsAdmin)

	if err == sql.ErrNoRows {
		return domain.Account{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Account{}, fmt.Errorf("select account: %w", err)
	}

	return a, nil
}

// GetByUsername возвращает учётную запись по логину.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	var a domain.Account

	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_admin FROM account WHERE username = $1`,
		username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.IsAdmin)

	if err == sql.ErrNoRows {
		return domain.Account{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Account{}, fmt.Errorf("select account by username: %w", err)
	}

	return a, nil
}

// EnsureAdmin создаёт учётную запись администратора, если её ещё нет.
func (r *AccountRepository) EnsureAdmin(ctx context.Context, username, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account (username, password_hash, is_admin)
		 VALUES ($1, $2, TRUE)
		 ON CONFLICT (username) DO NOTHING`,
		username, passwordHash,
	)

	if err != nil {
		return fmt.Errorf("ensure admin account: %w", err)
	}

	return nil
}
