package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// MembershipRepository реализует domain.MembershipRepository для PostgreSQL.
type MembershipRepository struct {
	db *sql.DB
}

// NewMembershipRepository создаёт новый MembershipRepository.
func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Get возвращает участие аккаунта в проекте.
func (r *MembershipRepository) Get(ctx context.Context, projectID, accountID int64) (domain.ProjectMember, error) {
	var m domain.ProjectMember

	err := r.db.QueryRowContext(ctx,
		`SELECT pa.project_id, pa.account_id, a.username, pa.role, pa.added_at
		   FROM project_account pa
		   JOIN account a ON a.id = pa.account_id
		  WHERE pa.project_id = $1
		    AND pa.account_id = $2`,
		projectID, accountID,
	).Scan(&m.ProjectID, &m.AccountID, &m.Username, &m.Role, &m.AddedAt)

	if err == sql.ErrNoRows {
		return domain.ProjectMember{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.ProjectMember{}, fmt.Errorf("select membership: %w", err)
	}

	return m, nil
}

// Upsert добавляет участника проекта; повторное добавление перезаписывает роль.
func (r *MembershipRepository) Upsert(ctx context.Context, projectID, accountID int64, role domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_account (project_id, account_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (project_id, account_id) DO UPDATE
		 SET role = EXCLUDED.role`,
		projectID, accountID, string(role),
	)

	if err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}

	return nil
}

// ListByProject возвращает всех участников проекта.
func (r *MembershipRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.ProjectMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT pa.project_id, pa.account_id, a.username, pa.role, pa.added_at
		   FROM project_account pa
		   JOIN account a ON a.id = pa.account_id
		  WHERE pa.project_id = $1
		  ORDER BY pa.account_id`,
		projectID,
	)

	if err != nil {
		return nil, fmt.Errorf("select project members: %w", err)
	}

	return scanMembers(rows)
}

// ListByProjectAndRole возвращает участников проекта с указанной ролью.
func (r *MembershipRepository) ListByProjectAndRole(ctx context.Context, projectID int64, role domain.Role) ([]domain.ProjectMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT pa.project_id, pa.account_id, a.username, pa.role, pa.added_at
		   FROM project_account pa
		   JOIN account a ON a.id = pa.account_id
		  WHERE pa.project_id = $1
		    AND pa.role = $2
		  ORDER BY pa.account_id`,
		projectID, string(role),
	)

	if err != nil {
		return nil, fmt.Errorf("select project members by role: %w", err)
	}

	return scanMembers(rows)
}

func scanMembers(rows *sql.Rows) ([]domain.ProjectMember, error) {
	defer func() {
		_ = rows.Close()
	}()

	var res []domain.ProjectMember

	for rows.Next() {
		var m domain.ProjectMember

		if err := rows.Scan(&m.ProjectID, &m.AccountID, &m.Username, &m.Role, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}

		res = append(res, m)
	}

	return res, rows.Err()
}
