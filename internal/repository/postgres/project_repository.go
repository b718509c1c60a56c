package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// ProjectRepository реализует domain.ProjectRepository для PostgreSQL.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository создаёт новый ProjectRepository.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create вставляет новый проект и возвращает его с присвоенным id.
func (r *ProjectRepository) Create(ctx context.Context, title, description string) (domain.Project, error) {
	var p domain.Project

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO project (title, description)
		 VALUES ($1, $2)
		 RETURNING id, title, COALESCE(description, ''), created_at, status`,
		title, description,
	).Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.Status)

	if err != nil {
		return domain.Project{}, fmt.Errorf("insert project: %w", err)
	}

	return p, nil
}

// GetByID возвращает проект по идентификатору.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (domain.Project, error) {
	var p domain.Project

	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, COALESCE(description, ''), created_at, status
		   FROM project WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.Status)

	if err == sql.ErrNoRows {
		return domain.Project{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Project{}, fmt.Errorf("select project: %w", err)
	}

	return p, nil
}

// Update сохраняет изменяемые поля проекта.
func (r *ProjectRepository) Update(ctx context.Context, p domain.Project) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE project
		    SET title = $2,
		        description = $3,
		        status = $4
		  WHERE id = $1`,
		p.ID, p.Title, p.Description, string(p.Status),
	)

	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	affected, err := res.RowsAffected()

	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// ListAll возвращает все проекты.
func (r *ProjectRepository) ListAll(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, COALESCE(description, ''), created_at, status
		   FROM project
		  ORDER BY id`,
	)

	if err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}

	return scanProjects(rows)
}

// ListByAccount возвращает проекты, в которых участвует аккаунт.
func (r *ProjectRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.title, COALESCE(p.description, ''), p.created_at, p.status
		   FROM project p
		   JOIN project_account pa ON p.id = pa.project_id
		  WHERE pa.account_id = $1
		  ORDER BY p.id`,
		accountID,
	)

	if err != nil {
		return nil, fmt.Errorf("select projects by account: %w", err)
	}

	return scanProjects(rows)
}

func scanProjects(rows *sql.Rows) ([]domain.Project, error) {
	defer func() {
		_ = rows.Close()
	}()

	var res []domain.Project

	for rows.Next() {
		var p domain.Project

		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.Status); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}

		res = append(res, p)
	}

	return res, rows.Err()
}
