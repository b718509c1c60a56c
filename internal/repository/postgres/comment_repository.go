package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// CommentRepository реализует domain.CommentRepository для PostgreSQL.
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository создаёт новый CommentRepository.
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create выделяет следующий идентификатор комментария в рамках иссью и
// вставляет запись. Строка иссью берётся под блокировку, чтобы два
// конкурентных комментария не получили один и тот же номер.
func (r *CommentRepository) Create(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	tx, err := r.db.BeginTx(ctx, nil)

	if err != nil {
		return domain.Comment{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	var issueID int64
	err = tx.QueryRowContext(ctx,
		`SELECT issue_id FROM issue WHERE project_id = $1 AND issue_id = $2 FOR UPDATE`,
		c.ProjectID, c.IssueID,
	).Scan(&issueID)

	if err == sql.ErrNoRows {
		return domain.Comment{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Comment{}, fmt.Errorf("lock issue: %w", err)
	}

	c, err = insertComment(ctx, tx, c)

	if err != nil {
		return domain.Comment{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Comment{}, fmt.Errorf("commit tx: %w", err)
	}

	return c, nil
}

// insertComment выделяет следующий идентификатор комментария в рамках
// иссью и вставляет запись. Строка иссью должна быть уже заблокирована
// вызывающей транзакцией.
func insertComment(ctx context.Context, tx *sql.Tx, c domain.Comment) (domain.Comment, error) {
	var newID int64
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(comment_id), 0) + 1
		   FROM comment
		  WHERE project_id = $1
		    AND issue_id = $2`,
		c.ProjectID, c.IssueID,
	).Scan(&newID)

	if err != nil {
		return domain.Comment{}, fmt.Errorf("next comment id: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO comment (project_id, issue_id, comment_id, account_id, content)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		c.ProjectID, c.IssueID, newID, c.AccountID, c.Content,
	).Scan(&c.CreatedAt)

	if err != nil {
		return domain.Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	c.CommentID = newID
	return c, nil
}

// ListByIssue возвращает комментарии иссью в порядке добавления.
func (r *CommentRepository) ListByIssue(ctx context.Context, projectID, issueID int64) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.project_id, c.issue_id, c.comment_id, c.account_id, a.username, c.content, c.created_at
		   FROM comment c
		   JOIN account a ON a.id = c.account_id
		  WHERE c.project_id = $1
		    AND c.issue_id = $2
		  ORDER BY c.comment_id`,
		projectID, issueID,
	)

	if err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var res []domain.Comment

	for rows.Next() {
		var c domain.Comment

		if err := rows.Scan(&c.ProjectID, &c.IssueID, &c.CommentID, &c.AccountID, &c.Username, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}

		res = append(res, c)
	}

	return res, rows.Err()
}

// TopCommented возвращает иссью проекта с наибольшим числом комментариев
// с указанного момента. Равенство разрешается меньшим номером иссью.
func (r *CommentRepository) TopCommented(ctx context.Context, projectID int64, since time.Time, limit int) ([]domain.BestIssue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.issue_id, i.title, COUNT(*)::int AS cnt
		   FROM comment c
		   JOIN issue i ON i.project_id = c.project_id AND i.issue_id = c.issue_id
		  WHERE c.project_id = $1
		    AND c.created_at >= $2
		  GROUP BY c.issue_id, i.title
		  ORDER BY cnt DESC, c.issue_id
		  LIMIT $3`,
		projectID, since, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("select top commented issues: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var res []domain.BestIssue

	for rows.Next() {
		var b domain.BestIssue

		if err := rows.Scan(&b.IssueID, &b.Title, &b.Count); err != nil {
			return nil, fmt.Errorf("scan best issue: %w", err)
		}

		res = append(res, b)
	}

	return res, rows.Err()
}
