package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// IssueRepository реализует domain.IssueRepository для PostgreSQL.
type IssueRepository struct {
	db *sql.DB
}

// NewIssueRepository создаёт новый IssueRepository.
func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

const issueSelect = `
SELECT i.project_id, i.issue_id, i.title, COALESCE(i.description, ''), i.keyword,
       i.reporter_id, rep.username, i.reported_at, i.due_date,
       i.manager_id, man.username, i.assignee_id, asg.username, i.fixer_id, fix.username,
       i.priority, i.status, i.closed_at
  FROM issue i
  JOIN account rep ON rep.id = i.reporter_id
  LEFT JOIN account man ON man.id = i.manager_id
  LEFT JOIN account asg ON asg.id = i.assignee_id
  LEFT JOIN account fix ON fix.id = i.fixer_id`

// Create выделяет следующий идентификатор иссью в рамках проекта и
// вставляет запись. Строка проекта берётся под блокировку, чтобы два
// конкурентных создания не получили один и тот же номер.
func (r *IssueRepository) Create(ctx context.Context, issue domain.Issue) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)

	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	var projectID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM project WHERE id = $1 FOR UPDATE`,
		issue.ProjectID,
	).Scan(&projectID)

	if err == sql.ErrNoRows {
		return 0, domain.ErrNotFound
	}

	if err != nil {
		return 0, fmt.Errorf("lock project: %w", err)
	}

	var newID int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(issue_id), 0) + 1 FROM issue WHERE project_id = $1`,
		issue.ProjectID,
	).Scan(&newID)

	if err != nil {
		return 0, fmt.Errorf("next issue id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO issue (project_id, issue_id, title, description, keyword,
		                    reporter_id, due_date, priority, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		issue.ProjectID, newID, issue.Title, nullEmpty(issue.Description), keywordValue(issue.Keyword),
		issue.ReporterID, issue.DueDate, string(issue.Priority), string(issue.Status),
	)

	if err != nil {
		return 0, fmt.Errorf("insert issue: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return newID, nil
}

// GetByID возвращает иссью с логинами связанных аккаунтов.
func (r *IssueRepository) GetByID(ctx context.Context, projectID, issueID int64) (domain.Issue, error) {
	row := r.db.QueryRowContext(ctx,
		issueSelect+` WHERE i.project_id = $1 AND i.issue_id = $2`,
		projectID, issueID,
	)

	issue, err := scanIssue(row)

	if err == sql.ErrNoRows {
		return domain.Issue{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Issue{}, fmt.Errorf("select issue: %w", err)
	}

	return issue, nil
}

// Update сохраняет изменяемые поля иссью и вставляет аудит-комментарии
// в одной транзакции: либо фиксируются и правка, и журнал, либо ничего.
// Блокировка строки иссью заодно сериализует выдачу номеров комментариев.
func (r *IssueRepository) Update(ctx context.Context, issue domain.Issue, audit []domain.Comment) error {
	tx, err := r.db.BeginTx(ctx, nil)

	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	var issueID int64
	err = tx.QueryRowContext(ctx,
		`SELECT issue_id FROM issue WHERE project_id = $1 AND issue_id = $2 FOR UPDATE`,
		issue.ProjectID, issue.IssueID,
	).Scan(&issueID)

	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("lock issue: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE issue
		    SET title = $3,
		        description = $4,
		        keyword = $5,
		        due_date = $6,
		        manager_id = $7,
		        assignee_id = $8,
		        fixer_id = $9,
		        priority = $10,
		        status = $11,
		        closed_at = $12
		  WHERE project_id = $1
		    AND issue_id = $2`,
		issue.ProjectID, issue.IssueID, issue.Title, nullEmpty(issue.Description),
		keywordValue(issue.Keyword), issue.DueDate, issue.ManagerID, issue.AssigneeID,
		issue.FixerID, string(issue.Priority), string(issue.Status), issue.ClosedAt,
	)

	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}

	for _, c := range audit {
		if _, err := insertComment(ctx, tx, c); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// ListByProject возвращает краткие проекции всех иссью проекта.
func (r *IssueRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.IssueSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT issue_id, title, status, reported_at, due_date
		   FROM issue
		  WHERE project_id = $1
		  ORDER BY issue_id`,
		projectID,
	)

	if err != nil {
		return nil, fmt.Errorf("select issues: %w", err)
	}

	return scanSummaries(rows)
}

// Search возвращает иссью проекта с точным совпадением по одному ключу.
func (r *IssueRepository) Search(ctx context.Context, projectID int64, key, value string) ([]domain.IssueSummary, error) {
	var where string

	switch key {
	case "title":
		where = `i.title = $2`
	case "description":
		where = `i.description = $2`
	case "keyword":
		where = `i.keyword = $2`
	case "reporter":
		where = `rep.username = $2`
	case "manager":
		where = `man.username = $2`
	case "assignee":
		where = `asg.username = $2`
	case "fixer":
		where = `fix.username = $2`
	case "priority":
		where = `i.priority = $2`
	case "status":
		where = `i.status = $2`
	default:
		return nil, fmt.Errorf("unknown search key %q", key)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT i.issue_id, i.title, i.status, i.reported_at, i.due_date
		   FROM issue i
		   JOIN account rep ON rep.id = i.reporter_id
		   LEFT JOIN account man ON man.id = i.manager_id
		   LEFT JOIN account asg ON asg.id = i.assignee_id
		   LEFT JOIN account fix ON fix.id = i.fixer_id
		  WHERE i.project_id = $1
		    AND `+where+`
		  ORDER BY i.issue_id`,
		projectID, value,
	)

	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}

	return scanSummaries(rows)
}

// CountReportedDaily возвращает количество созданных иссью по дням.
func (r *IssueRepository) CountReportedDaily(ctx context.Context, projectID int64, since time.Time) ([]domain.DayCount, error) {
	return r.countDaily(ctx, `reported_at`, projectID, since)
}

// CountReportedMonthly возвращает количество созданных иссью по месяцам.
func (r *IssueRepository) CountReportedMonthly(ctx context.Context, projectID int64, since time.Time) ([]domain.MonthCount, error) {
	return r.countMonthly(ctx, `reported_at`, projectID, since)
}

// CountClosedDaily возвращает количество закрытых иссью по дням.
func (r *IssueRepository) CountClosedDaily(ctx context.Context, projectID int64, since time.Time) ([]domain.DayCount, error) {
	return r.countDaily(ctx, `closed_at`, projectID, since)
}

// CountClosedMonthly возвращает количество закрытых иссью по месяцам.
func (r *IssueRepository) CountClosedMonthly(ctx context.Context, projectID int64, since time.Time) ([]domain.MonthCount, error) {
	return r.countMonthly(ctx, `closed_at`, projectID, since)
}

func (r *IssueRepository) countDaily(ctx context.Context, column string, projectID int64, since time.Time) ([]domain.DayCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT EXTRACT(YEAR FROM `+column+`)::int,
		        EXTRACT(MONTH FROM `+column+`)::int,
		        EXTRACT(DAY FROM `+column+`)::int,
		        COUNT(*)::int
		   FROM issue
		  WHERE project_id = $1
		    AND `+column+` >= $2
		  GROUP BY 1, 2, 3`,
		projectID, since,
	)

	if err != nil {
		return nil, fmt.Errorf("count issues by day: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var res []domain.DayCount

	for rows.Next() {
		var c domain.DayCount

		if err := rows.Scan(&c.Year, &c.Month, &c.Day, &c.Count); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}

		res = append(res, c)
	}

	return res, rows.Err()
}

func (r *IssueRepository) countMonthly(ctx context.Context, column string, projectID int64, since time.Time) ([]domain.MonthCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT EXTRACT(YEAR FROM `+column+`)::int,
		        EXTRACT(MONTH FROM `+column+`)::int,
		        COUNT(*)::int
		   FROM issue
		  WHERE project_id = $1
		    AND `+column+` >= $2
		  GROUP BY 1, 2`,
		projectID, since,
	)

	if err != nil {
		return nil, fmt.Errorf("count issues by month: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var res []domain.MonthCount

	for rows.Next() {
		var c domain.MonthCount

		if err := rows.Scan(&c.Year, &c.Month, &c.Count); err != nil {
			return nil, fmt.Errorf("scan month count: %w", err)
		}

		res = append(res, c)
	}

	return res, rows.Err()
}

// BestManager возвращает менеджера с наибольшим числом иссью за период.
func (r *IssueRepository) BestManager(ctx context.Context, projectID int64, since time.Time) (domain.BestMember, error) {
	return r.bestBy(ctx, `manager_id`, projectID, since)
}

// BestAssignee возвращает исполнителя с наибольшим числом иссью за период.
func (r *IssueRepository) BestAssignee(ctx context.Context, projectID int64, since time.Time) (domain.BestMember, error) {
	return r.bestBy(ctx, `assignee_id`, projectID, since)
}

// BestReporter возвращает автора с наибольшим числом иссью за период.
func (r *IssueRepository) BestReporter(ctx context.Context, projectID int64, since time.Time) (domain.BestMember, error) {
	return r.bestBy(ctx, `reporter_id`, projectID, since)
}

func (r *IssueRepository) bestBy(ctx context.Context, column string, projectID int64, since time.Time) (domain.BestMember, error) {
	var m domain.BestMember

	err := r.db.QueryRowContext(ctx,
		`SELECT a.username, COUNT(*)::int AS cnt
		   FROM issue i
		   JOIN account a ON a.id = i.`+column+`
		  WHERE i.project_id = $1
		    AND i.reported_at >= $2
		  GROUP BY a.username
		  ORDER BY cnt DESC, a.username
		  LIMIT 1`,
		projectID, since,
	).Scan(&m.Username, &m.Count)

	if err == sql.ErrNoRows {
		return domain.BestMember{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.BestMember{}, fmt.Errorf("select best member: %w", err)
	}

	return m, nil
}

// SuggestAssignee возвращает логин разработчика с наибольшим числом
// назначенных иссью; равенство разрешается меньшим числом открытых.
func (r *IssueRepository) SuggestAssignee(ctx context.Context, keyword *domain.IssueKeyword) (string, error) {
	query := `SELECT a.username,
	                 COUNT(*) AS assigned_cnt,
	                 SUM(CASE WHEN i.status <> 'CLOSED' THEN 1 ELSE 0 END) AS open_cnt
	            FROM issue i
	            JOIN account a ON a.id = i.assignee_id`

	args := []any{}

	if keyword != nil {
		query += ` WHERE i.keyword = $1`
		args = append(args, string(*keyword))
	}

	query += `
	           GROUP BY a.username
	           ORDER BY assigned_cnt DESC, open_cnt ASC
	           LIMIT 1`

	var username string
	var assigned, open int64

	err := r.db.QueryRowContext(ctx, query, args...).Scan(&username, &assigned, &open)

	if err == sql.ErrNoRows {
		return "", domain.ErrNotFound
	}

	if err != nil {
		return "", fmt.Errorf("select assignee suggestion: %w", err)
	}

	return username, nil
}

func scanIssue(row *sql.Row) (domain.Issue, error) {
	var (
		i        domain.Issue
		desc     string
		keyword  sql.NullString
		manID    sql.NullInt64
		manName  sql.NullString
		asgID    sql.NullInt64
		asgName  sql.NullString
		fixID    sql.NullInt64
		fixName  sql.NullString
		closedAt sql.NullTime
	)

	err := row.Scan(&i.ProjectID, &i.IssueID, &i.Title, &desc, &keyword,
		&i.ReporterID, &i.ReporterName, &i.ReportedAt, &i.DueDate,
		&manID, &manName, &asgID, &asgName, &fixID, &fixName,
		&i.Priority, &i.Status, &closedAt)

	if err != nil {
		return domain.Issue{}, err
	}

	i.Description = desc

	if keyword.Valid {
		kw := domain.IssueKeyword(keyword.String)
		i.Keyword = &kw
	}

	i.ManagerID, i.ManagerName = nullableAccount(manID, manName)
	i.AssigneeID, i.AssigneeName = nullableAccount(asgID, asgName)
	i.FixerID, i.FixerName = nullableAccount(fixID, fixName)

	if closedAt.Valid {
		t := closedAt.Time
		i.ClosedAt = &t
	}

	return i, nil
}

func scanSummaries(rows *sql.Rows) ([]domain.IssueSummary, error) {
	defer func() {
		_ = rows.Close()
	}()

	var res []domain.IssueSummary

	for rows.Next() {
		var s domain.IssueSummary

		if err := rows.Scan(&s.IssueID, &s.Title, &s.Status, &s.ReportedAt, &s.DueDate); err != nil {
			return nil, fmt.Errorf("scan issue summary: %w", err)
		}

		res = append(res, s)
	}

	return res, rows.Err()
}

func nullableAccount(id sql.NullInt64, name sql.NullString) (*int64, *string) {
	if !id.Valid {
		return nil, nil
	}

	accountID := id.Int64
	username := name.String
	return &accountID, &username
}

func nullEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func keywordValue(k *domain.IssueKeyword) any {
	if k == nil {
		return nil
	}

	return string(*k)
}
