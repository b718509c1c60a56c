package domain

import (
	"context"
	"time"
)

// AccountRepository описывает операции работы с учётными записями.
type AccountRepository interface {
	Create(ctx context.Context, username, passwordHash string) (Account, error)
	GetByID(ctx context.Context, id int64) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	EnsureAdmin(ctx context.Context, username, passwordHash string) error
}

// SessionRepository описывает операции с серверными сессиями.
type SessionRepository interface {
	Create(ctx context.Context, s Session) error
	GetByToken(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) error
}

// ProjectRepository описывает операции работы с проектами.
type ProjectRepository interface {
	Create(ctx context.Context, title, description string) (Project, error)
	GetByID(ctx context.Context, id int64) (Project, error)
	Update(ctx context.Context, p Project) error
	ListAll(ctx context.Context) ([]Project, error)
	ListByAccount(ctx context.Context, accountID int64) ([]Project, error)
}

// MembershipRepository описывает операции с участием аккаунтов в проектах.
type MembershipRepository interface {
	Get(ctx context.Context, projectID, accountID int64) (ProjectMember, error)
	Upsert(ctx context.Context, projectID, accountID int64, role Role) error
	ListByProject(ctx context.Context, projectID int64) ([]ProjectMember, error)
	ListByProjectAndRole(ctx context.Context, projectID int64, role Role) ([]ProjectMember, error)
}

// IssueRepository описывает операции с иссью, включая агрегатные
// запросы трендов и подбор исполнителя.
type IssueRepository interface {
	// Create выделяет следующий per-project идентификатор под блокировкой
	// строки проекта и вставляет иссью в одной транзакции.
	Create(ctx context.Context, issue Issue) (int64, error)
	GetByID(ctx context.Context, projectID, issueID int64) (Issue, error)
	// Update сохраняет изменяемые поля иссью и вставляет аудит-комментарии
	// принятой правки в одной транзакции: правка без записи в журнале
	// не фиксируется.
	Update(ctx context.Context, issue Issue, audit []Comment) error
	ListByProject(ctx context.Context, projectID int64) ([]IssueSummary, error)
	Search(ctx context.Context, projectID int64, key, value string) ([]IssueSummary, error)

	CountReportedDaily(ctx context.Context, projectID int64, since time.Time) ([]DayCount, error)
	CountReportedMonthly(ctx context.Context, projectID int64, since time.Time) ([]MonthCount, error)
	CountClosedDaily(ctx context.Context, projectID int64, since time.Time) ([]DayCount, error)
	CountClosedMonthly(ctx context.Context, projectID int64, since time.Time) ([]MonthCount, error)

	BestManager(ctx context.Context, projectID int64, since time.Time) (BestMember, error)
	BestAssignee(ctx context.Context, projectID int64, since time.Time) (BestMember, error)
	BestReporter(ctx context.Context, projectID int64, since time.Time) (BestMember, error)

	// SuggestAssignee возвращает логин разработчика с наибольшим числом
	// назначенных иссью (при равенстве — с меньшим числом открытых);
	// при keyword != nil учитываются только иссью этой тематики.
	SuggestAssignee(ctx context.Context, keyword *IssueKeyword) (string, error)
}

// CommentRepository описывает операции с журналом комментариев.
type CommentRepository interface {
	// Create выделяет следующий per-issue идентификатор под блокировкой
	// строки иссью и вставляет комментарий в одной транзакции.
	Create(ctx context.Context, c Comment) (Comment, error)
	ListByIssue(ctx context.Context, projectID, issueID int64) ([]Comment, error)
	TopCommented(ctx context.Context, projectID int64, since time.Time, limit int) ([]BestIssue, error)
}
