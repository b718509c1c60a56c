package domain

import "time"

// Account описывает учётную запись пользователя.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	IsAdmin      bool
}

// Actor — аутентифицированный пользователь текущего запроса.
// Флаг IsAdmin разрешается один раз при проверке сессии и дальше
// передаётся явно, без сравнения с "магическим" идентификатором.
type Actor struct {
	AccountID int64
	Username  string
	IsAdmin   bool
}

// Session — серверная сессия, привязанная к cookie-токену.
type Session struct {
	Token     string
	AccountID int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Project описывает проект.
type Project struct {
	ID          int64
	Title       string
	Description string
	CreatedAt   time.Time
	Status      ProjectStatus
}

// ProjectMember — участие аккаунта в проекте с ролью.
// Ключ (ProjectID, AccountID) уникален; повторное добавление перезаписывает роль.
type ProjectMember struct {
	ProjectID int64
	AccountID int64
	Username  string
	Role      Role
	AddedAt   time.Time
}

// Issue описывает иссью. Идентификатор IssueID монотонно растёт
// в рамках проекта, а не глобально.
type Issue struct {
	ProjectID    int64
	IssueID      int64
	Title        string
	Description  string
	Keyword      *IssueKeyword
	ReporterID   int64
	ReporterName string
	ReportedAt   time.Time
	DueDate      time.Time
	ManagerID    *int64
	ManagerName  *string
	AssigneeID   *int64
	AssigneeName *string
	FixerID      *int64
	FixerName    *string
	Priority     IssuePriority
	Status       IssueStatus
	ClosedAt     *time.Time
}

// IssueSummary — краткая проекция иссью для списков и поиска.
type IssueSummary struct {
	IssueID    int64
	Title      string
	Status     IssueStatus
	ReportedAt time.Time
	DueDate    time.Time
}

// Comment — запись в журнале комментариев иссью.
// Идентификатор CommentID монотонно растёт в рамках иссью.
type Comment struct {
	ProjectID int64
	IssueID   int64
	CommentID int64
	AccountID int64
	Username  string
	Content   string
	CreatedAt time.Time
}

// DayCount — количество иссью за конкретный день.
type DayCount struct {
	Year  int
	Month int
	Day   int
	Count int
}

// MonthCount — количество иссью за конкретный месяц.
type MonthCount struct {
	Year  int
	Month int
	Count int
}

// TrendPoint — значение тренда в одном временном бакете.
type TrendPoint struct {
	Date  time.Time
	Count int
}

// IssueTrend — дневная и месячная серии счётчиков иссью.
type IssueTrend struct {
	Daily   []TrendPoint
	Monthly []TrendPoint
}

// BestIssue — иссью с наибольшим числом комментариев за период.
type BestIssue struct {
	IssueID int64
	Title   string
	Count   int
}

// BestIssues — топ иссью за текущий день и текущий месяц.
type BestIssues struct {
	Daily   []BestIssue
	Monthly []BestIssue
}

// BestMember — участник с наибольшим числом иссью в своей роли.
type BestMember struct {
	Username string
	Count    int
}

// BestMembers — лучшие участники недели по каждой роли.
// Слот равен nil, если за период в этой роли никто не отметился.
type BestMembers struct {
	PL     *BestMember
	Dev    *BestMember
	Tester *BestMember
}
