package domain

// Role — роль участника проекта.
type Role string

// Роли участников проекта.
const (
	RolePL     Role = "PL"
	RoleDev    Role = "dev"
	RoleTester Role = "tester"
)

// ProjectStatus — статус проекта.
type ProjectStatus string

// Статусы проекта.
const (
	ProjectNotStarted ProjectStatus = "NOT_STARTED"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectCompleted  ProjectStatus = "COMPLETED"
)

// IssueStatus — статус иссью в рабочем процессе.
type IssueStatus string

// Статусы иссью.
const (
	IssueNew      IssueStatus = "NEW"
	IssueAssigned IssueStatus = "ASSIGNED"
	IssueFixed    IssueStatus = "FIXED"
	IssueResolved IssueStatus = "RESOLVED"
	IssueClosed   IssueStatus = "CLOSED"
	IssueReopened IssueStatus = "REOPENED"
)

// IssueKeyword — тематика иссью.
type IssueKeyword string

// Тематики иссью.
const (
	KeywordBug         IssueKeyword = "BUG"
	KeywordFeature     IssueKeyword = "FEATURE"
	KeywordPerformance IssueKeyword = "PERFORMANCE"
	KeywordSecurity    IssueKeyword = "SECURITY"
	KeywordUI          IssueKeyword = "UI"
	KeywordDB          IssueKeyword = "DB"
	KeywordIntegration IssueKeyword = "INTEGRATION"
	KeywordNetwork     IssueKeyword = "NETWORK"
	KeywordAPI         IssueKeyword = "API"
	KeywordDocs        IssueKeyword = "DOCS"
)

// IssuePriority — приоритет иссью.
type IssuePriority string

// Приоритеты иссью.
const (
	PriorityBlocker  IssuePriority = "BLOCKER"
	PriorityCritical IssuePriority = "CRITICAL"
	PriorityMajor    IssuePriority = "MAJOR"
	PriorityMinor    IssuePriority = "MINOR"
	PriorityTrivial  IssuePriority = "TRIVIAL"
)

// Фиксированные таблицы порядковых номеров для wire-формата.
// Клиенты передают и получают enum-значения как целые индексы этих таблиц,
// поэтому порядок менять нельзя.
var (
	roleOrdinals = []Role{RolePL, RoleDev, RoleTester}

	projectStatusOrdinals = []ProjectStatus{ProjectNotStarted, ProjectInProgress, ProjectCompleted}

	issueStatusOrdinals = []IssueStatus{
		IssueNew, IssueAssigned, IssueFixed, IssueResolved, IssueClosed, IssueReopened,
	}

	issueKeywordOrdinals = []IssueKeyword{
		KeywordBug, KeywordFeature, KeywordPerformance, KeywordSecurity, KeywordUI,
		KeywordDB, KeywordIntegration, KeywordNetwork, KeywordAPI, KeywordDocs,
	}

	issuePriorityOrdinals = []IssuePriority{
		PriorityBlocker, PriorityCritical, PriorityMajor, PriorityMinor, PriorityTrivial,
	}
)

// Ordinal возвращает порядковый номер роли.
func (r Role) Ordinal() int { return ordinalOf(roleOrdinals, r) }

// RoleFromOrdinal возвращает роль по порядковому номеру.
func RoleFromOrdinal(n int) (Role, bool) { return fromOrdinal(roleOrdinals, n) }

// Ordinal возвращает порядковый номер статуса проекта.
func (s ProjectStatus) Ordinal() int { return ordinalOf(projectStatusOrdinals, s) }

// ProjectStatusFromOrdinal возвращает статус проекта по порядковому номеру.
func ProjectStatusFromOrdinal(n int) (ProjectStatus, bool) {
	return fromOrdinal(projectStatusOrdinals, n)
}

// Ordinal возвращает порядковый номер статуса иссью.
func (s IssueStatus) Ordinal() int { return ordinalOf(issueStatusOrdinals, s) }

// IssueStatusFromOrdinal возвращает статус иссью по порядковому номеру.
func IssueStatusFromOrdinal(n int) (IssueStatus, bool) { return fromOrdinal(issueStatusOrdinals, n) }

// IssueStatusFromName возвращает статус иссью по имени.
func IssueStatusFromName(name string) (IssueStatus, bool) {
	return fromName(issueStatusOrdinals, name)
}

// Ordinal возвращает порядковый номер тематики.
func (k IssueKeyword) Ordinal() int { return ordinalOf(issueKeywordOrdinals, k) }

// IssueKeywordFromOrdinal возвращает тематику по порядковому номеру.
func IssueKeywordFromOrdinal(n int) (IssueKeyword, bool) {
	return fromOrdinal(issueKeywordOrdinals, n)
}

// IssueKeywordFromName возвращает тематику по имени.
func IssueKeywordFromName(name string) (IssueKeyword, bool) {
	return fromName(issueKeywordOrdinals, name)
}

// Ordinal возвращает порядковый номер приоритета.
func (p IssuePriority) Ordinal() int { return ordinalOf(issuePriorityOrdinals, p) }

// IssuePriorityFromOrdinal возвращает приоритет по порядковому номеру.
func IssuePriorityFromOrdinal(n int) (IssuePriority, bool) {
	return fromOrdinal(issuePriorityOrdinals, n)
}

// IssuePriorityFromName возвращает приоритет по имени.
func IssuePriorityFromName(name string) (IssuePriority, bool) {
	return fromName(issuePriorityOrdinals, name)
}

func ordinalOf[T comparable](table []T, v T) int {
	for i, item := range table {
		if item == v {
			return i
		}
	}

	return -1
}

func fromOrdinal[T any](table []T, n int) (T, bool) {
	if n < 0 || n >= len(table) {
		var zero T
		return zero, false
	}

	return table[n], true
}

func fromName[T ~string](table []T, name string) (T, bool) {
	for _, item := range table {
		if string(item) == name {
			return item, true
		}
	}

	var zero T
	return zero, false
}
