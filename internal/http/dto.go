package httpapi

import (
	"time"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// Форматы дат wire-формата: дата без времени и полная метка времени.
const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
	monthLayout     = "2006-01"
)

// SignupRequest — тело запроса на регистрацию.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest — тело запроса на вход.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountResponse — учётная запись в ответах API.
type AccountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  int    `json:"isAdmin"`
}

// MemberRequest описывает участника проекта в запросах: логин и
// порядковый номер роли.
type MemberRequest struct {
	Username string `json:"username"`
	Role     int    `json:"role"`
}

// MemberDTO — участник проекта в ответах API.
type MemberDTO struct {
	Username string `json:"username"`
	Role     int    `json:"role"`
}

// AddProjectRequest — тело запроса на создание проекта.
type AddProjectRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Member      []MemberRequest `json:"member"`
}

// ModifyProjectRequest — тело запроса на частичное изменение проекта.
type ModifyProjectRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *int            `json:"status"`
	Member      []MemberRequest `json:"member"`
}

// ProjectShortDTO — проект в списке проектов.
type ProjectShortDTO struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status int    `json:"status"`
}

// ProjectListResponse — ответ на запрос списка проектов.
type ProjectListResponse struct {
	IsAdmin int               `json:"isAdmin"`
	Project []ProjectShortDTO `json:"project"`
}

// ProjectDetailsResponse — проект со списками участников и иссью.
// accountRole равен -1 для администратора, не состоящего в проекте.
type ProjectDetailsResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      int               `json:"status"`
	CreatedDate string            `json:"createdDate"`
	AccountRole int               `json:"accountRole"`
	MemberList  []MemberDTO       `json:"memberList"`
	IssueList   []IssueSummaryDTO `json:"issueList"`
}

// AddIssueRequest — тело запроса на создание иссью.
// Keyword и Priority — порядковые номера, DueDate — дата yyyy-MM-dd.
type AddIssueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keyword     *int   `json:"keyword"`
	Priority    *int   `json:"priority"`
	DueDate     string `json:"dueDate"`
}

// ModifyIssueRequest — тело запроса на изменение иссью. Заполняется
// одна из веток: assignee, status либо свободные поля.
type ModifyIssueRequest struct {
	Assignee    *string `json:"assignee"`
	Status      *int    `json:"status"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Keyword     *int    `json:"keyword"`
	Priority    *int    `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// IssueSummaryDTO — краткая проекция иссью для списков и поиска.
type IssueSummaryDTO struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Status       int    `json:"status"`
	ReportedDate string `json:"reportedDate"`
	DueDate      string `json:"dueDate"`
}

// IssueDetailsResponse — иссью целиком вместе с журналом комментариев.
type IssueDetailsResponse struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Keyword      *int         `json:"keyword"`
	Reporter     string       `json:"reporter"`
	ReportedDate string       `json:"reportedDate"`
	DueDate      string       `json:"dueDate"`
	Manager      *string      `json:"manager"`
	Assignee     *string      `json:"assignee"`
	Fixer        *string      `json:"fixer"`
	Priority     int          `json:"priority"`
	Status       int          `json:"status"`
	ClosedDate   *string      `json:"closedDate"`
	AccountRole  int          `json:"accountRole"`
	Comment      []CommentDTO `json:"comment"`
}

// AddCommentRequest — тело запроса на добавление комментария.
type AddCommentRequest struct {
	Content string `json:"content"`
}

// CommentDTO — комментарий в ответах API.
type CommentDTO struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Content     string `json:"content"`
	CreatedDate string `json:"createdDate"`
}

// TrendPointDTO — значение серии тренда в одном бакете.
type TrendPointDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// IssueTrendResponse — серии счётчиков иссью, от старых бакетов к новым.
type IssueTrendResponse struct {
	Daily   []TrendPointDTO `json:"daily"`
	Monthly []TrendPointDTO `json:"monthly"`
}

// BestIssueDTO — иссью с числом комментариев за период.
type BestIssueDTO struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// BestIssuesResponse — топ комментируемых иссью за день и месяц.
type BestIssuesResponse struct {
	Daily   []BestIssueDTO `json:"daily"`
	Monthly []BestIssueDTO `json:"monthly"`
}

// BestMemberDTO — участник с числом иссью в своей роли.
type BestMemberDTO struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// BestMembersResponse — лучшие участники недели по каждой роли;
// null в слоте означает отсутствие активности.
type BestMembersResponse struct {
	PL     *BestMemberDTO `json:"PL"`
	Dev    *BestMemberDTO `json:"dev"`
	Tester *BestMemberDTO `json:"tester"`
}

// SuggestionResponse — ответ подборщика исполнителя.
type SuggestionResponse struct {
	Username string `json:"username"`
}

func mapIssueSummariesToDTO(issues []domain.IssueSummary) []IssueSummaryDTO {
	res := make([]IssueSummaryDTO, 0, len(issues))

	for _, i := range issues {
		res = append(res, IssueSummaryDTO{
			ID:           i.IssueID,
			Title:        i.Title,
			Status:       i.Status.Ordinal(),
			ReportedDate: i.ReportedAt.Format(timestampLayout),
			DueDate:      i.DueDate.Format(dateLayout),
		})
	}

	return res
}

func mapCommentsToDTO(comments []domain.Comment) []CommentDTO {
	res := make([]CommentDTO, 0, len(comments))

	for _, c := range comments {
		res = append(res, CommentDTO{
			ID:          c.CommentID,
			Username:    c.Username,
			Content:     c.Content,
			CreatedDate: c.CreatedAt.Format(timestampLayout),
		})
	}

	return res
}

func mapTrendPointsToDTO(points []domain.TrendPoint, layout string) []TrendPointDTO {
	res := make([]TrendPointDTO, 0, len(points))

	for _, p := range points {
		res = append(res, TrendPointDTO{
			Date:  p.Date.Format(layout),
			Count: p.Count,
		})
	}

	return res
}

func mapBestIssuesToDTO(issues []domain.BestIssue) []BestIssueDTO {
	res := make([]BestIssueDTO, 0, len(issues))

	for _, b := range issues {
		res = append(res, BestIssueDTO{
			ID:    b.IssueID,
			Title: b.Title,
			Count: b.Count,
		})
	}

	return res
}

func mapBestMemberToDTO(m *domain.BestMember) *BestMemberDTO {
	if m == nil {
		return nil
	}

	return &BestMemberDTO{
		Username: m.Username,
		Count:    m.Count,
	}
}

func formatTimePtr(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}

	s := t.Format(layout)
	return &s
}
