package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
	"github.com/cau-24swe-team14/ITS-BE/internal/service"
)

// IssueHandlers содержит HTTP-обработчики иссью, комментариев и
// подбора исполнителя.
type IssueHandlers struct {
	issueSvc *service.IssueService
}

// NewIssueHandlers создаёт набор HTTP-обработчиков для работы с иссью.
func NewIssueHandlers(issueSvc *service.IssueService) *IssueHandlers {
	return &IssueHandlers{issueSvc: issueSvc}
}

// Add регистрирует иссью и отвечает 201 с Location нового ресурса.
func (h *IssueHandlers) Add(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId", domain.ErrorCodeProjectNotFound)

	if err != nil {
		WriteError(w, err)
		return
	}

	var req AddIssueRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, domain.NewDomainError(domain.ErrorCodeIssueBadRequest, domain.ErrMalformedRequest))
		return
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)

	if err != nil {
		WriteError(w, domain.NewDomainError(domain.ErrorCodeIssueBadRequest, domain.ErrMalformedRequest))
		return
	}

	input := service.AddIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Keyword:     req.Keyword,
		Priority:    req.Priority,
		DueDate:     dueDate,
	}

	issueID, err := h.issueSvc.Add(r.Context(), actorFrom(r), projectID, input)

	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/projects/%d/issues/%d", projectID, issueID))
	w.WriteHeader(http.StatusCreated)
}

// Modify проводит иссью через рабочий процесс: назначение исполнителя,
// смену статуса либо правку полей.
func (h *IssueHandlers) Modify(w http.ResponseWriter, r *http.Request) {
	projectID, issueID, err := issuePath(r)

	if err != nil {
		WriteError(w, err)
		return
	}

	var req ModifyIssueRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, domain.NewDomainError(domain.ErrorCodeIssueEditBadRequest, domain.ErrMalformedRequest))
		return
	}

	input := service.ModifyIssueInput{
		Assignee:    req.Assignee,
		Status:      req.Status,
		Title:       req.Title,
		Description: req.Description,
		Keyword:     req.Keyword,
		Priority:    req.Priority,
	}

	if req.DueDate != nil {
		dueDate, err := time.Parse(dateLayout, *req.DueDate)

		if err != nil {
			WriteError(w, domain.NewDomainError(domain.ErrorCodeIssueEditBadRequest, domain.ErrMalformedRequest))
			return
		}

		input.DueDate = &dueDate
	}

	if err := h.issueSvc.Modify(r.Context(), actorFrom(r), projectID, issueID, input); err != nil {
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Details возвращает иссью с журналом комментариев.
func (h *IssueHandlers) Details(w http.ResponseWriter, r *http.Request) {
	projectID, issueID, err := issuePath(r)

	if err != nil {
		WriteError(w, err)
		return
	}

	details, err := h.issueSvc.Details(r.Context(), actorFrom(r), projectID, issueID)

	if err != nil {
		WriteError(w, err)
		return
	}

	issue := details.Issue
	resp := IssueDetailsResponse{
		ID:           issue.IssueID,
		Title:        issue.Title,
		Description:  issue.Description,
		Reporter:     issue.ReporterName,
		ReportedDate: issue.ReportedAt.Format(timestampLayout),
		DueDate:      issue.DueDate.Format(dateLayout),
		Manager:      issue.ManagerName,
		Assignee:     issue.AssigneeName,
		Fixer:        issue.FixerName,
		Priority:     issue.Priority.Ordinal(),
		Status:       issue.Status.Ordinal(),
		ClosedDate:   formatTimePtr(issue.ClosedAt, timestampLayout),
		AccountRole:  -1,
		Comment:      mapCommentsToDTO(details.Comments),
	}

	if issue.Keyword != nil {
		ord := issue.Keyword.Ordinal()
		resp.Keyword = &ord
	}

	if details.Role != nil {
		resp.AccountRole = details.Role.Ordinal()
	}

	writeJSON(w, http.StatusOK, resp)
}

// Search возвращает иссью проекта; единственный query-параметр задаёт
// ключ и значение точного поиска, без параметров вернутся все иссью.
func (h *IssueHandlers) Search(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId", domain.ErrorCodeProjectNotFound)

	if err != nil {
		WriteError(w, err)
		return
	}

	var key, value string

	for k, values := range r.URL.Query() {
		if len(values) > 0 {
			key, value = k, values[0]
			break
		}
	}

	issues, err := h.issueSvc.Search(r.Context(), actorFrom(r), projectID, key, value)

	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapIssueSummariesToDTO(issues))
}

// AddComment добавляет комментарий и возвращает обновлённый журнал иссью.
func (h *IssueHandlers) AddComment(w http.ResponseWriter, r *http.Request) {
	projectID, issueID, err := issuePath(r)

	if err != nil {
		WriteError(w, err)
		return
	}

	var req AddCommentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, domain.NewDomainError(domain.ErrorCodeCommentBadRequest, domain.ErrMalformedRequest))
		return
	}

	comments, err := h.issueSvc.AddComment(r.Context(), actorFrom(r), projectID, issueID, req.Content)

	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapCommentsToDTO(comments))
}

// SuggestAssignee возвращает логин рекомендуемого исполнителя.
func (h *IssueHandlers) SuggestAssignee(w http.ResponseWriter, r *http.Request) {
	projectID, issueID, err := issuePath(r)

	if err != nil {
		WriteError(w, err)
		return
	}

	username, err := h.issueSvc.SuggestAssignee(r.Context(), actorFrom(r), projectID, issueID)

	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SuggestionResponse{Username: username})
}

func issuePath(r *http.Request) (int64, int64, error) {
	projectID, err := pathID(r, "projectId", domain.ErrorCodeProjectNotFound)

	if err != nil {
		return 0, 0, err
	}

	issueID, err := pathID(r, "issueId", domain.ErrorCodeIssueNotFound)

	if err != nil {
		return 0, 0, err
	}

	return projectID, issueID, nil
}
