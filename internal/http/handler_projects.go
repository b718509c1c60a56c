package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
	"github.com/cau-24swe-team14/ITS-BE/internal/service"
)

// ProjectHandlers содержит HTTP-обработчики проектов и их трендов.
type ProjectHandlers struct {
	projectSvc *service.ProjectService
	trendSvc   *service.TrendService
}

// NewProjectHandlers создаёт набор HTTP-обработчиков для работы с проектами.
func NewProjectHandlers(projectSvc *service.ProjectService, trendSvc *service.TrendService) *ProjectHandlers {
	return &ProjectHandlers{
		projectSvc: projectSvc,
		trendSvc:   trendSvc,
	}
}

// List возвращает проекты, доступные текущему пользователю.
func (h *ProjectHandlers) List(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	projects, err := h.projectSvc.List(r.Context(), actor)

	if err != nil {
		WriteError(w, err)
		return
	}

	resp := ProjectListResponse{
		IsAdmin: boolToInt(actor.IsAdmin),
		Project: make([]ProjectShortDTO, 0, len(projects)),
	}

	for _, p := range projects {
		resp.Project = append(resp.Project, ProjectShortDTO{
			ID:     p.ID,
			Title:  p.Title,
			Status: p.Status.Ordinal(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Add создаёт проект и отвечает 201 с Location нового ресурса.
func (h *ProjectHandlers) Add(w http.ResponseWriter, r *http.Request) {
	var req AddProjectRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, domain.NewDomainError(domain.ErrorCodeProjectBadRequest, domain.ErrMalformedRequest))
		return
	}

	project, err := h.projectSvc.Create(r.Context(), actorFrom(r), req.Title, req.Description, mapMemberInputs(req.Member))

	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/projects/%d", project.ID))
	w.WriteHeader(http.StatusCreated)
}

// Details возвращает проект с участниками и списком иссью.
func (h *ProjectHandlers) Details(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId", domain.ErrorCodeProjectNotFound)

	if err != nil {
		WriteError(w, err)
		return
	}

	details, err := h.projectSvc.Details(r.Context(), actorFrom(r), projectID)

	if err != nil {
		WriteError(w, err)
		return
	}

	resp := ProjectDetailsResponse{
		ID:          details.Project.ID,
		Title:       details.Project.Title,
		Description: details.Project.Description,
		Status:      details.Project.Status.Ordinal(),
		CreatedDate: details.Project.CreatedAt.Format(timestampLayout),
		AccountRole: -1,
		MemberList:  make([]MemberDTO, 0, len(details.Members)),
		IssueList:   mapIssueSummariesToDTO(details.Issues),
	}

	if details.Role != nil {
		resp.AccountRole = details.Role.Ordinal()
	}

	for _, m := range details.Members {
		resp.MemberList = append(resp.MemberList, MemberDTO{
			Username: m.Username,
			Role:     m.Role.Ordinal(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Modify частично изменяет проект и дополняет список участников.
func (h *ProjectHandlers) Modify(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId", domain.ErrorCodeProjectNotFound)

	if err != nil {
		WriteError(w, err)
		return
	}

	var req ModifyProjectRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, domain.NewDomainError(domain.ErrorCodeProjectBadRequest, domain.ErrMalformedRequest))
		return
	}

	input := service.ModifyProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Members:     mapMemberInputs(req.Member),
	}

	if err := h.projectSvc.Modify(r.Context(), actorFrom(r), projectID, input); err != nil {
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Trend возвращает агрегат категории из query-параметра category.
func (h *ProjectHandlers) Trend(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId", domain.ErrorCodeProjectNotFound)

	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.trendSvc.Trend(r.Context(), actorFrom(r), projectID, r.URL.Query().Get("category"))

	if err != nil {
		WriteError(w, err)
		return
	}

	switch {
	case result.Issues != nil:
		writeJSON(w, http.StatusOK, IssueTrendResponse{
			Daily:   mapTrendPointsToDTO(result.Issues.Daily, dateLayout),
			Monthly: mapTrendPointsToDTO(result.Issues.Monthly, monthLayout),
		})

	case result.Best != nil:
		writeJSON(w, http.StatusOK, BestIssuesResponse{
			Daily:   mapBestIssuesToDTO(result.Best.Daily),
			Monthly: mapBestIssuesToDTO(result.Best.Monthly),
		})

	case result.Members != nil:
		writeJSON(w, http.StatusOK, BestMembersResponse{
			PL:     mapBestMemberToDTO(result.Members.PL),
			Dev:    mapBestMemberToDTO(result.Members.Dev),
			Tester: mapBestMemberToDTO(result.Members.Tester),
		})
	}
}

func mapMemberInputs(members []MemberRequest) []service.MemberInput {
	res := make([]service.MemberInput, 0, len(members))

	for _, m := range members {
		res = append(res, service.MemberInput{
			Username: m.Username,
			Role:     m.Role,
		})
	}

	return res
}

// pathID разбирает числовой path-параметр; мусор в пути неотличим от
// несуществующего ресурса.
func pathID(r *http.Request, name, notFoundCode string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)

	if err != nil {
		return 0, domain.NewDomainError(notFoundCode, domain.ErrNotFound)
	}

	return id, nil
}
