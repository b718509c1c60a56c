package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/cau-24swe-team14/ITS-BE/internal/config"
	httpapi "github.com/cau-24swe-team14/ITS-BE/internal/http"
	"github.com/cau-24swe-team14/ITS-BE/internal/logging"
	"github.com/cau-24swe-team14/ITS-BE/internal/random"
	"github.com/cau-24swe-team14/ITS-BE/internal/repository/postgres"
	"github.com/cau-24swe-team14/ITS-BE/internal/service"
	"github.com/cau-24swe-team14/ITS-BE/internal/storage"
)

type errorResp struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type projectListResp struct {
	IsAdmin int `json:"isAdmin"`
	Project []struct {
		ID     int64  `json:"id"`
		Title  string `json:"title"`
		Status int    `json:"status"`
	} `json:"project"`
}

type issueDetailsResp struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Manager     *string `json:"manager"`
	Assignee    *string `json:"assignee"`
	Fixer       *string `json:"fixer"`
	Status      int     `json:"status"`
	ClosedDate  *string `json:"closedDate"`
	AccountRole int     `json:"accountRole"`
	Comment     []struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Content  string `json:"content"`
	} `json:"comment"`
}

type issueSummaryResp []struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status int    `json:"status"`
}

type testEnv struct {
	t      *testing.T
	db     *sql.DB
	server *httptest.Server
	client *http.Client
	base   string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// e2e гоняется только при наличии тестовой БД
	dsn := os.Getenv("TEST_DB_DSN")

	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set, skipping e2e")
	}

	dbCfg := config.DBConfig{DSN: dsn}
	db, err := postgres.NewDB(dbCfg)

	if err != nil {
		t.Fatalf("failed to connect to test db: %v", err)
	}

	// Миграции
	if err := storage.RunMigrations(db, "../../migrations"); err != nil {
		_ = db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanDB(t, db)

	accountRepo := postgres.NewAccountRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	issueRepo := postgres.NewIssueRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	randSource := random.NewCryptoRand()
	logger := logging.NewLogger("test")

	userSvc := service.NewUserService(accountRepo)
	sessionSvc := service.NewSessionService(sessionRepo, accountRepo, time.Hour)
	projectSvc := service.NewProjectService(projectRepo, membershipRepo, accountRepo, issueRepo)
	issueSvc := service.NewIssueService(issueRepo, membershipRepo, accountRepo, commentRepo, randSource)
	trendSvc := service.NewTrendService(issueRepo, commentRepo, membershipRepo)

	if err := userSvc.EnsureAdmin(context.Background(), "admin", "1234"); err != nil {
		_ = db.Close()
		t.Fatalf("failed to seed admin: %v", err)
	}

	router := httpapi.NewRouter(userSvc, sessionSvc, projectSvc, issueSvc, trendSvc, "http://localhost:5173", logger)
	ts := httptest.NewServer(router)

	return &testEnv{
		t:      t,
		db:     db,
		server: ts,
		client: ts.Client(),
		base:   ts.URL,
	}
}

func (env *testEnv) teardown() {
	_ = env.db.Close()
	env.server.Close()
}

func cleanDB(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tables := []string{"comment", "issue", "project_account", "project", "session", "account"}

	for _, tbl := range tables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+tbl); err != nil {
			t.Fatalf("failed to clean table %s: %v", tbl, err)
		}
	}
}

// ==== Хелперы HTTP-запросов ====

// do выполняет запрос от имени сессии token (пустой token — аноним)
// и возвращает ответ с уже проверенным статусом.
func (env *testEnv) do(method, path, token string, reqBody any, expectedStatus int, out any) *http.Response {
	env.t.Helper()

	var bodyBytes []byte

	if reqBody != nil {
		var err error
		bodyBytes, err = json.Marshal(reqBody)

		if err != nil {
			env.t.Fatalf("failed to marshal request: %v", err)
		}
	}

	req, err := http.NewRequest(method, env.base+path, bytes.NewReader(bodyBytes))

	if err != nil {
		env.t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.AddCookie(&http.Cookie{Name: "SESSION", Value: token})
	}

	resp, err := env.client.Do(req)

	if err != nil {
		env.t.Fatalf("request failed: %v", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != expectedStatus {
		var errBody errorResp
		_ = json.NewDecoder(resp.Body).Decode(&errBody)

		env.t.Fatalf("unexpected status for %s %s: got %d, want %d, error=%+v",
			method, path, resp.StatusCode, expectedStatus, errBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			env.t.Fatalf("failed to decode response for %s: %v", path, err)
		}
	}

	return resp
}

// sessionToken достаёт значение cookie SESSION из ответа.
func sessionToken(t *testing.T, resp *http.Response) string {
	t.Helper()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "SESSION" && cookie.Value != "" {
			return cookie.Value
		}
	}

	t.Fatalf("no SESSION cookie in response")
	return ""
}

// signup регистрирует пользователя и возвращает токен открытой сессии.
func (env *testEnv) signup(username string) string {
	resp := env.do(http.MethodPost, "/users/signup",
		"", map[string]any{"username": username, "password": "pw-" + username},
		http.StatusCreated, nil)

	return sessionToken(env.t, resp)
}

func (env *testEnv) login(username, password string) string {
	resp := env.do(http.MethodPost, "/users/login",
		"", map[string]any{"username": username, "password": password},
		http.StatusOK, nil)

	return sessionToken(env.t, resp)
}

// ==== E2E-тесты ====

func TestEndToEnd_IssueLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	defer env.teardown()

	// 1. health
	var health struct {
		Status string `json:"status"`
	}

	env.do(http.MethodGet, "/health", "", nil, http.StatusOK, &health)

	if health.Status != "ok" {
		t.Fatalf("unexpected health status: %s", health.Status)
	}

	// 2. регистрация участников; signup сразу открывает сессию
	leaderTok := env.signup("leader")
	coderTok := env.signup("coder")
	checkerTok := env.signup("checker")

	// 3. без сессии проекты недоступны
	var errBody errorResp
	env.do(http.MethodGet, "/projects/", "", nil, http.StatusUnauthorized, &errBody)

	if errBody.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %s", errBody.Error.Code)
	}

	// 4. администратор создаёт проект с тремя участниками
	adminTok := env.login("admin", "1234")

	createReq := map[string]any{
		"title":       "ITS",
		"description": "issue tracking system",
		"member": []map[string]any{
			{"username": "leader", "role": 0},
			{"username": "coder", "role": 1},
			{"username": "checker", "role": 2},
		},
	}

	resp := env.do(http.MethodPost, "/projects/", adminTok, createReq, http.StatusCreated, nil)
	location := resp.Header.Get("Location")

	if !strings.HasPrefix(location, "/projects/") {
		t.Fatalf("unexpected Location: %s", location)
	}

	var projects projectListResp
	env.do(http.MethodGet, "/projects/", adminTok, nil, http.StatusOK, &projects)

	if projects.IsAdmin != 1 || len(projects.Project) != 1 {
		t.Fatalf("unexpected admin project list: %+v", projects)
	}

	projectPath := location

	// обычный участник видит проект, но не является администратором
	env.do(http.MethodGet, "/projects/", coderTok, nil, http.StatusOK, &projects)

	if projects.IsAdmin != 0 || len(projects.Project) != 1 {
		t.Fatalf("unexpected member project list: %+v", projects)
	}

	// 5. только tester может завести иссью
	issueReq := map[string]any{
		"title":       "login fails",
		"description": "500 on POST /users/login",
		"keyword":     0,
		"dueDate":     "2026-12-31",
	}

	env.do(http.MethodPost, projectPath+"/issues/", coderTok, issueReq, http.StatusForbidden, &errBody)

	if errBody.Error.Code != "ISSUE_CREATION_FORBIDDEN" {
		t.Fatalf("expected ISSUE_CREATION_FORBIDDEN, got %s", errBody.Error.Code)
	}

	resp = env.do(http.MethodPost, projectPath+"/issues/", checkerTok, issueReq, http.StatusCreated, nil)
	issuePath := resp.Header.Get("Location")

	if !strings.HasSuffix(issuePath, "/issues/1") {
		t.Fatalf("expected first per-project issue id, got Location %s", issuePath)
	}

	// 6. PL назначает исполнителя
	env.do(http.MethodPatch, issuePath, leaderTok, map[string]any{"assignee": "coder"}, http.StatusNoContent, nil)

	var details issueDetailsResp
	env.do(http.MethodGet, issuePath, checkerTok, nil, http.StatusOK, &details)

	if details.Status != 1 {
		t.Fatalf("expected ASSIGNED ordinal 1, got %d", details.Status)
	}

	if details.Manager == nil || *details.Manager != "leader" {
		t.Fatalf("manager must be the assigning PL: %v", details.Manager)
	}

	if len(details.Comment) != 1 || details.Comment[0].Content != "leader assigned this to coder." {
		t.Fatalf("expected assignment audit comment, got %+v", details.Comment)
	}

	// 7. чинит только assignee
	env.do(http.MethodPatch, issuePath, checkerTok, map[string]any{"status": 2}, http.StatusForbidden, &errBody)

	if errBody.Error.Code != "ISSUE_UPDATE_FORBIDDEN" {
		t.Fatalf("expected ISSUE_UPDATE_FORBIDDEN, got %s", errBody.Error.Code)
	}

	env.do(http.MethodPatch, issuePath, coderTok, map[string]any{"status": 2}, http.StatusNoContent, nil)

	// 8. reporter подтверждает, manager закрывает
	env.do(http.MethodPatch, issuePath, checkerTok, map[string]any{"status": 3}, http.StatusNoContent, nil)
	env.do(http.MethodPatch, issuePath, leaderTok, map[string]any{"status": 4}, http.StatusNoContent, nil)

	env.do(http.MethodGet, issuePath, checkerTok, nil, http.StatusOK, &details)

	if details.Status != 4 || details.ClosedDate == nil {
		t.Fatalf("expected CLOSED with closedDate, got status=%d closedDate=%v", details.Status, details.ClosedDate)
	}

	if details.Fixer == nil || *details.Fixer != "coder" {
		t.Fatalf("fixer must be the assignee: %v", details.Fixer)
	}

	// 9. reporter переоткрывает, отметка закрытия снимается
	env.do(http.MethodPatch, issuePath, checkerTok, map[string]any{"status": 5}, http.StatusNoContent, nil)
	env.do(http.MethodGet, issuePath, checkerTok, nil, http.StatusOK, &details)

	if details.Status != 5 || details.ClosedDate != nil {
		t.Fatalf("expected REOPENED without closedDate, got status=%d closedDate=%v", details.Status, details.ClosedDate)
	}

	// 10. поиск по имени статуса
	var found issueSummaryResp
	env.do(http.MethodGet, projectPath+"/issues/?status=REOPENED", coderTok, nil, http.StatusOK, &found)

	if len(found) != 1 || found[0].ID != 1 {
		t.Fatalf("expected the reopened issue in search, got %+v", found)
	}

	// 11. комментарий возвращает обновлённый журнал
	var comments []struct {
		Username string `json:"username"`
		Content  string `json:"content"`
	}

	env.do(http.MethodPost, issuePath+"/comments", coderTok,
		map[string]any{"content": "needs a new fix"}, http.StatusCreated, &comments)

	if len(comments) == 0 || comments[len(comments)-1].Content != "needs a new fix" {
		t.Fatalf("expected the fresh comment in the log, got %+v", comments)
	}

	// 12. подбор исполнителя доступен только PL; coder — единственный dev
	var suggestion struct {
		Username string `json:"username"`
	}

	env.do(http.MethodGet, issuePath+"/assignee-suggestions", coderTok, nil, http.StatusForbidden, &errBody)
	env.do(http.MethodGet, issuePath+"/assignee-suggestions", leaderTok, nil, http.StatusOK, &suggestion)

	if suggestion.Username != "coder" {
		t.Fatalf("expected coder as suggestion, got %s", suggestion.Username)
	}

	// 13. тренды отвечают на все категории
	for _, category := range []string{"new-issue", "closed-issue", "best-issue", "best-member"} {
		env.do(http.MethodGet, projectPath+"/trend?category="+category, leaderTok, nil, http.StatusOK, nil)
	}

	env.do(http.MethodGet, projectPath+"/trend?category=velocity", leaderTok, nil, http.StatusBadRequest, &errBody)

	if errBody.Error.Code != "PROJECT_TREND_BAD_REQUEST" {
		t.Fatalf("expected PROJECT_TREND_BAD_REQUEST, got %s", errBody.Error.Code)
	}

	// 14. logout гасит сессию
	env.do(http.MethodPost, "/users/logout", coderTok, nil, http.StatusNoContent, nil)
	env.do(http.MethodGet, "/projects/", coderTok, nil, http.StatusUnauthorized, &errBody)
}

func TestEndToEnd_Accounts(t *testing.T) {
	env := setupTestEnv(t)
	defer env.teardown()

	env.signup("alice")

	// повторная регистрация того же логина
	var errBody errorResp
	env.do(http.MethodPost, "/users/signup", "",
		map[string]any{"username": "alice", "password": "other"},
		http.StatusConflict, &errBody)

	if errBody.Error.Code != "USERNAME_ALREADY_EXISTS" {
		t.Fatalf("expected USERNAME_ALREADY_EXISTS, got %s", errBody.Error.Code)
	}

	// неверный пароль
	env.do(http.MethodPost, "/users/login", "",
		map[string]any{"username": "alice", "password": "wrong"},
		http.StatusUnauthorized, &errBody)

	if errBody.Error.Code != "INVALID_PASSWORD" {
		t.Fatalf("expected INVALID_PASSWORD, got %s", errBody.Error.Code)
	}

	// проверка занятости логина
	env.do(http.MethodGet, "/users/isExist?username=alice", "", nil, http.StatusOK, nil)
	env.do(http.MethodGet, "/users/isExist?username=ghost", "", nil, http.StatusNotFound, &errBody)

	if errBody.Error.Code != "USERNAME_NOT_FOUND" {
		t.Fatalf("expected USERNAME_NOT_FOUND, got %s", errBody.Error.Code)
	}
}
