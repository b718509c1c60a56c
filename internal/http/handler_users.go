package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
	"github.com/cau-24swe-team14/ITS-BE/internal/service"
)

// UserHandlers содержит HTTP-обработчики регистрации и сессий.
type UserHandlers struct {
	userSvc    *service.UserService
	sessionSvc *service.SessionService
}

// NewUserHandlers создаёт набор HTTP-обработчиков для работы с учётными записями.
func NewUserHandlers(userSvc *service.UserService, sessionSvc *service.SessionService) *UserHandlers {
	return &UserHandlers{
		userSvc:    userSvc,
		sessionSvc: sessionSvc,
	}
}

// Signup регистрирует учётную запись и сразу открывает сессию.
func (h *UserHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, domain.NewDomainError(domain.ErrorCodeSignUpBadRequest, domain.ErrMalformedRequest))
		return
	}

	account, err := h.userSvc.Signup(r.Context(), req.Username, req.Password)

	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.sessionSvc.Start(r.Context(), account.ID)

	if err != nil {
		WriteError(w, err)
		return
	}

	setSessionCookie(w, session)
	writeJSON(w, http.StatusCreated, accountResponse(account))
}

// Login проверяет пароль и открывает сессию.
func (h *UserHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, domain.NewDomainError(domain.ErrorCodeLoginBadRequest, domain.ErrMalformedRequest))
		return
	}

	account, err := h.userSvc.Login(r.Context(), req.Username, req.Password)

	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.sessionSvc.Start(r.Context(), account.ID)

	if err != nil {
		WriteError(w, err)
		return
	}

	setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, accountResponse(account))
}

// Logout закрывает текущую сессию и гасит cookie.
func (h *UserHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := h.sessionSvc.End(r.Context(), cookie.Value); err != nil {
			WriteError(w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}

// IsExist проверяет, занят ли логин.
func (h *UserHandlers) IsExist(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	if err := h.userSvc.Exists(r.Context(), username); err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Username string `json:"username"`
	}{Username: username})
}

func accountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:       account.ID,
		Username: account.Username,
		IsAdmin:  boolToInt(account.IsAdmin),
	}
}

func setSessionCookie(w http.ResponseWriter, session domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
