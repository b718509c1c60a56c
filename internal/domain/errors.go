package domain

import "errors"

// ErrorCodeUnauthorized означает отсутствие или истечение сессии.
// Остальные коды описывают доменные ошибки конкретных операций.
const (
	ErrorCodeUnauthorized          = "UNAUTHORIZED"
	ErrorCodeUsernameExists        = "USERNAME_ALREADY_EXISTS"
	ErrorCodeUsernameNotFound      = "USERNAME_NOT_FOUND"
	ErrorCodeInvalidPassword       = "INVALID_PASSWORD"
	ErrorCodeSignUpBadRequest      = "SIGN_UP_BAD_REQUEST"
	ErrorCodeLoginBadRequest       = "LOGIN_BAD_REQUEST"
	ErrorCodeProjectForbidden      = "PROJECT_CREATION_FORBIDDEN"
	ErrorCodeProjectBadRequest     = "PROJECT_CREATION_BAD_REQUEST"
	ErrorCodeProjectEditForbidden  = "PROJECT_UPDATE_FORBIDDEN"
	ErrorCodeProjectNotFound       = "PROJECT_NOT_FOUND"
	ErrorCodeProjectViewForbidden  = "PROJECT_DETAILS_FORBIDDEN"
	ErrorCodeTrendForbidden        = "PROJECT_TREND_FORBIDDEN"
	ErrorCodeTrendBadRequest       = "PROJECT_TREND_BAD_REQUEST"
	ErrorCodeIssueForbidden        = "ISSUE_CREATION_FORBIDDEN"
	ErrorCodeIssueBadRequest       = "ISSUE_CREATION_BAD_REQUEST"
	ErrorCodeIssueEditForbidden    = "ISSUE_UPDATE_FORBIDDEN"
	ErrorCodeIssueEditBadRequest   = "ISSUE_UPDATE_BAD_REQUEST"
	ErrorCodeIssueViewForbidden    = "ISSUE_DETAILS_FORBIDDEN"
	ErrorCodeIssueSearchBadRequest = "ISSUE_SEARCH_BAD_REQUEST"
	ErrorCodeIssueNotFound         = "ISSUE_NOT_FOUND"
	ErrorCodeCommentForbidden      = "COMMENT_CREATION_FORBIDDEN"
	ErrorCodeCommentBadRequest     = "COMMENT_CREATION_BAD_REQUEST"
	ErrorCodeSuggestionForbidden   = "ASSIGNEE_SUGGESTION_FORBIDDEN"
	ErrorCodeSuggestionBadRequest  = "ASSIGNEE_SUGGESTION_BAD_REQUEST"
	ErrorCodeInternal              = "INTERNAL"
)

// ErrNotFound возвращается репозиториями, когда запись отсутствует.
// Остальные ошибки — фиксированные сообщения доменных ситуаций.
var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("authentication required")
	ErrUsernameExists   = errors.New("username already exists")
	ErrUsernameNotFound = errors.New("username not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrForbidden        = errors.New("operation forbidden")
	ErrProjectNotFound  = errors.New("project not found")
	ErrIssueNotFound    = errors.New("issue not found")
	ErrBadUpdate        = errors.New("malformed issue update")
	ErrBadTransition    = errors.New("invalid status transition target")
	ErrUnknownTrend     = errors.New("unknown trend category")
	ErrUnknownSearchKey = errors.New("unknown search key")
	ErrMalformedRequest = errors.New("malformed request")
)

// DomainError оборачивает доменную ошибку с кодом для HTTP-слоя.
//
//revive:disable-next-line:exported
type DomainError struct {
	Code string
	Err  error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return e.Code
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError создаёт новую DomainError с указанным кодом и исходной ошибкой.
func NewDomainError(code string, err error) *DomainError {
	return &DomainError{
		Code: code,
		Err:  err,
	}
}
