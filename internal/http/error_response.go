package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// ErrorBody — обёртка для объекта ошибки в HTTP-ответе.
type ErrorBody struct {
	Error ErrorItem `json:"error"`
}

// ErrorItem описывает код и сообщение об ошибке.
type ErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError мапит доменные ошибки в HTTP-статусы и JSON-ответ.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := domain.ErrorCodeInternal
	msg := "internal error"

	if derr, ok := err.(*domain.DomainError); ok {
		code = derr.Code

		if derr.Err != nil {
			msg = derr.Err.Error()
		}

		status = statusForCode(derr.Code)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorBody{
		Error: ErrorItem{
			Code:    code,
			Message: msg,
		},
	})
}

func statusForCode(code string) int {
	switch code {
	case domain.ErrorCodeUnauthorized,
		domain.ErrorCodeInvalidPassword:
		return http.StatusUnauthorized

	case domain.ErrorCodeProjectForbidden,
		domain.ErrorCodeProjectEditForbidden,
		domain.ErrorCodeProjectViewForbidden,
		domain.ErrorCodeTrendForbidden,
		domain.ErrorCodeIssueForbidden,
		domain.ErrorCodeIssueEditForbidden,
		domain.ErrorCodeIssueViewForbidden,
		domain.ErrorCodeCommentForbidden,
		domain.ErrorCodeSuggestionForbidden:
		return http.StatusForbidden

	case domain.ErrorCodeProjectNotFound,
		domain.ErrorCodeIssueNotFound,
		domain.ErrorCodeUsernameNotFound:
		return http.StatusNotFound

	case domain.ErrorCodeSignUpBadRequest,
		domain.ErrorCodeLoginBadRequest,
		domain.ErrorCodeProjectBadRequest,
		domain.ErrorCodeTrendBadRequest,
		domain.ErrorCodeIssueBadRequest,
		domain.ErrorCodeIssueEditBadRequest,
		domain.ErrorCodeIssueSearchBadRequest,
		domain.ErrorCodeCommentBadRequest,
		domain.ErrorCodeSuggestionBadRequest:
		return http.StatusBadRequest

	case domain.ErrorCodeUsernameExists:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
