package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// Битое тело запроса не должно доходить до сервисов и тем более
// превращаться в 500: это ошибка клиента.
func TestUserHandlers_MalformedBody(t *testing.T) {
	h := NewUserHandlers(nil, nil)

	cases := []struct {
		name    string
		handler http.HandlerFunc
		code    string
	}{
		{"signup", h.Signup, domain.ErrorCodeSignUpBadRequest},
		{"login", h.Login, domain.ErrorCodeLoginBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/users/"+tc.name, strings.NewReader("{not json"))
			rec := httptest.NewRecorder()

			tc.handler(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}

			var body ErrorBody

			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}

			if body.Error.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, body.Error.Code)
			}
		})
	}
}
