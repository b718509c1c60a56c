package httpapi

import (
	nethttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/cau-24swe-team14/ITS-BE/internal/logging"
	"github.com/cau-24swe-team14/ITS-BE/internal/service"
)

// NewRouter настраивает HTTP-маршруты и middleware сервиса.
// Всё, кроме /health и входа/регистрации, требует живой сессии.
func NewRouter(
	userSvc *service.UserService,
	sessionSvc *service.SessionService,
	projectSvc *service.ProjectService,
	issueSvc *service.IssueService,
	trendSvc *service.TrendService,
	corsOrigin string,
	logger *logging.Logger,
) nethttp.Handler {
	r := chi.NewRouter()

	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	userHandlers := NewUserHandlers(userSvc, sessionSvc)
	projectHandlers := NewProjectHandlers(projectSvc, trendSvc)
	issueHandlers := NewIssueHandlers(issueSvc)

	r.Get("/health", HealthHandler)

	r.Route("/users", func(r chi.Router) {
		r.Post("/signup", userHandlers.Signup)
		r.Post("/login", userHandlers.Login)
		r.Post("/logout", userHandlers.Logout)
		r.Get("/isExist", userHandlers.IsExist)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Use(AuthMiddleware(sessionSvc))

		r.Get("/", projectHandlers.List)
		r.Post("/", projectHandlers.Add)

		r.Route("/{projectId}", func(r chi.Router) {
			r.Get("/", projectHandlers.Details)
			r.Patch("/", projectHandlers.Modify)
			r.Get("/trend", projectHandlers.Trend)

			r.Route("/issues", func(r chi.Router) {
				r.Get("/", issueHandlers.Search)
				r.Post("/", issueHandlers.Add)

				r.Route("/{issueId}", func(r chi.Router) {
					r.Get("/", issueHandlers.Details)
					r.Patch("/", issueHandlers.Modify)
					r.Post("/comments", issueHandlers.AddComment)
					r.Get("/assignee-suggestions", issueHandlers.SuggestAssignee)
				})
			})
		})
	})

	timeout := 10 * time.Second
	return nethttp.TimeoutHandler(r, timeout, `{"error":{"code":"INTERNAL","message":"request timeout"}}`)
}
