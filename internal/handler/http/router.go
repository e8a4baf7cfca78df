package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/handler/http/middleware"
	"github.com/controlfichajes/fichajes-backend-go/internal/handler/http/response"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/jwt"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	RequestTimeout time.Duration
	ConciseLogs    bool
	TrustProxy     bool
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	loginLimiter ratelimit.Limiter,
	authHandler AuthHandler,
	userHandler UserHandler,
	attendanceHandler AttendanceHandler,
	incidentHandler IncidentHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  cfg.LogLevel,
			Schema: httplog.SchemaECS.Concise(cfg.ConciseLogs),
		}))
	}

	if cfg.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	if cfg.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/usuarios", func(r chi.Router) {
			r.With(middleware.RateLimit(loginLimiter, "login")).Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.Authenticate)

				r.Get("/me", userHandler.Me)
				r.Put("/me/password", userHandler.ChangePassword)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", userHandler.List)
					r.Post("/", userHandler.Create)
					r.Delete("/{id}", userHandler.Delete)
				})
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.Authenticate)

			r.Route("/fichajes", func(r chi.Router) {
				r.Get("/", attendanceHandler.List)
				r.Post("/", attendanceHandler.Create)
				r.Get("/historial", attendanceHandler.History)
				r.Get("/hoy", attendanceHandler.Today)
				r.Post("/entrada", attendanceHandler.ClockIn)
				r.Post("/pausa/inicio", attendanceHandler.StartPause)
				r.Post("/pausa/fin", attendanceHandler.EndPause)
				r.Post("/salida", attendanceHandler.ClockOut)
				r.Get("/{id}", attendanceHandler.Get)
				r.Put("/{id}", attendanceHandler.Update)
				r.Delete("/{id}", attendanceHandler.Delete)
			})

			r.Route("/incidencias", func(r chi.Router) {
				r.Get("/", incidentHandler.List)
				r.Post("/", incidentHandler.Create)
				r.Get("/pendientes", incidentHandler.ListPending)
				r.Get("/{id}", incidentHandler.Get)
				r.Put("/{id}", incidentHandler.Update)
				r.Delete("/{id}", incidentHandler.Delete)
				r.Post("/{id}/justificante", incidentHandler.UploadDocument)
				r.Get("/{id}/justificante", incidentHandler.DownloadDocument)
				r.With(middleware.RequirePermission(user.PermissionIncidentRespond)).Put("/{id}/responder", incidentHandler.Respond)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/usuarios", func(r chi.Router) {
					r.Get("/", userHandler.List)
					r.Post("/", userHandler.Create)
					r.Patch("/{id}/activo", userHandler.SetActive)
					r.Patch("/{id}/rol", userHandler.SetRole)
				})

				r.Route("/fichajes", func(r chi.Router) {
					r.Get("/", attendanceHandler.AdminList)
					r.Get("/hoy", attendanceHandler.AdminToday)
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceExport))
						r.Get("/pdf/{idUsuario}", attendanceHandler.ExportPDF)
						r.Get("/xlsx/{idUsuario}", attendanceHandler.ExportXLSX)
					})
				})

				r.Route("/incidencias", func(r chi.Router) {
					r.Get("/", incidentHandler.List)
					r.With(middleware.RequirePermission(user.PermissionIncidentRespond)).Patch("/{id}/estado", incidentHandler.UpdateStatus)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
