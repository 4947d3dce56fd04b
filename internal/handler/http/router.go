package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Payroll    PayrollHandler
	Policy     PolicyHandler
}

func NewRouter(JWTService jwt.Service, opts RouterOptions, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	tokenAuth := JWTService.JWTAuth()
	withAccess := func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(middleware.AuthRequired(jwt.TokenTypeAccess))
	}
	// EventSource cannot set headers, so streams take an SSE token as ?jwt=.
	withSSE := func(r chi.Router) {
		r.Use(jwtauth.Verify(tokenAuth, jwtauth.TokenFromQuery))
		r.Use(middleware.AuthRequired(jwt.TokenTypeSSE))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Get("/oauth/google", h.Auth.LoginWithGoogle)
			})

			r.Group(func(r chi.Router) {
				withAccess(r)
				r.Get("/me", h.Auth.Me)
				r.Post("/sse-token", h.Auth.SSEToken)
			})
		})

		r.Group(func(r chi.Router) {
			withSSE(r)
			r.Get("/events", h.Attendance.Events)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				withSSE(r)
				r.Get("/timer/stream", h.Attendance.TimerStream)
			})

			r.Group(func(r chi.Router) {
				withAccess(r)

				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/clock-in", h.Attendance.ClockIn)
				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/clock-out", h.Attendance.ClockOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/my", h.Attendance.GetMyAttendance)
				r.Get("/summary", h.Attendance.Summary)

				// Manager/owner only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
					r.With(middleware.RequirePermission(user.PermissionAttendanceExport)).Get("/export", h.Attendance.Export)
					r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).Put("/{id}", h.Attendance.Update)
					r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).Delete("/{id}", h.Attendance.Delete)
					r.With(middleware.RequirePermission(user.PermissionAttendanceApprove)).Post("/{id}/overtime/approve", h.Attendance.ApproveOvertime)
					r.With(middleware.RequirePermission(user.PermissionAttendanceApprove)).Post("/{id}/overtime/reject", h.Attendance.RejectOvertime)
				})

				// Employees may read their own records; the service checks ownership.
				r.Get("/{id}", h.Attendance.Get)
			})
		})

		r.Route("/policy", func(r chi.Router) {
			withAccess(r)
			r.Use(middleware.RequirePermission(user.PermissionPolicyView))
			r.Get("/config", h.Policy.Config)
			r.Post("/evaluate", h.Policy.Evaluate)
			r.Post("/penalty", h.Policy.Penalty)
		})

		r.Route("/payroll", func(r chi.Router) {
			withAccess(r)
			r.Use(middleware.RequireManager)

			r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/preview", h.Payroll.Preview)
			r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/", h.Payroll.ListPayrollRecords)
			r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/{id}", h.Payroll.GetPayrollRecord)
			r.With(middleware.RequirePermission(user.PermissionPayrollManage)).Post("/generate", h.Payroll.GeneratePayroll)
			r.With(middleware.RequirePermission(user.PermissionPayrollMarkPaid)).Post("/mark-paid", h.Payroll.MarkPaid)
			r.With(middleware.RequirePermission(user.PermissionPayrollManage)).Delete("/{id}", h.Payroll.DeletePayrollRecord)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
