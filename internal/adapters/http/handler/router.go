package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/rs/zerolog"
)

// APIV1Prefix は HTTP API v1 のベースパスです。
const APIV1Prefix = "/api/v1"

// maxBodyBytes は検索リクエスト本文の上限です。
const maxBodyBytes = 1 << 20

// Options はルーターの任意設定です。
type Options struct {
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// NewRouter は社員名簿 API のルーターを構築します。
func NewRouter(svc employee.UseCase, pinger Pinger, opts Options) http.Handler {
	emp := NewEmployeeHandler(svc)
	health := NewHealthHandler(pinger)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(opts.Logger))
	r.Use(Recoverer(opts.Logger))
	r.Use(CORS(opts.AllowedOrigins))

	r.Get("/healthz", health.Liveness)
	r.Get("/readyz", health.Readiness)

	r.Route(APIV1Prefix, func(r chi.Router) {
		r.Get("/employees", emp.List)
		r.With(RequestBodyLimit(maxBodyBytes)).Post("/employees/search", emp.Search)
		r.Get("/positions", emp.Positions)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, codeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed", nil)
	})

	return r
}
