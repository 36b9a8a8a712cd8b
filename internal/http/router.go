package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"hazmerico/internal/http/handlers"
	"hazmerico/internal/middleware"
)

// Options configures the boundary concerns around the ledger handlers.
type Options struct {
	Logger zerolog.Logger
	// CORSOrigin is the front-end origin; empty disables CORS headers.
	CORSOrigin string
	// Authorize guards the /api/admin subtree.
	Authorize middleware.Authorizer
	// ClaimsPerMinute caps public claim submissions per IP; 0 disables.
	ClaimsPerMinute int
}

func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigin),
	)

	r.Get("/healthz", app.Health)
	r.Get("/api/state", app.State)

	if opts.ClaimsPerMinute > 0 {
		r.With(middleware.RateLimit(opts.ClaimsPerMinute, time.Minute)).
			Post("/api/claim", app.ClaimCreate)
	} else {
		r.Post("/api/claim", app.ClaimCreate)
	}

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(opts.Authorize))
		r.Get("/pending", app.AdminPending)
		r.Post("/approve", app.AdminApprove)
		r.Post("/reject", app.AdminReject)
	})

	r.NotFound(app.NotFound)
	r.MethodNotAllowed(app.NotFound)

	return r
}
