package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/midhaven/profiled/internal/profile/service"
	"github.com/midhaven/profiled/internal/profile/store"
	"github.com/midhaven/profiled/pkg/httpx"
	"github.com/midhaven/profiled/pkg/jwtx"
	"github.com/midhaven/profiled/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AccountService *service.AccountService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerProfile()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	r.Mux.Handle("POST /v1/register", &RegisterHandler{AccountService: r.AccountService})
	r.Mux.Handle("POST /v1/login", &LoginHandler{AccountService: r.AccountService})
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{AccountService: r.AccountService}

	// The gate: verify the bearer token, then resolve the account.
	secured := func(handler http.Handler) http.Handler {
		return httpx.Chain(handler,
			httpx.AuthnMiddleware(r.verifier),
			requireAccount(r.store),
		)
	}

	r.Mux.Handle("GET /v1/profile", secured(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("PATCH /v1/profile", secured(http.HandlerFunc(h.HandlePatch)))
	r.Mux.Handle("POST /v1/profile/password", secured(http.HandlerFunc(h.HandlePassword)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
