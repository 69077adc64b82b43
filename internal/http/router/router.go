// Package router arma el http.Handler del servicio: token endpoint, health y
// métricas Prometheus.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ctrl "github.com/dropDatabas3/littlejohn/internal/http/controllers/oauth"
	mw "github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	"github.com/dropDatabas3/littlejohn/internal/rate"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Token       *ctrl.TokenController
	RateLimiter rate.Limiter // opcional: rate limit por IP en /oauth2/token
}

// New construye el router chi con el chain de middlewares estándar.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// /oauth2/token - Token endpoint (RFC 6749).
	// El controller responde 405 para los verbos que no sean POST.
	r.Handle("/oauth2/token", oauthHandler(deps.RateLimiter, http.HandlerFunc(deps.Token.Token)))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// oauthHandler crea el middleware chain para endpoints OAuth.
func oauthHandler(limiter rate.Limiter, handler http.Handler) http.Handler {
	chain := []mw.Middleware{
		mw.WithRecover(),
		mw.WithRequestID(),
	}
	if limiter != nil {
		chain = append(chain, mw.WithRateLimit(limiter))
	}
	chain = append(chain, mw.WithLogging())
	return mw.Chain(handler, chain...)
}
