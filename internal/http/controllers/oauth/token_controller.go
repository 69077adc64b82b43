// Package oauth - TokenController handles POST /oauth2/token
package oauth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/littlejohn/internal/metrics"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"

	svc "github.com/dropDatabas3/littlejohn/internal/http/services/oauth"
)

// TokenController handles the OAuth2 token endpoint.
// Only the password grant is served here; every other grant_type is rejected
// at this edge with unsupported_grant_type.
type TokenController struct {
	service svc.TokenService
}

// NewTokenController creates the controller.
func NewTokenController(s svc.TokenService) *TokenController {
	return &TokenController{service: s}
}

// Token handles POST /oauth2/token
func (c *TokenController) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("oauth.token"))
	start := time.Now()

	// Method check
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		c.writeOAuthError(w, http.StatusMethodNotAllowed, "invalid_request", "Only POST method is allowed")
		return
	}

	// Limit body size (64KB for OAuth forms)
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)

	// Parse form
	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", logger.Err(err))
		c.writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	grantType := strings.TrimSpace(r.PostForm.Get("grant_type"))
	log = log.With(logger.GrantType(grantType))

	if grantType != "password" {
		metrics.GrantsTotal.WithLabelValues(grantType, "unsupported_grant_type").Inc()
		c.writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "Grant type not supported")
		return
	}

	req := svc.GrantRequest{}
	for _, k := range []string{"grant_type", "client_id", "client_secret", "username", "password", "scope"} {
		if v := strings.TrimSpace(r.PostForm.Get(k)); v != "" {
			req[k] = v
		}
	}

	resp, gerr := c.service.PasswordGrant(ctx, req)
	metrics.GrantDuration.WithLabelValues(grantType).Observe(time.Since(start).Seconds())

	if gerr != nil {
		metrics.GrantsTotal.WithLabelValues(grantType, gerr.Code).Inc()
		c.writeOAuthError(w, gerr.Status, gerr.Code, gerr.Description)
		return
	}

	metrics.GrantsTotal.WithLabelValues(grantType, "success").Inc()
	c.writeTokenResponse(w, resp)
}

type errorPayload struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (c *TokenController) writeOAuthError(w http.ResponseWriter, status int, errorCode, description string) {
	writeNoStoreHeaders(w)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorPayload{Error: errorCode, ErrorDescription: description})
}

func (c *TokenController) writeTokenResponse(w http.ResponseWriter, resp *svc.TokenResponse) {
	writeNoStoreHeaders(w)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeNoStoreHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
}
