// Package auth is the thin boundary to the external identity provider.
// The core only needs an "is authenticated" signal and a logout hook;
// tokens are issued elsewhere and verified here by shared secret.
package auth

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultCookieName = "cashlens_token"

type Config struct {
	// Secret is the HMAC key shared with the identity provider. An
	// empty secret disables the gate entirely (local single-user mode).
	Secret     string
	CookieName string
}

type Authenticator struct {
	secret     []byte
	cookieName string
}

func New(cfg Config) *Authenticator {
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	return &Authenticator{
		secret:     []byte(cfg.Secret),
		cookieName: name,
	}
}

// Enabled reports whether authentication is configured at all.
func (a *Authenticator) Enabled() bool {
	return len(a.secret) > 0
}

// IsAuthenticated checks the session cookie or Authorization bearer
// token. When the gate is disabled every request passes.
func (a *Authenticator) IsAuthenticated(r *http.Request) bool {
	if !a.Enabled() {
		return true
	}
	token := a.tokenFromRequest(r)
	if token == "" {
		return false
	}
	_, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		slog.Debug("Token rejected", "error", err)
		return false
	}
	return true
}

// Middleware gates the wrapped handler behind IsAuthenticated.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.IsAuthenticated(r) {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleLogout expires the session cookie. Nothing else needs to happen
// on this side; the identity provider owns the session itself.
func (a *Authenticator) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (a *Authenticator) tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
