package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/yourorg/agrimarket/internal/security/audit"
	"github.com/yourorg/agrimarket/internal/security/auth"
	"github.com/yourorg/agrimarket/internal/security/ratelimit"
)

type AccountContextKey struct{}
type ClaimsContextKey struct{}

// isPublic reports whether the endpoint works without authentication.
// Browse endpoints stay public so anonymous viewers see the full
// catalogs; prediction is public in the original UI as well.
func isPublic(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/readyz", "/metrics",
		"/api/predict", "/api/auth/register", "/api/auth/login",
		"/ws/listings":
		return true
	case "/api/crops", "/api/products":
		return r.Method == http.MethodGet
	}
	return false
}

// JWTMiddleware authenticates requests with a bearer token. Public
// endpoints pass through, but a token sent to them is still decoded so
// the catalog handlers can resolve the viewer.
func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			if authHeader == "" {
				if isPublic(r) {
					next.ServeHTTP(w, r)
					return
				}
				http.Error(w, `{"error":"missing auth"}`, http.StatusUnauthorized)
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				if isPublic(r) {
					next.ServeHTTP(w, r)
					return
				}
				http.Error(w, `{"error":"invalid auth"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				if isPublic(r) {
					next.ServeHTTP(w, r)
					return
				}
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			ctx = context.WithValue(ctx, AccountContextKey{}, claims.AccountID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware limits authenticated mutating traffic per account
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			accountID := ""
			if a := r.Context().Value(AccountContextKey{}); a != nil {
				accountID, _ = a.(string)
			}

			if !limiter.Allow(accountID) {
				log.Warn("rate limit exceeded", slog.String("account_id", accountID))
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records listing submissions and auth actions
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID := ""
			if c := r.Context().Value(ClaimsContextKey{}); c != nil {
				if claims, ok := c.(*auth.Claims); ok {
					accountID = claims.AccountID
				}
			}

			if r.Method == http.MethodPost {
				switch r.URL.Path {
				case "/api/crops":
					auditLog.LogAction(r.Context(), accountID, "submit", "crop_listing", "", "initiated")
				case "/api/products":
					auditLog.LogAction(r.Context(), accountID, "submit", "product_listing", "", "initiated")
				case "/api/auth/register":
					auditLog.LogAction(r.Context(), accountID, "register", "account", "", "initiated")
				case "/api/auth/login":
					auditLog.LogAction(r.Context(), accountID, "login", "account", "", "initiated")
				case "/api/auth/logout":
					auditLog.LogAction(r.Context(), accountID, "logout", "account", "", "initiated")
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetAccountIDFromContext returns the authenticated account ID, if any
func GetAccountIDFromContext(ctx context.Context) string {
	if a := ctx.Value(AccountContextKey{}); a != nil {
		if id, ok := a.(string); ok {
			return id
		}
	}
	return ""
}

// GetClaimsFromContext returns the token claims, if any
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		if claims, ok := c.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
