package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/vitrinhq/vitrin/internal/tenant"
)

// HostResolver resolves a request hostname. *tenant.Resolver satisfies this
// interface.
type HostResolver interface {
	Resolve(ctx context.Context, hostname string) tenant.Resolution
}

// ResolveTenant resolves the Host header on every request and records the
// outcome in the context. A miss is not an error: handlers downstream decide
// between the default storefront and a hard tenant requirement.
func ResolveTenant(resolver HostResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := resolver.Resolve(r.Context(), r.Host)

			ctx := context.WithValue(r.Context(), ContextKeyResolution, res)
			if id := res.TenantID(); id != uuid.Nil {
				ctx = context.WithValue(ctx, ContextKeyTenantID, id)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant rejects requests whose hostname did not resolve to an active
// tenant. Used on routes where substituting default data would be wrong.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tid, ok := TenantIDFromContext(r.Context())
			if !ok || tid == uuid.Nil {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"valid tenant required"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
