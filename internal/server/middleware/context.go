package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/vitrinhq/vitrin/internal/tenant"
)

type contextKey string

const (
	ContextKeyResolution contextKey = "resolution"
	ContextKeyTenantID   contextKey = "tenant_id"
	ContextKeyUserID     contextKey = "user_id"
	ContextKeyUserRole   contextKey = "role"
)

// ResolutionFromContext returns the hostname resolution recorded by
// ResolveTenant. Absent means the middleware did not run.
func ResolutionFromContext(ctx context.Context) (tenant.Resolution, bool) {
	v, ok := ctx.Value(ContextKeyResolution).(tenant.Resolution)
	return v, ok
}

func TenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyTenantID).(uuid.UUID)
	return v, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyUserRole).(string)
	return v, ok
}
