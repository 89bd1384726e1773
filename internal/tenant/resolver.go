// Package tenant maps incoming hostnames onto tenants. Resolution is a
// total function: every hostname yields exactly one of Platform, Tenant, or
// None, and a miss is a valid answer, not an error. Store outages collapse
// to None as well, flagged Degraded for operators, so anonymous visitors
// always get a storefront instead of an error page.
package tenant

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"

	"github.com/vitrinhq/vitrin/internal/domain"
)

type Kind int

const (
	// KindNone means no active tenant matched; serve the default storefront.
	KindNone Kind = iota
	// KindPlatform means the hostname is the platform root domain itself.
	KindPlatform
	// KindTenant means exactly one active tenant matched.
	KindTenant
)

func (k Kind) String() string {
	switch k {
	case KindPlatform:
		return "platform"
	case KindTenant:
		return "tenant"
	default:
		return "none"
	}
}

// Resolution is the outcome of resolving one hostname. Degraded marks a None
// that was caused by a store failure rather than a genuine miss; callers
// render the same default experience either way.
type Resolution struct {
	Kind     Kind
	Tenant   *domain.Tenant
	Degraded bool
}

// TenantID returns the resolved tenant id, or uuid.Nil outside KindTenant.
func (r Resolution) TenantID() uuid.UUID {
	if r.Kind == KindTenant && r.Tenant != nil {
		return r.Tenant.ID
	}
	return uuid.Nil
}

type Resolver struct {
	tenants        domain.TenantRepository
	bindings       domain.DomainBindingRepository
	platformDomain string
	memo           *ttlcache.Cache[string, Resolution]
}

// NewResolver builds a resolver for one platform root domain. memoTTL > 0
// enables per-hostname memoization of clean results; degraded resolutions
// are never memoized so recovery is immediate.
func NewResolver(tenants domain.TenantRepository, bindings domain.DomainBindingRepository, platformDomain string, memoTTL time.Duration) *Resolver {
	r := &Resolver{
		tenants:        tenants,
		bindings:       bindings,
		platformDomain: strings.ToLower(platformDomain),
	}
	if memoTTL > 0 {
		r.memo = ttlcache.New(
			ttlcache.WithTTL[string, Resolution](memoTTL),
			ttlcache.WithDisableTouchOnHit[string, Resolution](),
		)
		go r.memo.Start()
	}
	return r
}

// Close stops the memoization janitor.
func (r *Resolver) Close() {
	if r.memo != nil {
		r.memo.Stop()
	}
}

// Normalize canonicalizes a hostname: strip any port, lowercase, and drop a
// single leading "www." label. Idempotent.
func Normalize(hostname string) string {
	if host, _, err := net.SplitHostPort(hostname); err == nil {
		hostname = host
	}
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	return strings.TrimPrefix(hostname, "www.")
}

// Resolve maps a hostname to its tenant. Priority order: platform root
// domain, verified custom-domain binding, platform subdomain, then None.
// A binding match is final: an inactive tenant behind a verified binding
// yields None without falling through to the subdomain rule.
func (r *Resolver) Resolve(ctx context.Context, hostname string) Resolution {
	host := Normalize(hostname)
	if host == "" {
		return Resolution{Kind: KindNone}
	}

	if r.memo != nil {
		if item := r.memo.Get(host); item != nil {
			return item.Value()
		}
	}

	res := r.lookup(ctx, host)

	if r.memo != nil && !res.Degraded {
		r.memo.Set(host, res, ttlcache.DefaultTTL)
	}
	return res
}

func (r *Resolver) lookup(ctx context.Context, host string) Resolution {
	if host == r.platformDomain {
		return Resolution{Kind: KindPlatform}
	}

	degraded := false

	binding, err := r.bindings.GetVerified(ctx, host)
	switch {
	case err == nil:
		t, terr := r.tenants.GetByID(ctx, binding.TenantID)
		if terr == nil && t.Active() {
			return Resolution{Kind: KindTenant, Tenant: t}
		}
		if terr != nil && !errors.Is(terr, domain.ErrNotFound) {
			log.Warn().Err(terr).Str("host", host).Msg("tenant lookup failed, serving default storefront")
			return Resolution{Kind: KindNone, Degraded: true}
		}
		// Verified binding pointing at a missing or inactive tenant.
		return Resolution{Kind: KindNone}
	case errors.Is(err, domain.ErrNotFound):
		// No binding; try the subdomain rule.
	default:
		log.Warn().Err(err).Str("host", host).Msg("domain binding lookup failed")
		degraded = true
	}

	if sub, ok := r.subdomainOf(host); ok {
		t, terr := r.tenants.GetBySubdomain(ctx, sub)
		if terr == nil && t.Active() {
			return Resolution{Kind: KindTenant, Tenant: t}
		}
		if terr != nil && !errors.Is(terr, domain.ErrNotFound) {
			log.Warn().Err(terr).Str("host", host).Str("subdomain", sub).Msg("subdomain lookup failed, serving default storefront")
			degraded = true
		}
	}

	return Resolution{Kind: KindNone, Degraded: degraded}
}

// subdomainOf extracts the leftmost label when host is a subdomain of the
// platform base domain with at least three labels.
func (r *Resolver) subdomainOf(host string) (string, bool) {
	if r.platformDomain == "" || !strings.HasSuffix(host, "."+r.platformDomain) {
		return "", false
	}
	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return "", false
	}
	return parts[0], true
}
