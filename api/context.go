package api

import (
	"context"
	"slices"

	"github.com/rpupo63/jhipster-sample-services/models"
)

type keyType string

const principalKey keyType = "principal"

// Principal is the authenticated caller, built from a verified access token.
type Principal struct {
	Login       string
	Subject     string
	Authorities []string
	Claims      map[string]any
	Token       string
}

func (p *Principal) HasAuthority(authority string) bool {
	return p != nil && slices.Contains(p.Authorities, authority)
}

// ctxWithPrincipal adds the authenticated principal to the context
func ctxWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// ctxGetPrincipal retrieves the principal, if the request carried a valid token
func ctxGetPrincipal(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*Principal)
	return principal, ok && principal != nil
}

// ctxGetAuditor returns the login to record in audit fields.
func ctxGetAuditor(ctx context.Context) string {
	if principal, ok := ctxGetPrincipal(ctx); ok && principal.Login != "" {
		return principal.Login
	}
	return models.SystemAccount
}
