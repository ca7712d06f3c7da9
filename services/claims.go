package services

import (
	"strings"

	"github.com/rpupo63/jhipster-sample-services/models"
)

// Claim names read from access tokens and userinfo responses.
const (
	ClaimSubject           = "sub"
	ClaimPreferredUsername = "preferred_username"
	ClaimGroups            = "groups"
	ClaimRoles             = "roles"
	ClaimNamespacedRoles   = "https://www.jhipster.tech/roles"
	ClaimUpdatedAt         = "updated_at"
)

// ExtractAuthorities returns the ROLE_ prefixed values of the first of the
// groups, roles or namespaced roles claims that is present.
func ExtractAuthorities(claims map[string]any) []string {
	var raw any
	for _, name := range []string{ClaimGroups, ClaimRoles, ClaimNamespacedRoles} {
		if value, ok := claims[name]; ok && value != nil {
			raw = value
			break
		}
	}

	authorities := []string{}
	for _, value := range stringValues(raw) {
		if strings.HasPrefix(value, models.RolePrefix) {
			authorities = append(authorities, value)
		}
	}
	return authorities
}

// LoginFromClaims prefers preferred_username and falls back to sub.
func LoginFromClaims(claims map[string]any) string {
	if login, ok := claims[ClaimPreferredUsername].(string); ok && login != "" {
		return login
	}
	if sub, ok := claims[ClaimSubject].(string); ok {
		return sub
	}
	return ""
}

func stringValues(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return values
	}
	return nil
}

func stringClaim(claims map[string]any, name string) string {
	if value, ok := claims[name].(string); ok {
		return value
	}
	return ""
}
