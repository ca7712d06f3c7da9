package api

import (
	"context"
	"errors"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/rpupo63/jhipster-sample-services/services"
	"github.com/rs/zerolog/log"
)

// DefaultAudiences are accepted when no audience is configured.
var DefaultAudiences = []string{"account", "api://default"}

// TokenVerifier turns a raw bearer token into a principal.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Principal, error)
}

// JWTVerifier checks signature, expiry, issuer and audience of access tokens.
type JWTVerifier struct {
	issuer    string
	audiences []string
	keyfunc   jwt.Keyfunc
}

func NewJWTVerifier(issuer string, audiences []string, keyfunc jwt.Keyfunc) *JWTVerifier {
	if len(audiences) == 0 {
		audiences = DefaultAudiences
	}
	return &JWTVerifier{issuer: issuer, audiences: audiences, keyfunc: keyfunc}
}

func (v *JWTVerifier) Verify(_ context.Context, rawToken string) (*Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512"}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, v.keyfunc, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError(err)
	}
	if !token.Valid {
		return nil, errs.NewInvalidTokenError(nil)
	}

	audiences, err := claims.GetAudience()
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}
	if !slices.ContainsFunc(audiences, func(aud string) bool { return slices.Contains(v.audiences, aud) }) {
		return nil, errs.NewInvalidTokenError(errors.New("the required audience is missing"))
	}

	return principalFromClaims(rawToken, claims), nil
}

func principalFromClaims(rawToken string, claims map[string]any) *Principal {
	subject, _ := claims[services.ClaimSubject].(string)
	return &Principal{
		Login:       services.LoginFromClaims(claims),
		Subject:     subject,
		Authorities: services.ExtractAuthorities(claims),
		Claims:      claims,
		Token:       rawToken,
	}
}

type access int

const (
	accessPublic access = iota
	accessAuthenticated
	accessAdmin
)

var publicPaths = []string{
	"/api/authenticate",
	"/api/auth-info",
	"/management/health",
	"/management/info",
	"/management/prometheus",
	"/index.html",
}

var publicPrefixes = []string{"/management/health/", "/app/", "/i18n/", "/content/", "/swagger-ui/"}

var publicAssetExtensions = []string{".js", ".txt", ".json", ".map", ".css", ".ico", ".png", ".svg", ".webapp"}

// accessFor returns the access level a request path requires. Rules are
// checked in order and the first match wins; unmatched paths are public.
func accessFor(p string) access {
	switch {
	case slices.Contains(publicPaths, p):
		return accessPublic
	case hasAnyPrefix(p, publicPrefixes):
		return accessPublic
	case isRootAsset(p):
		return accessPublic
	case p == "/api/admin" || strings.HasPrefix(p, "/api/admin/"):
		return accessAdmin
	case p == "/api" || strings.HasPrefix(p, "/api/"):
		return accessAuthenticated
	case p == "/v3/api-docs" || strings.HasPrefix(p, "/v3/api-docs/"):
		return accessAdmin
	case p == "/management" || strings.HasPrefix(p, "/management/"):
		return accessAdmin
	}
	return accessPublic
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// isRootAsset matches single-segment static files such as /main.js.
func isRootAsset(p string) bool {
	return strings.Count(p, "/") == 1 && slices.Contains(publicAssetExtensions, path.Ext(p))
}

type securityMiddleware struct {
	responder Responder
	verifier  TokenVerifier
}

func newSecurityMiddleware(appName string, verifier TokenVerifier) securityMiddleware {
	logger := log.With().Str("handlerName", "securityMiddleware").Logger()
	return securityMiddleware{
		responder: NewResponder(logger, appName),
		verifier:  verifier,
	}
}

// authenticate verifies a bearer token when one is sent and enforces the
// path rules. A token that fails verification is rejected on any path.
func (m securityMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		required := accessFor(r.URL.Path)

		rawToken, hasToken := bearerToken(r)
		if !hasToken {
			if required != accessPublic {
				m.responder.WriteError(w, r, errs.NewMissingTokenError())
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if m.verifier == nil {
			m.responder.WriteError(w, r, errs.NewInvalidTokenError(errors.New("no token verifier configured")))
			return
		}
		principal, err := m.verifier.Verify(r.Context(), rawToken)
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
			m.responder.WriteError(w, r, err)
			return
		}

		if required == accessAdmin && !principal.HasAuthority(models.RoleAdmin) {
			m.responder.WriteError(w, r, errs.NewInsufficientRoleError(models.RoleAdmin))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authHeader[7:])
	return token, token != ""
}
