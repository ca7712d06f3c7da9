package api

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer = "https://idp.example.com/realms/jhipster"
	testKeyID  = "test-key"
)

// newJWKSServer serves the public half of key as a JWKS document, counting
// fetches in hits when it is non-nil.
func newJWKSServer(t *testing.T, key *rsa.PrivateKey, hits *atomic.Int64) *httptest.Server {
	t.Helper()

	public, err := jwk.FromRaw(key.Public())
	require.NoError(t, err)
	require.NoError(t, public.Set(jwk.KeyIDKey, testKeyID))
	require.NoError(t, public.Set(jwk.AlgorithmKey, jwa.RS256))

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(public))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(set))
	}))
	t.Cleanup(server.Close)
	return server
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	return signTokenWithKeyID(t, key, testKeyID, claims)
}

func signTokenWithKeyID(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":                testIssuer,
		"sub":                "4c973896-5761-41fc-8217-07c5d13a004b",
		"aud":                []string{"account"},
		"exp":                time.Now().Add(time.Hour).Unix(),
		"iat":                time.Now().Unix(),
		"preferred_username": "admin",
		"groups":             []string{"ROLE_ADMIN", "ROLE_USER", "offline_access"},
	}
}

func newTestVerifier(t *testing.T) (*JWTVerifier, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	server := newJWKSServer(t, key, nil)

	keys, err := NewKeySet(context.Background(), server.URL)
	require.NoError(t, err)
	return NewJWTVerifier(testIssuer, nil, keys.Keyfunc), key
}

func TestJWTVerifierAcceptsValidToken(t *testing.T) {
	verifier, key := newTestVerifier(t)

	principal, err := verifier.Verify(context.Background(), signToken(t, key, validClaims()))

	require.NoError(t, err)
	assert.Equal(t, "admin", principal.Login)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_USER"}, principal.Authorities)
	assert.True(t, principal.HasAuthority("ROLE_ADMIN"))
}

func TestJWTVerifierRejections(t *testing.T) {
	verifier, key := newTestVerifier(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   func() string
		expired bool
	}{
		{"expired", func() string {
			claims := validClaims()
			claims["exp"] = time.Now().Add(-time.Minute).Unix()
			return signToken(t, key, claims)
		}, true},
		{"wrong issuer", func() string {
			claims := validClaims()
			claims["iss"] = "https://evil.example.com"
			return signToken(t, key, claims)
		}, false},
		{"wrong audience", func() string {
			claims := validClaims()
			claims["aud"] = []string{"somebody-else"}
			return signToken(t, key, claims)
		}, false},
		{"missing expiry", func() string {
			claims := validClaims()
			delete(claims, "exp")
			return signToken(t, key, claims)
		}, false},
		{"wrong signature", func() string {
			return signToken(t, otherKey, validClaims())
		}, false},
		{"garbage", func() string { return "not-a-jwt" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), tt.token())

			require.Error(t, err)
			assert.Equal(t, tt.expired, errs.IsExpiredTokenError(err))
		})
	}
}

func TestUnknownKeyIDRefreshesAtMostOncePerInterval(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	var hits atomic.Int64
	server := newJWKSServer(t, key, &hits)

	keys, err := NewKeySet(context.Background(), server.URL)
	require.NoError(t, err)
	clock := time.Now()
	keys.now = func() time.Time { return clock }
	verifier := NewJWTVerifier(testIssuer, nil, keys.Keyfunc)
	fetched := hits.Load()

	for i := 0; i < 20; i++ {
		_, err := verifier.Verify(context.Background(), signTokenWithKeyID(t, key, fmt.Sprintf("unknown-%d", i), validClaims()))
		require.Error(t, err)
	}
	assert.Equal(t, fetched, hits.Load(), "no refresh right after startup")

	clock = clock.Add(forcedRefreshInterval)
	for i := 0; i < 20; i++ {
		_, err := verifier.Verify(context.Background(), signTokenWithKeyID(t, key, fmt.Sprintf("rotated-%d", i), validClaims()))
		require.Error(t, err)
	}
	assert.Equal(t, fetched+1, hits.Load(), "one refresh per interval")

	_, err = verifier.Verify(context.Background(), signToken(t, key, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, fetched+1, hits.Load())
}

func TestAccessFor(t *testing.T) {
	tests := []struct {
		path string
		want access
	}{
		{"/api/authenticate", accessPublic},
		{"/api/auth-info", accessPublic},
		{"/management/health", accessPublic},
		{"/management/health/readiness", accessPublic},
		{"/management/info", accessPublic},
		{"/management/prometheus", accessPublic},
		{"/index.html", accessPublic},
		{"/main.js", accessPublic},
		{"/favicon.ico", accessPublic},
		{"/app/main.css", accessPublic},
		{"/swagger-ui/index.html", accessPublic},
		{"/api/admin/users", accessAdmin},
		{"/management/loggers", accessAdmin},
		{"/v3/api-docs/blog", accessAdmin},
		{"/api/blogs", accessAuthenticated},
		{"/api/account", accessAuthenticated},
		{"/api/authorities", accessAuthenticated},
		{"/nested/file.js", accessPublic},
		{"/anything", accessPublic},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, accessFor(tt.path))
		})
	}
}

func TestSecurityMiddleware(t *testing.T) {
	var seen *Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ctxGetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := newSecurityMiddleware(BlogAppName, fakeVerifier{}).authenticate(next)

	tests := []struct {
		name          string
		path          string
		token         string
		wantStatus    int
		wantPrincipal string
	}{
		{"public without token", "/management/health", "", http.StatusOK, ""},
		{"public with token attaches principal", "/management/health", userToken, http.StatusOK, "user"},
		{"public with invalid token", "/management/health", "bogus", http.StatusUnauthorized, ""},
		{"protected without token", "/api/blogs", "", http.StatusUnauthorized, ""},
		{"protected with expired token", "/api/blogs", expiredToken, http.StatusUnauthorized, ""},
		{"protected with user", "/api/blogs", userToken, http.StatusOK, "user"},
		{"admin path with user", "/management/loggers", userToken, http.StatusForbidden, ""},
		{"admin path with admin", "/api/admin/users", adminToken, http.StatusOK, "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			rec := serve(handler, newRequest(http.MethodGet, tt.path, tt.token))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantPrincipal == "" {
				assert.Nil(t, seen)
			} else {
				require.NotNil(t, seen)
				assert.Equal(t, tt.wantPrincipal, seen.Login)
			}
			if rec.Code == http.StatusUnauthorized {
				assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := bearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "bearer abc")
	token, ok := bearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, ok = bearerToken(req)
	assert.False(t, ok)
}

func TestDiscoverProvider(t *testing.T) {
	var issuer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/.well-known/openid-configuration", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":            issuer,
			"jwks_uri":          issuer + "/protocol/openid-connect/certs",
			"userinfo_endpoint": issuer + "/protocol/openid-connect/userinfo",
		})
	}))
	defer server.Close()
	issuer = server.URL

	metadata, err := DiscoverProvider(context.Background(), issuer+"/")

	require.NoError(t, err)
	assert.Equal(t, issuer+"/protocol/openid-connect/certs", metadata.JWKSURI)
	assert.Equal(t, issuer+"/protocol/openid-connect/userinfo", metadata.UserInfoEndpoint)
}
