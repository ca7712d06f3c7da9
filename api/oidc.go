package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/rpupo63/jhipster-sample-services/config"
	"github.com/rs/zerolog/log"
)

// ProviderMetadata is the subset of the OpenID discovery document we use.
type ProviderMetadata struct {
	Issuer           string `json:"issuer"`
	JWKSURI          string `json:"jwks_uri"`
	UserInfoEndpoint string `json:"userinfo_endpoint"`
}

// DiscoverProvider reads {issuer}/.well-known/openid-configuration.
func DiscoverProvider(ctx context.Context, issuer string) (*ProviderMetadata, error) {
	wellKnown := strings.TrimSuffix(issuer, "/") + "/.well-known/openid-configuration"

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wellKnown, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach issuer %s: %w", issuer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery document at %s returned status %d", wellKnown, resp.StatusCode)
	}

	var metadata ProviderMetadata
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("could not decode discovery document: %w", err)
	}
	if metadata.JWKSURI == "" {
		return nil, fmt.Errorf("discovery document at %s has no jwks_uri", wellKnown)
	}
	return &metadata, nil
}

// NewVerifierFromConfig discovers the issuer named by OIDC_ISSUER_URI and
// returns a verifier backed by its JWKS, along with the discovery document.
func NewVerifierFromConfig(ctx context.Context, c map[string]string) (*JWTVerifier, *ProviderMetadata, error) {
	issuer := config.GetString(c, "OIDC_ISSUER_URI", "")
	if issuer == "" {
		return nil, nil, fmt.Errorf("OIDC_ISSUER_URI is not set")
	}

	metadata, err := DiscoverProvider(ctx, issuer)
	if err != nil {
		return nil, nil, err
	}
	keys, err := NewKeySet(ctx, metadata.JWKSURI)
	if err != nil {
		return nil, nil, err
	}

	audiences := config.GetStrings(c, "OAUTH2_AUDIENCE", DefaultAudiences)
	log.Info().Str("issuer", issuer).Strs("audiences", audiences).Msg("Resource server configured")
	return NewJWTVerifier(issuer, audiences, keys.Keyfunc), metadata, nil
}

// forcedRefreshInterval is the minimum time between JWKS fetches caused by
// tokens naming an unknown kid.
const forcedRefreshInterval = 30 * time.Second

// KeySet resolves token signing keys from a cached, auto-refreshed JWKS.
type KeySet struct {
	cache *jwk.Cache
	url   string
	now   func() time.Time

	mu          sync.Mutex
	lastRefresh time.Time
}

// NewKeySet registers jwksURL with a background-refreshing cache and loads
// it once so that startup fails fast on a bad URL.
func NewKeySet(ctx context.Context, jwksURL string) (*KeySet, error) {
	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, fmt.Errorf("could not register JWKS %s: %w", jwksURL, err)
	}
	if _, err := cache.Refresh(ctx, jwksURL); err != nil {
		return nil, fmt.Errorf("could not fetch JWKS %s: %w", jwksURL, err)
	}
	return &KeySet{cache: cache, url: jwksURL, now: time.Now, lastRefresh: time.Now()}, nil
}

// Keyfunc returns the public key named by the token's kid header. An
// unknown kid triggers a refresh, which picks up rotated keys, at most once
// per forcedRefreshInterval.
func (k *KeySet) Keyfunc(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)
	ctx := context.Background()

	set, err := k.cache.Get(ctx, k.url)
	if err != nil {
		return nil, err
	}
	key, ok := set.LookupKeyID(kid)
	if !ok && k.claimRefresh() {
		log.Debug().Str("kid", kid).Msg("unknown signing key, refreshing JWKS")
		if set, err = k.cache.Refresh(ctx, k.url); err != nil {
			return nil, err
		}
		key, ok = set.LookupKeyID(kid)
	}
	if !ok {
		return nil, fmt.Errorf("no signing key with kid %q", kid)
	}

	var raw interface{}
	if err := key.Raw(&raw); err != nil {
		return nil, fmt.Errorf("could not read signing key %q: %w", kid, err)
	}
	return raw, nil
}

// claimRefresh reports whether a forced refresh may run now and, if so,
// records it.
func (k *KeySet) claimRefresh() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := k.now()
	if now.Sub(k.lastRefresh) < forcedRefreshInterval {
		return false
	}
	k.lastRefresh = now
	return true
}
