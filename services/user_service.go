package services

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLangKey = "en"

type UserStore interface {
	FindOneByLogin(ctx context.Context, login string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type AuthorityStore interface {
	FindAllNames(ctx context.Context) ([]string, error)
	Save(ctx context.Context, authority *models.Authority) error
}

// UserInfoFetcher calls the identity provider's userinfo endpoint on behalf
// of the token holder.
type UserInfoFetcher interface {
	FetchUserInfo(ctx context.Context, accessToken string) (map[string]any, error)
}

// UserService mirrors identity provider accounts into the local user table.
type UserService struct {
	users       UserStore
	authorities AuthorityStore
	userInfo    UserInfoFetcher
	now         func() time.Time
	logger      zerolog.Logger
}

// NewUserService returns a UserService. userInfo may be nil, in which case
// only the token claims are used.
func NewUserService(users UserStore, authorities AuthorityStore, userInfo UserInfoFetcher) *UserService {
	return &UserService{
		users:       users,
		authorities: authorities,
		userInfo:    userInfo,
		now:         time.Now,
		logger:      log.With().Str("service", "userService").Logger(),
	}
}

// GetUserFromAuthentication builds the account described by the token
// claims, syncs it to the local store and returns it.
func (s *UserService) GetUserFromAuthentication(ctx context.Context, accessToken string, claims map[string]any) (*models.User, error) {
	attributes := maps.Clone(claims)
	if attributes == nil {
		attributes = map[string]any{}
	}

	if _, ok := attributes[ClaimPreferredUsername]; !ok && s.userInfo != nil && accessToken != "" {
		info, err := s.userInfo.FetchUserInfo(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		// Token claims win over userinfo values.
		for key, value := range info {
			if _, exists := attributes[key]; !exists {
				attributes[key] = value
			}
		}
	}

	user := UserFromClaims(attributes)
	if user.Login == "" {
		return nil, errs.NewUnauthorizedError("token has no subject")
	}

	if err := s.syncUserWithIdP(ctx, attributes, user); err != nil {
		return nil, err
	}
	return user, nil
}

// syncUserWithIdP creates unknown authorities, then creates the user or
// updates it when the identity provider holds a newer version.
func (s *UserService) syncUserWithIdP(ctx context.Context, attributes map[string]any, user *models.User) error {
	known, err := s.authorities.FindAllNames(ctx)
	if err != nil {
		return err
	}
	for _, authority := range user.Authorities {
		if slices.Contains(known, authority.Name) {
			continue
		}
		s.logger.Debug().Str("authority", authority.Name).Msg("saving authority")
		if err := s.authorities.Save(ctx, &models.Authority{Name: authority.Name}); err != nil {
			return err
		}
	}

	existing, err := s.users.FindOneByLogin(ctx, user.Login)
	switch {
	case errs.IsNotFound(err):
		s.logger.Debug().Str("login", user.Login).Msg("saving user")
		user.StampCreated(user.Login, s.now())
		return s.users.Create(ctx, user)
	case err != nil:
		return err
	}

	idpModified, hasUpdatedAt := updatedAt(attributes)
	if hasUpdatedAt && !idpModified.After(existing.LastModifiedDate) {
		user.Auditing = existing.Auditing
		return nil
	}

	s.logger.Debug().Str("login", user.Login).Time("idpModified", idpModified).Msg("updating user")
	user.ID = existing.ID
	user.StampModified(existing.Auditing, user.Login, s.now())
	return s.users.Update(ctx, user)
}

// UserFromClaims maps OIDC claims onto a user.
func UserFromClaims(claims map[string]any) *models.User {
	user := &models.User{Activated: true}

	user.ID = stringClaim(claims, "uid")
	if user.ID == "" {
		user.ID = stringClaim(claims, ClaimSubject)
	}

	if login := stringClaim(claims, ClaimPreferredUsername); login != "" {
		user.Login = strings.ToLower(login)
	} else {
		user.Login = user.ID
	}

	user.FirstName = stringClaim(claims, "given_name")
	if user.FirstName == "" {
		user.FirstName = stringClaim(claims, "name")
	}
	user.LastName = stringClaim(claims, "family_name")

	if verified, ok := claims["email_verified"].(bool); ok {
		user.Activated = verified
	}

	if email := stringClaim(claims, "email"); email != "" {
		user.Email = strings.ToLower(email)
	} else {
		user.Email = stringClaim(claims, ClaimSubject)
	}

	switch {
	case stringClaim(claims, "langKey") != "":
		user.LangKey = stringClaim(claims, "langKey")
	case stringClaim(claims, "locale") != "":
		locale := stringClaim(claims, "locale")
		// "en_US" and "en-US" both become "en".
		if i := strings.IndexAny(locale, "_-"); i > 0 {
			locale = locale[:i]
		}
		user.LangKey = strings.ToLower(locale)
	default:
		user.LangKey = defaultLangKey
	}

	user.ImageURL = stringClaim(claims, "picture")

	for _, name := range ExtractAuthorities(claims) {
		user.Authorities = append(user.Authorities, models.Authority{Name: name})
	}
	return user
}

// updatedAt reads the updated_at claim, sent either as epoch seconds or as
// an RFC 3339 string.
func updatedAt(claims map[string]any) (time.Time, bool) {
	switch v := claims[ClaimUpdatedAt].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	case int:
		return time.Unix(int64(v), 0), true
	case json.Number:
		if secs, err := v.Int64(); err == nil {
			return time.Unix(secs, 0), true
		}
	case time.Time:
		return v, true
	case string:
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(secs, 0), true
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
