package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authInfo struct {
	Issuer   string `json:"issuer"`
	ClientID string `json:"clientId"`
}

type accountHandler struct {
	responder      Responder
	logger         zerolog.Logger
	accountService AccountService
	userRepo       GatewayUserRepository
	authorityRepo  AuthorityRepository
	authInfo       authInfo
}

func newAccountHandler(appName string, accountService AccountService, userRepo GatewayUserRepository, authorityRepo AuthorityRepository, info authInfo) accountHandler {
	logger := log.With().Str("handlerName", "accountHandler").Logger()

	return accountHandler{
		responder:      NewResponder(logger, appName),
		logger:         logger,
		accountService: accountService,
		userRepo:       userRepo,
		authorityRepo:  authorityRepo,
		authInfo:       info,
	}
}

// getAccount returns the current user, synced from the identity provider
// @Summary Current account
// @Tags Account
// @Produce json
// @Success 200 {object} models.AdminUser
// @Failure 401 {object} Problem "Unauthorized"
// @Router /api/account [get]
func (h accountHandler) getAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := ctxGetPrincipal(r.Context())
		if !ok {
			h.responder.WriteError(w, r, errs.NewMissingTokenError())
			return
		}

		user, err := h.accountService.GetUserFromAuthentication(r.Context(), principal.Token, principal.Claims)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		h.logger.Debug().Str("login", user.Login).Msg("account synced")
		h.responder.WriteJSON(w, http.StatusOK, user.Admin())
	}
}

// isAuthenticated returns the login of the caller as plain text, or an
// empty body for anonymous callers.
func (h accountHandler) isAuthenticated() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if principal, ok := ctxGetPrincipal(r.Context()); ok {
			if _, err := w.Write([]byte(principal.Login)); err != nil {
				h.logger.Error().Err(err).Msg("error writing response")
			}
		}
	}
}

func (h accountHandler) getAuthInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, http.StatusOK, h.authInfo)
	}
}

// getAllUsers returns one page of full user records
// @Summary List users (admin)
// @Tags Users
// @Produce json
// @Success 200 {array} models.AdminUser
// @Failure 403 {object} Problem "Forbidden"
// @Router /api/admin/users [get]
func (h accountHandler) getAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		find := func(ctx context.Context, pageable models.Pageable) ([]models.AdminUser, error) {
			users, err := h.userRepo.FindAll(ctx, pageable)
			if err != nil {
				return nil, err
			}
			admins := make([]models.AdminUser, 0, len(users))
			for _, u := range users {
				admins = append(admins, u.Admin())
			}
			return admins, nil
		}

		page, err := fetchPage(r.Context(), parsePageable(r), h.userRepo.Count, find)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		writePaginationHeaders(w, r, page)
		h.responder.WriteJSON(w, http.StatusOK, page.Content)
	}
}

func (h accountHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.userRepo.FindOneByLogin(r.Context(), chi.URLParam(r, "login"))
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, user.Admin())
	}
}

func (h accountHandler) getAuthorities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := h.authorityRepo.FindAllNames(r.Context())
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, names)
	}
}
