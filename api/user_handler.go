package api

import (
	"context"
	"net/http"

	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder Responder
	userRepo  PublicUserRepository
}

func newUserHandler(appName string, userRepo PublicUserRepository) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger, appName),
		userRepo:  userRepo,
	}
}

// getAllPublicUsers lists activated users as {id, login}
// @Summary List public users
// @Tags Users
// @Produce json
// @Param page query int false "Zero-based page"
// @Param size query int false "Page size"
// @Param sort query string false "id or login, (asc|desc)"
// @Success 200 {array} models.PublicUser
// @Router /api/users [get]
func (h userHandler) getAllPublicUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := fetchPage(r.Context(), parsePageable(r), h.userRepo.CountActivated, h.userRepo.FindAllActivated)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		writePaginationHeaders(w, r, page)
		h.responder.WriteJSON(w, http.StatusOK, page.Content)
	}
}

// publicUsers projects the gateway's full user rows onto {id, login}.
type publicUsers struct {
	users GatewayUserRepository
}

func (p publicUsers) FindAllActivated(ctx context.Context, pageable models.Pageable) ([]models.PublicUser, error) {
	users, err := p.users.FindAllActivated(ctx, pageable)
	if err != nil {
		return nil, err
	}
	public := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	return public, nil
}

func (p publicUsers) CountActivated(ctx context.Context) (int64, error) {
	return p.users.CountActivated(ctx)
}
