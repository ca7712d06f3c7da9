package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	appName   string
	postRepo  PostRepository
}

func newPostHandler(appName string, postRepo PostRepository) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger, appName),
		logger:    logger,
		appName:   appName,
		postRepo:  postRepo,
	}
}

// createPost creates a new post
// @Summary Create post
// @Tags Posts
// @Accept json
// @Produce json
// @Param post body models.Post true "Post without id"
// @Success 201 {object} models.Post
// @Router /api/posts [post]
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var post models.Post
		if err := decodeJSON(w, r, &post); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkCreateID(post.ID, entityPost, "post"); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := post.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.postRepo.Save(r.Context(), &post)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		w.Header().Set("Location", "/api/posts/"+saved.ID)
		entityAlert(w, h.appName, entityPost, alertCreated, saved.ID)
		h.responder.WriteJSON(w, http.StatusCreated, saved)
	}
}

// updatePost replaces a post together with its blog and tag links
// @Summary Update post
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Router /api/posts/{id} [put]
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var post models.Post
		if err := decodeJSON(w, r, &post); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkUpdateID(r.Context(), id, &post.ID, entityPost, h.postRepo.ExistsByID); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := post.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.postRepo.Save(r.Context(), &post)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		entityAlert(w, h.appName, entityPost, alertUpdated, saved.ID)
		h.responder.WriteJSON(w, http.StatusOK, saved)
	}
}

func (h postHandler) partialUpdatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requirePatchContentType(r); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		id := chi.URLParam(r, "id")

		var patch models.PostPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkUpdateID(r.Context(), id, patch.ID, entityPost, h.postRepo.ExistsByID); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		post, err := h.postRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		patch.ApplyTo(post)
		if err := post.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.postRepo.Save(r.Context(), post)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		entityAlert(w, h.appName, entityPost, alertUpdated, saved.ID)
		h.responder.WriteJSON(w, http.StatusOK, saved)
	}
}

// getAllPosts returns one page of posts
// @Summary List posts
// @Tags Posts
// @Produce json
// @Param page query int false "Zero-based page"
// @Param size query int false "Page size"
// @Param sort query string false "property,(asc|desc)"
// @Success 200 {array} models.Post
// @Router /api/posts [get]
func (h postHandler) getAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := fetchPage(r.Context(), parsePageable(r), h.postRepo.Count, h.postRepo.FindPage)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		writePaginationHeaders(w, r, page)
		h.responder.WriteJSON(w, http.StatusOK, page.Content)
	}
}

func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.postRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, post)
	}
}

func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.postRepo.DeleteByID(r.Context(), id); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		entityAlert(w, h.appName, entityPost, alertDeleted, id)
		h.responder.WriteNoContent(w)
	}
}
