package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogHandler struct {
	responder Responder
	logger    zerolog.Logger
	appName   string
	blogRepo  BlogRepository
	userRepo  BlogUserRepository
}

func newBlogHandler(appName string, blogRepo BlogRepository, userRepo BlogUserRepository) blogHandler {
	logger := log.With().Str("handlerName", "blogHandler").Logger()

	return blogHandler{
		responder: NewResponder(logger, appName),
		logger:    logger,
		appName:   appName,
		blogRepo:  blogRepo,
		userRepo:  userRepo,
	}
}

// createBlog creates a new blog
// @Summary Create blog
// @Tags Blogs
// @Accept json
// @Produce json
// @Param blog body models.Blog true "Blog without id"
// @Success 201 {object} models.Blog
// @Failure 400 {object} Problem "Bad Request - id present or invalid fields"
// @Router /api/blogs [post]
func (h blogHandler) createBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var blog models.Blog
		if err := decodeJSON(w, r, &blog); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkCreateID(blog.ID, entityBlog, "blog"); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := blog.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.save(r, &blog)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		w.Header().Set("Location", "/api/blogs/"+saved.ID)
		entityAlert(w, h.appName, entityBlog, alertCreated, saved.ID)
		h.responder.WriteJSON(w, http.StatusCreated, saved)
	}
}

// updateBlog replaces an existing blog
// @Summary Update blog
// @Tags Blogs
// @Accept json
// @Produce json
// @Param id path string true "Blog ID"
// @Param blog body models.Blog true "Blog with matching id"
// @Success 200 {object} models.Blog
// @Failure 400 {object} Problem "Bad Request - idnull, idinvalid, idnotfound or invalid fields"
// @Router /api/blogs/{id} [put]
func (h blogHandler) updateBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var blog models.Blog
		if err := decodeJSON(w, r, &blog); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkUpdateID(r.Context(), id, &blog.ID, entityBlog, h.blogRepo.ExistsByID); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := blog.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.save(r, &blog)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		entityAlert(w, h.appName, entityBlog, alertUpdated, saved.ID)
		h.responder.WriteJSON(w, http.StatusOK, saved)
	}
}

// partialUpdateBlog merges the fields present in the body into a blog
// @Summary Partially update blog
// @Tags Blogs
// @Accept json
// @Accept application/merge-patch+json
// @Produce json
// @Param id path string true "Blog ID"
// @Success 200 {object} models.Blog
// @Failure 404 {object} Problem "Not Found"
// @Failure 415 {object} Problem "Unsupported Media Type"
// @Router /api/blogs/{id} [patch]
func (h blogHandler) partialUpdateBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requirePatchContentType(r); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		id := chi.URLParam(r, "id")

		var patch models.BlogPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkUpdateID(r.Context(), id, patch.ID, entityBlog, h.blogRepo.ExistsByID); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		blog, err := h.blogRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		patch.ApplyTo(blog)
		if err := blog.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.save(r, blog)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		entityAlert(w, h.appName, entityBlog, alertUpdated, saved.ID)
		h.responder.WriteJSON(w, http.StatusOK, saved)
	}
}

// getAllBlogs lists every blog, or streams them as NDJSON when asked to
// @Summary List blogs
// @Tags Blogs
// @Produce json
// @Produce application/x-ndjson
// @Success 200 {array} models.Blog
// @Router /api/blogs [get]
func (h blogHandler) getAllBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if acceptsNDJSON(r) {
			h.streamBlogs(w, r)
			return
		}

		blogs, err := h.blogRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, blogs)
	}
}

// streamBlogs writes one JSON document per line, flushing after each so
// clients see rows as they are read.
func (h blogHandler) streamBlogs(w http.ResponseWriter, r *http.Request) {
	controller := http.NewResponseController(w)
	encoder := json.NewEncoder(w)
	started := false

	err := h.blogRepo.StreamAll(r.Context(), func(blog *models.Blog) error {
		if !started {
			w.Header().Set("Content-Type", contentTypeNDJSON)
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if err := encoder.Encode(blog); err != nil {
			return err
		}
		if err := controller.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
		return nil
	})

	switch {
	case err != nil && !started:
		h.responder.WriteError(w, r, err)
	case err != nil:
		h.logger.Error().Err(err).Msg("blog stream aborted")
	case !started:
		w.Header().Set("Content-Type", contentTypeNDJSON)
		w.WriteHeader(http.StatusOK)
	}
}

// getBlog returns a blog by id
// @Summary Get blog
// @Tags Blogs
// @Produce json
// @Param id path string true "Blog ID"
// @Success 200 {object} models.Blog
// @Failure 404 {object} Problem "Not Found"
// @Router /api/blogs/{id} [get]
func (h blogHandler) getBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blog, err := h.blogRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, blog)
	}
}

// deleteBlog removes a blog; deleting a missing blog still succeeds
// @Summary Delete blog
// @Tags Blogs
// @Param id path string true "Blog ID"
// @Success 204
// @Router /api/blogs/{id} [delete]
func (h blogHandler) deleteBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.blogRepo.DeleteByID(r.Context(), id); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		entityAlert(w, h.appName, entityBlog, alertDeleted, id)
		h.responder.WriteNoContent(w)
	}
}

// save upserts the referenced user before the blog so that the owner link
// can be created.
func (h blogHandler) save(r *http.Request, blog *models.Blog) (*models.Blog, error) {
	if blog.User != nil && blog.User.ID != "" {
		if err := h.userRepo.Save(r.Context(), *blog.User); err != nil {
			return nil, err
		}
	}
	return h.blogRepo.Save(r.Context(), blog)
}
