package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder Responder
	appName   string
	tagRepo   TagRepository
}

func newTagHandler(appName string, tagRepo TagRepository) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger, appName),
		appName:   appName,
		tagRepo:   tagRepo,
	}
}

func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var tag models.Tag
		if err := decodeJSON(w, r, &tag); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkCreateID(tag.ID, entityTag, "tag"); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := tag.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.tagRepo.Save(r.Context(), &tag)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		w.Header().Set("Location", "/api/tags/"+saved.ID)
		entityAlert(w, h.appName, entityTag, alertCreated, saved.ID)
		h.responder.WriteJSON(w, http.StatusCreated, saved)
	}
}

func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var tag models.Tag
		if err := decodeJSON(w, r, &tag); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkUpdateID(r.Context(), id, &tag.ID, entityTag, h.tagRepo.ExistsByID); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := tag.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.tagRepo.Save(r.Context(), &tag)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		entityAlert(w, h.appName, entityTag, alertUpdated, saved.ID)
		h.responder.WriteJSON(w, http.StatusOK, saved)
	}
}

func (h tagHandler) partialUpdateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requirePatchContentType(r); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		id := chi.URLParam(r, "id")

		var patch models.TagPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkUpdateID(r.Context(), id, patch.ID, entityTag, h.tagRepo.ExistsByID); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		tag, err := h.tagRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		patch.ApplyTo(tag)
		if err := tag.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.tagRepo.Save(r.Context(), tag)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		entityAlert(w, h.appName, entityTag, alertUpdated, saved.ID)
		h.responder.WriteJSON(w, http.StatusOK, saved)
	}
}

func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := fetchPage(r.Context(), parsePageable(r), h.tagRepo.Count, h.tagRepo.FindPage)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		writePaginationHeaders(w, r, page)
		h.responder.WriteJSON(w, http.StatusOK, page.Content)
	}
}

func (h tagHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag, err := h.tagRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, tag)
	}
}

func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.tagRepo.DeleteByID(r.Context(), id); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		entityAlert(w, h.appName, entityTag, alertDeleted, id)
		h.responder.WriteNoContent(w)
	}
}
