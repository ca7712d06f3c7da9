package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// productHandler serves the store catalogue. Audit stamps are always set
// by the repository from the caller's login.
type productHandler struct {
	responder   Responder
	logger      zerolog.Logger
	appName     string
	productRepo ProductRepository
}

func newProductHandler(appName string, productRepo ProductRepository) productHandler {
	logger := log.With().Str("handlerName", "productHandler").Logger()

	return productHandler{
		responder:   NewResponder(logger, appName),
		logger:      logger,
		appName:     appName,
		productRepo: productRepo,
	}
}

// createProduct creates a new product
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Param product body models.Product true "Product without id"
// @Success 201 {object} models.Product
// @Failure 400 {object} Problem "Bad Request"
// @Router /api/products [post]
func (h productHandler) createProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var product models.Product
		if err := decodeJSON(w, r, &product); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkCreateID(product.ID, entityProduct, "product"); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := product.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.productRepo.Save(r.Context(), &product, ctxGetAuditor(r.Context()))
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		h.logger.Debug().Str("productID", saved.ID).Str("createdBy", saved.CreatedBy).Msg("product created")
		w.Header().Set("Location", "/api/products/"+saved.ID)
		entityAlert(w, h.appName, entityProduct, alertCreated, saved.ID)
		h.responder.WriteJSON(w, http.StatusCreated, saved)
	}
}

// updateProduct replaces a product
// @Summary Update product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Router /api/products/{id} [put]
func (h productHandler) updateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var product models.Product
		if err := decodeJSON(w, r, &product); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkUpdateID(r.Context(), id, &product.ID, entityProduct, h.productRepo.ExistsByID); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := product.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.productRepo.Save(r.Context(), &product, ctxGetAuditor(r.Context()))
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		entityAlert(w, h.appName, entityProduct, alertUpdated, saved.ID)
		h.responder.WriteJSON(w, http.StatusOK, saved)
	}
}

// partialUpdateProduct merges the fields present in the body into a product
// @Summary Partially update product
// @Tags Products
// @Accept json
// @Accept application/merge-patch+json
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 415 {object} Problem "Unsupported Media Type"
// @Router /api/products/{id} [patch]
func (h productHandler) partialUpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requirePatchContentType(r); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		id := chi.URLParam(r, "id")

		var patch models.ProductPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		if err := checkUpdateID(r.Context(), id, patch.ID, entityProduct, h.productRepo.ExistsByID); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		product, err := h.productRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		patch.ApplyTo(product)
		if err := product.Validate(); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		saved, err := h.productRepo.Save(r.Context(), product, ctxGetAuditor(r.Context()))
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		entityAlert(w, h.appName, entityProduct, alertUpdated, saved.ID)
		h.responder.WriteJSON(w, http.StatusOK, saved)
	}
}

// getAllProducts returns one page of products
// @Summary List products
// @Tags Products
// @Produce json
// @Param page query int false "Zero-based page"
// @Param size query int false "Page size"
// @Param sort query string false "property,(asc|desc)"
// @Success 200 {array} models.Product
// @Router /api/products [get]
func (h productHandler) getAllProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := fetchPage(r.Context(), parsePageable(r), h.productRepo.Count, h.productRepo.FindPage)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		writePaginationHeaders(w, r, page)
		h.responder.WriteJSON(w, http.StatusOK, page.Content)
	}
}

func (h productHandler) getProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := h.productRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, product)
	}
}

func (h productHandler) deleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.productRepo.DeleteByID(r.Context(), id); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		entityAlert(w, h.appName, entityProduct, alertDeleted, id)
		h.responder.WriteNoContent(w)
	}
}
