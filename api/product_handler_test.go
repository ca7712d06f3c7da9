package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreRouter(products *fakeProductRepo) *chi.Mux {
	return newRouter(
		withAppName(StoreAppName),
		WithConfig(map[string]string{}),
		WithVerifier(fakeVerifier{}),
		WithHealthCheck("mongo", fakePinger{}),
		WithProductRepository(products),
	)
}

func TestCreateProductStampsAuditFields(t *testing.T) {
	products := newFakeProductRepo()
	router := newStoreRouter(products)

	rec := do(t, router, http.MethodPost, "/api/products", userToken, contentTypeJSON,
		`{"title":"AAAAAAAAAA","price":1,"image":"AQID","imageContentType":"image/png","createdBy":"mallory"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	product := decodeBody[models.Product](t, rec.Body.String())
	assert.Equal(t, "user", product.CreatedBy)
	assert.Equal(t, "user", product.LastModifiedBy)
	assert.Equal(t, []byte{1, 2, 3}, product.Image)
	assert.Equal(t, "storeApp.storeProduct.created", rec.Header().Get("X-storeApp-alert"))
	assert.Equal(t, []string{"user"}, products.auditors)
}

func TestCreateProductValidation(t *testing.T) {
	router := newStoreRouter(newFakeProductRepo())

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing title", `{"price":1}`, "title"},
		{"missing price", `{"title":"AAAAAAAAAA"}`, "price"},
		{"negative price", `{"title":"AAAAAAAAAA","price":-1}`, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/products", userToken, contentTypeJSON, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.field, decodeBody[Problem](t, rec.Body.String()).Field)
		})
	}
}

func TestPartialUpdateProduct(t *testing.T) {
	products := newFakeProductRepo()
	router := newStoreRouter(products)
	price := 1.0
	existing, _ := products.Save(context.Background(), &models.Product{Title: "AAAAAAAAAA", Price: &price}, "creator")

	rec := do(t, router, http.MethodPatch, "/api/products/"+existing.ID, adminToken, contentTypeMergePatch,
		`{"id":"`+existing.ID+`","price":2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	patched := decodeBody[models.Product](t, rec.Body.String())
	assert.Equal(t, "AAAAAAAAAA", patched.Title)
	require.NotNil(t, patched.Price)
	assert.InDelta(t, 2.0, *patched.Price, 0.0001)
	assert.Equal(t, "creator", patched.CreatedBy)
	assert.Equal(t, "admin", patched.LastModifiedBy)
	assert.Equal(t, "storeApp.storeProduct.updated", rec.Header().Get("X-storeApp-alert"))
}

func TestUpdateProductUnknownID(t *testing.T) {
	router := newStoreRouter(newFakeProductRepo())

	rec := do(t, router, http.MethodPut, "/api/products/65f000000000000000000001", userToken, contentTypeJSON,
		`{"id":"65f000000000000000000001","title":"AAAAAAAAAA","price":1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error.idnotfound", rec.Header().Get("X-storeApp-error"))
	assert.Equal(t, "storeProduct", rec.Header().Get("X-storeApp-params"))
}

func TestGetAllProductsAndDelete(t *testing.T) {
	products := newFakeProductRepo()
	router := newStoreRouter(products)
	price := 1.0
	for range 3 {
		_, _ = products.Save(context.Background(), &models.Product{Title: "AAAAAAAAAA", Price: &price}, "creator")
	}

	rec := do(t, router, http.MethodGet, "/api/products?size=2", userToken, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-Total-Count"))
	list := decodeBody[[]models.Product](t, rec.Body.String())
	require.Len(t, list, 2)

	rec = do(t, router, http.MethodDelete, "/api/products/"+list[0].ID, userToken, "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.EqualValues(t, 2, products.table.count())
}

func TestStoreDoesNotMountBlogRoutes(t *testing.T) {
	router := newStoreRouter(newFakeProductRepo())

	rec := do(t, router, http.MethodGet, "/api/blogs", userToken, "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
