package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	f := newBlogFixture()
	tag, _ := f.tags.Save(context.Background(), &models.Tag{Name: "go"})

	rec := do(t, f.router, http.MethodPost, "/api/posts", userToken, contentTypeJSON,
		`{"title":"AAAAAAAAAA","content":"body","date":"2024-01-02T03:04:05Z","tags":[{"id":"`+tag.ID+`"}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	post := decodeBody[models.Post](t, rec.Body.String())
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, []string{tag.ID}, post.TagIDs())
	assert.True(t, post.Date.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.Equal(t, "blogApp.blogPost.created", rec.Header().Get("X-blogApp-alert"))
}

func TestCreatePostRequiresDate(t *testing.T) {
	f := newBlogFixture()

	rec := do(t, f.router, http.MethodPost, "/api/posts", userToken, contentTypeJSON, `{"title":"AAAAAAAAAA"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "date", decodeBody[Problem](t, rec.Body.String()).Field)
}

func TestPartialUpdatePostKeepsRelations(t *testing.T) {
	f := newBlogFixture()
	existing, _ := f.posts.Save(context.Background(), &models.Post{
		Title: "AAAAAAAAAA",
		Date:  time.Now().UTC(),
		Blog:  &models.Blog{ID: "blog-1", Name: "blog", Handle: "bl"},
		Tags:  []models.Tag{{ID: "tag-1", Name: "go"}},
	})

	rec := do(t, f.router, http.MethodPatch, "/api/posts/"+existing.ID, userToken, contentTypeJSON,
		`{"id":"`+existing.ID+`","content":"BBBBBBBBBB"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	patched := decodeBody[models.Post](t, rec.Body.String())
	assert.Equal(t, "AAAAAAAAAA", patched.Title)
	assert.Equal(t, "BBBBBBBBBB", patched.Content)
	require.NotNil(t, patched.Blog)
	assert.Equal(t, "blog-1", patched.Blog.ID)
	assert.Equal(t, []string{"tag-1"}, patched.TagIDs())
}

func TestGetAllPostsPaginates(t *testing.T) {
	f := newBlogFixture()
	for i := range 5 {
		_, _ = f.posts.Save(context.Background(), &models.Post{Title: fmt.Sprintf("post %d", i), Date: time.Now()})
	}

	rec := do(t, f.router, http.MethodGet, "/api/posts?page=1&size=2&sort=id,desc", userToken, "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-Total-Count"))
	assert.Len(t, decodeBody[[]models.Post](t, rec.Body.String()), 2)

	link := rec.Header().Get("Link")
	assert.Contains(t, link, `page=2&size=2&sort=id%2Cdesc>; rel="next"`)
	assert.Contains(t, link, `page=0&size=2&sort=id%2Cdesc>; rel="prev"`)
	assert.Contains(t, link, `page=2&size=2&sort=id%2Cdesc>; rel="last"`)
	assert.Contains(t, link, `rel="first"`)
	assert.Len(t, strings.Split(link, ","), 4)
}

func TestGetAllPostsRejectsUnknownSort(t *testing.T) {
	f := newBlogFixture()

	rec := do(t, f.router, http.MethodGet, "/api/posts?sort=secret,asc", userToken, "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePost(t *testing.T) {
	f := newBlogFixture()
	existing, _ := f.posts.Save(context.Background(), &models.Post{Title: "AAAAAAAAAA", Date: time.Now()})

	rec := do(t, f.router, http.MethodDelete, "/api/posts/"+existing.ID, userToken, "", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "blogApp.blogPost.deleted", rec.Header().Get("X-blogApp-alert"))
	assert.Zero(t, f.posts.table.count())
}

func TestTagLifecycle(t *testing.T) {
	f := newBlogFixture()

	rec := do(t, f.router, http.MethodPost, "/api/tags", userToken, contentTypeJSON, `{"name":"AAAAAAAAAA"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[models.Tag](t, rec.Body.String())
	assert.Equal(t, "blogApp.blogTag.created", rec.Header().Get("X-blogApp-alert"))

	rec = do(t, f.router, http.MethodPut, "/api/tags/"+created.ID, userToken, contentTypeJSON,
		`{"id":"`+created.ID+`","name":"BBBBBBBBBB"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BBBBBBBBBB", decodeBody[models.Tag](t, rec.Body.String()).Name)

	rec = do(t, f.router, http.MethodPatch, "/api/tags/"+created.ID, userToken, contentTypeMergePatch,
		`{"id":"`+created.ID+`","name":"C"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, "name shorter than 2 characters")

	rec = do(t, f.router, http.MethodGet, "/api/tags?size=10", userToken, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))

	rec = do(t, f.router, http.MethodDelete, "/api/tags/"+created.ID, userToken, "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, f.router, http.MethodGet, "/api/tags/"+created.ID, userToken, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTagWithExistingID(t *testing.T) {
	f := newBlogFixture()

	rec := do(t, f.router, http.MethodPost, "/api/tags", userToken, contentTypeJSON, `{"id":"x","name":"go"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error.idexists", rec.Header().Get("X-blogApp-error"))
	assert.Equal(t, "blogTag", rec.Header().Get("X-blogApp-params"))
}

func TestGetAllBlogUsers(t *testing.T) {
	f := newBlogFixture()
	_ = f.users.Save(context.Background(), models.PublicUser{ID: "user-1", Login: "admin"})
	_ = f.users.Save(context.Background(), models.PublicUser{ID: "user-2", Login: "user"})

	rec := do(t, f.router, http.MethodGet, "/api/users?sort=login,asc", userToken, "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))
	assert.JSONEq(t, `[{"id":"user-1","login":"admin"},{"id":"user-2","login":"user"}]`, rec.Body.String())
}
