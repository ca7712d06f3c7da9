package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/rs/zerolog"
)

// memTable keeps rows in insertion order.
type memTable[T any] struct {
	mu   sync.Mutex
	rows map[string]T
	ids  []string
}

func newMemTable[T any]() *memTable[T] {
	return &memTable[T]{rows: map[string]T{}}
}

func (m *memTable[T]) put(id string, row T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.rows[id] = row
}

func (m *memTable[T]) get(id string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	return row, ok
}

func (m *memTable[T]) del(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	m.ids = slices.DeleteFunc(m.ids, func(s string) bool { return s == id })
}

func (m *memTable[T]) list() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]T, 0, len(m.ids))
	for _, id := range m.ids {
		rows = append(rows, m.rows[id])
	}
	return rows
}

func (m *memTable[T]) count() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.ids))
}

func pageOf[T any](rows []T, pageable models.Pageable) []T {
	start := int(pageable.Offset())
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+pageable.Size, len(rows))
	return rows[start:end]
}

func checkSort(pageable models.Pageable, allowed ...string) error {
	for _, order := range pageable.Sort {
		if !slices.Contains(allowed, order.Property) {
			return errs.NewBadRequestError("unknown sort property " + order.Property)
		}
	}
	return nil
}

type fakeBlogRepo struct {
	table *memTable[models.Blog]
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{table: newMemTable[models.Blog]()}
}

func (r *fakeBlogRepo) Save(_ context.Context, blog *models.Blog) (*models.Blog, error) {
	saved := *blog
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	r.table.put(saved.ID, saved)
	return &saved, nil
}

func (r *fakeBlogRepo) FindByID(_ context.Context, id string) (*models.Blog, error) {
	blog, ok := r.table.get(id)
	if !ok {
		return nil, errs.NewNotFound("blog")
	}
	return &blog, nil
}

func (r *fakeBlogRepo) FindAll(_ context.Context) ([]*models.Blog, error) {
	blogs := []*models.Blog{}
	for _, b := range r.table.list() {
		blogs = append(blogs, &b)
	}
	return blogs, nil
}

func (r *fakeBlogRepo) StreamAll(_ context.Context, fn func(*models.Blog) error) error {
	for _, b := range r.table.list() {
		if err := fn(&b); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeBlogRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := r.table.get(id)
	return ok, nil
}

func (r *fakeBlogRepo) DeleteByID(_ context.Context, id string) error {
	r.table.del(id)
	return nil
}

type fakePostRepo struct {
	table *memTable[models.Post]
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{table: newMemTable[models.Post]()}
}

func (r *fakePostRepo) Save(_ context.Context, post *models.Post) (*models.Post, error) {
	saved := *post
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	if saved.Tags == nil {
		saved.Tags = []models.Tag{}
	}
	r.table.put(saved.ID, saved)
	return &saved, nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := r.table.get(id)
	if !ok {
		return nil, errs.NewNotFound("post")
	}
	return &post, nil
}

func (r *fakePostRepo) FindPage(_ context.Context, pageable models.Pageable) ([]*models.Post, error) {
	if err := checkSort(pageable, "id", "title", "content", "date"); err != nil {
		return nil, err
	}
	posts := []*models.Post{}
	for _, p := range pageOf(r.table.list(), pageable) {
		posts = append(posts, &p)
	}
	return posts, nil
}

func (r *fakePostRepo) Count(_ context.Context) (int64, error) {
	return r.table.count(), nil
}

func (r *fakePostRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := r.table.get(id)
	return ok, nil
}

func (r *fakePostRepo) DeleteByID(_ context.Context, id string) error {
	r.table.del(id)
	return nil
}

type fakeTagRepo struct {
	table *memTable[models.Tag]
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{table: newMemTable[models.Tag]()}
}

func (r *fakeTagRepo) Save(_ context.Context, tag *models.Tag) (*models.Tag, error) {
	saved := *tag
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	r.table.put(saved.ID, saved)
	return &saved, nil
}

func (r *fakeTagRepo) FindByID(_ context.Context, id string) (*models.Tag, error) {
	tag, ok := r.table.get(id)
	if !ok {
		return nil, errs.NewNotFound("tag")
	}
	return &tag, nil
}

func (r *fakeTagRepo) FindPage(_ context.Context, pageable models.Pageable) ([]*models.Tag, error) {
	if err := checkSort(pageable, "id", "name"); err != nil {
		return nil, err
	}
	tags := []*models.Tag{}
	for _, t := range pageOf(r.table.list(), pageable) {
		tags = append(tags, &t)
	}
	return tags, nil
}

func (r *fakeTagRepo) Count(_ context.Context) (int64, error) {
	return r.table.count(), nil
}

func (r *fakeTagRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := r.table.get(id)
	return ok, nil
}

func (r *fakeTagRepo) DeleteByID(_ context.Context, id string) error {
	r.table.del(id)
	return nil
}

type fakeProductRepo struct {
	table    *memTable[models.Product]
	auditors []string
	nextID   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{table: newMemTable[models.Product]()}
}

func (r *fakeProductRepo) Save(_ context.Context, product *models.Product, auditor string) (*models.Product, error) {
	saved := *product
	r.auditors = append(r.auditors, auditor)
	if previous, ok := r.table.get(saved.ID); ok && saved.ID != "" {
		saved.StampModified(previous.Auditing, auditor, time.Now())
	} else {
		r.nextID++
		saved.ID = fmt.Sprintf("%024x", r.nextID)
		saved.StampCreated(auditor, time.Now())
	}
	r.table.put(saved.ID, saved)
	return &saved, nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id string) (*models.Product, error) {
	product, ok := r.table.get(id)
	if !ok {
		return nil, errs.NewNotFound("product")
	}
	return &product, nil
}

func (r *fakeProductRepo) FindPage(_ context.Context, pageable models.Pageable) ([]*models.Product, error) {
	products := []*models.Product{}
	for _, p := range pageOf(r.table.list(), pageable) {
		products = append(products, &p)
	}
	return products, nil
}

func (r *fakeProductRepo) Count(_ context.Context) (int64, error) {
	return r.table.count(), nil
}

func (r *fakeProductRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := r.table.get(id)
	return ok, nil
}

func (r *fakeProductRepo) DeleteByID(_ context.Context, id string) error {
	r.table.del(id)
	return nil
}

// fakeBlogUsers is the blog service's user store.
type fakeBlogUsers struct {
	table *memTable[models.PublicUser]
}

func newFakeBlogUsers(users ...models.PublicUser) *fakeBlogUsers {
	f := &fakeBlogUsers{table: newMemTable[models.PublicUser]()}
	for _, u := range users {
		f.table.put(u.ID, u)
	}
	return f
}

func (f *fakeBlogUsers) Save(_ context.Context, user models.PublicUser) error {
	f.table.put(user.ID, user)
	return nil
}

func (f *fakeBlogUsers) FindAllActivated(_ context.Context, pageable models.Pageable) ([]models.PublicUser, error) {
	if err := checkSort(pageable, "id", "login"); err != nil {
		return nil, err
	}
	return pageOf(f.table.list(), pageable), nil
}

func (f *fakeBlogUsers) CountActivated(_ context.Context) (int64, error) {
	return f.table.count(), nil
}

type fakeGatewayUsers struct {
	table *memTable[models.User]
}

func newFakeGatewayUsers(users ...models.User) *fakeGatewayUsers {
	f := &fakeGatewayUsers{table: newMemTable[models.User]()}
	for _, u := range users {
		f.table.put(u.Login, u)
	}
	return f
}

func (f *fakeGatewayUsers) FindOneByLogin(_ context.Context, login string) (*models.User, error) {
	user, ok := f.table.get(login)
	if !ok {
		return nil, errs.NewNotFound("user")
	}
	return &user, nil
}

func (f *fakeGatewayUsers) activated() []models.User {
	return slices.DeleteFunc(f.table.list(), func(u models.User) bool { return !u.Activated })
}

func (f *fakeGatewayUsers) FindAllActivated(_ context.Context, pageable models.Pageable) ([]models.User, error) {
	return pageOf(f.activated(), pageable), nil
}

func (f *fakeGatewayUsers) CountActivated(_ context.Context) (int64, error) {
	return int64(len(f.activated())), nil
}

func (f *fakeGatewayUsers) FindAll(_ context.Context, pageable models.Pageable) ([]models.User, error) {
	return pageOf(f.table.list(), pageable), nil
}

func (f *fakeGatewayUsers) Count(_ context.Context) (int64, error) {
	return f.table.count(), nil
}

type fakeAuthorities []string

func (f fakeAuthorities) FindAllNames(_ context.Context) ([]string, error) {
	return f, nil
}

// fakeAccounts returns the user built from the claims it is given.
type fakeAccounts struct {
	gotToken string
}

func (f *fakeAccounts) GetUserFromAuthentication(_ context.Context, accessToken string, claims map[string]any) (*models.User, error) {
	f.gotToken = accessToken
	login, _ := claims["preferred_username"].(string)
	return &models.User{
		ID:          "user-1",
		Login:       login,
		Activated:   true,
		LangKey:     "en",
		Authorities: []models.Authority{{Name: models.RoleUser}},
	}, nil
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}

const (
	userToken    = "user-token"
	adminToken   = "admin-token"
	expiredToken = "expired-token"
)

// fakeVerifier knows two valid tokens: a plain user and an admin.
type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, rawToken string) (*Principal, error) {
	switch rawToken {
	case userToken:
		return &Principal{
			Login:       "user",
			Subject:     "sub-user",
			Authorities: []string{models.RoleUser},
			Claims:      map[string]any{"sub": "sub-user", "preferred_username": "user"},
			Token:       rawToken,
		}, nil
	case adminToken:
		return &Principal{
			Login:       "admin",
			Subject:     "sub-admin",
			Authorities: []string{models.RoleAdmin, models.RoleUser},
			Claims:      map[string]any{"sub": "sub-admin", "preferred_username": "admin"},
			Token:       rawToken,
		}, nil
	case expiredToken:
		return nil, errs.NewExpiredTokenError()
	}
	return nil, errs.NewInvalidTokenError(errors.New("unknown token"))
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newRequest(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// do sends a request through handler with the given bearer token (none when
// empty) and returns the recorded response.
func do(t *testing.T, handler http.Handler, method, target, token, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
