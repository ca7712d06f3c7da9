package api

import (
	"context"

	"github.com/rpupo63/jhipster-sample-services/models"
)

// Application and entity names used in alert headers.
const (
	BlogAppName    = "blogApp"
	StoreAppName   = "storeApp"
	GatewayAppName = "gatewayApp"

	entityBlog    = "blogBlog"
	entityPost    = "blogPost"
	entityTag     = "blogTag"
	entityProduct = "storeProduct"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type BlogRepository interface {
	Save(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	FindByID(ctx context.Context, id string) (*models.Blog, error)
	FindAll(ctx context.Context) ([]*models.Blog, error)
	StreamAll(ctx context.Context, fn func(*models.Blog) error) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
}

type PostRepository interface {
	Save(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	FindPage(ctx context.Context, pageable models.Pageable) ([]*models.Post, error)
	Count(ctx context.Context) (int64, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
}

type TagRepository interface {
	Save(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	FindByID(ctx context.Context, id string) (*models.Tag, error)
	FindPage(ctx context.Context, pageable models.Pageable) ([]*models.Tag, error)
	Count(ctx context.Context) (int64, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
}

type ProductRepository interface {
	Save(ctx context.Context, product *models.Product, auditor string) (*models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindPage(ctx context.Context, pageable models.Pageable) ([]*models.Product, error)
	Count(ctx context.Context) (int64, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
}

// PublicUserRepository lists activated users as {id, login}.
type PublicUserRepository interface {
	FindAllActivated(ctx context.Context, pageable models.Pageable) ([]models.PublicUser, error)
	CountActivated(ctx context.Context) (int64, error)
}

// BlogUserRepository is the blog service's user store: public listing plus
// the upsert of users referenced by blogs.
type BlogUserRepository interface {
	PublicUserRepository
	Save(ctx context.Context, user models.PublicUser) error
}

// GatewayUserRepository is the gateway's read side of the user table.
type GatewayUserRepository interface {
	FindOneByLogin(ctx context.Context, login string) (*models.User, error)
	FindAllActivated(ctx context.Context, pageable models.Pageable) ([]models.User, error)
	CountActivated(ctx context.Context) (int64, error)
	FindAll(ctx context.Context, pageable models.Pageable) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

type AuthorityRepository interface {
	FindAllNames(ctx context.Context) ([]string, error)
}

// AccountService builds and syncs the current account from token claims.
type AccountService interface {
	GetUserFromAuthentication(ctx context.Context, accessToken string, claims map[string]any) (*models.User, error)
}
