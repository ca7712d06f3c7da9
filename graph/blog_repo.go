package graph

import (
	"context"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
)

const blogWithUser = `
MATCH (b:blog)
OPTIONAL MATCH (b)-[:HAS_USER]->(u:jhi_user)
RETURN b, u`

type BlogRepo struct {
	runner Runner
}

func NewBlogRepo(runner Runner) *BlogRepo {
	return &BlogRepo{runner}
}

// Save creates or replaces a blog and its owner link. A blog without a user
// loses any previous owner.
func (r *BlogRepo) Save(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if blog.ID == "" {
		blog.ID = uuid.NewString()
	}

	var userID any
	if blog.User != nil && blog.User.ID != "" {
		userID = blog.User.ID
	}

	_, err := r.runner.Run(ctx, `
MERGE (b:blog {id: $id})
SET b.name = $name, b.handle = $handle
WITH b
OPTIONAL MATCH (b)-[r:HAS_USER]->(:jhi_user)
DELETE r
WITH DISTINCT b
OPTIONAL MATCH (u:jhi_user {user_id: $userId})
FOREACH (_ IN CASE WHEN u IS NULL THEN [] ELSE [1] END | MERGE (b)-[:HAS_USER]->(u))
RETURN b.id AS id`, map[string]any{
		"id":     blog.ID,
		"name":   blog.Name,
		"handle": blog.Handle,
		"userId": userID,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("save", "blog", err)
	}
	return r.FindByID(ctx, blog.ID)
}

// FindByID returns a blog by its ID, with its owner when it has one
func (r *BlogRepo) FindByID(ctx context.Context, id string) (*models.Blog, error) {
	result, err := r.runner.Read(ctx, `
MATCH (b:blog {id: $id})
OPTIONAL MATCH (b)-[:HAS_USER]->(u:jhi_user)
RETURN b, u`, map[string]any{"id": id})
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog", err)
	}
	if len(result.Records) == 0 {
		return nil, errs.NewNotFound("blog")
	}
	blog, err := blogFromRecord(result.Records[0])
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not map blog", err)
	}
	return blog, nil
}

// FindAll returns every blog ordered by id
func (r *BlogRepo) FindAll(ctx context.Context) ([]*models.Blog, error) {
	result, err := r.runner.Read(ctx, blogWithUser+" ORDER BY b.id", nil)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "blogs", err)
	}
	blogs := make([]*models.Blog, 0, len(result.Records))
	for _, record := range result.Records {
		blog, err := blogFromRecord(record)
		if err != nil {
			return nil, errs.NewInternalErrorWithCause("could not map blog", err)
		}
		blogs = append(blogs, blog)
	}
	return blogs, nil
}

// StreamAll hands each blog to fn as it is read.
func (r *BlogRepo) StreamAll(ctx context.Context, fn func(*models.Blog) error) error {
	return r.runner.Stream(ctx, blogWithUser+" ORDER BY b.id", nil, func(record *neo4j.Record) error {
		blog, err := blogFromRecord(record)
		if err != nil {
			return errs.NewInternalErrorWithCause("could not map blog", err)
		}
		return fn(blog)
	})
}

func (r *BlogRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	exists, err := existsByID(ctx, r.runner, labelBlog, id)
	if err != nil {
		return false, errs.NewDatabaseError("find", "blog", err)
	}
	return exists, nil
}

// DeleteByID removes a blog and its relationships
func (r *BlogRepo) DeleteByID(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.runner, labelBlog, id); err != nil {
		return errs.NewDatabaseError("delete", "blog", err)
	}
	return nil
}

func blogFromRecord(record *neo4j.Record) (*models.Blog, error) {
	node, _, err := nodeValue(record, "b")
	if err != nil {
		return nil, err
	}
	blog := toBlog(node)

	userNode, ok, err := nodeValue(record, "u")
	if err != nil {
		return nil, err
	}
	if ok {
		user := toUser(userNode).Public()
		blog.User = &user
	}
	return &blog, nil
}
