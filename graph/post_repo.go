package graph

import (
	"context"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
)

var postSortFields = map[string]string{
	"id":      "id",
	"title":   "title",
	"content": "content",
	"date":    "date",
}

const postWithRelations = `
OPTIONAL MATCH (p)-[:HAS_BLOG]->(b:blog)
OPTIONAL MATCH (p)-[:HAS_TAG]->(t:tag)
WITH p, b, collect(DISTINCT t) AS tags
RETURN p, b, tags`

type PostRepo struct {
	runner Runner
}

func NewPostRepo(runner Runner) *PostRepo {
	return &PostRepo{runner}
}

// Save creates or replaces a post together with its blog and tag links.
// References to blogs or tags that do not exist are ignored.
func (r *PostRepo) Save(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}

	var blogID any
	if post.Blog != nil && post.Blog.ID != "" {
		blogID = post.Blog.ID
	}
	tagIDs := post.TagIDs()

	_, err := r.runner.Run(ctx, `
MERGE (p:post {id: $id})
SET p.title = $title, p.content = $content, p.date = $date
WITH p
OPTIONAL MATCH (p)-[r:HAS_BLOG|HAS_TAG]->()
DELETE r
WITH DISTINCT p
OPTIONAL MATCH (b:blog {id: $blogId})
FOREACH (_ IN CASE WHEN b IS NULL THEN [] ELSE [1] END | MERGE (p)-[:HAS_BLOG]->(b))
WITH DISTINCT p
OPTIONAL MATCH (t:tag) WHERE t.id IN $tagIds
FOREACH (_ IN CASE WHEN t IS NULL THEN [] ELSE [1] END | MERGE (p)-[:HAS_TAG]->(t))
RETURN DISTINCT p.id AS id`, map[string]any{
		"id":      post.ID,
		"title":   post.Title,
		"content": post.Content,
		"date":    post.Date.UTC(),
		"blogId":  blogID,
		"tagIds":  tagIDs,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("save", "post", err)
	}
	return r.FindByID(ctx, post.ID)
}

// FindByID returns a post by its ID with its blog and tags loaded
func (r *PostRepo) FindByID(ctx context.Context, id string) (*models.Post, error) {
	result, err := r.runner.Read(ctx, "MATCH (p:post {id: $id})"+postWithRelations, map[string]any{"id": id})
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post", err)
	}
	if len(result.Records) == 0 {
		return nil, errs.NewNotFound("post")
	}
	post, err := postFromRecord(result.Records[0])
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not map post", err)
	}
	return post, nil
}

// FindPage returns one sorted page of posts with their relations
func (r *PostRepo) FindPage(ctx context.Context, pageable models.Pageable) ([]*models.Post, error) {
	order, err := orderBy("p", pageable.Sort, postSortFields, "id")
	if err != nil {
		return nil, err
	}
	result, err := r.runner.Read(ctx, "MATCH (p:post)"+postWithRelations+order+" SKIP $skip LIMIT $limit", map[string]any{
		"skip":  pageable.Offset(),
		"limit": int64(pageable.Size),
	})
	if err != nil {
		return nil, errs.NewDatabaseError("list", "posts", err)
	}
	posts := make([]*models.Post, 0, len(result.Records))
	for _, record := range result.Records {
		post, err := postFromRecord(record)
		if err != nil {
			return nil, errs.NewInternalErrorWithCause("could not map post", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *PostRepo) Count(ctx context.Context) (int64, error) {
	total, err := countNodes(ctx, r.runner, labelPost)
	if err != nil {
		return 0, errs.NewDatabaseError("count", "posts", err)
	}
	return total, nil
}

func (r *PostRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	exists, err := existsByID(ctx, r.runner, labelPost, id)
	if err != nil {
		return false, errs.NewDatabaseError("find", "post", err)
	}
	return exists, nil
}

// DeleteByID removes a post and its relationships
func (r *PostRepo) DeleteByID(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.runner, labelPost, id); err != nil {
		return errs.NewDatabaseError("delete", "post", err)
	}
	return nil
}

func postFromRecord(record *neo4j.Record) (*models.Post, error) {
	node, _, err := nodeValue(record, "p")
	if err != nil {
		return nil, err
	}
	post := toPost(node)

	blogNode, ok, err := nodeValue(record, "b")
	if err != nil {
		return nil, err
	}
	if ok {
		blog := toBlog(blogNode)
		post.Blog = &blog
	}

	tagNodes, err := nodeList(record, "tags")
	if err != nil {
		return nil, err
	}
	for _, tagNode := range tagNodes {
		post.Tags = append(post.Tags, toTag(tagNode))
	}
	return &post, nil
}
