package graph

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

var tagSortFields = map[string]string{
	"id":   "id",
	"name": "name",
}

type TagRepo struct {
	runner Runner
}

func NewTagRepo(runner Runner) *TagRepo {
	return &TagRepo{runner}
}

// Save creates or replaces a tag
func (r *TagRepo) Save(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}

	query, params, err := gocypher.NewQueryBuilder().
		Merge(gocypher.N("n", labelTag).WithProperties(map[string]interface{}{"id": tag.ID})).
		Set(map[string]interface{}{"n.name": tag.Name}).
		Return("n").
		Build()
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not build tag query", err)
	}
	result, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, errs.NewDatabaseError("save", "tag", err)
	}
	if len(result.Records) == 0 {
		return nil, errs.NewNotFound("tag")
	}
	node, _, err := nodeValue(result.Records[0], "n")
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not map tag", err)
	}
	saved := toTag(node)
	return &saved, nil
}

// FindByID returns a tag by its ID
func (r *TagRepo) FindByID(ctx context.Context, id string) (*models.Tag, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", labelTag).WithProperties(map[string]interface{}{"id": id})).
		Return("n").
		Build()
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not build tag query", err)
	}
	result, err := r.runner.Read(ctx, query, params)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
	if len(result.Records) == 0 {
		return nil, errs.NewNotFound("tag")
	}
	node, _, err := nodeValue(result.Records[0], "n")
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not map tag", err)
	}
	tag := toTag(node)
	return &tag, nil
}

// FindPage returns one sorted page of tags
func (r *TagRepo) FindPage(ctx context.Context, pageable models.Pageable) ([]*models.Tag, error) {
	order, err := orderBy("n", pageable.Sort, tagSortFields, "id")
	if err != nil {
		return nil, err
	}
	result, err := r.runner.Read(ctx, "MATCH (n:tag) RETURN n"+order+" SKIP $skip LIMIT $limit", map[string]any{
		"skip":  pageable.Offset(),
		"limit": int64(pageable.Size),
	})
	if err != nil {
		return nil, errs.NewDatabaseError("list", "tags", err)
	}
	tags := make([]*models.Tag, 0, len(result.Records))
	for _, record := range result.Records {
		node, _, err := nodeValue(record, "n")
		if err != nil {
			return nil, errs.NewInternalErrorWithCause("could not map tag", err)
		}
		tag := toTag(node)
		tags = append(tags, &tag)
	}
	return tags, nil
}

func (r *TagRepo) Count(ctx context.Context) (int64, error) {
	total, err := countNodes(ctx, r.runner, labelTag)
	if err != nil {
		return 0, errs.NewDatabaseError("count", "tags", err)
	}
	return total, nil
}

func (r *TagRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	exists, err := existsByID(ctx, r.runner, labelTag, id)
	if err != nil {
		return false, errs.NewDatabaseError("find", "tag", err)
	}
	return exists, nil
}

// DeleteByID removes a tag and detaches it from its posts
func (r *TagRepo) DeleteByID(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.runner, labelTag, id); err != nil {
		return errs.NewDatabaseError("delete", "tag", err)
	}
	return nil
}
