package graph

import (
	"context"

	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
)

var userSortFields = map[string]string{
	"id":    "user_id",
	"login": "login",
}

// UserRepo reads the users seeded into the graph and keeps the user
// references that blogs point at.
type UserRepo struct {
	runner Runner
}

func NewUserRepo(runner Runner) *UserRepo {
	return &UserRepo{runner}
}

// Save upserts the user a blog refers to. An empty login keeps the
// stored one.
func (r *UserRepo) Save(ctx context.Context, user models.PublicUser) error {
	if user.ID == "" {
		return errs.NewMissingRequiredFieldError("user.id")
	}
	var login any
	if user.Login != "" {
		login = user.Login
	}
	_, err := r.runner.Run(ctx, `
MERGE (u:jhi_user {user_id: $id})
SET u.login = coalesce($login, u.login)`, map[string]any{"id": user.ID, "login": login})
	if err != nil {
		return errs.NewDatabaseError("save", "user", err)
	}
	return nil
}

// FindAllActivated returns a page of activated users as public projections
func (r *UserRepo) FindAllActivated(ctx context.Context, pageable models.Pageable) ([]models.PublicUser, error) {
	order, err := orderBy("u", pageable.Sort, userSortFields, "user_id")
	if err != nil {
		return nil, err
	}
	result, err := r.runner.Read(ctx, "MATCH (u:jhi_user {activated: true}) RETURN u"+order+" SKIP $skip LIMIT $limit", map[string]any{
		"skip":  pageable.Offset(),
		"limit": int64(pageable.Size),
	})
	if err != nil {
		return nil, errs.NewDatabaseError("list", "users", err)
	}
	users := make([]models.PublicUser, 0, len(result.Records))
	for _, record := range result.Records {
		node, _, err := nodeValue(record, "u")
		if err != nil {
			return nil, errs.NewInternalErrorWithCause("could not map user", err)
		}
		users = append(users, toUser(node).Public())
	}
	return users, nil
}

func (r *UserRepo) CountActivated(ctx context.Context) (int64, error) {
	result, err := r.runner.Read(ctx, "MATCH (u:jhi_user {activated: true}) RETURN count(u) AS total", nil)
	if err != nil {
		return 0, errs.NewDatabaseError("count", "users", err)
	}
	return totalOf(result)
}
