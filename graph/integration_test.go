//go:build integration
// +build integration

package graph

import (
	"context"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcneo4j "github.com/testcontainers/testcontainers-go/modules/neo4j"
)

const testPassword = "letmein123"

// setupTestGraph starts a Neo4j container and returns a migrated Graph
func setupTestGraph(t *testing.T) (Graph, *Executor) {
	ctx := context.Background()

	container, err := tcneo4j.Run(ctx, "neo4j:5", tcneo4j.WithAdminPassword(testPassword))
	if err != nil {
		t.Fatalf("Failed to start Neo4j container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	boltURL, err := container.BoltUrl(ctx)
	require.NoError(t, err)

	executor, err := NewExecutor(boltURL, "neo4j", testPassword, "neo4j")
	require.NoError(t, err)
	t.Cleanup(func() { _ = executor.Close(ctx) })
	require.NoError(t, executor.Verify(ctx))

	g := New(executor)
	require.NoError(t, g.Migrate(ctx))
	return g, executor
}

// findUserByLogin reads a seeded user with its authorities
func findUserByLogin(ctx context.Context, runner Runner, login string) (*models.User, error) {
	result, err := runner.Read(ctx, `
MATCH (u:jhi_user {login: $login})
OPTIONAL MATCH (u)-[:HAS_AUTHORITY]->(a:jhi_authority)
RETURN u, collect(a.name) AS authorities`, map[string]any{"login": login})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, errs.NewNotFound("user")
	}

	record := result.Records[0]
	node, _, err := nodeValue(record, "u")
	if err != nil {
		return nil, err
	}
	user := toUser(node)

	names, _, err := neo4j.GetRecordValue[[]any](record, "authorities")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if s, ok := name.(string); ok {
			user.Authorities = append(user.Authorities, models.Authority{Name: s})
		}
	}
	return &user, nil
}

func TestIntegrationGraph(t *testing.T) {
	ctx := context.Background()
	g, executor := setupTestGraph(t)

	t.Run("migrations run once", func(t *testing.T) {
		require.NoError(t, g.Migrate(ctx))
		total, err := g.UserRepo().CountActivated(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		admin, err := findUserByLogin(ctx, executor, "admin")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{models.RoleAdmin, models.RoleUser}, models.AuthorityNames(admin.Authorities))
	})

	t.Run("blog with owner round trips", func(t *testing.T) {
		admin, err := findUserByLogin(ctx, executor, "admin")
		require.NoError(t, err)

		owner := admin.Public()
		saved, err := g.BlogRepo().Save(ctx, &models.Blog{Name: "AAAAAAAAAA", Handle: "AAAAAAAAAA", User: &owner})
		require.NoError(t, err)
		require.NotNil(t, saved.User)
		assert.Equal(t, "admin", saved.User.Login)

		blogs, err := g.BlogRepo().FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, blogs, 1)
	})

	t.Run("post links blog and tags", func(t *testing.T) {
		blogs, err := g.BlogRepo().FindAll(ctx)
		require.NoError(t, err)
		tag, err := g.TagRepo().Save(ctx, &models.Tag{Name: "go"})
		require.NoError(t, err)

		date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		post, err := g.PostRepo().Save(ctx, &models.Post{
			Title: "AAAAAAAAAA",
			Date:  date,
			Blog:  blogs[0],
			Tags:  []models.Tag{*tag, {ID: "does-not-exist"}},
		})
		require.NoError(t, err)
		assert.Equal(t, date, post.Date)
		require.NotNil(t, post.Blog)
		assert.Equal(t, blogs[0].ID, post.Blog.ID)
		assert.Equal(t, []models.Tag{*tag}, post.Tags)

		require.NoError(t, g.TagRepo().DeleteByID(ctx, tag.ID))
		post, err = g.PostRepo().FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, post.Tags)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, g.BlogRepo().DeleteByID(ctx, "missing"))
		_, err := g.BlogRepo().FindByID(ctx, "missing")
		assert.True(t, errs.IsNotFound(err))
	})

	require.NoError(t, deleteAll(ctx, executor, labelPost))
	require.NoError(t, deleteAll(ctx, executor, labelBlog))
	require.NoError(t, deleteAll(ctx, executor, labelTag))
}
