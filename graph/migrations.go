package graph

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

//go:embed fixtures/user__*.json
var userFixtures embed.FS

// Migration is one versioned change to the graph. Applied versions are
// recorded as __Neo4jMigration nodes and never run twice.
type Migration struct {
	Version     string
	Description string
	Apply       func(ctx context.Context, runner Runner) error
}

var migrations = []Migration{
	{Version: "0001", Description: "CreateUsers", Apply: createUsers},
	{Version: "0002", Description: "CreateConstraints", Apply: createConstraints},
}

// Migrate applies every pending migration in version order.
func Migrate(ctx context.Context, runner Runner) error {
	return migrate(ctx, runner, migrations)
}

func migrate(ctx context.Context, runner Runner, pending []Migration) error {
	for _, m := range pending {
		result, err := runner.Read(ctx,
			"MATCH (m:__Neo4jMigration {version: $version}) RETURN count(m) AS total",
			map[string]any{"version": m.Version})
		if err != nil {
			return fmt.Errorf("checking migration %s: %w", m.Version, err)
		}
		applied, err := totalOf(result)
		if err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		if err := m.Apply(ctx, runner); err != nil {
			return fmt.Errorf("applying migration %s (%s): %w", m.Version, m.Description, err)
		}
		_, err = runner.Run(ctx,
			"CREATE (:__Neo4jMigration {version: $version, description: $description, installedOn: datetime()})",
			map[string]any{"version": m.Version, "description": m.Description})
		if err != nil {
			return fmt.Errorf("recording migration %s: %w", m.Version, err)
		}
		log.Info().Str("version", m.Version).Str("description", m.Description).Msg("applied neo4j migration")
	}
	return nil
}

// createUsers loads the seeded accounts and their authorities.
func createUsers(ctx context.Context, runner Runner) error {
	paths, err := fs.Glob(userFixtures, "fixtures/user__*.json")
	if err != nil {
		return err
	}
	sort.Strings(paths)

	for _, path := range paths {
		raw, err := userFixtures.ReadFile(path)
		if err != nil {
			return fmt.Errorf("could not load user definition %s: %w", path, err)
		}
		user := map[string]any{}
		if err := json.Unmarshal(raw, &user); err != nil {
			return fmt.Errorf("could not parse user definition %s: %w", path, err)
		}

		authorities, _ := user["authorities"].([]any)
		delete(user, "authorities")
		delete(user, "_class")
		user["user_id"] = uuid.NewString()

		_, err = runner.Run(ctx, `
CREATE (u:jhi_user) SET u = $user WITH u
UNWIND $authorities AS authority
MERGE (a:jhi_authority {name: authority})
CREATE (u)-[:HAS_AUTHORITY]->(a)`, map[string]any{"user": user, "authorities": authorities})
		if err != nil {
			return fmt.Errorf("could not create user from %s: %w", path, err)
		}
	}
	return nil
}

func createConstraints(ctx context.Context, runner Runner) error {
	statements := []string{
		"CREATE CONSTRAINT blog_id IF NOT EXISTS FOR (n:blog) REQUIRE n.id IS UNIQUE",
		"CREATE CONSTRAINT post_id IF NOT EXISTS FOR (n:post) REQUIRE n.id IS UNIQUE",
		"CREATE CONSTRAINT tag_id IF NOT EXISTS FOR (n:tag) REQUIRE n.id IS UNIQUE",
		"CREATE CONSTRAINT user_id IF NOT EXISTS FOR (n:jhi_user) REQUIRE n.user_id IS UNIQUE",
		"CREATE CONSTRAINT authority_name IF NOT EXISTS FOR (n:jhi_authority) REQUIRE n.name IS UNIQUE",
	}
	for _, statement := range statements {
		if _, err := runner.Run(ctx, statement, nil); err != nil {
			return err
		}
	}
	return nil
}
