package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

const (
	labelBlog      = "blog"
	labelPost      = "post"
	labelTag       = "tag"
	labelUser      = "jhi_user"
	labelAuthority = "jhi_authority"
)

func stringProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func boolProp(props map[string]any, key string) bool {
	v, _ := props[key].(bool)
	return v
}

func timeProp(props map[string]any, key string) time.Time {
	switch v := props[key].(type) {
	case time.Time:
		return v.UTC()
	case dbtype.LocalDateTime:
		return v.Time().UTC()
	case dbtype.Date:
		return v.Time().UTC()
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// nodeValue returns the node bound to key. A null from an OPTIONAL MATCH
// yields ok == false.
func nodeValue(record *neo4j.Record, key string) (neo4j.Node, bool, error) {
	raw, found := record.Get(key)
	if !found {
		return neo4j.Node{}, false, fmt.Errorf("could not find return value '%s' in query result", key)
	}
	if raw == nil {
		return neo4j.Node{}, false, nil
	}
	node, ok := raw.(neo4j.Node)
	if !ok {
		return neo4j.Node{}, false, fmt.Errorf("return value '%s' is not a node", key)
	}
	return node, true, nil
}

func nodeList(record *neo4j.Record, key string) ([]neo4j.Node, error) {
	raw, found := record.Get(key)
	if !found {
		return nil, fmt.Errorf("could not find return value '%s' in query result", key)
	}
	items, _ := raw.([]any)
	nodes := make([]neo4j.Node, 0, len(items))
	for _, item := range items {
		if node, ok := item.(neo4j.Node); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func toBlog(node neo4j.Node) models.Blog {
	return models.Blog{
		ID:     stringProp(node.Props, "id"),
		Name:   stringProp(node.Props, "name"),
		Handle: stringProp(node.Props, "handle"),
	}
}

func toPost(node neo4j.Node) models.Post {
	return models.Post{
		ID:      stringProp(node.Props, "id"),
		Title:   stringProp(node.Props, "title"),
		Content: stringProp(node.Props, "content"),
		Date:    timeProp(node.Props, "date"),
		Tags:    []models.Tag{},
	}
}

func toTag(node neo4j.Node) models.Tag {
	return models.Tag{
		ID:   stringProp(node.Props, "id"),
		Name: stringProp(node.Props, "name"),
	}
}

func toUser(node neo4j.Node) models.User {
	return models.User{
		ID:        stringProp(node.Props, "user_id"),
		Login:     stringProp(node.Props, "login"),
		FirstName: stringProp(node.Props, "first_name"),
		LastName:  stringProp(node.Props, "last_name"),
		Email:     stringProp(node.Props, "email"),
		ImageURL:  stringProp(node.Props, "image_url"),
		Activated: boolProp(node.Props, "activated"),
		LangKey:   stringProp(node.Props, "lang_key"),
		Auditing: models.Auditing{
			CreatedBy:        stringProp(node.Props, "created_by"),
			CreatedDate:      timeProp(node.Props, "created_date"),
			LastModifiedBy:   stringProp(node.Props, "last_modified_by"),
			LastModifiedDate: timeProp(node.Props, "last_modified_date"),
		},
	}
}

// orderBy renders an ORDER BY clause from whitelisted sort properties.
// fields maps API property names onto node properties. The clause always
// ends on the id so that pages are stable.
func orderBy(alias string, sort []models.SortOrder, fields map[string]string, idProp string) (string, error) {
	parts := make([]string, 0, len(sort)+1)
	sortedByID := false
	for _, order := range sort {
		prop, ok := fields[order.Property]
		if !ok {
			return "", errs.NewBadRequestError(fmt.Sprintf("cannot sort by '%s'", order.Property))
		}
		direction := "ASC"
		if order.Descending {
			direction = "DESC"
		}
		if prop == idProp {
			sortedByID = true
		}
		parts = append(parts, fmt.Sprintf("%s.%s %s", alias, prop, direction))
	}
	if !sortedByID {
		parts = append(parts, fmt.Sprintf("%s.%s ASC", alias, idProp))
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// countNodes returns the number of nodes carrying label.
func countNodes(ctx context.Context, runner Runner, label string) (int64, error) {
	result, err := runner.Read(ctx, fmt.Sprintf("MATCH (n:%s) RETURN count(n) AS total", label), nil)
	if err != nil {
		return 0, err
	}
	return totalOf(result)
}

func totalOf(result *neo4j.EagerResult) (int64, error) {
	if len(result.Records) == 0 {
		return 0, nil
	}
	total, _, err := neo4j.GetRecordValue[int64](result.Records[0], "total")
	if err != nil {
		return 0, fmt.Errorf("reading count: %w", err)
	}
	return total, nil
}

// existsByID reports whether a node with the given id exists.
func existsByID(ctx context.Context, runner Runner, label, id string) (bool, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", label).WithProperties(map[string]interface{}{"id": id})).
		Return("n.id").
		Build()
	if err != nil {
		return false, err
	}
	result, err := runner.Read(ctx, query, params)
	if err != nil {
		return false, err
	}
	return len(result.Records) > 0, nil
}

// deleteByID detaches and deletes the node with the given id. Deleting a
// missing node is not an error.
func deleteByID(ctx context.Context, runner Runner, label, id string) error {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", label).WithProperties(map[string]interface{}{"id": id})).
		DetachDelete("n").
		Build()
	if err != nil {
		return err
	}
	_, err = runner.Run(ctx, query, params)
	return err
}

// deleteAll removes every node carrying label.
func deleteAll(ctx context.Context, runner Runner, label string) error {
	_, err := runner.Run(ctx, fmt.Sprintf("MATCH (n:%s) DETACH DELETE n", label), nil)
	return err
}
