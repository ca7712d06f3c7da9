// Package graph persists the blog service's entities in Neo4j.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner abstracts Cypher execution so repositories can be tested without a
// live database.
type Runner interface {
	// Run executes a write query and returns a fully-buffered result.
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
	// Read executes a read-only query, routed to readers when clustered.
	Read(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
	// Stream hands records to fn as they arrive. Returning an error from fn
	// stops the stream.
	Stream(ctx context.Context, query string, params map[string]any, fn func(*neo4j.Record) error) error
}

// Executor is the Runner backed by the official driver.
type Executor struct {
	Driver neo4j.DriverWithContext
	DBName string
}

func NewExecutor(uri, username, password, dbName string) (*Executor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}
	return &Executor{Driver: driver, DBName: dbName}, nil
}

// Verify checks connectivity to the database.
func (e *Executor) Verify(ctx context.Context) error {
	return e.Driver.VerifyConnectivity(ctx)
}

func (e *Executor) Close(ctx context.Context) error {
	return e.Driver.Close(ctx)
}

func (e *Executor) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		e.Driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.DBName),
		neo4j.ExecuteQueryWithWritersRouting(),
	)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	return result, nil
}

func (e *Executor) Read(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		e.Driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.DBName),
		neo4j.ExecuteQueryWithReadersRouting(),
	)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	return result, nil
}

// Stream uses an auto-commit transaction: a managed one could be retried
// after records were already handed to fn.
func (e *Executor) Stream(ctx context.Context, query string, params map[string]any, fn func(*neo4j.Record) error) error {
	session := e.Driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: e.DBName,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return fmt.Errorf("error executing neo4j query: %w", err)
	}

	for result.Next(ctx) {
		if err := fn(result.Record()); err != nil {
			return err
		}
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("error streaming neo4j result: %w", err)
	}
	return nil
}
