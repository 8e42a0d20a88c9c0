package neo4j

import (
	"context"
	"fmt"

	neo4jv5 "github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type graphRunner interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) (*neo4jv5.EagerResult, error)
}

// KnowledgeGraphStorage implements the KnowledgeStore interface on Neo4j.
// Facts are modelled as FAQ, Entity, Property, Category, Term and Context
// nodes connected by typed relationships. Every mutation is a MERGE with
// ON CREATE SET, repeated asserts keep the first value.
type KnowledgeGraphStorage struct {
	runner graphRunner
	driver neo4jv5.DriverWithContext
}

// New connects to a Neo4j instance and verifies connectivity before
// returning.
func New(ctx context.Context, uri, username, password string) (*KnowledgeGraphStorage, error) {
	driver, err := neo4jv5.NewDriverWithContext(uri, neo4jv5.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify neo4j connectivity: %w", err)
	}

	return &KnowledgeGraphStorage{
		runner: &driverRunner{driver: driver},
		driver: driver,
	}, nil
}

// NewWithRunner creates a KnowledgeGraphStorage on an existing query runner.
func NewWithRunner(runner graphRunner) *KnowledgeGraphStorage {
	return &KnowledgeGraphStorage{runner: runner}
}

func (s *KnowledgeGraphStorage) Close() error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(context.Background())
}

type driverRunner struct {
	driver neo4jv5.DriverWithContext
}

func (r *driverRunner) ExecuteQuery(ctx context.Context, query string, params map[string]any) (*neo4jv5.EagerResult, error) {
	return neo4jv5.ExecuteQuery(ctx, r.driver, query, params, neo4jv5.EagerResultTransformer)
}
