package neo4j

import (
	"context"
	"fmt"
	"os"

	"github.com/mynah-ai/mynah/pkg/logger"
	"github.com/mynah-ai/mynah/pkg/store"
)

// LoadKnowledgeBase applies the constraint and seed Cypher scripts. Both are
// optional file paths. Constraint statements are logged and skipped on
// failure, seed statements abort the load.
func (s *KnowledgeGraphStorage) LoadKnowledgeBase(ctx context.Context, schemaRef, dataRef string) error {
	if schemaRef != "" {
		logger.Info("[Store][LoadKnowledgeBase] Applying constraints", "file", schemaRef)
		content, err := os.ReadFile(schemaRef)
		if err != nil {
			return fmt.Errorf("failed to read constraints file: %w", err)
		}

		for _, stmt := range store.SplitStatements(string(content)) {
			if _, err := s.runner.ExecuteQuery(ctx, stmt, nil); err != nil {
				logger.Warn("[Store][LoadKnowledgeBase] Constraint statement failed", "error", err)
			}
		}
	}

	if dataRef != "" {
		logger.Info("[Store][LoadKnowledgeBase] Applying seed data", "file", dataRef)
		content, err := os.ReadFile(dataRef)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}

		for _, stmt := range store.SplitStatements(string(content)) {
			if _, err := s.runner.ExecuteQuery(ctx, stmt, nil); err != nil {
				return fmt.Errorf("failed to apply seed statement: %w", err)
			}
		}
	}

	return nil
}
