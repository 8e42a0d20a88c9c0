package pg

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mynah-ai/mynah/pkg/logger"
	"github.com/mynah-ai/mynah/pkg/store"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// LoadKnowledgeBase prepares the database for queries. The schemaRef is a
// migrate source URL (for example file://db/migrations) and dataRef is a path
// to a seed SQL file. Both are optional, an empty reference skips that phase.
// Seed statements are expected to be idempotent so the server can run them on
// every start.
func (s *KnowledgeDBStorage) LoadKnowledgeBase(ctx context.Context, schemaRef, dataRef string) error {
	if schemaRef != "" {
		if s.databaseURL == "" {
			return fmt.Errorf("schema migrations require a database url")
		}

		logger.Info("[Store][LoadKnowledgeBase] Running migrations", "source", schemaRef)
		m, err := migrate.New(schemaRef, s.databaseURL)
		if err != nil {
			return fmt.Errorf("failed to open migrations: %w", err)
		}
		defer m.Close()

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if dataRef != "" {
		logger.Info("[Store][LoadKnowledgeBase] Applying seed data", "file", dataRef)
		content, err := os.ReadFile(dataRef)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}

		for _, stmt := range store.SplitStatements(string(content)) {
			if _, err := s.conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply seed statement: %w", err)
			}
		}
	}

	return nil
}
