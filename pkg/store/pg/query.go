package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/mynah-ai/mynah/pkg/logger"
	"github.com/mynah-ai/mynah/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

const (
	similarTermLimit = 5
	similarTermFloor = 0.4
)

func (s *KnowledgeDBStorage) AllFAQs(ctx context.Context) ([]store.FAQRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT question, answer, category
		FROM faqs
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs: %w", err)
	}
	defer rows.Close()

	var faqs []store.FAQRow
	for rows.Next() {
		var row store.FAQRow
		if err := rows.Scan(&row.Question, &row.Answer, &row.Category); err != nil {
			return nil, fmt.Errorf("failed to scan faq row: %w", err)
		}
		faqs = append(faqs, row)
	}
	return faqs, rows.Err()
}

func (s *KnowledgeDBStorage) FAQsByCategory(ctx context.Context, category string) ([]store.FAQRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT question, answer
		FROM faqs
		WHERE lower(category) = lower($1)
		ORDER BY id`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs by category: %w", err)
	}
	defer rows.Close()

	var faqs []store.FAQRow
	for rows.Next() {
		var row store.FAQRow
		if err := rows.Scan(&row.Question, &row.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan faq row: %w", err)
		}
		faqs = append(faqs, row)
	}
	return faqs, rows.Err()
}

func (s *KnowledgeDBStorage) EntitiesByTerm(ctx context.Context, term string) ([]store.EntityRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT name, type
		FROM entities
		WHERE lower(name) = lower($1)
		ORDER BY id`, term)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var entities []store.EntityRow
	for rows.Next() {
		var row store.EntityRow
		if err := rows.Scan(&row.Name, &row.Type); err != nil {
			return nil, fmt.Errorf("failed to scan entity row: %w", err)
		}
		entities = append(entities, row)
	}
	return entities, rows.Err()
}

func (s *KnowledgeDBStorage) EntityProperties(ctx context.Context, entity string) ([]store.PropertyRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT p.property, p.value, p.metadata
		FROM entity_properties p
		JOIN entities e ON e.id = p.entity_id
		WHERE lower(e.name) = lower($1)
		ORDER BY p.id`, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity properties: %w", err)
	}
	defer rows.Close()

	var properties []store.PropertyRow
	for rows.Next() {
		var row store.PropertyRow
		if err := rows.Scan(&row.Property, &row.Value, &row.Metadata); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, row)
	}
	return properties, rows.Err()
}

func (s *KnowledgeDBStorage) RelatedEntities(ctx context.Context, entity string) ([]store.RelationRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT to_entity, relationship_type, context
		FROM relationships
		WHERE lower(from_entity) = lower($1)
		ORDER BY id`, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to query related entities: %w", err)
	}
	defer rows.Close()

	var relations []store.RelationRow
	for rows.Next() {
		var row store.RelationRow
		if err := rows.Scan(&row.To, &row.Type, &row.Context); err != nil {
			return nil, fmt.Errorf("failed to scan relation row: %w", err)
		}
		relations = append(relations, row)
	}
	return relations, rows.Err()
}

// SimilarTerms combines the symbolic synonym table with a vector search over
// stored term embeddings. When no embedder is configured, or embedding the
// term fails, the symbolic matches are returned on their own.
func (s *KnowledgeDBStorage) SimilarTerms(ctx context.Context, term string) ([]store.SynonymRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT synonym, confidence
		FROM synonyms
		WHERE lower(term) = lower($1)
		ORDER BY id`, term)
	if err != nil {
		return nil, fmt.Errorf("failed to query synonyms: %w", err)
	}
	defer rows.Close()

	var synonyms []store.SynonymRow
	seen := map[string]bool{strings.ToLower(term): true}
	for rows.Next() {
		var row store.SynonymRow
		if err := rows.Scan(&row.Term, &row.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan synonym row: %w", err)
		}
		synonyms = append(synonyms, row)
		seen[strings.ToLower(row.Term)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read synonym rows: %w", err)
	}

	if s.embedder == nil {
		return synonyms, nil
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, strings.ToLower(term))
	if err != nil {
		logger.Warn("[Store][SimilarTerms] Embedding failed, symbolic matches only", "term", term, "error", err)
		return synonyms, nil
	}

	vecRows, err := s.conn.Query(ctx, `
		SELECT term, 1 - (embedding <=> $1) AS confidence
		FROM terms
		WHERE lower(term) <> lower($2)
		  AND 1 - (embedding <=> $1) >= $3
		ORDER BY embedding <=> $1
		LIMIT $4`, pgvector.NewVector(embedding), term, similarTermFloor, similarTermLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar terms: %w", err)
	}
	defer vecRows.Close()

	for vecRows.Next() {
		var row store.SynonymRow
		if err := vecRows.Scan(&row.Term, &row.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan similar term row: %w", err)
		}
		if seen[strings.ToLower(row.Term)] {
			continue
		}
		seen[strings.ToLower(row.Term)] = true
		synonyms = append(synonyms, row)
	}
	return synonyms, vecRows.Err()
}

func (s *KnowledgeDBStorage) CategoryHierarchy(ctx context.Context, category string) (*store.HierarchyRow, error) {
	var row store.HierarchyRow
	err := s.conn.QueryRow(ctx, `
		SELECT parent, description
		FROM category_hierarchy
		WHERE lower(category) = lower($1)`, category).Scan(&row.Parent, &row.Description)
	if err == pgxv5.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category hierarchy: %w", err)
	}
	return &row, nil
}

func (s *KnowledgeDBStorage) WeightedContext(ctx context.Context, term string) ([]store.WeightedRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT context, weight
		FROM weighted_context
		WHERE lower(term) = lower($1)
		ORDER BY id`, term)
	if err != nil {
		return nil, fmt.Errorf("failed to query weighted context: %w", err)
	}
	defer rows.Close()

	var contexts []store.WeightedRow
	for rows.Next() {
		var row store.WeightedRow
		if err := rows.Scan(&row.Context, &row.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan weighted context row: %w", err)
		}
		contexts = append(contexts, row)
	}
	return contexts, rows.Err()
}
