package pg

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mynah-ai/mynah/internal/util"
	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
	"github.com/mynah-ai/mynah/pkg/store"

	"github.com/pgvector/pgvector-go"
)

func (s *KnowledgeDBStorage) AssertFAQ(ctx context.Context, faq common.FAQ) error {
	question := util.SanitizePostgresText(faq.Question)
	answer := util.SanitizePostgresText(faq.Answer)
	category := util.SanitizePostgresText(faq.Category)
	concepts := make([]string, 0, len(faq.Concepts))
	for _, concept := range faq.Concepts {
		concepts = append(concepts, util.SanitizePostgresText(concept))
	}

	logger.Debug("[Store][AssertFAQ] Saving FAQ", "question", question, "category", category)

	s.dbLock.Lock()
	err := s.insertFAQ(ctx, question, answer, category, concepts)
	s.dbLock.Unlock()
	if err != nil {
		return fmt.Errorf("failed to save faq: %w", err)
	}

	s.upsertTerms(ctx, concepts)
	return nil
}

func (s *KnowledgeDBStorage) insertFAQ(ctx context.Context, question, answer, category string, concepts []string) error {
	if _, err := s.conn.Exec(ctx, `
		INSERT INTO faqs (question, answer, category)
		VALUES ($1, $2, $3)
		ON CONFLICT (question) DO NOTHING`, question, answer, category); err != nil {
		return err
	}

	var faqId int64
	if err := s.conn.QueryRow(ctx, `
		SELECT id FROM faqs WHERE question = $1`, question).Scan(&faqId); err != nil {
		return err
	}

	for _, concept := range concepts {
		if concept == "" {
			continue
		}
		if _, err := s.conn.Exec(ctx, `
			INSERT INTO faq_concepts (faq_id, concept)
			VALUES ($1, $2)
			ON CONFLICT (faq_id, concept) DO NOTHING`, faqId, concept); err != nil {
			return err
		}
	}
	return nil
}

func (s *KnowledgeDBStorage) AssertEntity(ctx context.Context, entity common.Entity) error {
	name := util.SanitizePostgresText(entity.Name)
	entityType := util.SanitizePostgresText(entity.Type)

	logger.Debug("[Store][AssertEntity] Saving entity",
		"name", name,
		"type", entityType,
		"properties", len(entity.Properties),
		"relations", len(entity.Relations))

	s.dbLock.Lock()
	err := s.insertEntity(ctx, name, entityType, entity)
	s.dbLock.Unlock()
	if err != nil {
		return fmt.Errorf("failed to save entity: %w", err)
	}

	s.upsertTerms(ctx, []string{name})
	return nil
}

func (s *KnowledgeDBStorage) insertEntity(ctx context.Context, name, entityType string, entity common.Entity) error {
	entityId, err := s.ensureEntity(ctx, name, entityType)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(entity.Properties))
	for key := range entity.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := entity.Properties[key]
		if _, err := s.conn.Exec(ctx, `
			INSERT INTO entity_properties (entity_id, property, value, metadata)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (entity_id, property) DO NOTHING`,
			entityId,
			util.SanitizePostgresText(key),
			util.SanitizePostgresText(value.Value),
			util.SanitizePostgresText(value.Metadata),
		); err != nil {
			return err
		}
	}

	for _, relation := range entity.Relations {
		if _, err := s.conn.Exec(ctx, `
			INSERT INTO relationships (from_entity, relationship_type, to_entity, context)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (from_entity, relationship_type, to_entity) DO NOTHING`,
			name,
			util.SanitizePostgresText(relation.Type),
			util.SanitizePostgresText(relation.To),
			util.SanitizePostgresText(relation.Context),
		); err != nil {
			return err
		}
	}
	return nil
}

// ensureEntity inserts the entity row if it is missing and returns its id. A
// placeholder row with an empty type is upgraded to the given type, a real
// type is never overwritten.
func (s *KnowledgeDBStorage) ensureEntity(ctx context.Context, name, entityType string) (int64, error) {
	if _, err := s.conn.Exec(ctx, `
		INSERT INTO entities (name, type)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET type = CASE WHEN entities.type = '' THEN EXCLUDED.type ELSE entities.type END`,
		name, entityType); err != nil {
		return -1, err
	}

	var entityId int64
	if err := s.conn.QueryRow(ctx, `
		SELECT id FROM entities WHERE name = $1`, name).Scan(&entityId); err != nil {
		return -1, err
	}
	return entityId, nil
}

func (s *KnowledgeDBStorage) AssertProperty(ctx context.Context, entity, property, value, metadata string) error {
	name := util.SanitizePostgresText(entity)

	logger.Debug("[Store][AssertProperty] Saving property", "entity", name, "property", property)

	s.dbLock.Lock()
	err := s.insertProperty(ctx, name,
		util.SanitizePostgresText(property),
		util.SanitizePostgresText(value),
		util.SanitizePostgresText(metadata))
	s.dbLock.Unlock()
	if err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	return nil
}

func (s *KnowledgeDBStorage) insertProperty(ctx context.Context, entity, property, value, metadata string) error {
	entityId, err := s.ensureEntity(ctx, entity, "")
	if err != nil {
		return err
	}

	_, err = s.conn.Exec(ctx, `
		INSERT INTO entity_properties (entity_id, property, value, metadata)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (entity_id, property) DO NOTHING`, entityId, property, value, metadata)
	return err
}

func (s *KnowledgeDBStorage) AssertRelationship(ctx context.Context, rel common.Relationship) error {
	logger.Debug("[Store][AssertRelationship] Saving relationship",
		"from", rel.From,
		"type", rel.Type,
		"to", rel.To)

	s.dbLock.Lock()
	_, err := s.conn.Exec(ctx, `
		INSERT INTO relationships (from_entity, relationship_type, to_entity, context)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (from_entity, relationship_type, to_entity) DO NOTHING`,
		util.SanitizePostgresText(rel.From),
		util.SanitizePostgresText(rel.Type),
		util.SanitizePostgresText(rel.To),
		util.SanitizePostgresText(rel.Context))
	s.dbLock.Unlock()
	if err != nil {
		return fmt.Errorf("failed to save relationship: %w", err)
	}
	return nil
}

// upsertTerms stores lowercase terms with their embeddings for vector synonym
// lookups. Failures are not propagated, a missing embedding only narrows
// synonym expansion.
func (s *KnowledgeDBStorage) upsertTerms(ctx context.Context, terms []string) {
	if s.embedder == nil {
		return
	}

	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(term)))
	}
	normalized = store.DedupeStrings(normalized)
	if len(normalized) == 0 {
		return
	}

	embeddings, err := store.GenerateEmbeddings(ctx, s.embedder, normalized)
	if err != nil {
		logger.Warn("[Store][UpsertTerms] Embedding failed", "terms", len(normalized), "error", err)
		return
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()
	for i, term := range normalized {
		embed := pgvector.NewVector(embeddings[i])
		if _, err := s.conn.Exec(ctx, `
			INSERT INTO terms (term, embedding)
			VALUES ($1, $2)
			ON CONFLICT (term) DO NOTHING`, term, embed); err != nil {
			logger.Warn("[Store][UpsertTerms] Insert failed", "term", term, "error", err)
		}
	}
}
