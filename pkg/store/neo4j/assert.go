package neo4j

import (
	"context"
	"fmt"
	"sort"

	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
)

func (s *KnowledgeGraphStorage) AssertFAQ(ctx context.Context, faq common.FAQ) error {
	logger.Debug("[Store][AssertFAQ] Saving FAQ", "question", faq.Question, "category", faq.Category)

	concepts := make([]any, 0, len(faq.Concepts))
	for _, concept := range faq.Concepts {
		concepts = append(concepts, concept)
	}

	_, err := s.runner.ExecuteQuery(ctx, `
		MERGE (f:FAQ {question: $question})
		ON CREATE SET f.answer = $answer, f.category = $category, f.concepts = $concepts, f.created_at = timestamp()`,
		map[string]any{
			"question": faq.Question,
			"answer":   faq.Answer,
			"category": faq.Category,
			"concepts": concepts,
		})
	if err != nil {
		return fmt.Errorf("failed to save faq: %w", err)
	}
	return nil
}

func (s *KnowledgeGraphStorage) AssertEntity(ctx context.Context, entity common.Entity) error {
	logger.Debug("[Store][AssertEntity] Saving entity",
		"name", entity.Name,
		"type", entity.Type,
		"properties", len(entity.Properties),
		"relations", len(entity.Relations))

	_, err := s.runner.ExecuteQuery(ctx, `
		MERGE (e:Entity {name: $name})
		ON CREATE SET e.type = $type, e.created_at = timestamp()
		ON MATCH SET e.type = CASE WHEN coalesce(e.type, '') = '' THEN $type ELSE e.type END`,
		map[string]any{"name": entity.Name, "type": entity.Type})
	if err != nil {
		return fmt.Errorf("failed to save entity: %w", err)
	}

	keys := make([]string, 0, len(entity.Properties))
	for key := range entity.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	properties := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		value := entity.Properties[key]
		properties = append(properties, map[string]any{
			"name":     key,
			"value":    value.Value,
			"metadata": value.Metadata,
		})
	}
	if len(properties) > 0 {
		_, err := s.runner.ExecuteQuery(ctx, `
			MATCH (e:Entity {name: $name})
			UNWIND $properties AS prop
			MERGE (e)-[:HAS_PROPERTY]->(p:Property {name: prop.name})
			ON CREATE SET p.value = prop.value, p.metadata = prop.metadata, p.created_at = timestamp()`,
			map[string]any{"name": entity.Name, "properties": properties})
		if err != nil {
			return fmt.Errorf("failed to save entity properties: %w", err)
		}
	}

	relations := make([]map[string]any, 0, len(entity.Relations))
	for _, relation := range entity.Relations {
		relations = append(relations, map[string]any{
			"to":      relation.To,
			"type":    relation.Type,
			"context": relation.Context,
		})
	}
	if len(relations) > 0 {
		_, err := s.runner.ExecuteQuery(ctx, `
			MATCH (a:Entity {name: $name})
			UNWIND $relations AS rel
			MERGE (b:Entity {name: rel.to})
			ON CREATE SET b.type = '', b.created_at = timestamp()
			MERGE (a)-[r:RELATED_TO {type: rel.type}]->(b)
			ON CREATE SET r.context = rel.context, r.created_at = timestamp()`,
			map[string]any{"name": entity.Name, "relations": relations})
		if err != nil {
			return fmt.Errorf("failed to save entity relations: %w", err)
		}
	}
	return nil
}

func (s *KnowledgeGraphStorage) AssertProperty(ctx context.Context, entity, property, value, metadata string) error {
	logger.Debug("[Store][AssertProperty] Saving property", "entity", entity, "property", property)

	_, err := s.runner.ExecuteQuery(ctx, `
		MERGE (e:Entity {name: $entity})
		ON CREATE SET e.type = '', e.created_at = timestamp()
		MERGE (e)-[:HAS_PROPERTY]->(p:Property {name: $property})
		ON CREATE SET p.value = $value, p.metadata = $metadata, p.created_at = timestamp()`,
		map[string]any{
			"entity":   entity,
			"property": property,
			"value":    value,
			"metadata": metadata,
		})
	if err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	return nil
}

func (s *KnowledgeGraphStorage) AssertRelationship(ctx context.Context, rel common.Relationship) error {
	logger.Debug("[Store][AssertRelationship] Saving relationship",
		"from", rel.From,
		"type", rel.Type,
		"to", rel.To)

	_, err := s.runner.ExecuteQuery(ctx, `
		MERGE (a:Entity {name: $from})
		ON CREATE SET a.type = '', a.created_at = timestamp()
		MERGE (b:Entity {name: $to})
		ON CREATE SET b.type = '', b.created_at = timestamp()
		MERGE (a)-[r:RELATED_TO {type: $type}]->(b)
		ON CREATE SET r.context = $context, r.created_at = timestamp()`,
		map[string]any{
			"from":    rel.From,
			"type":    rel.Type,
			"to":      rel.To,
			"context": rel.Context,
		})
	if err != nil {
		return fmt.Errorf("failed to save relationship: %w", err)
	}
	return nil
}
