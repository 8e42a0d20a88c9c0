package neo4j

import (
	"context"
	"fmt"

	"github.com/mynah-ai/mynah/pkg/store"

	neo4jv5 "github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func (s *KnowledgeGraphStorage) AllFAQs(ctx context.Context) ([]store.FAQRow, error) {
	result, err := s.runner.ExecuteQuery(ctx, `
		MATCH (f:FAQ)
		RETURN f.question AS question, f.answer AS answer, f.category AS category
		ORDER BY f.created_at, f.question`, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs: %w", err)
	}

	var faqs []store.FAQRow
	for _, record := range result.Records {
		faqs = append(faqs, store.FAQRow{
			Question: stringValue(record, "question"),
			Answer:   stringValue(record, "answer"),
			Category: stringValue(record, "category"),
		})
	}
	return faqs, nil
}

func (s *KnowledgeGraphStorage) FAQsByCategory(ctx context.Context, category string) ([]store.FAQRow, error) {
	result, err := s.runner.ExecuteQuery(ctx, `
		MATCH (f:FAQ)
		WHERE toLower(f.category) = toLower($category)
		RETURN f.question AS question, f.answer AS answer
		ORDER BY f.created_at, f.question`, map[string]any{"category": category})
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs by category: %w", err)
	}

	var faqs []store.FAQRow
	for _, record := range result.Records {
		faqs = append(faqs, store.FAQRow{
			Question: stringValue(record, "question"),
			Answer:   stringValue(record, "answer"),
		})
	}
	return faqs, nil
}

func (s *KnowledgeGraphStorage) EntitiesByTerm(ctx context.Context, term string) ([]store.EntityRow, error) {
	result, err := s.runner.ExecuteQuery(ctx, `
		MATCH (e:Entity)
		WHERE toLower(e.name) = toLower($term)
		RETURN e.name AS name, e.type AS type
		ORDER BY e.created_at, e.name`, map[string]any{"term": term})
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}

	var entities []store.EntityRow
	for _, record := range result.Records {
		entities = append(entities, store.EntityRow{
			Name: stringValue(record, "name"),
			Type: stringValue(record, "type"),
		})
	}
	return entities, nil
}

func (s *KnowledgeGraphStorage) EntityProperties(ctx context.Context, entity string) ([]store.PropertyRow, error) {
	result, err := s.runner.ExecuteQuery(ctx, `
		MATCH (e:Entity)-[:HAS_PROPERTY]->(p:Property)
		WHERE toLower(e.name) = toLower($entity)
		RETURN p.name AS property, p.value AS value, p.metadata AS metadata
		ORDER BY p.created_at, p.name`, map[string]any{"entity": entity})
	if err != nil {
		return nil, fmt.Errorf("failed to query entity properties: %w", err)
	}

	var properties []store.PropertyRow
	for _, record := range result.Records {
		properties = append(properties, store.PropertyRow{
			Property: stringValue(record, "property"),
			Value:    stringValue(record, "value"),
			Metadata: stringValue(record, "metadata"),
		})
	}
	return properties, nil
}

func (s *KnowledgeGraphStorage) RelatedEntities(ctx context.Context, entity string) ([]store.RelationRow, error) {
	result, err := s.runner.ExecuteQuery(ctx, `
		MATCH (a:Entity)-[r:RELATED_TO]->(b:Entity)
		WHERE toLower(a.name) = toLower($entity)
		RETURN b.name AS to_entity, r.type AS relationship_type, r.context AS context
		ORDER BY r.created_at, b.name`, map[string]any{"entity": entity})
	if err != nil {
		return nil, fmt.Errorf("failed to query related entities: %w", err)
	}

	var relations []store.RelationRow
	for _, record := range result.Records {
		relations = append(relations, store.RelationRow{
			To:      stringValue(record, "to_entity"),
			Type:    stringValue(record, "relationship_type"),
			Context: stringValue(record, "context"),
		})
	}
	return relations, nil
}

// SimilarTerms returns symbolic synonyms only. The Neo4j backend has no term
// embedding store, vector expansion is a pgvector feature.
func (s *KnowledgeGraphStorage) SimilarTerms(ctx context.Context, term string) ([]store.SynonymRow, error) {
	result, err := s.runner.ExecuteQuery(ctx, `
		MATCH (t:Term)-[r:SYNONYM_OF]->(o:Term)
		WHERE toLower(t.name) = toLower($term)
		RETURN o.name AS term, r.confidence AS confidence
		ORDER BY r.confidence DESC, o.name`, map[string]any{"term": term})
	if err != nil {
		return nil, fmt.Errorf("failed to query synonyms: %w", err)
	}

	var synonyms []store.SynonymRow
	for _, record := range result.Records {
		synonyms = append(synonyms, store.SynonymRow{
			Term:       stringValue(record, "term"),
			Confidence: floatValue(record, "confidence"),
		})
	}
	return synonyms, nil
}

func (s *KnowledgeGraphStorage) CategoryHierarchy(ctx context.Context, category string) (*store.HierarchyRow, error) {
	result, err := s.runner.ExecuteQuery(ctx, `
		MATCH (c:Category)
		WHERE toLower(c.name) = toLower($category)
		OPTIONAL MATCH (c)-[:CHILD_OF]->(p:Category)
		RETURN p.name AS parent, c.description AS description
		LIMIT 1`, map[string]any{"category": category})
	if err != nil {
		return nil, fmt.Errorf("failed to query category hierarchy: %w", err)
	}
	if len(result.Records) == 0 {
		return nil, nil
	}

	record := result.Records[0]
	return &store.HierarchyRow{
		Parent:      stringValue(record, "parent"),
		Description: stringValue(record, "description"),
	}, nil
}

func (s *KnowledgeGraphStorage) WeightedContext(ctx context.Context, term string) ([]store.WeightedRow, error) {
	result, err := s.runner.ExecuteQuery(ctx, `
		MATCH (t:Term)-[r:HAS_CONTEXT]->(c:Context)
		WHERE toLower(t.name) = toLower($term)
		RETURN c.text AS context, r.weight AS weight
		ORDER BY r.weight DESC, c.text`, map[string]any{"term": term})
	if err != nil {
		return nil, fmt.Errorf("failed to query weighted context: %w", err)
	}

	var contexts []store.WeightedRow
	for _, record := range result.Records {
		contexts = append(contexts, store.WeightedRow{
			Context: stringValue(record, "context"),
			Weight:  floatValue(record, "weight"),
		})
	}
	return contexts, nil
}

func stringValue(record *neo4jv5.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	s, _ := value.(string)
	return s
}

func floatValue(record *neo4jv5.Record, key string) float64 {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return 0
	}
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}
