package store

import (
	"context"

	"github.com/mynah-ai/mynah/pkg/common"
)

// KnowledgeStore defines the interface for persisting and querying the
// knowledge base. It provides symbolic read operations used during context
// retrieval, idempotent assert operations for adding facts, and lifecycle
// operations for loading the knowledge base at startup.
//
// Read operations answer narrow questions (FAQs for a term, properties of an
// entity) and return nothing rather than failing when no facts match.
// Assert operations are additive: asserting a fact that already exists is a
// no-op, never an error.
type KnowledgeStore interface {
	// AllFAQs returns every FAQ with its category.
	AllFAQs(ctx context.Context) ([]FAQRow, error)
	// FAQsByCategory returns FAQs whose category matches the term.
	FAQsByCategory(ctx context.Context, term string) ([]FAQRow, error)
	// EntitiesByTerm returns entities whose name matches the term.
	EntitiesByTerm(ctx context.Context, term string) ([]EntityRow, error)
	// EntityProperties returns all properties of the named entity together
	// with their provenance metadata.
	EntityProperties(ctx context.Context, entity string) ([]PropertyRow, error)
	// RelatedEntities returns outgoing relationships of the named entity.
	RelatedEntities(ctx context.Context, entity string) ([]RelationRow, error)
	// SimilarTerms returns known synonyms of the term with confidence
	// scores.
	SimilarTerms(ctx context.Context, term string) ([]SynonymRow, error)
	// CategoryHierarchy returns the parent and description of a category,
	// or nil when the category has no hierarchy record.
	CategoryHierarchy(ctx context.Context, category string) (*HierarchyRow, error)
	// WeightedContext returns weighted context snippets matching the term.
	WeightedContext(ctx context.Context, term string) ([]WeightedRow, error)

	AssertFAQ(ctx context.Context, faq common.FAQ) error
	AssertEntity(ctx context.Context, entity common.Entity) error
	AssertProperty(ctx context.Context, entity string, property string, value string, metadata string) error
	AssertRelationship(ctx context.Context, rel common.Relationship) error

	// LoadKnowledgeBase applies the schema reference and optional data
	// reference to the backend. What the references point at is
	// backend-specific (migration source, seed file, Cypher scripts).
	LoadKnowledgeBase(ctx context.Context, schemaRef string, dataRef string) error
	Close() error
}

// FAQRow is one FAQ returned by the read side. Category is empty for reads
// that match by category, the caller already knows it.
type FAQRow struct {
	Question string
	Answer   string
	Category string
}

// EntityRow identifies an entity by name and type.
type EntityRow struct {
	Name string
	Type string
}

// PropertyRow is one property of an entity with its provenance metadata.
type PropertyRow struct {
	Property string
	Value    string
	Metadata string
}

// RelationRow is one outgoing relationship of an entity.
type RelationRow struct {
	To      string
	Type    string
	Context string
}

// SynonymRow is a term known to be similar to another term.
type SynonymRow struct {
	Term       string
	Confidence float64
}

// HierarchyRow is the hierarchy record of a category.
type HierarchyRow struct {
	Parent      string
	Description string
}

// WeightedRow is a context snippet with a relevance weight.
type WeightedRow struct {
	Context string
	Weight  float64
}
