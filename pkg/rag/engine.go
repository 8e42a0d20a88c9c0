package rag

import (
	"context"
	"fmt"

	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
	"github.com/mynah-ai/mynah/pkg/store"
)

// Engine retrieves knowledge base context for a question. It combines five
// retrieval strategies in a fixed order: direct FAQ matches, entity matches,
// entity matches through synonym expansion, category hierarchy records for
// categories seen so far, and weighted context relationships.
//
// An Engine should be created using NewEngine.
type Engine struct {
	store store.KnowledgeStore
}

// NewEngineParams defines the configuration parameters for creating a new
// Engine.
//
// Store is the knowledge store queried by every retrieval strategy.
type NewEngineParams struct {
	Store store.KnowledgeStore
}

// NewEngine creates and returns a new Engine backed by the given store.
func NewEngine(params NewEngineParams) (*Engine, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("missing knowledge store")
	}

	return &Engine{store: params.Store}, nil
}

// QueryContext gathers context for a question from the knowledge store. The
// strategies run in a fixed order and their results are concatenated, so
// callers can rely on FAQ matches preceding entity matches. A failing
// sub-query is logged and contributes nothing; a partial store outage
// degrades the context instead of aborting retrieval.
func (e *Engine) QueryContext(ctx context.Context, question string) []ContextItem {
	items := []ContextItem{}

	items = append(items, e.faqMatches(ctx, question)...)
	items = append(items, e.entityMatches(ctx, question)...)

	for _, synonym := range e.synonymMatches(ctx, question) {
		items = append(items, e.entityMatches(ctx, synonym.Term)...)
	}

	for _, category := range contextCategories(items) {
		if hierarchy := e.hierarchyMatch(ctx, category); hierarchy != nil {
			items = append(items, ContextItem{CategoryHierarchy: hierarchy})
		}
	}

	items = append(items, e.weightedMatches(ctx, question)...)

	return items
}

// faqMatches returns FAQs whose question or answer text contains a query
// term, followed by FAQs whose category is itself a query term.
func (e *Engine) faqMatches(ctx context.Context, question string) []ContextItem {
	var items []ContextItem
	terms := ExtractTerms(question)

	faqs, err := e.store.AllFAQs(ctx)
	if err != nil {
		logger.Warn("[RAG] Failed to fetch FAQs", "error", err)
	}
	for _, faq := range faqs {
		if !anyTermIn(terms, faq.Question) && !anyTermIn(terms, faq.Answer) {
			continue
		}
		items = append(items, ContextItem{FAQ: &FAQContext{
			Question:  faq.Question,
			Answer:    faq.Answer,
			Category:  faq.Category,
			MatchType: MatchTypeDirect,
		}})
	}

	for _, term := range terms {
		matches, err := e.store.FAQsByCategory(ctx, term)
		if err != nil {
			logger.Warn("[RAG] Failed to fetch FAQs by category", "category", term, "error", err)
			continue
		}
		for _, faq := range matches {
			items = append(items, ContextItem{FAQ: &FAQContext{
				Question:  faq.Question,
				Answer:    faq.Answer,
				MatchType: MatchTypeCategory,
			}})
		}
	}

	return items
}

// entityMatches returns a fully assembled entity for every entity whose
// name matches a term extracted from text.
func (e *Engine) entityMatches(ctx context.Context, text string) []ContextItem {
	var items []ContextItem

	for _, term := range ExtractTerms(text) {
		entities, err := e.store.EntitiesByTerm(ctx, term)
		if err != nil {
			logger.Warn("[RAG] Failed to fetch entities", "term", term, "error", err)
			continue
		}
		for _, entity := range entities {
			items = append(items, ContextItem{Entity: e.assembleEntity(ctx, entity)})
		}
	}

	return items
}

// assembleEntity joins an entity row with its properties and outgoing
// relations. Lookup failures leave the affected part empty.
func (e *Engine) assembleEntity(ctx context.Context, row store.EntityRow) *common.Entity {
	entity := &common.Entity{
		Name:       row.Name,
		Type:       row.Type,
		Properties: map[string]common.PropertyValue{},
	}

	properties, err := e.store.EntityProperties(ctx, row.Name)
	if err != nil {
		logger.Warn("[RAG] Failed to fetch entity properties", "entity", row.Name, "error", err)
	}
	for _, property := range properties {
		entity.Properties[property.Property] = common.PropertyValue{
			Value:    property.Value,
			Metadata: property.Metadata,
		}
	}

	relations, err := e.store.RelatedEntities(ctx, row.Name)
	if err != nil {
		logger.Warn("[RAG] Failed to fetch related entities", "entity", row.Name, "error", err)
	}
	for _, relation := range relations {
		entity.Relations = append(entity.Relations, common.Relation{
			To:      relation.To,
			Type:    relation.Type,
			Context: relation.Context,
		})
	}

	return entity
}

// synonymMatches collects similar terms for every term extracted from the
// question. Confidence scores are carried through unchanged.
func (e *Engine) synonymMatches(ctx context.Context, question string) []store.SynonymRow {
	var synonyms []store.SynonymRow

	for _, term := range ExtractTerms(question) {
		matches, err := e.store.SimilarTerms(ctx, term)
		if err != nil {
			logger.Warn("[RAG] Failed to fetch similar terms", "term", term, "error", err)
			continue
		}
		synonyms = append(synonyms, matches...)
	}

	return synonyms
}

// hierarchyMatch returns the hierarchy record of a category, or nil when
// the category has none.
func (e *Engine) hierarchyMatch(ctx context.Context, category string) *CategoryHierarchy {
	row, err := e.store.CategoryHierarchy(ctx, category)
	if err != nil {
		logger.Warn("[RAG] Failed to fetch category hierarchy", "category", category, "error", err)
		return nil
	}
	if row == nil {
		return nil
	}

	return &CategoryHierarchy{
		Category:    category,
		Parent:      row.Parent,
		Description: row.Description,
	}
}

// weightedMatches returns weighted context snippets for every term
// extracted from the question.
func (e *Engine) weightedMatches(ctx context.Context, question string) []ContextItem {
	var items []ContextItem

	for _, term := range ExtractTerms(question) {
		matches, err := e.store.WeightedContext(ctx, term)
		if err != nil {
			logger.Warn("[RAG] Failed to fetch weighted context", "term", term, "error", err)
			continue
		}
		for _, match := range matches {
			items = append(items, ContextItem{ContextRelationship: &WeightedContext{
				Context: match.Context,
				Weight:  match.Weight,
			}})
		}
	}

	return items
}

// contextCategories lists the distinct categories seen in items so far, in
// first-seen order. Direct FAQ matches contribute their category and
// entities their type; empty values are skipped.
func contextCategories(items []ContextItem) []string {
	var categories []string
	for _, item := range items {
		switch {
		case item.FAQ != nil:
			categories = append(categories, item.FAQ.Category)
		case item.Entity != nil:
			categories = append(categories, item.Entity.Type)
		}
	}

	return store.DedupeStrings(categories)
}
