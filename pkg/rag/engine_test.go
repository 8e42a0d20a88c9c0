package rag

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/store"
)

func TestNewEngine_RequiresStore(t *testing.T) {
	if _, err := NewEngine(NewEngineParams{}); err == nil {
		t.Fatalf("expected an error for a missing store")
	}
}

func TestQueryContext_FAQMatchesPrecedeEntityMatches(t *testing.T) {
	kb := &knowledgeStoreMock{
		faqs: []store.FAQRow{
			{Question: "What is the rover?", Answer: "A mobile robot.", Category: "robotics"},
		},
		entities: map[string][]store.EntityRow{
			"rover": {{Name: "Rover", Type: "robot"}},
		},
	}
	engine := newTestEngine(t, kb)

	items := engine.QueryContext(context.Background(), "Tell me about the rover")

	if len(items) != 2 {
		t.Fatalf("expected 2 context items, got %d", len(items))
	}
	faq := items[0].FAQ
	if faq == nil {
		t.Fatalf("expected the first item to be an FAQ match, got %+v", items[0])
	}
	if faq.MatchType != MatchTypeDirect || faq.Category != "robotics" {
		t.Fatalf("expected a direct match with category, got %+v", faq)
	}
	if items[1].Entity == nil {
		t.Fatalf("expected the second item to be an entity match, got %+v", items[1])
	}
}

func TestQueryContext_CategoryFAQMatchLeavesCategoryEmpty(t *testing.T) {
	kb := &knowledgeStoreMock{
		faqsByCategory: map[string][]store.FAQRow{
			"shipping": {{Question: "How long does delivery take?", Answer: "Two days."}},
		},
	}
	engine := newTestEngine(t, kb)

	items := engine.QueryContext(context.Background(), "shipping")

	if len(items) != 1 {
		t.Fatalf("expected 1 context item, got %d", len(items))
	}
	faq := items[0].FAQ
	if faq == nil {
		t.Fatalf("expected an FAQ match, got %+v", items[0])
	}
	if faq.MatchType != MatchTypeCategory {
		t.Fatalf("expected match type %q, got %q", MatchTypeCategory, faq.MatchType)
	}
	if faq.Category != "" {
		t.Fatalf("expected an empty category on category matches, got %q", faq.Category)
	}
}

func TestQueryContext_AssemblesEntityPropertiesAndRelations(t *testing.T) {
	kb := &knowledgeStoreMock{
		entities: map[string][]store.EntityRow{
			"gripper": {{Name: "Gripper", Type: "component"}},
		},
		properties: map[string][]store.PropertyRow{
			"Gripper": {{Property: "payload", Value: "2kg", Metadata: "source: datasheet"}},
		},
		relations: map[string][]store.RelationRow{
			"Gripper": {{To: "Arm", Type: "mounted_on", Context: "Standard assembly."}},
		},
	}
	engine := newTestEngine(t, kb)

	items := engine.QueryContext(context.Background(), "gripper")

	if len(items) != 1 || items[0].Entity == nil {
		t.Fatalf("expected a single entity item, got %+v", items)
	}
	entity := items[0].Entity
	expectedProperties := map[string]common.PropertyValue{
		"payload": {Value: "2kg", Metadata: "source: datasheet"},
	}
	if !reflect.DeepEqual(entity.Properties, expectedProperties) {
		t.Fatalf("expected properties %v, got %v", expectedProperties, entity.Properties)
	}
	expectedRelations := []common.Relation{{To: "Arm", Type: "mounted_on", Context: "Standard assembly."}}
	if !reflect.DeepEqual(entity.Relations, expectedRelations) {
		t.Fatalf("expected relations %v, got %v", expectedRelations, entity.Relations)
	}
}

func TestQueryContext_SynonymExpansionFindsEntities(t *testing.T) {
	kb := &knowledgeStoreMock{
		synonyms: map[string][]store.SynonymRow{
			"automobile": {{Term: "vehicle", Confidence: 0.9}},
		},
		entities: map[string][]store.EntityRow{
			"vehicle": {{Name: "Vehicle", Type: "machine"}},
		},
	}
	engine := newTestEngine(t, kb)

	items := engine.QueryContext(context.Background(), "automobile")

	if len(items) != 1 {
		t.Fatalf("expected 1 context item, got %d", len(items))
	}
	if items[0].Entity == nil || items[0].Entity.Name != "Vehicle" {
		t.Fatalf("expected the entity found through the synonym, got %+v", items[0])
	}
}

func TestQueryContext_AppendsHierarchyForSeenCategories(t *testing.T) {
	kb := &knowledgeStoreMock{
		faqs: []store.FAQRow{
			{Question: "What does the printer cost?", Answer: "200 euro.", Category: "pricing"},
		},
		hierarchies: map[string]*store.HierarchyRow{
			"pricing": {Parent: "sales", Description: "Cost and payment topics."},
		},
	}
	engine := newTestEngine(t, kb)

	items := engine.QueryContext(context.Background(), "printer")

	if len(items) != 2 {
		t.Fatalf("expected 2 context items, got %d", len(items))
	}
	hierarchy := items[1].CategoryHierarchy
	if hierarchy == nil {
		t.Fatalf("expected a hierarchy item, got %+v", items[1])
	}
	expected := &CategoryHierarchy{Category: "pricing", Parent: "sales", Description: "Cost and payment topics."}
	if !reflect.DeepEqual(hierarchy, expected) {
		t.Fatalf("expected %+v, got %+v", expected, hierarchy)
	}
}

func TestQueryContext_HierarchyCategoriesInFirstSeenOrder(t *testing.T) {
	kb := &knowledgeStoreMock{
		faqs: []store.FAQRow{
			{Question: "Warranty for the scanner?", Answer: "Two years.", Category: "support"},
			{Question: "Scanner driver updates?", Answer: "Monthly.", Category: "software"},
			{Question: "Scanner cleaning?", Answer: "Use a dry cloth.", Category: "support"},
		},
		hierarchies: map[string]*store.HierarchyRow{
			"support":  {Parent: "service", Description: "Help topics."},
			"software": {Parent: "products", Description: "Software topics."},
		},
	}
	engine := newTestEngine(t, kb)

	items := engine.QueryContext(context.Background(), "scanner")

	var got []string
	for _, item := range items {
		if item.CategoryHierarchy != nil {
			got = append(got, item.CategoryHierarchy.Category)
		}
	}
	expected := []string{"support", "software"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected hierarchy order %v, got %v", expected, got)
	}
}

func TestQueryContext_WeightedContextUsesOriginalTermsOnly(t *testing.T) {
	kb := &knowledgeStoreMock{
		synonyms: map[string][]store.SynonymRow{
			"battery": {{Term: "accumulator", Confidence: 0.8}},
		},
		weighted: map[string][]store.WeightedRow{
			"battery":     {{Context: "Batteries ship separately.", Weight: 2}},
			"accumulator": {{Context: "Accumulator context.", Weight: 1}},
		},
	}
	engine := newTestEngine(t, kb)

	items := engine.QueryContext(context.Background(), "battery")

	if len(items) != 1 {
		t.Fatalf("expected 1 context item, got %d", len(items))
	}
	relationship := items[0].ContextRelationship
	if relationship == nil || relationship.Context != "Batteries ship separately." {
		t.Fatalf("expected weighted context for the original term, got %+v", items[0])
	}
	if !reflect.DeepEqual(kb.weightedTerms, []string{"battery"}) {
		t.Fatalf("expected weighted lookups for %v, got %v", []string{"battery"}, kb.weightedTerms)
	}
}

func TestQueryContext_ToleratesFailingSubQueries(t *testing.T) {
	kb := &knowledgeStoreMock{
		faqsErr:     fmt.Errorf("connection refused"),
		synonymsErr: fmt.Errorf("connection refused"),
		entities: map[string][]store.EntityRow{
			"charger": {{Name: "Charger", Type: "accessory"}},
		},
	}
	engine := newTestEngine(t, kb)

	items := engine.QueryContext(context.Background(), "charger")

	if len(items) != 1 {
		t.Fatalf("expected 1 context item despite failing sub-queries, got %d", len(items))
	}
	if items[0].Entity == nil || items[0].Entity.Name != "Charger" {
		t.Fatalf("expected the entity match, got %+v", items[0])
	}
}

func TestQueryContext_NoMatchesReturnsEmptySlice(t *testing.T) {
	engine := newTestEngine(t, &knowledgeStoreMock{})

	items := engine.QueryContext(context.Background(), "unknown topic")

	if items == nil || len(items) != 0 {
		t.Fatalf("expected an empty context slice, got %v", items)
	}
}

func newTestEngine(t *testing.T, kb store.KnowledgeStore) *Engine {
	t.Helper()
	engine, err := NewEngine(NewEngineParams{Store: kb})
	if err != nil {
		t.Fatalf("expected an engine, got error: %v", err)
	}
	return engine
}

type knowledgeStoreMock struct {
	faqs              []store.FAQRow
	faqsErr           error
	faqsByCategory    map[string][]store.FAQRow
	faqsByCategoryErr error
	entities          map[string][]store.EntityRow
	entitiesErr       error
	properties        map[string][]store.PropertyRow
	propertiesErr     error
	relations         map[string][]store.RelationRow
	relationsErr      error
	synonyms          map[string][]store.SynonymRow
	synonymsErr       error
	hierarchies       map[string]*store.HierarchyRow
	hierarchyErr      error
	weighted          map[string][]store.WeightedRow
	weightedErr       error
	weightedTerms     []string
}

func (m *knowledgeStoreMock) AllFAQs(ctx context.Context) ([]store.FAQRow, error) {
	if m.faqsErr != nil {
		return nil, m.faqsErr
	}
	return m.faqs, nil
}

func (m *knowledgeStoreMock) FAQsByCategory(ctx context.Context, term string) ([]store.FAQRow, error) {
	if m.faqsByCategoryErr != nil {
		return nil, m.faqsByCategoryErr
	}
	return m.faqsByCategory[term], nil
}

func (m *knowledgeStoreMock) EntitiesByTerm(ctx context.Context, term string) ([]store.EntityRow, error) {
	if m.entitiesErr != nil {
		return nil, m.entitiesErr
	}
	return m.entities[term], nil
}

func (m *knowledgeStoreMock) EntityProperties(ctx context.Context, entity string) ([]store.PropertyRow, error) {
	if m.propertiesErr != nil {
		return nil, m.propertiesErr
	}
	return m.properties[entity], nil
}

func (m *knowledgeStoreMock) RelatedEntities(ctx context.Context, entity string) ([]store.RelationRow, error) {
	if m.relationsErr != nil {
		return nil, m.relationsErr
	}
	return m.relations[entity], nil
}

func (m *knowledgeStoreMock) SimilarTerms(ctx context.Context, term string) ([]store.SynonymRow, error) {
	if m.synonymsErr != nil {
		return nil, m.synonymsErr
	}
	return m.synonyms[term], nil
}

func (m *knowledgeStoreMock) CategoryHierarchy(ctx context.Context, category string) (*store.HierarchyRow, error) {
	if m.hierarchyErr != nil {
		return nil, m.hierarchyErr
	}
	return m.hierarchies[category], nil
}

func (m *knowledgeStoreMock) WeightedContext(ctx context.Context, term string) ([]store.WeightedRow, error) {
	if m.weightedErr != nil {
		return nil, m.weightedErr
	}
	m.weightedTerms = append(m.weightedTerms, term)
	return m.weighted[term], nil
}

func (m *knowledgeStoreMock) AssertFAQ(ctx context.Context, faq common.FAQ) error {
	return nil
}

func (m *knowledgeStoreMock) AssertEntity(ctx context.Context, entity common.Entity) error {
	return nil
}

func (m *knowledgeStoreMock) AssertProperty(ctx context.Context, entity string, property string, value string, metadata string) error {
	return nil
}

func (m *knowledgeStoreMock) AssertRelationship(ctx context.Context, rel common.Relationship) error {
	return nil
}

func (m *knowledgeStoreMock) LoadKnowledgeBase(ctx context.Context, schemaRef string, dataRef string) error {
	return nil
}

func (m *knowledgeStoreMock) Close() error { return nil }
