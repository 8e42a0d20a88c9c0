package queue

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/store"
)

func TestProcessIngestMessage_AssertsAllFactKinds(t *testing.T) {
	kb := &knowledgeStoreMock{}
	job := IngestJob{
		ID:     "job-1",
		Source: "manual.txt",
		Result: common.ExtractionResult{
			Entities: []common.Entity{
				{Name: "Rover", Type: "robot", Properties: map[string]common.PropertyValue{
					"wheels": {Value: "6", Metadata: "manual"},
				}},
			},
			Relationships: []common.Relationship{
				{From: "Rover", Type: "uses", To: "Lidar", Context: "navigation"},
			},
			FAQEntries: []common.FAQ{
				{Question: "How fast is the rover?", Answer: "Two meters per second.", Category: "robotics"},
			},
		},
	}
	body, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := ProcessIngestMessage(context.Background(), kb, string(body)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !reflect.DeepEqual(kb.entities, job.Result.Entities) {
		t.Fatalf("expected entities asserted, got %+v", kb.entities)
	}
	if !reflect.DeepEqual(kb.relationships, job.Result.Relationships) {
		t.Fatalf("expected relationships asserted, got %+v", kb.relationships)
	}
	if !reflect.DeepEqual(kb.faqs, job.Result.FAQEntries) {
		t.Fatalf("expected FAQs asserted, got %+v", kb.faqs)
	}
}

func TestProcessIngestMessage_SkipsFailingFacts(t *testing.T) {
	kb := &knowledgeStoreMock{entityErr: errors.New("constraint violated")}
	job := IngestJob{
		ID: "job-2",
		Result: common.ExtractionResult{
			Entities:      []common.Entity{{Name: "Broken"}},
			Relationships: []common.Relationship{{From: "A", Type: "links", To: "B"}},
			FAQEntries:    []common.FAQ{{Question: "Still here?", Answer: "Yes."}},
		},
	}
	body, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := ProcessIngestMessage(context.Background(), kb, string(body)); err != nil {
		t.Fatalf("expected fact failures to be tolerated, got %v", err)
	}

	if len(kb.relationships) != 1 {
		t.Fatalf("expected the relationship asserted despite the entity failure, got %+v", kb.relationships)
	}
	if len(kb.faqs) != 1 {
		t.Fatalf("expected the FAQ asserted despite the entity failure, got %+v", kb.faqs)
	}
}

func TestProcessIngestMessage_RejectsMalformedPayload(t *testing.T) {
	kb := &knowledgeStoreMock{}

	if err := ProcessIngestMessage(context.Background(), kb, "not json"); err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
	if len(kb.entities) != 0 {
		t.Fatalf("expected no asserts for a malformed payload, got %+v", kb.entities)
	}
}

type knowledgeStoreMock struct {
	entities        []common.Entity
	entityErr       error
	relationships   []common.Relationship
	relationshipErr error
	faqs            []common.FAQ
	faqErr          error
}

func (m *knowledgeStoreMock) AllFAQs(ctx context.Context) ([]store.FAQRow, error) {
	return nil, nil
}

func (m *knowledgeStoreMock) FAQsByCategory(ctx context.Context, term string) ([]store.FAQRow, error) {
	return nil, nil
}

func (m *knowledgeStoreMock) EntitiesByTerm(ctx context.Context, term string) ([]store.EntityRow, error) {
	return nil, nil
}

func (m *knowledgeStoreMock) EntityProperties(ctx context.Context, entity string) ([]store.PropertyRow, error) {
	return nil, nil
}

func (m *knowledgeStoreMock) RelatedEntities(ctx context.Context, entity string) ([]store.RelationRow, error) {
	return nil, nil
}

func (m *knowledgeStoreMock) SimilarTerms(ctx context.Context, term string) ([]store.SynonymRow, error) {
	return nil, nil
}

func (m *knowledgeStoreMock) CategoryHierarchy(ctx context.Context, category string) (*store.HierarchyRow, error) {
	return nil, nil
}

func (m *knowledgeStoreMock) WeightedContext(ctx context.Context, term string) ([]store.WeightedRow, error) {
	return nil, nil
}

func (m *knowledgeStoreMock) AssertFAQ(ctx context.Context, faq common.FAQ) error {
	if m.faqErr != nil {
		return m.faqErr
	}
	m.faqs = append(m.faqs, faq)
	return nil
}

func (m *knowledgeStoreMock) AssertEntity(ctx context.Context, entity common.Entity) error {
	if m.entityErr != nil {
		return m.entityErr
	}
	m.entities = append(m.entities, entity)
	return nil
}

func (m *knowledgeStoreMock) AssertProperty(ctx context.Context, entity string, property string, value string, metadata string) error {
	return nil
}

func (m *knowledgeStoreMock) AssertRelationship(ctx context.Context, rel common.Relationship) error {
	if m.relationshipErr != nil {
		return m.relationshipErr
	}
	m.relationships = append(m.relationships, rel)
	return nil
}

func (m *knowledgeStoreMock) LoadKnowledgeBase(ctx context.Context, schemaRef string, dataRef string) error {
	return nil
}

func (m *knowledgeStoreMock) Close() error { return nil }
