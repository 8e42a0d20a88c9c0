package neo4j

import (
	"context"
	"strings"
	"testing"

	neo4jv5 "github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func TestAllFAQs_MapsRecords(t *testing.T) {
	runner := &mockRunner{
		results: []*neo4jv5.EagerResult{
			{Records: []*neo4jv5.Record{
				{
					Keys:   []string{"question", "answer", "category"},
					Values: []any{"What is Kubernetes?", "A container orchestration platform.", "platforms"},
				},
			}},
		},
	}
	s := NewWithRunner(runner)

	faqs, err := s.AllFAQs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(faqs) != 1 {
		t.Fatalf("expected 1 faq, got %d", len(faqs))
	}
	if faqs[0].Question != "What is Kubernetes?" || faqs[0].Category != "platforms" {
		t.Fatalf("unexpected faq: %+v", faqs[0])
	}
}

func TestEntitiesByTerm_CaseInsensitiveMatch(t *testing.T) {
	runner := &mockRunner{}
	s := NewWithRunner(runner)

	if _, err := s.EntitiesByTerm(context.Background(), "Kubernetes"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(runner.queries[0], "toLower(e.name) = toLower($term)") {
		t.Fatalf("expected case-insensitive name match, got query %q", runner.queries[0])
	}
	if runner.params[0]["term"] != "Kubernetes" {
		t.Fatalf("expected term parameter, got %v", runner.params[0])
	}
}

func TestCategoryHierarchy_AbsentReturnsNil(t *testing.T) {
	runner := &mockRunner{}
	s := NewWithRunner(runner)

	row, err := s.CategoryHierarchy(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("expected no error for missing hierarchy, got %v", err)
	}
	if row != nil {
		t.Fatalf("expected nil row for missing hierarchy, got %+v", row)
	}
}

func TestCategoryHierarchy_NilParentBecomesEmpty(t *testing.T) {
	runner := &mockRunner{
		results: []*neo4jv5.EagerResult{
			{Records: []*neo4jv5.Record{
				{
					Keys:   []string{"parent", "description"},
					Values: []any{nil, "Top level category"},
				},
			}},
		},
	}
	s := NewWithRunner(runner)

	row, err := s.CategoryHierarchy(context.Background(), "infrastructure")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row == nil {
		t.Fatal("expected hierarchy row, got nil")
	}
	if row.Parent != "" {
		t.Fatalf("expected empty parent for root category, got %q", row.Parent)
	}
	if row.Description != "Top level category" {
		t.Fatalf("unexpected description: %q", row.Description)
	}
}

func TestSimilarTerms_MapsConfidence(t *testing.T) {
	runner := &mockRunner{
		results: []*neo4jv5.EagerResult{
			{Records: []*neo4jv5.Record{
				{Keys: []string{"term", "confidence"}, Values: []any{"k8s", 0.9}},
			}},
		},
	}
	s := NewWithRunner(runner)

	synonyms, err := s.SimilarTerms(context.Background(), "kubernetes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(synonyms) != 1 {
		t.Fatalf("expected 1 synonym, got %d", len(synonyms))
	}
	if synonyms[0].Term != "k8s" || synonyms[0].Confidence != 0.9 {
		t.Fatalf("unexpected synonym: %+v", synonyms[0])
	}
}

func TestWeightedContext_CoercesIntegerWeights(t *testing.T) {
	runner := &mockRunner{
		results: []*neo4jv5.EagerResult{
			{Records: []*neo4jv5.Record{
				{Keys: []string{"context", "weight"}, Values: []any{"deployment pipelines", int64(2)}},
			}},
		},
	}
	s := NewWithRunner(runner)

	contexts, err := s.WeightedContext(context.Background(), "deployment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contexts) != 1 {
		t.Fatalf("expected 1 context, got %d", len(contexts))
	}
	if contexts[0].Weight != 2 {
		t.Fatalf("expected integer weight coerced to float, got %v", contexts[0].Weight)
	}
}

type mockRunner struct {
	queries []string
	params  []map[string]any
	results []*neo4jv5.EagerResult
	err     error
}

func (m *mockRunner) ExecuteQuery(ctx context.Context, query string, params map[string]any) (*neo4jv5.EagerResult, error) {
	m.queries = append(m.queries, query)
	m.params = append(m.params, params)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.results) > 0 {
		result := m.results[0]
		m.results = m.results[1:]
		return result, nil
	}
	return &neo4jv5.EagerResult{}, nil
}
