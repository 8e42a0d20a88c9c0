package rag

import "github.com/mynah-ai/mynah/pkg/common"

// Match types recorded on FAQContext entries.
const (
	// MatchTypeDirect marks FAQs whose question or answer text contains a
	// query term.
	MatchTypeDirect = "direct"
	// MatchTypeCategory marks FAQs found because a query term names their
	// category.
	MatchTypeCategory = "category"
)

// SourceImageExtraction marks context items injected from entities recognized
// on uploaded images rather than retrieved from the knowledge graph.
const SourceImageExtraction = "image_extraction"

// ContextItem is one piece of retrieved knowledge. Exactly one of the
// variant fields is set, identifying the strategy that produced the item.
//
// Score and Source are only carried by items injected from outside the
// retrieval pipeline, such as entities recognized on an uploaded image.
type ContextItem struct {
	FAQ                 *FAQContext        `json:"faq,omitempty"`
	Entity              *common.Entity     `json:"entity,omitempty"`
	CategoryHierarchy   *CategoryHierarchy `json:"category_hierarchy,omitempty"`
	ContextRelationship *WeightedContext   `json:"context_relationship,omitempty"`
	Score               float64            `json:"score,omitempty"`
	Source              string             `json:"source,omitempty"`
}

// FAQContext is an FAQ entry matched during retrieval. Category is empty on
// category matches, the matched term already names it.
type FAQContext struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Category  string `json:"category,omitempty"`
	MatchType string `json:"match_type"`
}

// CategoryHierarchy places a category inside the category tree.
type CategoryHierarchy struct {
	Category    string `json:"category"`
	Parent      string `json:"parent"`
	Description string `json:"description"`
}

// WeightedContext is a free-form context snippet attached to a query term
// with a relevance weight.
type WeightedContext struct {
	Context string  `json:"context"`
	Weight  float64 `json:"weight"`
}
