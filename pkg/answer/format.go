package answer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/rag"
)

// formatContext renders retrieved context items as the four prompt sections
// in their fixed order: FAQs, entities, category hierarchies and contextual
// relationships. Sections without items are omitted entirely.
func formatContext(items []rag.ContextItem) string {
	var faqs []*rag.FAQContext
	var entities []*common.Entity
	var hierarchies []*rag.CategoryHierarchy
	var relationships []*rag.WeightedContext
	for _, item := range items {
		switch {
		case item.FAQ != nil:
			faqs = append(faqs, item.FAQ)
		case item.Entity != nil:
			entities = append(entities, item.Entity)
		case item.CategoryHierarchy != nil:
			hierarchies = append(hierarchies, item.CategoryHierarchy)
		case item.ContextRelationship != nil:
			relationships = append(relationships, item.ContextRelationship)
		}
	}

	var sections []string
	if len(faqs) > 0 {
		blocks := make([]string, 0, len(faqs))
		for _, faq := range faqs {
			category := faq.Category
			if category == "" {
				category = "General"
			}
			matchType := faq.MatchType
			if matchType == "" {
				matchType = rag.MatchTypeDirect
			}
			blocks = append(blocks, fmt.Sprintf(
				"Q: %s\nA: %s\nCategory: %s\nMatch Type: %s",
				faq.Question, faq.Answer, category, matchType,
			))
		}
		sections = append(sections, "RELEVANT FAQs:\n"+strings.Join(blocks, "\n\n"))
	}

	if len(entities) > 0 {
		blocks := make([]string, 0, len(entities))
		for _, entity := range entities {
			blocks = append(blocks, formatEntity(entity))
		}
		sections = append(sections, "RELEVANT ENTITIES:\n"+strings.Join(blocks, "\n\n"))
	}

	if len(hierarchies) > 0 {
		lines := make([]string, 0, len(hierarchies))
		for _, hierarchy := range hierarchies {
			lines = append(lines, fmt.Sprintf(
				"Category: %s\nParent: %s\nDescription: %s",
				hierarchy.Category, hierarchy.Parent, hierarchy.Description,
			))
		}
		sections = append(sections, "CATEGORY HIERARCHIES:\n"+strings.Join(lines, "\n"))
	}

	if len(relationships) > 0 {
		lines := make([]string, 0, len(relationships))
		for _, relationship := range relationships {
			lines = append(lines, fmt.Sprintf(
				"- %s (Weight: %g)",
				relationship.Context, relationship.Weight,
			))
		}
		sections = append(sections, "CONTEXTUAL RELATIONSHIPS:\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

// formatEntity renders one entity with its properties in sorted name order
// and its outgoing relationships.
func formatEntity(entity *common.Entity) string {
	propertyLines := make([]string, 0, len(entity.Properties))
	for _, name := range sortedPropertyNames(entity.Properties) {
		property := entity.Properties[name]
		propertyLines = append(propertyLines, fmt.Sprintf(
			"- %s: %s (Metadata: %s)",
			name, property.Value, property.Metadata,
		))
	}

	relationLines := make([]string, 0, len(entity.Relations))
	for _, relation := range entity.Relations {
		relationLines = append(relationLines, fmt.Sprintf(
			"- %s (%s) Context: %s",
			relation.To, relation.Type, relation.Context,
		))
	}

	return fmt.Sprintf(
		"Entity: %s (Type: %s)\nProperties:\n%s\nRelationships:\n%s",
		entity.Name, entity.Type,
		strings.Join(propertyLines, "\n"),
		strings.Join(relationLines, "\n"),
	)
}

// formatHistory renders past exchanges as alternating User/Assistant lines
// for prompts that cannot carry structured chat history.
func formatHistory(history []common.Exchange) string {
	if len(history) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(history))
	for _, exchange := range history {
		blocks = append(blocks, fmt.Sprintf(
			"User: %s\nAssistant: %s",
			exchange.User, exchange.Assistant,
		))
	}

	return "Previous conversation:\n" + strings.Join(blocks, "\n\n")
}

func sortedPropertyNames(properties map[string]common.PropertyValue) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
