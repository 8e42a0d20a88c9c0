package extract

import "github.com/mynah-ai/mynah/pkg/common"

// aggregateResults concatenates chunk results in chunk order and dedups
// entities, relationships and FAQ entries with first-seen-wins semantics.
func aggregateResults(results []common.ExtractionResult) common.ExtractionResult {
	var entities []common.Entity
	var relationships []common.Relationship
	var faqs []common.FAQ

	for _, result := range results {
		entities = append(entities, result.Entities...)
		relationships = append(relationships, result.Relationships...)
		faqs = append(faqs, result.FAQEntries...)
	}

	return common.ExtractionResult{
		Entities:      dedupeEntities(entities),
		Relationships: dedupeRelationships(relationships),
		FAQEntries:    dedupeFAQs(faqs),
	}
}

// dedupeEntities groups entities by name, keeping the first occurrence and
// merging properties from later duplicates. On a property name collision
// the first seen value wins. Entities without a name are dropped.
func dedupeEntities(entities []common.Entity) []common.Entity {
	deduped := make([]common.Entity, 0, len(entities))
	byName := make(map[string]int, len(entities))

	for _, entity := range entities {
		if entity.Name == "" {
			continue
		}
		index, seen := byName[entity.Name]
		if !seen {
			kept := entity
			kept.Properties = make(map[string]common.PropertyValue, len(entity.Properties))
			for name, value := range entity.Properties {
				kept.Properties[name] = value
			}
			byName[entity.Name] = len(deduped)
			deduped = append(deduped, kept)
			continue
		}
		for name, value := range entity.Properties {
			if _, exists := deduped[index].Properties[name]; !exists {
				deduped[index].Properties[name] = value
			}
		}
	}

	return deduped
}

// dedupeRelationships keeps the first relationship per (from, type, to)
// triple. Later duplicates are dropped entirely, not merged. Relationships
// missing either endpoint are dropped.
func dedupeRelationships(relationships []common.Relationship) []common.Relationship {
	type key struct {
		from string
		typ  string
		to   string
	}
	deduped := make([]common.Relationship, 0, len(relationships))
	seen := make(map[key]bool, len(relationships))

	for _, relationship := range relationships {
		if relationship.From == "" || relationship.To == "" {
			continue
		}
		k := key{from: relationship.From, typ: relationship.Type, to: relationship.To}
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, relationship)
	}

	return deduped
}

// dedupeFAQs keeps the first FAQ per question. Entries without a question
// are dropped.
func dedupeFAQs(faqs []common.FAQ) []common.FAQ {
	deduped := make([]common.FAQ, 0, len(faqs))
	seen := make(map[string]bool, len(faqs))

	for _, faq := range faqs {
		if faq.Question == "" || seen[faq.Question] {
			continue
		}
		seen[faq.Question] = true
		deduped = append(deduped, faq)
	}

	return deduped
}
