package extract

import (
	"github.com/mynah-ai/mynah/pkg/ai"
	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
)

// Response structs for the extraction prompts. The JSON schema embedded in
// each prompt is generated from these, so the tags here are the single
// source of truth for the model's output format.

type extractProperty struct {
	Value    string `json:"value" jsonschema_description:"Property value as stated in the source"`
	Metadata string `json:"metadata" jsonschema_description:"Provenance and confidence marker, for example: source: text confidence: 0.9"`
}

type extractEntity struct {
	Name       string                     `json:"name" jsonschema_description:"Name of the entity as it should be stored in the graph"`
	Type       string                     `json:"type" jsonschema_description:"Short category label such as Product, Person or Concept"`
	Properties map[string]extractProperty `json:"properties" jsonschema_description:"Properties of the entity keyed by property name"`
}

type extractRelationship struct {
	FromEntity       string `json:"from_entity" jsonschema_description:"Name of the source entity"`
	RelationshipType string `json:"relationship_type" jsonschema_description:"Short snake_case relationship label such as relates_to or part_of"`
	ToEntity         string `json:"to_entity" jsonschema_description:"Name of the target entity"`
	Context          string `json:"context" jsonschema_description:"Sentence explaining the relationship plus a confidence marker"`
}

type extractFAQ struct {
	Question string   `json:"question" jsonschema_description:"Question a user would ask"`
	Answer   string   `json:"answer" jsonschema_description:"Answer taken from the text"`
	Category string   `json:"category" jsonschema_description:"Single-word topic category"`
	Concepts []string `json:"concepts" jsonschema_description:"Key concept terms covered by the entry"`
}

type extractTextResponse struct {
	Entities      []extractEntity       `json:"entities" jsonschema_description:"Entities identified in the source"`
	Relationships []extractRelationship `json:"relationships" jsonschema_description:"Relationships between the identified entities"`
	FAQEntries    []extractFAQ          `json:"faq_entries" jsonschema_description:"FAQ entries identified in the source"`
}

type extractImageResponse struct {
	Entities      []extractEntity       `json:"entities" jsonschema_description:"Entities identified in the image"`
	Relationships []extractRelationship `json:"relationships" jsonschema_description:"Relationships between the identified entities"`
}

// parseResponse turns raw model output into an ExtractionResult. Output
// without a JSON object span is treated as an empty object and unparseable
// JSON degrades to an empty result; neither is an error. FAQEntries stays
// nil unless the model supplied faq_entries.
func parseResponse(text string) common.ExtractionResult {
	empty := common.ExtractionResult{
		Entities:      []common.Entity{},
		Relationships: []common.Relationship{},
	}

	span, ok := ai.ExtractJSONObject(text)
	if !ok {
		return empty
	}

	var response extractTextResponse
	if err := ai.UnmarshalFlexible(span, &response); err != nil {
		logger.Warn("[Extract] Failed to parse model response", "error", err)
		return empty
	}

	result := common.ExtractionResult{
		Entities:      make([]common.Entity, 0, len(response.Entities)),
		Relationships: make([]common.Relationship, 0, len(response.Relationships)),
	}
	for _, entity := range response.Entities {
		result.Entities = append(result.Entities, entity.toCommon())
	}
	for _, relationship := range response.Relationships {
		result.Relationships = append(result.Relationships, relationship.toCommon())
	}
	if response.FAQEntries != nil {
		result.FAQEntries = make([]common.FAQ, 0, len(response.FAQEntries))
		for _, faq := range response.FAQEntries {
			result.FAQEntries = append(result.FAQEntries, faq.toCommon())
		}
	}

	return result
}

func (e extractEntity) toCommon() common.Entity {
	properties := make(map[string]common.PropertyValue, len(e.Properties))
	for name, property := range e.Properties {
		properties[name] = common.PropertyValue{
			Value:    property.Value,
			Metadata: property.Metadata,
		}
	}

	return common.Entity{
		Name:       e.Name,
		Type:       e.Type,
		Properties: properties,
	}
}

func (r extractRelationship) toCommon() common.Relationship {
	return common.Relationship{
		From:    r.FromEntity,
		Type:    r.RelationshipType,
		To:      r.ToEntity,
		Context: r.Context,
	}
}

func (f extractFAQ) toCommon() common.FAQ {
	return common.FAQ{
		Question: f.Question,
		Answer:   f.Answer,
		Category: f.Category,
		Concepts: f.Concepts,
	}
}
