package common

// Entity represents a node in the knowledge graph. An entity can be a
// product, person, system, or any other relevant concept. Each property
// carries its own provenance metadata, and each relation describes an
// outgoing edge to another entity.
//
// Entities are created either by curators through the API or by AI-driven
// extraction from text and images.
type Entity struct {
	Name       string                   `json:"name"`
	Type       string                   `json:"type"`
	Properties map[string]PropertyValue `json:"properties"`
	Relations  []Relation               `json:"relations,omitempty"`
}

// PropertyValue holds a single property value together with a free-form
// metadata string describing where the value came from and how reliable
// it is (for example "source: text confidence: 0.9").
type PropertyValue struct {
	Value    string `json:"value"`
	Metadata string `json:"metadata"`
}

// Relation represents an outgoing edge attached to an entity. To names the
// target entity, Type the kind of connection, and Context a short sentence
// explaining the connection.
type Relation struct {
	To      string `json:"to"`
	Type    string `json:"type"`
	Context string `json:"context"`
}

// Relationship represents a standalone edge between two entities referenced
// by name. It is the form used when relationships are asserted on their own,
// detached from an entity record.
type Relationship struct {
	From    string `json:"from_entity"`
	Type    string `json:"relationship_type"`
	To      string `json:"to_entity"`
	Context string `json:"context"`
}

// FAQ is a curated question/answer pair. Category groups FAQs into topics
// and Concepts are key terms linking the FAQ to graph entities.
type FAQ struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Category string   `json:"category"`
	Concepts []string `json:"concepts,omitempty"`
}

// ExtractionResult is the structured outcome of a knowledge extraction run.
//
// FAQEntries is nil when the source modality does not produce FAQ
// suggestions (images) or when the model reply could not be parsed; the
// faq_entries key is then absent from the serialized form.
type ExtractionResult struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	FAQEntries    []FAQ          `json:"faq_entries,omitempty"`
}

// Exchange is one past user/assistant turn of a conversation. Slices of
// exchanges are passed along with new questions so that answers can refer
// back to earlier turns.
type Exchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}
