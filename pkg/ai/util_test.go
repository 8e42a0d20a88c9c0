package ai

import (
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "bare object",
			input:  `{"entities":[]}`,
			want:   `{"entities":[]}`,
			wantOK: true,
		},
		{
			name:   "object wrapped in prose",
			input:  "Here is the result:\n{\"entities\":[]}\nLet me know if you need more.",
			want:   `{"entities":[]}`,
			wantOK: true,
		},
		{
			name:   "object inside markdown fence",
			input:  "```json\n{\"a\": 1}\n```",
			want:   `{"a": 1}`,
			wantOK: true,
		},
		{
			name:   "nested objects span to last brace",
			input:  `prefix {"a": {"b": 2}} suffix`,
			want:   `{"a": {"b": 2}}`,
			wantOK: true,
		},
		{
			name:   "no braces at all",
			input:  "the model refused to answer",
			wantOK: false,
		},
		{
			name:   "closing brace before opening",
			input:  "} nothing here {",
			wantOK: false,
		},
		{
			name:   "empty input",
			input:  "",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("ExtractJSONObject() ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("ExtractJSONObject() got = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	type person struct {
		Name string `json:"name"`
		Age  int    `json:"age,omitempty"`
	}

	tests := []struct {
		name  string
		input string
		want  person
	}{
		{
			name:  "valid json object",
			input: `{"name":"John"}`,
			want:  person{Name: "John"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{name: 'John'}`,
			want:  person{Name: "John"},
		},
		{
			name:  "trailing comma",
			input: `{"name":"John",}`,
			want:  person{Name: "John"},
		},
		{
			name:  "missing endbracket",
			input: `{"name":"John`,
			want:  person{Name: "John"},
		},
		{
			name:  "stringified invalid json object",
			input: `"{name: 'John'}"`,
			want:  person{Name: "John"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"name\": \"John\"\n}\n",
			want:  person{Name: "John"},
		},
		{
			name:  "duplicate leading brace no newlines",
			input: `{ { "name": "John" }`,
			want:  person{Name: "John"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got person
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Name != tc.want.Name || got.Age != tc.want.Age {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_ArrayVariants(t *testing.T) {
	type person struct {
		Name string `json:"name"`
		Age  int    `json:"age,omitempty"`
	}

	input := `[{name:'A'},{name:'B',}]`
	var got []person
	if err := UnmarshalFlexible(input, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "B" {
		t.Fatalf("UnmarshalFlexible() got = %+v, want two persons A,B", got)
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	type person struct {
		Name string `json:"name"`
		Age  int    `json:"age,omitempty"`
	}

	var got person
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestUnmarshalFlexible_ExtractionShapedPayloads(t *testing.T) {
	type entity struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	type result struct {
		Entities []entity `json:"entities"`
	}

	tests := []struct {
		name  string
		input string
		want  result
	}{
		{
			name:  "well formed extraction payload",
			input: `{"entities":[{"name":"ROUTER","type":"DEVICE"}]}`,
			want:  result{Entities: []entity{{Name: "ROUTER", Type: "DEVICE"}}},
		},
		{
			name:  "stringified payload with escaped newlines",
			input: `"{\n \"entities\": [{\"name\": \"ROUTER\", \"type\": \"DEVICE\"}]\n}"`,
			want:  result{Entities: []entity{{Name: "ROUTER", Type: "DEVICE"}}},
		},
		{
			name:  "single quoted keys repaired",
			input: `{entities: [{name: 'ROUTER', type: 'DEVICE'}]}`,
			want:  result{Entities: []entity{{Name: "ROUTER", Type: "DEVICE"}}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got result
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if len(got.Entities) != len(tc.want.Entities) {
				t.Fatalf("UnmarshalFlexible() entities length got = %d, want %d", len(got.Entities), len(tc.want.Entities))
			}
			for i := range got.Entities {
				if got.Entities[i] != tc.want.Entities[i] {
					t.Fatalf("UnmarshalFlexible() entities[%d] = %+v, want %+v", i, got.Entities[i], tc.want.Entities[i])
				}
			}
		})
	}
}
