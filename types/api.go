package types

import "strings"

// OperationDescriptor describes a single API operation as produced by an
// upstream spec parser. The engine treats descriptors as immutable input;
// absent fields keep their zero values rather than being looked up lazily.
type OperationDescriptor struct {
	Path        string                `json:"path" yaml:"path"`
	Method      string                `json:"method" yaml:"method"`
	OperationID string                `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Summary     string                `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string              `json:"tags,omitempty" yaml:"tags,omitempty"`
	Deprecated  bool                  `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Parameters  []Parameter           `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response   `json:"responses,omitempty" yaml:"responses,omitempty"`
	Security    []map[string][]string `json:"security,omitempty" yaml:"security,omitempty"`
}

// PrimaryTag returns the operation's first tag, or "default" when untagged.
func (op *OperationDescriptor) PrimaryTag() string {
	if len(op.Tags) == 0 || op.Tags[0] == "" {
		return "default"
	}
	return op.Tags[0]
}

// Parameter describes one operation parameter (path, query, header or cookie).
type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Required    bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// RequestBody describes an operation's request payload by media type.
type RequestBody struct {
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool                 `json:"required,omitempty" yaml:"required,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// Response describes one response status of an operation.
type Response struct {
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// MediaType carries the schema for one content type.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Schema is a structural subset of a JSON Schema sufficient for complexity
// scoring and payload compression. Ref holds an unresolved "$ref" target;
// a schema with a non-empty Ref may still carry no other fields.
type Schema struct {
	Ref         string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty" yaml:"enum,omitempty"`
	Format      string             `json:"format,omitempty" yaml:"format,omitempty"`
	Example     any                `json:"example,omitempty" yaml:"example,omitempty"`
}

// APISummary is the descriptor collection handed to the engine by the
// upstream parser: the flattened operations plus the shared schema dictionary.
type APISummary struct {
	Title          string                `json:"title,omitempty" yaml:"title,omitempty"`
	Version        string                `json:"version,omitempty" yaml:"version,omitempty"`
	Description    string                `json:"description,omitempty" yaml:"description,omitempty"`
	Endpoints      []OperationDescriptor `json:"endpoints" yaml:"endpoints"`
	Schemas        map[string]*Schema    `json:"schemas,omitempty" yaml:"schemas,omitempty"`
	TotalEndpoints int                   `json:"totalEndpoints,omitempty" yaml:"totalEndpoints,omitempty"`
	MethodCounts   map[string]int        `json:"methodCounts,omitempty" yaml:"methodCounts,omitempty"`
	TagCounts      map[string]int        `json:"tagCounts,omitempty" yaml:"tagCounts,omitempty"`
	HasAuth        bool                  `json:"hasAuth,omitempty" yaml:"hasAuth,omitempty"`
}

// Recount rebuilds the derived totals from the endpoint list. Loaders call
// this after deserialization so the counts never disagree with the data.
func (s *APISummary) Recount() {
	s.TotalEndpoints = len(s.Endpoints)
	s.MethodCounts = make(map[string]int)
	s.TagCounts = make(map[string]int)
	for i := range s.Endpoints {
		op := &s.Endpoints[i]
		s.MethodCounts[strings.ToUpper(op.Method)]++
		if len(op.Security) > 0 {
			s.HasAuth = true
		}
		if len(op.Tags) == 0 {
			s.TagCounts["default"]++
			continue
		}
		for _, tag := range op.Tags {
			s.TagCounts[tag]++
		}
	}
}

// ValidationWarnings returns non-fatal issues with the descriptor collection,
// such as a missing title or deprecated operations. Warnings are advisory;
// generation proceeds regardless.
func (s *APISummary) ValidationWarnings() []string {
	var warnings []string
	if s.Title == "" {
		warnings = append(warnings, "missing API title")
	}
	if len(s.Endpoints) == 0 {
		warnings = append(warnings, "no operations defined")
	}
	for i := range s.Endpoints {
		op := &s.Endpoints[i]
		if op.Deprecated {
			warnings = append(warnings, "deprecated operation: "+strings.ToUpper(op.Method)+" "+op.Path)
		}
	}
	return warnings
}
