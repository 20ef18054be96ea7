package mcp

// SearchInput defines the input schema for the search tool. Limit,
// Threshold and MaxBytes are pointers so that an explicit 0 is kept apart
// from an omitted value, which falls back to the configuration.
type SearchInput struct {
	Input      string   `json:"input" jsonschema:"JSON file, directory or glob pattern to search"`
	Query      string   `json:"query" jsonschema:"the search query"`
	Fields     []string `json:"fields,omitempty" jsonschema:"restrict text matching to these top-level keys"`
	Match      string   `json:"match,omitempty" jsonschema:"match mode: text, exact, fuzzy or regex"`
	Output     string   `json:"output,omitempty" jsonschema:"result shape: match, hit or value"`
	Limit      *int     `json:"limit,omitempty" jsonschema:"maximum number of results"`
	Offset     int      `json:"offset,omitempty" jsonschema:"number of results to skip"`
	Select     []string `json:"select,omitempty" jsonschema:"keep only these keys of each result"`
	Threshold  *int     `json:"threshold,omitempty" jsonschema:"match count above which a query plan is returned instead of results"`
	MaxBytes   *int     `json:"max_bytes,omitempty" jsonschema:"upper bound on the serialized results in bytes"`
	CountOnly  bool     `json:"count_only,omitempty" jsonschema:"report only the number of matches"`
	Plan       bool     `json:"plan,omitempty" jsonschema:"always return a query plan"`
	NoOverflow bool     `json:"no_overflow,omitempty" jsonschema:"return results even above the threshold"`
	Schema     string   `json:"schema,omitempty" jsonschema:"JSON Schema file to check the inputs against"`
}

// FieldsInput defines the input schema for the fields tool.
type FieldsInput struct {
	Input  string `json:"input" jsonschema:"JSON file to inspect"`
	Schema bool   `json:"schema,omitempty" jsonschema:"treat the input as a JSON Schema and list its property paths"`
}

// FieldsOutput defines the output schema for the fields tool.
type FieldsOutput struct {
	Fields []string `json:"fields" jsonschema:"dotted field paths, sorted"`
}
