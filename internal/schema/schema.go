// Package schema loads JSON Schemas to list their property paths and to
// check documents against them.
package schema

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/fields"
	"github.com/Aman-CERP/jsonai/internal/loader"
	"github.com/Aman-CERP/jsonai/internal/record"
)

// Schema is a compiled JSON Schema together with its source document.
type Schema struct {
	location string
	doc      any
	compiled *jsonschema.Schema
}

// Violation is one failed constraint.
type Violation struct {
	// Pointer locates the offending value in the document.
	Pointer string
	// Keyword is the schema keyword path that failed, e.g. "properties/age/type".
	Keyword string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Pointer, v.Keyword)
}

// Load reads and compiles the schema file at path.
func Load(path string) (*Schema, error) {
	doc, err := loader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	location := path
	if abs, err := filepath.Abs(path); err == nil {
		location = abs
	}
	return Compile(location, doc.Value)
}

// Compile compiles an already decoded schema document. location names the
// resource for relative references.
func Compile(location string, doc any) (*Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(location, doc); err != nil {
		return nil, jerrors.New(jerrors.ErrCodeInvalidSchema, "invalid JSON Schema", err).
			WithDetail("schema", location)
	}
	compiled, err := c.Compile(location)
	if err != nil {
		return nil, jerrors.New(jerrors.ErrCodeInvalidSchema, "failed to compile JSON Schema", err).
			WithDetail("schema", location)
	}
	return &Schema{location: location, doc: doc, compiled: compiled}, nil
}

// Location returns the resource name the schema was compiled under.
func (s *Schema) Location() string {
	return s.location
}

// Validate checks v and returns the failed leaf constraints, or nil when v
// is valid.
func (s *Schema) Validate(v any) []Violation {
	err := s.compiled.Validate(v)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []Violation{{Pointer: record.RootPointer, Keyword: err.Error()}}
	}
	var out []Violation
	leaves(ve, &out)
	return out
}

func leaves(ve *jsonschema.ValidationError, out *[]Violation) {
	if len(ve.Causes) == 0 {
		*out = append(*out, Violation{
			Pointer: pointer(ve.InstanceLocation),
			Keyword: strings.Join(ve.ErrorKind.KeywordPath(), "/"),
		})
		return
	}
	for _, c := range ve.Causes {
		leaves(c, out)
	}
}

func pointer(tokens []string) string {
	if len(tokens) == 0 {
		return record.RootPointer
	}
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteByte('/')
		sb.WriteString(record.EscapeToken(t))
	}
	return sb.String()
}

// Properties lists the dotted property paths the schema declares, sorted
// and de-duplicated. Array items descend without adding a path segment,
// combinators contribute every branch and local $refs are followed.
func (s *Schema) Properties() []string {
	out := []string{}
	w := walker{root: s.doc, active: map[string]bool{}, out: &out}
	w.walk(s.doc, "")
	slices.Sort(out)
	return slices.Compact(out)
}

type walker struct {
	root   any
	active map[string]bool
	out    *[]string
}

func (w *walker) walk(node any, prefix string) {
	obj, ok := node.(map[string]any)
	if !ok {
		return
	}

	if ref, ok := obj["$ref"].(string); ok && strings.HasPrefix(ref, "#") && !w.active[ref] {
		if target, found := record.Resolve(w.root, strings.TrimPrefix(ref, "#")); found {
			w.active[ref] = true
			w.walk(target, prefix)
			delete(w.active, ref)
		}
	}

	if props, ok := obj["properties"].(map[string]any); ok {
		for _, k := range record.SortedKeys(props) {
			path := fields.Join(prefix, k)
			*w.out = append(*w.out, path)
			w.walk(props[k], path)
		}
	}

	switch items := obj["items"].(type) {
	case map[string]any:
		w.walk(items, prefix)
	case []any:
		if len(items) > 0 {
			w.walk(items[0], prefix)
		}
	}
	if prefixItems, ok := obj["prefixItems"].([]any); ok && len(prefixItems) > 0 {
		w.walk(prefixItems[0], prefix)
	}

	for _, kw := range []string{"allOf", "anyOf", "oneOf"} {
		if branches, ok := obj[kw].([]any); ok {
			for _, b := range branches {
				w.walk(b, prefix)
			}
		}
	}
}
