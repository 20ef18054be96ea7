// Package mutate edits JSON documents in place with JSON Pointer addressed
// set, add and delete operations and RFC 6902 patches.
//
// Pointers here follow RFC 6901 exactly: "" is the whole document and "/"
// is the key "" at the top level.
package mutate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/loader"
	"github.com/Aman-CERP/jsonai/internal/record"
)

// operation is one RFC 6902 operation.
type operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// Set replaces the value at pointer. The target must already exist; an
// empty pointer replaces the whole document.
func Set(doc any, pointer string, value any) (any, error) {
	if err := checkPointer(pointer); err != nil {
		return nil, err
	}
	if pointer == "" {
		return value, nil
	}
	out, err := applyOps(doc, []operation{{Op: "replace", Path: pointer, Value: valueOrNull(value)}})
	if err != nil {
		return nil, jerrors.PointerError(fmt.Sprintf("cannot set %s", pointer), err).
			WithSuggestion("set only replaces existing values; use add to create new keys")
	}
	return out, nil
}

// Add inserts value at pointer with RFC 6902 add semantics: an existing
// object key is replaced, an array index inserts before that element and
// "-" appends.
func Add(doc any, pointer string, value any) (any, error) {
	if err := checkPointer(pointer); err != nil {
		return nil, err
	}
	if pointer == "" {
		return value, nil
	}
	out, err := applyOps(doc, []operation{{Op: "add", Path: pointer, Value: valueOrNull(value)}})
	if err != nil {
		return nil, jerrors.PointerError(fmt.Sprintf("cannot add at %s", pointer), err)
	}
	return out, nil
}

// Delete removes the value at pointer. The whole document cannot be
// deleted.
func Delete(doc any, pointer string) (any, error) {
	if err := checkPointer(pointer); err != nil {
		return nil, err
	}
	if pointer == "" {
		return nil, jerrors.PointerError("cannot delete the root document", nil)
	}
	out, err := applyOps(doc, []operation{{Op: "remove", Path: pointer}})
	if err != nil {
		return nil, jerrors.PointerError(fmt.Sprintf("cannot delete %s", pointer), err)
	}
	return out, nil
}

// Patch applies an RFC 6902 patch document. Operations apply in order and
// a failing operation, including a failed test, leaves doc untouched.
func Patch(doc any, patch []byte) (any, error) {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, jerrors.New(jerrors.ErrCodePatchFailed, "invalid patch document", err).
			WithSuggestion("a patch is a JSON array of {\"op\", \"path\", ...} operations")
	}
	out, err := apply(doc, p)
	if err != nil {
		return nil, jerrors.New(jerrors.ErrCodePatchFailed, "failed to apply patch", err)
	}
	return out, nil
}

// ParseValue decodes a command-line value argument as JSON.
func ParseValue(s string) (any, error) {
	v, err := loader.Decode(strings.NewReader(s))
	if err != nil {
		return nil, jerrors.New(jerrors.ErrCodeInvalidInput, fmt.Sprintf("invalid JSON value: %s", s), err).
			WithSuggestion(`quote strings as JSON, e.g. '"text"'`)
	}
	return v, nil
}

func checkPointer(pointer string) error {
	if pointer != "" && !strings.HasPrefix(pointer, "/") {
		return jerrors.PointerError(fmt.Sprintf("JSON Pointer must start with '/' (got %q)", pointer), nil)
	}
	return nil
}

// valueOrNull keeps a JSON null from being dropped by omitempty.
func valueOrNull(v any) any {
	if v == nil {
		return json.RawMessage("null")
	}
	return v
}

func applyOps(doc any, ops []operation) (any, error) {
	data, err := json.Marshal(ops)
	if err != nil {
		return nil, err
	}
	p, err := jsonpatch.DecodePatch(data)
	if err != nil {
		return nil, err
	}
	return apply(doc, p)
}

func apply(doc any, p jsonpatch.Patch) (any, error) {
	src, err := record.Marshal(doc)
	if err != nil {
		return nil, err
	}

	opts := jsonpatch.NewApplyOptions()
	opts.SupportNegativeIndices = false

	out, err := p.ApplyWithOptions(src, opts)
	if err != nil {
		return nil, err
	}
	return loader.Decode(bytes.NewReader(out))
}
