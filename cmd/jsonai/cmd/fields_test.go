package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsCmd(t *testing.T) {
	// Given a document with nested objects and an array of objects
	isolate(t)
	path := writeFile(t, t.TempDir(), "doc.json",
		`{"name":"x","address":{"city":"paris"},"tags":[{"label":"a"},{"other":1}]}`)

	// When listing fields
	res := run(t, "", "fields", path)

	// Then dotted paths print sorted, arrays contributing their first element
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, `["address","address.city","name","tags","tags.label"]`+"\n", res.stdout)
}

func TestFieldsCmd_Schema(t *testing.T) {
	isolate(t)
	schema := `{"type":"object","properties":{"id":{"type":"integer"},"owner":{"type":"object","properties":{"email":{"type":"string"}}}}}`
	path := writeFile(t, t.TempDir(), "schema.json", schema)

	res := run(t, "", "fields", "--schema", path)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, `["id","owner","owner.email"]`+"\n", res.stdout)

	res = run(t, schema, "fields", "--schema", "-")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, `["id","owner","owner.email"]`+"\n", res.stdout)
}

func TestFieldsCmd_Scalar(t *testing.T) {
	isolate(t)

	res := run(t, `42`, "fields", "-")

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "[]\n", res.stdout)
}

func TestFieldsCmd_InvalidSchema(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "schema.json", `{"type":12}`)

	res := run(t, "", "fields", "--schema", path)

	assert.Equal(t, ExitError, res.code)
	assert.Contains(t, res.stderr, "ERR_410_INVALID_SCHEMA")
}
