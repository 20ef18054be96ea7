// Package record turns a decoded JSON document into addressable records.
//
// A record is emitted for every object node, including the root, and is
// addressed by an RFC 6901 JSON Pointer. The root object is addressed as
// "/" rather than the empty string so that every record pointer starts
// with a slash and prefix checks between ancestors and descendants work
// uniformly. Arrays are walked but produce no record of their own.
//
// Values are the types produced by encoding/json with UseNumber:
// map[string]any, []any, string, json.Number, bool and nil.
package record
