package api

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Envelope is the raw JSON object returned by the remote host, before any
// field unwrapping. List operations typically extract a named array field
// from it; single-resource and raw calls hand it to the caller unmodified.
type Envelope map[string]any

// Field returns the named top-level field and whether it was present.
func (e Envelope) Field(name string) (any, bool) {
	v, ok := e[name]
	return v, ok
}

// Decode maps the whole envelope onto out, which must be a pointer to a
// struct or map. Unknown fields are ignored; field matching follows the
// struct's mapstructure (or field name) tags.
func (e Envelope) Decode(out any) error {
	return decode(e, out)
}

// DecodeField unwraps the named field from the envelope and maps it onto out.
// A missing field decodes as the zero value, matching how the API omits empty
// list fields entirely.
func (e Envelope) DecodeField(name string, out any) error {
	v, ok := e[name]
	if !ok {
		return nil
	}
	return decode(v, out)
}

func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("failed to decode envelope: %w", err)
	}
	return nil
}
