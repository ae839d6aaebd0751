package api

import "reflect"

// Payload is the canonical request body (or query set, for GET/DELETE) built
// field by field by the parameter normalizer. Three insertion policies exist:
//
//   - Set: skip the field when the value is empty/unset
//   - Force: always include the field, even when empty
//   - SetSentinel: treat a per-field sentinel value as "unset" and skip it
//
// A nil Payload is a valid empty payload.
type Payload map[string]any

// NewPayload returns an empty payload.
func NewPayload() Payload {
	return Payload{}
}

// Set writes value under key unless the value is empty: nil, "", a zero-length
// slice or map, or a nil pointer. Zero numbers and false booleans count as
// set; numeric fields where zero means "unset" use SetSentinel instead.
func (p Payload) Set(key string, value any) Payload {
	if isEmpty(value) {
		return p
	}
	p[key] = value
	return p
}

// Force writes value under key unconditionally, including empty values.
func (p Payload) Force(key string, value any) Payload {
	p[key] = value
	return p
}

// SetSentinel writes value under key unless it equals sentinel, which marks
// the field as not supplied. The sentinel is chosen per field: -1 for fields
// where zero is legitimate, 0 for identifiers that are never zero.
func (p Payload) SetSentinel(key string, value, sentinel int64) Payload {
	if value == sentinel {
		return p
	}
	p[key] = value
	return p
}

// Merge copies all fields of other into p, overwriting on collision.
func (p Payload) Merge(other Payload) Payload {
	for k, v := range other {
		p[k] = v
	}
	return p
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case map[string]string:
		return len(v) == 0
	case Payload:
		return len(v) == 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
