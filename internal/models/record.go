package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Record is a loosely shaped JSON object as returned by the classroom API.
type Record map[string]interface{}

// First returns the first non-empty value among keys, rendered as a string.
// Non-empty strings and non-zero numbers count; every other JSON type is skipped.
func (r Record) First(keys ...string) string {
	for _, key := range keys {
		if value, ok := scalarString(r[key]); ok {
			return value
		}
	}
	return ""
}

// FirstOr is First with a fallback.
func (r Record) FirstOr(fallback string, keys ...string) string {
	if value := r.First(keys...); value != "" {
		return value
	}
	return fallback
}

// Without returns a shallow copy of r minus the given keys.
func (r Record) Without(keys map[string]struct{}) Record {
	out := make(Record, len(r))
	for k, v := range r {
		if _, skip := keys[k]; skip {
			continue
		}
		out[k] = v
	}
	return out
}

// DecodeRecord parses a JSON object keeping numbers exact.
func DecodeRecord(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw Record
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = Record{}
	}
	return raw, nil
}

func scalarString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	case json.Number:
		f, err := v.Float64()
		if err != nil || f == 0 {
			return "", false
		}
		return v.String(), true
	case float64:
		if v == 0 {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), v != 0
	case int64:
		return strconv.FormatInt(v, 10), v != 0
	default:
		return "", false
	}
}

func keySet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
