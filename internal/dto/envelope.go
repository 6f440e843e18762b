package dto

import "github.com/noah-isme/classroom-client/internal/models"

// Envelope keys, highest priority first. The bare payload is the final fallback.
var (
	ClassroomEnvelopeKeys  = []string{"classroom", "data"}
	AssignmentEnvelopeKeys = []string{"assignments", "data"}
	MaterialEnvelopeKeys   = []string{"materials", "data"}
)

// UnwrapObject returns the first key among keys holding a JSON object, or the
// payload itself when none does.
func UnwrapObject(payload interface{}, keys ...string) models.Record {
	obj, ok := LookupObject(payload, keys...)
	if !ok {
		return models.Record{}
	}
	return obj
}

// LookupObject is UnwrapObject reporting whether payload was a JSON object at
// all. Null, arrays and scalars report false.
func LookupObject(payload interface{}, keys ...string) (models.Record, bool) {
	obj, ok := asRecord(payload)
	if !ok {
		return nil, false
	}
	for _, key := range keys {
		if inner, ok := asRecord(obj[key]); ok {
			return inner, true
		}
	}
	return obj, true
}

// UnwrapList returns the first key among keys holding a JSON array. A bare
// array payload is returned as is; anything else yields an empty list.
func UnwrapList(payload interface{}, keys ...string) []interface{} {
	if list, ok := payload.([]interface{}); ok {
		return list
	}
	obj, ok := asRecord(payload)
	if !ok {
		return []interface{}{}
	}
	for _, key := range keys {
		if list, ok := obj[key].([]interface{}); ok {
			return list
		}
	}
	return []interface{}{}
}

func asRecord(value interface{}) (models.Record, bool) {
	switch v := value.(type) {
	case models.Record:
		return v, true
	case map[string]interface{}:
		return models.Record(v), true
	default:
		return nil, false
	}
}
