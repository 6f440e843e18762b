package models

import (
	"encoding/json"
	"strconv"
)

// Assignment status values used by the API.
const (
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusSubmitted = "submitted"
)

var (
	assignmentOwnedKeys = keySet("id", "title", "name", "dueDate", "points", "status")
	materialOwnedKeys   = keySet("id", "title", "name", "type", "url")
)

// Assignment is a classroom assignment (practice or submission).
type Assignment struct {
	ID      string
	Title   string
	DueDate string
	Points  float64
	Status  string
	Extra   Record
}

// NormalizeAssignment resolves an assignment object; title falls back to name.
func NormalizeAssignment(raw Record) Assignment {
	points, _ := strconv.ParseFloat(raw.First("points", "maxPoints", "score"), 64)
	return Assignment{
		ID:      raw.First("id", "assignmentId", "_id"),
		Title:   raw.FirstOr("Untitled", "title", "name"),
		DueDate: raw.First("dueDate", "due", "deadline"),
		Points:  points,
		Status:  raw.FirstOr(AssignmentStatusAssigned, "status"),
		Extra:   raw.Without(assignmentOwnedKeys),
	}
}

// MarshalJSON keeps name as an alias of title.
func (a Assignment) MarshalJSON() ([]byte, error) {
	out := make(Record, len(a.Extra)+6)
	for k, v := range a.Extra {
		out[k] = v
	}
	if a.ID != "" {
		out["id"] = a.ID
	}
	out["title"] = a.Title
	out["name"] = a.Title
	if a.DueDate != "" {
		out["dueDate"] = a.DueDate
	}
	out["points"] = a.Points
	out["status"] = a.Status
	return json.Marshal(out)
}

// NormalizeAssignments normalizes a decoded JSON array.
func NormalizeAssignments(items []interface{}) []Assignment {
	out := make([]Assignment, 0, len(items))
	for _, item := range items {
		if obj, ok := asRecord(item); ok {
			out = append(out, NormalizeAssignment(obj))
		}
	}
	return out
}

// Material is a course material item (syllabus, slides, reading).
type Material struct {
	ID    string
	Title string
	Type  string
	URL   string
	Extra Record
}

// NormalizeMaterial resolves a material object.
func NormalizeMaterial(raw Record) Material {
	return Material{
		ID:    raw.First("id", "materialId", "_id"),
		Title: raw.FirstOr("Untitled", "title", "name"),
		Type:  raw.FirstOr("document", "type"),
		URL:   raw.First("url", "link", "fileUrl"),
		Extra: raw.Without(materialOwnedKeys),
	}
}

// MarshalJSON keeps name as an alias of title.
func (m Material) MarshalJSON() ([]byte, error) {
	out := make(Record, len(m.Extra)+5)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.ID != "" {
		out["id"] = m.ID
	}
	out["title"] = m.Title
	out["name"] = m.Title
	out["type"] = m.Type
	if m.URL != "" {
		out["url"] = m.URL
	}
	return json.Marshal(out)
}

// NormalizeMaterials normalizes a decoded JSON array.
func NormalizeMaterials(items []interface{}) []Material {
	out := make([]Material, 0, len(items))
	for _, item := range items {
		if obj, ok := asRecord(item); ok {
			out = append(out, NormalizeMaterial(obj))
		}
	}
	return out
}
