package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/noah-isme/classroom-client/internal/models"
	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
)

// ClassroomRepository is the local store of joined classrooms: one ordered
// list serialized under a single key, always rewritten in full.
type ClassroomRepository struct {
	kv KeyValueStore
}

// NewClassroomRepository constructs a ClassroomRepository.
func NewClassroomRepository(kv KeyValueStore) *ClassroomRepository {
	return &ClassroomRepository{kv: kv}
}

// Load returns the stored list, skipping null entries. A missing blob is an
// empty list. Read or parse failures also yield an empty list, together with a
// STORAGE_ERROR the caller may log; the list returned is never nil.
func (r *ClassroomRepository) Load(ctx context.Context) ([]models.Classroom, error) {
	raw, err := r.kv.Get(ctx, KeyClassrooms)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return []models.Classroom{}, nil
		}
		return []models.Classroom{}, appErrors.Storage(err, "read", KeyClassrooms)
	}
	if raw == "" || raw == "null" {
		return []models.Classroom{}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []models.Classroom{}, appErrors.Storage(err, "parse", KeyClassrooms)
	}
	items := make([]models.Classroom, 0, len(entries))
	for _, entry := range entries {
		// null entries are holes, not classrooms
		if string(bytes.TrimSpace(entry)) == "null" {
			continue
		}
		var item models.Classroom
		if err := json.Unmarshal(entry, &item); err != nil {
			return []models.Classroom{}, appErrors.Storage(err, "parse", KeyClassrooms)
		}
		items = append(items, item)
	}
	return items, nil
}

// Save serializes and writes the whole list, replacing previous content.
func (r *ClassroomRepository) Save(ctx context.Context, items []models.Classroom) error {
	if items == nil {
		items = []models.Classroom{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return appErrors.Storage(err, "encode", KeyClassrooms)
	}
	if err := r.kv.Set(ctx, KeyClassrooms, string(payload)); err != nil {
		return appErrors.Storage(err, "write", KeyClassrooms)
	}
	return nil
}

// Clear removes the stored list entirely.
func (r *ClassroomRepository) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeyClassrooms); err != nil {
		return appErrors.Storage(err, "delete", KeyClassrooms)
	}
	return nil
}
