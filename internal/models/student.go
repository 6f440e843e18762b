package models

// Student is a roster entry on the classroom detail screen.
type Student struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// NormalizeStudents reads a roster array of loosely shaped objects.
func NormalizeStudents(value interface{}) []Student {
	items, ok := value.([]interface{})
	if !ok {
		return []Student{}
	}
	students := make([]Student, 0, len(items))
	for _, item := range items {
		obj, ok := asRecord(item)
		if !ok {
			continue
		}
		students = append(students, Student{
			ID:    obj.First("id", "studentId", "_id"),
			Name:  obj.FirstOr("Student", "name", "fullName", "displayName"),
			Email: obj.First("email"),
		})
	}
	return students
}
