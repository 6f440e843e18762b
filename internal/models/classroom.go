package models

import (
	"encoding/json"
	"strings"
)

// Fallbacks used when the API omits a classroom field.
const (
	DefaultClassroomName = "Classroom"
	DefaultSection       = "Class B"
	DefaultYearTerm      = "Y2 T3"
	DefaultTerm          = "Semester 1"
	DefaultLecturer      = "Lecturer"
	DefaultRoom          = "409"
	DefaultDay           = "Friday"
	DefaultTime          = "8:30 - 11:30"
	DefaultCode          = "12345678"
)

// Alias priority per canonical field. Older backend names sit lower in each
// list; the order is relied on by previously cached data and must not change.
var (
	classroomIDKeys       = []string{"id", "classroomId", "classId", "_id"}
	classroomNameKeys     = []string{"name", "className", "subject"}
	classroomSectionKeys  = []string{"section", "class"}
	classroomYearTermKeys = []string{"yearTerm", "year", "academicYear"}
	classroomTermKeys     = []string{"term", "semester"}
	classroomLecturerKeys = []string{"lecturer", "teacher", "instructor"}
	classroomRoomKeys     = []string{"room", "roomNumber"}
	classroomDayKeys      = []string{"day", "schedule", "dayOfWeek"}
	classroomTimeKeys     = []string{"time", "timeSlot", "hours"}
	classroomCodeKeys     = []string{"code", "classCode", "joinCode"}

	classroomOwnedKeys = keySet(
		"id", "name", "section", "yearTerm", "term", "lecturer", "room", "day", "time", "code",
		"className", "teacher", "schedule", "timeSlot", "classCode",
	)
)

// Classroom is the canonical classroom record. Fields the client does not
// model are kept in Extra and written back out untouched.
type Classroom struct {
	ID       string
	Name     string
	Section  string
	YearTerm string
	Term     string
	Lecturer string
	Room     string
	Day      string
	Time     string
	Code     string
	Extra    Record
}

// NormalizeClassroom maps an arbitrarily shaped classroom object onto the
// canonical record. It never fails and is idempotent.
func NormalizeClassroom(raw Record) Classroom {
	if raw == nil {
		raw = Record{}
	}
	return Classroom{
		ID:       raw.First(classroomIDKeys...),
		Name:     raw.FirstOr(DefaultClassroomName, classroomNameKeys...),
		Section:  raw.FirstOr(DefaultSection, classroomSectionKeys...),
		YearTerm: raw.FirstOr(DefaultYearTerm, classroomYearTermKeys...),
		Term:     raw.FirstOr(DefaultTerm, classroomTermKeys...),
		Lecturer: raw.FirstOr(DefaultLecturer, classroomLecturerKeys...),
		Room:     raw.FirstOr(DefaultRoom, classroomRoomKeys...),
		Day:      raw.FirstOr(DefaultDay, classroomDayKeys...),
		Time:     raw.FirstOr(DefaultTime, classroomTimeKeys...),
		Code:     raw.FirstOr(DefaultCode, classroomCodeKeys...),
		Extra:    raw.Without(classroomOwnedKeys),
	}
}

// Raw returns the overlaid object: extras first, then the canonical fields
// and their legacy aliases. An empty id is left out.
func (c Classroom) Raw() Record {
	out := make(Record, len(c.Extra)+15)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.ID != "" {
		out["id"] = c.ID
	}
	out["name"] = c.Name
	out["section"] = c.Section
	out["yearTerm"] = c.YearTerm
	out["term"] = c.Term
	out["lecturer"] = c.Lecturer
	out["room"] = c.Room
	out["day"] = c.Day
	out["time"] = c.Time
	out["code"] = c.Code

	out["className"] = c.Name
	out["teacher"] = c.Lecturer
	out["schedule"] = c.Day
	out["timeSlot"] = c.Time
	out["classCode"] = c.Code
	return out
}

// MarshalJSON writes the overlaid object.
func (c Classroom) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Raw())
}

// UnmarshalJSON accepts any classroom-like object and normalizes it.
func (c *Classroom) UnmarshalJSON(data []byte) error {
	raw, err := DecodeRecord(data)
	if err != nil {
		return err
	}
	*c = NormalizeClassroom(raw)
	return nil
}

// HasID reports whether the record carries an identifier. Records without
// one never compare equal by id.
func (c Classroom) HasID() bool {
	return c.ID != ""
}

// MatchesCode compares join codes case-insensitively.
func (c Classroom) MatchesCode(code string) bool {
	code = strings.TrimSpace(code)
	return code != "" && strings.EqualFold(c.Code, code)
}

// ClassroomDetail is the classroom screen payload.
type ClassroomDetail struct {
	Classroom Classroom `json:"classroom"`
	Students  []Student `json:"students"`
	// Stale is set when the remote call failed and the cached entry was served instead.
	Stale bool `json:"stale,omitempty"`
}

// NormalizeClassroomDetail normalizes a detail payload and lifts its roster.
func NormalizeClassroomDetail(raw Record) ClassroomDetail {
	classroom := NormalizeClassroom(raw)
	students := NormalizeStudents(classroom.Extra["students"])
	return ClassroomDetail{Classroom: classroom, Students: students}
}

// NormalizeClassrooms normalizes each element of a decoded JSON array, skipping non-objects.
func NormalizeClassrooms(items []interface{}) []Classroom {
	out := make([]Classroom, 0, len(items))
	for _, item := range items {
		if obj, ok := asRecord(item); ok {
			out = append(out, NormalizeClassroom(obj))
		}
	}
	return out
}

func asRecord(value interface{}) (Record, bool) {
	switch v := value.(type) {
	case Record:
		return v, true
	case map[string]interface{}:
		return Record(v), true
	default:
		return nil, false
	}
}
