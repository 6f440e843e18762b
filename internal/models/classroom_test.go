package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeClassroomDefaults(t *testing.T) {
	c := NormalizeClassroom(Record{"unrelated": true})

	assert.Equal(t, "", c.ID)
	assert.False(t, c.HasID())
	assert.Equal(t, DefaultClassroomName, c.Name)
	assert.Equal(t, DefaultSection, c.Section)
	assert.Equal(t, DefaultYearTerm, c.YearTerm)
	assert.Equal(t, DefaultTerm, c.Term)
	assert.Equal(t, DefaultLecturer, c.Lecturer)
	assert.Equal(t, DefaultRoom, c.Room)
	assert.Equal(t, DefaultDay, c.Day)
	assert.Equal(t, DefaultTime, c.Time)
	assert.Equal(t, DefaultCode, c.Code)
	assert.Equal(t, true, c.Extra["unrelated"])

	raw := c.Raw()
	_, hasID := raw["id"]
	assert.False(t, hasID)
	assert.Equal(t, DefaultClassroomName, raw["className"])
	assert.Equal(t, DefaultLecturer, raw["teacher"])
	assert.Equal(t, DefaultDay, raw["schedule"])
	assert.Equal(t, DefaultTime, raw["timeSlot"])
	assert.Equal(t, DefaultCode, raw["classCode"])
}

func TestNormalizeClassroomNilInput(t *testing.T) {
	c := NormalizeClassroom(nil)
	assert.Equal(t, DefaultClassroomName, c.Name)
	assert.NotNil(t, c.Extra)
}

func TestNormalizeClassroomPriority(t *testing.T) {
	cases := []struct {
		name string
		raw  Record
		get  func(Classroom) string
		want string
	}{
		{"name wins over className", Record{"name": "Bio", "className": "Old", "subject": "Older"}, func(c Classroom) string { return c.Name }, "Bio"},
		{"className before subject", Record{"className": "Chem", "subject": "Older"}, func(c Classroom) string { return c.Name }, "Chem"},
		{"subject last", Record{"subject": "Physics"}, func(c Classroom) string { return c.Name }, "Physics"},
		{"empty name skipped", Record{"name": "", "className": "Chem"}, func(c Classroom) string { return c.Name }, "Chem"},
		{"id from classroomId", Record{"classroomId": "c-1", "classId": "c-2"}, func(c Classroom) string { return c.ID }, "c-1"},
		{"id from _id", Record{"_id": "mongo"}, func(c Classroom) string { return c.ID }, "mongo"},
		{"numeric id", Record{"id": json.Number("42")}, func(c Classroom) string { return c.ID }, "42"},
		{"zero id skipped", Record{"id": float64(0), "classId": "k"}, func(c Classroom) string { return c.ID }, "k"},
		{"section from class", Record{"class": "Class A"}, func(c Classroom) string { return c.Section }, "Class A"},
		{"yearTerm from academicYear", Record{"academicYear": "2025"}, func(c Classroom) string { return c.YearTerm }, "2025"},
		{"term from semester", Record{"semester": "Semester 2"}, func(c Classroom) string { return c.Term }, "Semester 2"},
		{"lecturer from instructor", Record{"instructor": "Ms. V"}, func(c Classroom) string { return c.Lecturer }, "Ms. V"},
		{"teacher before instructor", Record{"teacher": "Mr. T", "instructor": "Ms. V"}, func(c Classroom) string { return c.Lecturer }, "Mr. T"},
		{"room from roomNumber", Record{"roomNumber": "101"}, func(c Classroom) string { return c.Room }, "101"},
		{"day from dayOfWeek", Record{"dayOfWeek": "Monday"}, func(c Classroom) string { return c.Day }, "Monday"},
		{"time from hours", Record{"hours": "9-10"}, func(c Classroom) string { return c.Time }, "9-10"},
		{"code from joinCode", Record{"joinCode": "J1"}, func(c Classroom) string { return c.Code }, "J1"},
		{"non-string ignored", Record{"name": []interface{}{"x"}, "subject": "Math"}, func(c Classroom) string { return c.Name }, "Math"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.get(NormalizeClassroom(tc.raw)))
		})
	}
}

func TestNormalizeClassroomIdempotent(t *testing.T) {
	inputs := []Record{
		{},
		{"id": "A", "code": "ABC123"},
		{"classId": json.Number("7"), "subject": "Art", "teacher": "T", "timeSlot": "1-2", "extra": map[string]interface{}{"k": "v"}},
		{"_id": "m", "className": "", "classCode": "zz", "students": []interface{}{map[string]interface{}{"name": "Alice"}}},
		{"name": "N", "section": "S", "yearTerm": "Y", "term": "T", "lecturer": "L", "room": "R", "day": "D", "time": "H", "code": "C"},
	}
	for _, raw := range inputs {
		once := NormalizeClassroom(raw)
		twice := NormalizeClassroom(once.Raw())
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeClassroomKeepsUnknownFields(t *testing.T) {
	c := NormalizeClassroom(Record{"id": "B", "subject": "Bio", "studentCount": json.Number("20")})
	raw := c.Raw()
	assert.Equal(t, "Bio", raw["subject"])
	assert.Equal(t, json.Number("20"), raw["studentCount"])
	assert.Equal(t, "Bio", raw["name"])
}

func TestClassroomJSONRoundTrip(t *testing.T) {
	in := `{"id":"B","name":"Bio","code":"XYZ999","studentCount":20}`
	var c Classroom
	require.NoError(t, json.Unmarshal([]byte(in), &c))

	out, err := json.Marshal(c)
	require.NoError(t, err)

	var again Classroom
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, c, again)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "XYZ999", decoded["classCode"])
	assert.Equal(t, "Bio", decoded["className"])
	assert.Equal(t, float64(20), decoded["studentCount"])
}

func TestMatchesCode(t *testing.T) {
	c := Classroom{Code: "ABC123"}
	assert.True(t, c.MatchesCode("abc123"))
	assert.True(t, c.MatchesCode(" ABC123 "))
	assert.False(t, c.MatchesCode("ABC12"))
	assert.False(t, Classroom{}.MatchesCode(""))
}

func TestNormalizeClassroomDetail(t *testing.T) {
	d := NormalizeClassroomDetail(Record{
		"id": "A",
		"students": []interface{}{
			map[string]interface{}{"id": "1", "name": "Alice Johnson", "email": "alice.j@student.edu"},
			map[string]interface{}{"fullName": "Bob Smith"},
			"not-an-object",
		},
	})
	assert.Equal(t, "A", d.Classroom.ID)
	require.Len(t, d.Students, 2)
	assert.Equal(t, "Alice Johnson", d.Students[0].Name)
	assert.Equal(t, "Bob Smith", d.Students[1].Name)
}

func TestNormalizeAssignmentsAndMaterials(t *testing.T) {
	assignments := NormalizeAssignments([]interface{}{
		map[string]interface{}{"id": "1", "name": "Quiz 1", "points": json.Number("50")},
		map[string]interface{}{"title": "Lab", "status": AssignmentStatusSubmitted},
		42,
	})
	require.Len(t, assignments, 2)
	assert.Equal(t, "Quiz 1", assignments[0].Title)
	assert.Equal(t, float64(50), assignments[0].Points)
	assert.Equal(t, AssignmentStatusAssigned, assignments[0].Status)
	assert.Equal(t, AssignmentStatusSubmitted, assignments[1].Status)

	out, err := json.Marshal(assignments[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name":"Quiz 1"`)

	materials := NormalizeMaterials([]interface{}{map[string]interface{}{"title": "Syllabus", "type": "pdf"}})
	require.Len(t, materials, 1)
	assert.Equal(t, "pdf", materials[0].Type)
}
