package attendance

import (
	"fmt"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
)

// Course document codec. Documents round-trip through JSON in the sqlite
// store, so readers accept both the typed values written by this process and
// the generic map/slice values that come back from a decode.

func entriesForDate(data map[string]any, date string) []models.AttendanceEntry {
	attendance, ok := data["attendance"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := attendance[date].([]any)
	if !ok {
		return nil
	}
	entries := make([]models.AttendanceEntry, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		studentID, _ := m["studentId"].(string)
		status, _ := m["status"].(string)
		if studentID == "" {
			continue
		}
		entries = append(entries, models.AttendanceEntry{
			StudentID: studentID,
			Status:    models.AttendanceStatus(status),
		})
	}
	return entries
}

// withDateEntries returns a copy of the course data with the given date's
// entry list replaced. The input map is not mutated.
func withDateEntries(data map[string]any, date string, entries []models.AttendanceEntry) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	oldAttendance, _ := data["attendance"].(map[string]any)
	attendance := make(map[string]any, len(oldAttendance)+1)
	for k, v := range oldAttendance {
		attendance[k] = v
	}
	attendance[date] = encodeEntries(entries)
	out["attendance"] = attendance
	return out
}

func encodeEntries(entries []models.AttendanceEntry) []any {
	raw := make([]any, len(entries))
	for i, e := range entries {
		raw[i] = map[string]any{
			"studentId": e.StudentID,
			"status":    string(e.Status),
		}
	}
	return raw
}

func encodeCourse(course models.Course) map[string]any {
	studentsID := make([]any, len(course.StudentsID))
	for i, id := range course.StudentsID {
		studentsID[i] = id
	}
	attendance := make(map[string]any, len(course.Attendance))
	for date, entries := range course.Attendance {
		attendance[date] = encodeEntries(entries)
	}
	return map[string]any{
		"id":         course.ID,
		"name":       course.Name,
		"degree":     course.Degree,
		"section":    course.Section,
		"career":     course.Career,
		"studentsId": studentsID,
		"attendance": attendance,
	}
}

func decodeCourse(id string, data map[string]any) (models.Course, error) {
	name, ok := data["name"].(string)
	if !ok {
		return models.Course{}, fmt.Errorf("course %s has no name", id)
	}
	course := models.Course{
		ID:         id,
		Name:       name,
		Attendance: make(map[string][]models.AttendanceEntry),
	}
	course.Degree, _ = data["degree"].(string)
	course.Section, _ = data["section"].(string)
	course.Career, _ = data["career"].(string)
	course.StudentsID = decodeStringSlice(data["studentsId"])
	if attendance, ok := data["attendance"].(map[string]any); ok {
		for date := range attendance {
			course.Attendance[date] = entriesForDate(data, date)
		}
	}
	return course, nil
}

func decodeStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
