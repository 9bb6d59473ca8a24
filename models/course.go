package models

// AttendanceStatus is the per-student mark for one date.
type AttendanceStatus string

const (
	Present AttendanceStatus = "PRESENT"
	Absent  AttendanceStatus = "ABSENT"
	Tardy   AttendanceStatus = "TARDY"
	Unknown AttendanceStatus = "UNKNOWN"
)

// Valid reports whether s is one of the defined marks.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case Present, Absent, Tardy, Unknown:
		return true
	}
	return false
}

// AttendanceEntry is one student's mark within a date's roster.
type AttendanceEntry struct {
	StudentID string           `json:"studentId"`
	Status    AttendanceStatus `json:"status"`
}

// Course mirrors the course document shape:
// {id, name, degree, section, career, studentsId: [string],
//  attendance: {<date>: [{studentId, status}]}}
// Attendance maps a calendar date (YYYY-MM-DD) to the ordered entries
// recorded for it. Within one date there is at most one entry per student.
type Course struct {
	ID         string                       `json:"id"`
	Name       string                       `json:"name"`
	Degree     string                       `json:"degree"`
	Section    string                       `json:"section"`
	Career     string                       `json:"career"`
	StudentsID []string                     `json:"studentsId"`
	Attendance map[string][]AttendanceEntry `json:"attendance"`
}
