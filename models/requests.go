package models

type ScanMessage struct {
	SessionID string `json:"sessionID" binding:"required"`
	CourseID  string `json:"courseID" binding:"required"`
	ScannedAt string `json:"scannedAt"` // unix millis as string to avoid overflow in JS clients
}

type AddCourseRequest struct {
	Name    string `json:"name" binding:"required"`
	Degree  string `json:"degree"`
	Section string `json:"section"`
	Career  string `json:"career"`
}

type AddStudentsRequest struct {
	StudentsID []string `json:"studentsId" binding:"required"`
}
