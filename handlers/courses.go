package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/attendance"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/database"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
	"github.com/gin-gonic/gin"
)

func (a *API) CreateCourse(c *gin.Context) {
	var req models.AddCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := a.Registrar.AddCourse(req)
	if err != nil {
		log.Printf("Failed to create course: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courseID": id})
}

func (a *API) AddStudents(c *gin.Context) {
	courseID := c.Param("id")
	var req models.AddStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := a.Registrar.AddStudentsToCourse(courseID, req.StudentsID)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		case errors.Is(err, attendance.ErrConcurrentModification):
			c.JSON(http.StatusConflict, gin.H{"error": "Course contested, try again"})
		default:
			log.Printf("Failed to add students to %s: %v", courseID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add students"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// CourseAttendance returns the roster for one date, expanded with student
// reference data from the people database.
func (a *API) CourseAttendance(c *gin.Context) {
	courseID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(attendance.DateLayout)
	}

	course, err := a.Registrar.Course(courseID)
	if err != nil {
		if errors.Is(err, attendance.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		log.Printf("Failed to load course %s: %v", courseID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load course"})
		return
	}

	entries := course.Attendance[date]
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.StudentID
	}
	students, err := database.GetStudentsByIDs(ids)
	if err != nil {
		log.Printf("Failed to load students for %s: %v", courseID, err)
	}
	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.Name
	}

	type rosterRow struct {
		StudentID string `json:"studentId"`
		Name      string `json:"name"`
		Status    string `json:"status"`
	}
	roster := make([]rosterRow, len(entries))
	for i, e := range entries {
		roster[i] = rosterRow{
			StudentID: e.StudentID,
			Name:      names[e.StudentID],
			Status:    string(e.Status),
		}
	}
	c.JSON(http.StatusOK, gin.H{"courseID": courseID, "date": date, "roster": roster})
}
