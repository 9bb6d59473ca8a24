package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/attendance"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/auth"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/database"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/docstore"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/sessions"
	"github.com/gin-gonic/gin"
)

// ScanQR handles a scanned pairing code from an authenticated mobile client:
// it resolves the session with a freshly minted token for the desktop, then
// records the student's attendance for the scan's date.
func (a *API) ScanQR(c *gin.Context) {
	studentID := c.GetString(auth.StudentIDKey)

	var scan models.ScanMessage
	if err := c.ShouldBindJSON(&scan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := auth.GenerateToken(studentID, a.TokenValidity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	if err := a.Resolver.Accept(scan.SessionID, token); err != nil {
		switch {
		case errors.Is(err, sessions.ErrSessionExpired):
			c.JSON(http.StatusGone, gin.H{"error": "Session expired, scan a fresh code"})
		case errors.Is(err, sessions.ErrSessionNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "Session already resolved"})
		case errors.Is(err, docstore.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Session contested, scan a fresh code"})
		default:
			log.Printf("Failed to resolve session %s: %v", scan.SessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
		}
		return
	}

	scannedAt := time.Time{}
	if scan.ScannedAt != "" {
		if millis, err := strconv.ParseInt(scan.ScannedAt, 10, 64); err == nil {
			scannedAt = time.UnixMilli(millis)
		}
	}

	if err := a.Recorder.QRAttendance(scan.CourseID, studentID, scannedAt); err != nil {
		switch {
		case errors.Is(err, attendance.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		case errors.Is(err, attendance.ErrConcurrentModification):
			// The one retryable user-facing error: ask for this scan again.
			c.JSON(http.StatusConflict, gin.H{"error": "Attendance write contested, try again"})
		default:
			log.Printf("Failed to record attendance for %s: %v", studentID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attendance"})
		}
		return
	}

	// Name lookup is best effort; the reference record may not exist yet for
	// a freshly registered student.
	message := "Attendance marked successfully"
	if student, err := database.GetStudent(studentID); err == nil && student.Name != "" {
		message = "Attendance marked for " + student.Name
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": message})
}
