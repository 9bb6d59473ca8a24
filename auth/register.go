package auth

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/database"
	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/webauthn"
	"gorm.io/gorm"
)

var WebAuthnRegisterSessions sync.Map

func BeginRegistration(c *gin.Context) {
	studentID := c.GetHeader("StudentID")
	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "StudentID header not set"})
		return
	}
	record, err := database.GetStudentCredentials(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record, err = database.CreateStudentCredentials(studentID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if len(record.Credentials) > 0 {
		// already registered with another authenticator
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student already registered"})
		return
	}

	options, session, err := WebAuthn.BeginRegistration(record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	WebAuthnRegisterSessions.Store(studentID, session)

	c.JSON(http.StatusOK, options)
}

func FinishRegistration(c *gin.Context) {
	studentID := c.GetHeader("StudentID")
	sessionUntyped, ok := WebAuthnRegisterSessions.Load(studentID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "registration session not found"})
		return
	}
	session := sessionUntyped.(*webauthn.SessionData)
	record, err := database.GetStudentCredentials(studentID)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	credential, err := WebAuthn.FinishRegistration(record, *session, c.Request)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := database.AddCredential(studentID, credential); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	WebAuthnRegisterSessions.Delete(studentID)

	setStudentCookie(c, studentID)
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func setStudentCookie(c *gin.Context, studentID string) {
	c.SetCookie(
		"studentID",
		studentID,
		int(^uint(0)>>1), // effectively never expires
		"/",
		"",
		true,
		true,
	)
}

// CheckIfRegistered tells the mobile client whether this device already
// holds a registered credential, based on the studentID cookie.
func CheckIfRegistered(c *gin.Context) {
	studentID, err := c.Cookie("studentID")
	if err != nil {
		// no cookie, not registered
		c.JSON(http.StatusOK, gin.H{"registered": false})
		return
	}
	record, err := database.GetStudentCredentials(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"registered": false})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": len(record.Credentials) > 0})
}
