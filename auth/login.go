package auth

import (
	"net/http"
	"sync"
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/database"
	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/webauthn"
)

var WebAuthnLoginSessions sync.Map

// LoginTokenValidity bounds the token minted on login; it is the mobile
// client's credential for resolving pairing sessions. main sets it from
// TOKEN_VALIDITY at startup; the default only covers tests.
var LoginTokenValidity = 8 * time.Hour

func BeginLogin(c *gin.Context) {
	studentID, err := c.Cookie("studentID")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentID cookie not found"})
		return
	}
	record, err := database.GetStudentCredentials(studentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(record.Credentials) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No credential found for this student"})
		return
	}
	options, session, err := WebAuthn.BeginLogin(record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	WebAuthnLoginSessions.Store(studentID, session)
	c.JSON(http.StatusOK, options)
}

func FinishLogin(c *gin.Context) {
	studentID, err := c.Cookie("studentID")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentID cookie not found"})
		return
	}
	sessionUntyped, ok := WebAuthnLoginSessions.Load(studentID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login session not found"})
		return
	}
	session := sessionUntyped.(*webauthn.SessionData)
	record, err := database.GetStudentCredentials(studentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	credential, err := WebAuthn.FinishLogin(record, *session, c.Request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := database.UpdateCredential(studentID, credential); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	WebAuthnLoginSessions.Delete(studentID)

	token, err := GenerateToken(studentID, LoginTokenValidity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success", "token": token})
}
