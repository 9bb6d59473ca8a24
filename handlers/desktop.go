package handlers

import (
	"log"
	"net/http"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
	"github.com/gin-gonic/gin"
)

// PairingSession drives one desktop pairing attempt over a websocket. The
// first frame carries the session id for the client to render as a QR code;
// every following frame is a decoded session status. The socket closes after
// the terminal status, when the client goes away, or at the session TTL,
// whichever comes first.
func (a *API) PairingSession(c *gin.Context) {
	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish WebSocket connection"})
		return
	}
	defer conn.Close()

	sessionID, err := a.Issuer.CreateSession()
	if err != nil {
		log.Printf("Failed to create pairing session: %v", err)
		conn.WriteJSON(gin.H{"error": "Failed to create pairing session"})
		return
	}

	if err := conn.WriteJSON(gin.H{"sessionID": sessionID}); err != nil {
		log.Printf("Failed to send session ID: %v", err)
		return
	}

	stream, err := a.Listener.Listen(sessionID)
	if err != nil {
		log.Printf("Failed to watch session %s: %v", sessionID, err)
		conn.WriteJSON(gin.H{"error": "Failed to watch pairing session"})
		return
	}
	defer stream.Close()

	// Status frames are sparse, so a write error alone would notice a gone
	// client too late. The read pump cancels the watch on disconnect.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				stream.Close()
				return
			}
		}
	}()

	for status := range stream.Statuses() {
		if err := conn.WriteJSON(statusFrame(status)); err != nil {
			log.Printf("Client disconnected: %v", err)
			return
		}
		if status.IsTerminal() {
			log.Printf("Session %s finished as %s", sessionID, status.State)
			return
		}
	}
}

func statusFrame(status models.SessionStatus) gin.H {
	frame := gin.H{"status": status.State.String()}
	if status.Token != "" {
		frame["token"] = status.Token
	}
	if status.Message != "" {
		frame["message"] = status.Message
	}
	return frame
}
