// Package handlers exposes the pairing and attendance flows over HTTP:
// a websocket stream for the desktop pairing dialog, a token-guarded scan
// endpoint for the mobile client, and course administration.
package handlers

import (
	"net/http"
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/attendance"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/sessions"
	"github.com/gorilla/websocket"
)

type API struct {
	Issuer        *sessions.Issuer
	Listener      *sessions.Listener
	Resolver      *sessions.Resolver
	Recorder      *attendance.Recorder
	Registrar     *attendance.Registrar
	TokenValidity time.Duration

	upgrader websocket.Upgrader
}

func New(issuer *sessions.Issuer, listener *sessions.Listener, resolver *sessions.Resolver,
	recorder *attendance.Recorder, registrar *attendance.Registrar,
	tokenValidity time.Duration, allowedOrigins []string) *API {

	return &API{
		Issuer:        issuer,
		Listener:      listener,
		Resolver:      resolver,
		Recorder:      recorder,
		Registrar:     registrar,
		TokenValidity: tokenValidity,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}
