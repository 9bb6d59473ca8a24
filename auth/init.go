package auth

import (
	"github.com/go-webauthn/webauthn/webauthn"
)

var WebAuthn *webauthn.WebAuthn

func Init(rpID string, origins []string) {
	wconfig := &webauthn.Config{
		RPDisplayName: "Apollo Dynamics Attendance",
		RPID:          rpID,
		RPOrigins:     origins,
	}
	var err error
	if WebAuthn, err = webauthn.New(wconfig); err != nil {
		panic(err)
	}
}
