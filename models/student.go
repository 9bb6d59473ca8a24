package models

import (
	"github.com/go-webauthn/webauthn/webauthn"
	"gorm.io/gorm"
)

// Student is read-mostly reference data. The roster table lives in the
// people database; the gorm record below only carries auth credentials.
type Student struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Courses []string `json:"courses"`
}

// StudentCredentials is the gorm-backed record tying a student id to their
// registered webauthn authenticators.
type StudentCredentials struct {
	gorm.Model
	StudentID   string                `json:"studentId" gorm:"index"`
	Credentials []webauthn.Credential `json:"credentials" gorm:"serializer:json"`
}

// webauthn.User implementation.

func (s StudentCredentials) WebAuthnID() []byte {
	return []byte(s.StudentID)
}

func (s StudentCredentials) WebAuthnName() string {
	return s.StudentID
}

func (s StudentCredentials) WebAuthnDisplayName() string {
	return s.StudentID
}

func (s StudentCredentials) WebAuthnCredentials() []webauthn.Credential {
	return s.Credentials
}
