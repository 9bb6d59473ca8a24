package models

// Field values written to a pairing session document. The desktop side
// creates the document as StatusPending; the mobile side resolves it to
// exactly one of the terminal markers.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusError    = "error"
	StatusExpired  = "expired"
)

// Session document field names as stored in the document store.
const (
	FieldStatus    = "status"
	FieldToken     = "token"
	FieldMessage   = "message"
	FieldCreatedAt = "createdAt"
	FieldExpiresAt = "expiresAt"
)

// SessionState discriminates the decoded status of a pairing session.
type SessionState int

const (
	SessionPending SessionState = iota
	SessionAccepted
	SessionError
	SessionNotFoundOrExpired
)

func (s SessionState) String() string {
	switch s {
	case SessionPending:
		return "PENDING"
	case SessionAccepted:
		return "ACCEPTED"
	case SessionError:
		return "ERROR"
	case SessionNotFoundOrExpired:
		return "NOT_FOUND_OR_EXPIRED"
	}
	return "UNKNOWN"
}

// SessionStatus is the decoded state of a pairing session. Token is set only
// for SessionAccepted, Message only for SessionError.
type SessionStatus struct {
	State   SessionState `json:"state"`
	Token   string       `json:"token,omitempty"`
	Message string       `json:"message,omitempty"`
}

func Pending() SessionStatus {
	return SessionStatus{State: SessionPending}
}

func Accepted(token string) SessionStatus {
	return SessionStatus{State: SessionAccepted, Token: token}
}

func ErrorStatus(message string) SessionStatus {
	return SessionStatus{State: SessionError, Message: message}
}

func NotFoundOrExpired() SessionStatus {
	return SessionStatus{State: SessionNotFoundOrExpired}
}

// IsTerminal reports whether no further statuses follow this one. A session
// leaves SessionPending exactly once and never comes back.
func (s SessionStatus) IsTerminal() bool {
	return s.State != SessionPending
}
