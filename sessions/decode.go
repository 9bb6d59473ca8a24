package sessions

import (
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/docstore"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
)

const malformedMessage = "malformed session"

// DecodeStatus turns one observed document state into a typed session
// status. A document that cannot be decoded yields a terminal error status,
// never a panic. Expiry is checked before the status marker: an absent
// document, an explicit expired marker, or a lapsed deadline all decode to
// NotFoundOrExpired regardless of the remaining fields.
func DecodeStatus(ev docstore.Event, now time.Time) models.SessionStatus {
	if !ev.Exists {
		return models.NotFoundOrExpired()
	}
	status, ok := ev.Doc.Data[models.FieldStatus].(string)
	if !ok {
		return models.ErrorStatus(malformedMessage)
	}
	expiresAt, ok := asInt64(ev.Doc.Data[models.FieldExpiresAt])
	if !ok {
		return models.ErrorStatus(malformedMessage)
	}
	if status == models.StatusExpired || now.UnixMilli() > expiresAt {
		return models.NotFoundOrExpired()
	}
	switch status {
	case models.StatusPending:
		return models.Pending()
	case models.StatusAccepted:
		token, ok := ev.Doc.Data[models.FieldToken].(string)
		if !ok || token == "" {
			return models.ErrorStatus(malformedMessage)
		}
		return models.Accepted(token)
	case models.StatusError:
		message, _ := ev.Doc.Data[models.FieldMessage].(string)
		return models.ErrorStatus(message)
	}
	return models.ErrorStatus(malformedMessage)
}

// expiryOf extracts the session deadline for arming the expiry timer.
func expiryOf(ev docstore.Event) (time.Time, bool) {
	if !ev.Exists {
		return time.Time{}, false
	}
	millis, ok := asInt64(ev.Doc.Data[models.FieldExpiresAt])
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// asInt64 reads a numeric document field. Values arrive as int64 from the
// memory store and as float64 after a JSON round trip through sqlite.
func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case int:
		return int64(t), true
	}
	return 0, false
}
