package sessions

import (
	"testing"
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/docstore"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
)

func TestDecodeStatus(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	future := now.Add(time.Minute).UnixMilli()
	past := now.Add(-time.Minute).UnixMilli()

	tests := []struct {
		name string
		ev   docstore.Event
		want models.SessionStatus
	}{
		{
			name: "absent document",
			ev:   docstore.Event{},
			want: models.NotFoundOrExpired(),
		},
		{
			name: "pending",
			ev:   sessionEvent(map[string]any{"status": "pending", "expiresAt": future}),
			want: models.Pending(),
		},
		{
			name: "accepted with token",
			ev:   sessionEvent(map[string]any{"status": "accepted", "token": "tok-1", "expiresAt": future}),
			want: models.Accepted("tok-1"),
		},
		{
			name: "accepted with empty token is malformed",
			ev:   sessionEvent(map[string]any{"status": "accepted", "token": "", "expiresAt": future}),
			want: models.ErrorStatus("malformed session"),
		},
		{
			name: "accepted without token is malformed",
			ev:   sessionEvent(map[string]any{"status": "accepted", "expiresAt": future}),
			want: models.ErrorStatus("malformed session"),
		},
		{
			name: "error with message",
			ev:   sessionEvent(map[string]any{"status": "error", "message": "denied", "expiresAt": future}),
			want: models.ErrorStatus("denied"),
		},
		{
			name: "explicit expired marker",
			ev:   sessionEvent(map[string]any{"status": "expired", "expiresAt": future}),
			want: models.NotFoundOrExpired(),
		},
		{
			name: "lapsed deadline beats accepted",
			ev:   sessionEvent(map[string]any{"status": "accepted", "token": "tok-1", "expiresAt": past}),
			want: models.NotFoundOrExpired(),
		},
		{
			name: "missing status is malformed",
			ev:   sessionEvent(map[string]any{"expiresAt": future}),
			want: models.ErrorStatus("malformed session"),
		},
		{
			name: "missing expiresAt is malformed",
			ev:   sessionEvent(map[string]any{"status": "pending"}),
			want: models.ErrorStatus("malformed session"),
		},
		{
			name: "non-numeric expiresAt is malformed",
			ev:   sessionEvent(map[string]any{"status": "pending", "expiresAt": "soon"}),
			want: models.ErrorStatus("malformed session"),
		},
		{
			name: "unknown status marker is malformed",
			ev:   sessionEvent(map[string]any{"status": "paused", "expiresAt": future}),
			want: models.ErrorStatus("malformed session"),
		},
		{
			name: "float expiresAt from JSON round trip",
			ev:   sessionEvent(map[string]any{"status": "pending", "expiresAt": float64(future)}),
			want: models.Pending(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeStatus(tt.ev, now)
			if got != tt.want {
				t.Errorf("DecodeStatus = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func sessionEvent(data map[string]any) docstore.Event {
	return docstore.Event{
		Doc:    docstore.Document{ID: "sess-1", Data: data, Version: 1},
		Exists: true,
	}
}
