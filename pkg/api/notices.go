package api

import "time"

type (
	// NoticeType classifies a notice pushed to UI shells
	NoticeType string

	// Notice is an event pushed over the WebSocket feed: a success or error
	// message for a session, or a request that dependent views reload a
	// source. Token carries the selection token the notice belongs to so
	// stale notices can be discarded client-side as well
	Notice struct {
		At        time.Time  `json:"at"`
		Type      NoticeType `json:"type"`
		SessionID string     `json:"session_id,omitempty"`
		SourceID  SourceID   `json:"source_id,omitempty"`
		CaseID    int64      `json:"case_id,omitempty"`
		Message   string     `json:"message,omitempty"`
		Token     int64      `json:"token,omitempty"`
	}
)

const (
	NoticeSuccess NoticeType = "success"
	NoticeError   NoticeType = "error"
	NoticeRefresh NoticeType = "refresh"
	NoticeCleared NoticeType = "cleared"
)
