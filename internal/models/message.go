package models

import "time"

// Message kinds, carried on the wire in the "type" field.
const (
	KindRoom     = "message"
	KindFile     = "file"
	KindPrivate  = "private"
	KindSystem   = "system"
	KindStranger = "stranger_message"
)

// Delivery status values (best-effort, sender-side only).
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
)

// Message is a single chat message record. The same struct is both the
// stored record and the wire payload of the "message" family of events.
type Message struct {
	ID        string    `json:"id"`
	Kind      string    `json:"type"`
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	UserID    string    `json:"userId,omitempty"`
	Room      string    `json:"room,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Private messages only.
	From     string `json:"from,omitempty"`
	FromID   string `json:"fromId,omitempty"`
	To       string `json:"to,omitempty"`
	ToID     string `json:"toId,omitempty"`
	FromSelf bool   `json:"fromSelf,omitempty"`

	File    *FileInfo `json:"file,omitempty"`
	ReplyTo *ReplyRef `json:"replyTo,omitempty"`

	Edited   bool       `json:"edited,omitempty"`
	EditedAt *time.Time `json:"editedAt,omitempty"`
	Status   string     `json:"status,omitempty"`
}

// FileInfo is the opaque attachment descriptor produced by the upload
// collaborator and echoed verbatim on file messages.
type FileInfo struct {
	URL      string     `json:"url"`
	Filename string     `json:"filename"`
	Size     int64      `json:"size"`
	Type     string     `json:"type"`
	Voice    *VoiceMeta `json:"voice,omitempty"`
}

// VoiceMeta is optional voice-note metadata attached to audio uploads.
type VoiceMeta struct {
	Duration float64   `json:"duration"`
	Waveform []float64 `json:"waveform,omitempty"`
}

// ReplyRef is a snapshot of the replied-to message, not a live link:
// the original may be edited or deleted after the reply is sent.
type ReplyRef struct {
	MessageID string `json:"messageId"`
	Username  string `json:"username"`
	Content   string `json:"content"`
}

// ReactionGroup is one aggregated emoji bucket on a message.
type ReactionGroup struct {
	Emoji string   `json:"emoji"`
	Users []string `json:"users"`
	Count int      `json:"count"`
}

// RoomUser is one entry of a room roster.
type RoomUser struct {
	Username string `json:"username"`
	ID       string `json:"id"`
	IsOnline bool   `json:"isOnline"`
}
