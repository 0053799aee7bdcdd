package models

import "encoding/json"

// Inbound payloads. Field names mirror what the web client sends.

type JoinRoomPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	RoomID   string `json:"roomId"`
}

// RoomKey accepts either of the aliases clients use for the room name.
func (p JoinRoomPayload) RoomKey() string {
	if p.Room != "" {
		return p.Room
	}
	return p.RoomID
}

type SendMessagePayload struct {
	Message string    `json:"message"`
	Room    string    `json:"room"`
	File    *FileInfo `json:"fileInfo"`
}

type EditMessagePayload struct {
	MessageID  string `json:"message_id"`
	NewContent string `json:"new_content"`
	Room       string `json:"room"`
}

type DeleteMessagePayload struct {
	MessageID string `json:"message_id"`
	Room      string `json:"room"`
}

type PrivateMessagePayload struct {
	Message string `json:"message"`
	To      string `json:"to"`
}

type SendReplyPayload struct {
	ReplyToID       string `json:"replyToId"`
	ReplyToUsername string `json:"replyToUsername"`
	ReplyToContent  string `json:"replyToContent"`
	Message         string `json:"message"`
}

type ReactionPayload struct {
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
	Room      string `json:"room"`
}

type TypingPayload struct {
	Room         string `json:"room"`
	IsPrivate    bool   `json:"isPrivate"`
	TargetUserID string `json:"targetUserId"`
}

type FindStrangerPayload struct {
	Interests []string `json:"interests"`
}

type StrangerMessagePayload struct {
	Message string `json:"message"`
}

type StartPrivateCallPayload struct {
	TargetUserID string `json:"target_user_id"`
}

type CallRoomPayload struct {
	RoomID string `json:"room_id"`
}

// WebRTC payloads are relayed opaquely; the server never looks inside
// the SDP or candidate blobs.

type WebRTCOfferPayload struct {
	Offer json.RawMessage `json:"offer"`
}

type WebRTCAnswerPayload struct {
	Answer json.RawMessage `json:"answer"`
}

type WebRTCCandidatePayload struct {
	Candidate json.RawMessage `json:"candidate"`
}

// Outbound payloads.

type ConnectionOptionsPayload struct {
	Modes   []string `json:"modes"`
	Message string   `json:"message"`
}

type JoinSuccessPayload struct {
	Room     string `json:"room"`
	Username string `json:"username"`
	Message  string `json:"message"`
	Status   string `json:"status"`
}

type RoomUsersPayload struct {
	Room  string     `json:"room"`
	Users []RoomUser `json:"users"`
	Count int        `json:"count"`
}

type MessageEditedPayload struct {
	MessageID  string `json:"message_id"`
	NewContent string `json:"new_content"`
	EditedAt   string `json:"edited_at"`
}

type MessageDeletedPayload struct {
	MessageID string `json:"message_id"`
}

type ReactionUpdatedPayload struct {
	MessageID string          `json:"messageId"`
	Reactions []ReactionGroup `json:"reactions"`
}

type UserTypingPayload struct {
	Username  string `json:"username"`
	UserID    string `json:"userId"`
	Room      string `json:"room,omitempty"`
	Typing    bool   `json:"typing"`
	IsPrivate bool   `json:"isPrivate"`
}

type StrangerModeEnteredPayload struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
}

type SearchingStrangerPayload struct {
	Message   string   `json:"message"`
	Interests []string `json:"interests"`
}

type StrangerFoundPayload struct {
	Message         string   `json:"message"`
	RoomID          string   `json:"room_id"`
	PartnerID       string   `json:"partner_id"`
	Username        string   `json:"username"`
	SharedInterests []string `json:"shared_interests"`
	CanVideoChat    bool     `json:"can_video_chat"`
}

type StrangerDisconnectedPayload struct {
	Message string `json:"message"`
}

type IncomingVideoCallPayload struct {
	CallerID       string `json:"caller_id"`
	CallerUsername string `json:"caller_username"`
	RoomID         string `json:"room_id"`
}

type VideoCallInitiatedPayload struct {
	RoomID    string `json:"room_id"`
	PartnerID string `json:"partner_id"`
	Initiator string `json:"initiator"`
}

type VideoCallAcceptedPayload struct {
	RoomID    string `json:"room_id"`
	Initiator string `json:"initiator"`
	Partner   string `json:"partner"`
}

type SimpleMessagePayload struct {
	Message string `json:"message"`
}

type WebRTCRelayPayload struct {
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	From      string          `json:"from"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Op      string `json:"op"`
	Message string `json:"message"`
}
