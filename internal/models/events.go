package models

import "encoding/json"

// ClientEvent is the envelope for every inbound frame: a named event
// plus its raw payload, decoded by the handler that owns the event.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent is the envelope for every outbound frame.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Inbound event names.
const (
	EvJoinRoom              = "join_room"
	EvSendMessage           = "send_message"
	EvEditMessage           = "edit_message"
	EvDeleteMessage         = "delete_message"
	EvPrivateMessage        = "private_message"
	EvSendReply             = "send_reply"
	EvAddReaction           = "add_reaction"
	EvRemoveReaction        = "remove_reaction"
	EvTypingStart           = "typing_start"
	EvTypingStop            = "typing_stop"
	EvEnterStrangerMode     = "enter_stranger_mode"
	EvFindStranger          = "find_stranger"
	EvSkipStranger          = "skip_stranger"
	EvSendStrangerMessage   = "send_stranger_message"
	EvStartVideoCall        = "start_video_call"
	EvStartPrivateVideoCall = "start_private_video_call"
	EvAcceptVideoCall       = "accept_video_call"
	EvRejectVideoCall       = "reject_video_call"
	EvEndVideoCall          = "end_video_call"
	EvWebRTCOffer           = "webrtc_offer"
	EvWebRTCAnswer          = "webrtc_answer"
	EvWebRTCICECandidate    = "webrtc_ice_candidate"
	EvPing                  = "ping"
)

// Outbound event names.
const (
	EvConnectionOptions   = "connection_options"
	EvJoinSuccess         = "join_success"
	EvRoomUsers           = "room_users"
	EvMessage             = "message"
	EvMessageEdited       = "message_edited"
	EvMessageDeleted      = "message_deleted"
	EvReactionUpdated     = "reaction_updated"
	EvUserTyping          = "user_typing"
	EvStrangerModeEntered = "stranger_mode_entered"
	EvSearchingStranger   = "searching_stranger"
	EvStrangerFound       = "stranger_found"
	EvStrangerMessage     = "stranger_message"
	EvStrangerDisconnect  = "stranger_disconnected"
	EvIncomingVideoCall   = "incoming_video_call"
	EvVideoCallInitiated  = "video_call_initiated"
	EvVideoCallAccepted   = "video_call_accepted"
	EvVideoCallRejected   = "video_call_rejected"
	EvVideoCallEnded      = "video_call_ended"
	EvError               = "error"
	EvPong                = "pong"
)
