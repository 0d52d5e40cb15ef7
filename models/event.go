package models

const (
	EventReceiveMessage        = "receive_message"
	EventMessageSent           = "message_sent"
	EventNewFriendRequest      = "new_friend_request"
	EventFriendRequestAccepted = "friend_request_accepted"
	EventError                 = "error"
	EventPong                  = "pong"
)

// Event is the server->client frame pushed over a live connection.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}
