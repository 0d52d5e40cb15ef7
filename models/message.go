package models

import "time"

// Message is append-only: created once by the delivery pipeline,
// never mutated. The store assigns ID and Timestamp.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}
