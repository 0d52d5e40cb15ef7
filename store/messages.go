package store

import (
	"database/sql"
	"sync"
	"time"

	"github.com/harshith2312008/leon-chat-app/models"
)

// MessageDatabase implements chat.MessageStore over MySQL. Appends to
// the same conversation are serialized by a per-pair clock so the
// assigned timestamps never decrease, regardless of wall-clock skew.
type MessageDatabase struct {
	db    *sql.DB
	mu    sync.Mutex
	pairs map[string]*pairClock
}

func NewMessageDatabase(db *sql.DB) *MessageDatabase {
	return &MessageDatabase{
		db:    db,
		pairs: make(map[string]*pairClock),
	}
}

// pairClock linearizes appends for one conversation: the lock is held
// across the insert, and tick clamps the assigned timestamp to be
// non-decreasing.
type pairClock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *pairClock) tick(now time.Time) time.Time {
	if now.Before(c.last) {
		now = c.last
	}
	c.last = now
	return now
}

func pairKey(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + "|" + userB
}

func (s *MessageDatabase) clockFor(key string) *pairClock {
	s.mu.Lock()
	defer s.mu.Unlock()
	clock, ok := s.pairs[key]
	if !ok {
		clock = &pairClock{}
		s.pairs[key] = clock
	}
	return clock
}

// Append persists a message with a store-assigned timestamp. Any
// client-supplied time is ignored for ordering purposes.
func (s *MessageDatabase) Append(senderID, receiverID, content string) (*models.Message, error) {
	clock := s.clockFor(pairKey(senderID, receiverID))
	clock.mu.Lock()
	defer clock.mu.Unlock()

	ts := clock.tick(time.Now().UTC())

	result, err := s.db.Exec(
		"INSERT INTO messages (sender_id, receiver_id, content, timestamp) VALUES (?, ?, ?, ?)",
		senderID, receiverID, content, ts,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Message{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  ts,
	}, nil
}

// Conversation returns every message between the two users, in either
// direction, oldest first. The auto-increment id breaks timestamp
// ties in insertion order, so re-querying the same state yields the
// same sequence.
func (s *MessageDatabase) Conversation(userA, userB string) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, sender_id, receiver_id, content, timestamp
		FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY timestamp ASC, id ASC
	`, userA, userB, userB, userA)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
