package chat

import (
	"errors"
	"fmt"

	"github.com/harshith2312008/leon-chat-app/logger"
	"github.com/harshith2312008/leon-chat-app/models"
)

// FriendRequestStore is the durable table of directed friend-request
// records. Insert must be an atomic conditional insert: it returns
// ErrAlreadyExists when the ordered (sender, receiver) pair is taken,
// never a separate read-then-write. UpdatePendingStatus returns
// ErrNotFound when the request is missing or no longer pending.
type FriendRequestStore interface {
	Insert(senderID, receiverID string) (*models.FriendRequest, error)
	UpdatePendingStatus(requestID, status string) (*models.FriendRequest, error)
	AreFriends(userA, userB string) (bool, error)
	Friends(userID string) ([]models.UserResponse, error)
	PendingFor(userID string) ([]models.PendingRequest, error)
	SearchUsers(forUserID, query string, limit int) ([]models.UserResponse, error)
	UserExists(userID string) (bool, error)
}

// MessageStore is the append-only message log. Append assigns the
// server timestamp and identifier; Conversation returns both
// directions ordered by timestamp, ties broken by insertion order.
type MessageStore interface {
	Append(senderID, receiverID, content string) (*models.Message, error)
	Conversation(userA, userB string) ([]models.Message, error)
}

// Publisher fans an event out to every live connection of a user.
// The return value reports whether at least one connection took it;
// false means offline, not failure.
type Publisher interface {
	Publish(userID string, event *models.Event) bool
	PublishExcept(userID, exceptConnID string, event *models.Event) bool
}

const searchLimit = 20

// Service drives the friend-request state machine and the message
// delivery pipeline. Durable writes happen before any live fan-out;
// fan-out failures are logged and swallowed.
type Service struct {
	requests FriendRequestStore
	messages MessageStore
	presence Publisher
}

func NewService(requests FriendRequestStore, messages MessageStore, presence Publisher) *Service {
	return &Service{
		requests: requests,
		messages: messages,
		presence: presence,
	}
}

// CreateRequest records a pending friend request from sender to
// receiver and notifies the receiver's live connections.
func (s *Service) CreateRequest(senderID, receiverID string) (*models.FriendRequest, error) {
	if senderID == "" || receiverID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidRequest)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot send a friend request to yourself", ErrInvalidRequest)
	}

	exists, err := s.requests.UserExists(receiverID)
	if err != nil {
		return nil, storageError("user lookup", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, receiverID)
	}

	req, err := s.requests.Insert(senderID, receiverID)
	if errors.Is(err, ErrAlreadyExists) {
		return nil, fmt.Errorf("%w: friend request between these users", ErrAlreadyExists)
	}
	if err != nil {
		return nil, storageError("create friend request", err)
	}

	if !s.presence.Publish(receiverID, &models.Event{Event: models.EventNewFriendRequest}) {
		logger.Debug("friend request notification skipped, receiver offline",
			"receiver_id", receiverID)
	}

	return req, nil
}

// Respond applies the single permitted transition on a pending
// request. Re-responding to a terminal request is an error, not a
// no-op. On accept, both sides are notified so their friend lists
// refresh.
func (s *Service) Respond(requestID, decision string) error {
	if decision != models.RequestAccepted && decision != models.RequestRejected {
		return fmt.Errorf("%w: decision must be accepted or rejected", ErrInvalidRequest)
	}

	req, err := s.requests.UpdatePendingStatus(requestID, decision)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: no pending request %s", ErrNotFound, requestID)
	}
	if err != nil {
		return storageError("respond to friend request", err)
	}

	if decision == models.RequestAccepted {
		event := &models.Event{Event: models.EventFriendRequestAccepted}
		s.presence.Publish(req.SenderID, event)
		s.presence.Publish(req.ReceiverID, event)
	}

	return nil
}

// SendMessage is the single entry point for "A sends content to B".
// Persistence happens before fan-out: anything delivered live is
// already recoverable from history.
func (s *Service) SendMessage(senderID, receiverID, content, originConnID string) (*models.Message, error) {
	if senderID == "" || receiverID == "" || content == "" {
		return nil, fmt.Errorf("%w: missing sender, receiver or content", ErrInvalidRequest)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrInvalidRequest)
	}

	friends, err := s.requests.AreFriends(senderID, receiverID)
	if err != nil {
		return nil, storageError("friendship check", err)
	}
	if !friends {
		logger.Warn("message rejected between non-friends",
			"sender_id", senderID, "receiver_id", receiverID)
		return nil, fmt.Errorf("%w: users are not friends", ErrForbidden)
	}

	msg, err := s.messages.Append(senderID, receiverID, content)
	if err != nil {
		return nil, storageError("append message", err)
	}

	if !s.presence.Publish(receiverID, &models.Event{Event: models.EventReceiveMessage, Data: msg}) {
		logger.Debug("receiver offline, message stored for later retrieval",
			"receiver_id", receiverID, "message_id", msg.ID)
	}

	// Echo to the sender's other connections so additional devices
	// see the outgoing message without refetching history.
	s.presence.PublishExcept(senderID, originConnID, &models.Event{Event: models.EventMessageSent, Data: msg})

	return msg, nil
}

// Conversation returns the full message history between two users in
// delivery order.
func (s *Service) Conversation(userA, userB string) ([]models.Message, error) {
	msgs, err := s.messages.Conversation(userA, userB)
	if err != nil {
		return nil, storageError("load conversation", err)
	}
	return msgs, nil
}

// Friends returns the users with an accepted request to or from userID.
func (s *Service) Friends(userID string) ([]models.UserResponse, error) {
	friends, err := s.requests.Friends(userID)
	if err != nil {
		return nil, storageError("list friends", err)
	}
	return friends, nil
}

// PendingRequests returns the requests awaiting userID's decision.
func (s *Service) PendingRequests(userID string) ([]models.PendingRequest, error) {
	pending, err := s.requests.PendingFor(userID)
	if err != nil {
		return nil, storageError("list pending requests", err)
	}
	return pending, nil
}

// SearchUsers finds users by username substring, excluding the caller
// and anyone already linked by a request in either direction. An
// empty query matches nobody.
func (s *Service) SearchUsers(forUserID, query string) ([]models.UserResponse, error) {
	if query == "" {
		return []models.UserResponse{}, nil
	}
	users, err := s.requests.SearchUsers(forUserID, query, searchLimit)
	if err != nil {
		return nil, storageError("search users", err)
	}
	return users, nil
}
