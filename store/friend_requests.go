package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/harshith2312008/leon-chat-app/chat"
	"github.com/harshith2312008/leon-chat-app/models"
)

const mysqlDuplicateEntry = 1062

// FriendRequestDatabase implements chat.FriendRequestStore over MySQL.
// The unique key on (sender_id, receiver_id) makes Insert the atomic
// check-and-insert the state machine relies on.
type FriendRequestDatabase struct {
	db *sql.DB
}

func NewFriendRequestDatabase(db *sql.DB) *FriendRequestDatabase {
	return &FriendRequestDatabase{db: db}
}

func (s *FriendRequestDatabase) Insert(senderID, receiverID string) (*models.FriendRequest, error) {
	req := &models.FriendRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.RequestPending,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.db.Exec(
		"INSERT INTO friend_requests (id, sender_id, receiver_id, status, created_at) VALUES (?, ?, ?, ?, ?)",
		req.ID, req.SenderID, req.ReceiverID, req.Status, req.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return nil, chat.ErrAlreadyExists
		}
		return nil, err
	}

	return req, nil
}

func (s *FriendRequestDatabase) UpdatePendingStatus(requestID, status string) (*models.FriendRequest, error) {
	result, err := s.db.Exec(
		"UPDATE friend_requests SET status = ? WHERE id = ? AND status = ?",
		status, requestID, models.RequestPending,
	)
	if err != nil {
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, chat.ErrNotFound
	}

	// Terminal states never mutate again, so this read is stable.
	var req models.FriendRequest
	err = s.db.QueryRow(
		"SELECT id, sender_id, receiver_id, status, created_at FROM friend_requests WHERE id = ?",
		requestID,
	).Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &req, nil
}

func (s *FriendRequestDatabase) AreFriends(userA, userB string) (bool, error) {
	var friends bool
	err := s.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE status = ?
			  AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))
		)
	`, models.RequestAccepted, userA, userB, userB, userA).Scan(&friends)
	if err != nil {
		return false, err
	}
	return friends, nil
}

func (s *FriendRequestDatabase) Friends(userID string) ([]models.UserResponse, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT u.id, u.username
		FROM users u
		JOIN friend_requests fr ON (fr.sender_id = u.id OR fr.receiver_id = u.id)
		WHERE (fr.sender_id = ? OR fr.receiver_id = ?)
		  AND fr.status = ?
		  AND u.id != ?
		ORDER BY u.username
	`, userID, userID, models.RequestAccepted, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friends := []models.UserResponse{}
	for rows.Next() {
		var user models.UserResponse
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, err
		}
		friends = append(friends, user)
	}
	return friends, rows.Err()
}

func (s *FriendRequestDatabase) PendingFor(userID string) ([]models.PendingRequest, error) {
	rows, err := s.db.Query(`
		SELECT fr.id, fr.sender_id, u.username, fr.created_at
		FROM friend_requests fr
		JOIN users u ON u.id = fr.sender_id
		WHERE fr.receiver_id = ? AND fr.status = ?
		ORDER BY fr.created_at DESC
	`, userID, models.RequestPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := []models.PendingRequest{}
	for rows.Next() {
		var req models.PendingRequest
		if err := rows.Scan(&req.ID, &req.SenderID, &req.SenderUsername, &req.CreatedAt); err != nil {
			return nil, err
		}
		pending = append(pending, req)
	}
	return pending, rows.Err()
}

func (s *FriendRequestDatabase) SearchUsers(forUserID, query string, limit int) ([]models.UserResponse, error) {
	rows, err := s.db.Query(`
		SELECT id, username FROM users
		WHERE id != ?
		  AND username LIKE ?
		  AND id NOT IN (
			SELECT receiver_id FROM friend_requests WHERE sender_id = ?
			UNION
			SELECT sender_id FROM friend_requests WHERE receiver_id = ?
		  )
		LIMIT ?
	`, forUserID, "%"+escapeLikePattern(query)+"%", forUserID, forUserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.UserResponse{}
	for rows.Next() {
		var user models.UserResponse
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *FriendRequestDatabase) UserExists(userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func escapeLikePattern(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "\\", "\\\\")
	pattern = strings.ReplaceAll(pattern, "%", "\\%")
	pattern = strings.ReplaceAll(pattern, "_", "\\_")
	return pattern
}
