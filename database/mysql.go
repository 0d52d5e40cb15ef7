package database

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"github.com/harshith2312008/leon-chat-app/config"
	"github.com/harshith2312008/leon-chat-app/logger"
)

var DB *sql.DB

func Connect() error {
	var err error
	DB, err = sql.Open("mysql", config.Cfg.MysqlDSN)
	if err != nil {
		return err
	}

	if err = DB.Ping(); err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)

	logger.Info("database connected")
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}

func CreateTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id          VARCHAR(36) PRIMARY KEY,
			username    VARCHAR(50) NOT NULL,
			password    VARCHAR(255) NOT NULL,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uk_username (username)
		)`,
		`CREATE TABLE IF NOT EXISTS friend_requests (
			id          VARCHAR(36) PRIMARY KEY,
			sender_id   VARCHAR(36) NOT NULL,
			receiver_id VARCHAR(36) NOT NULL,
			status      ENUM('pending', 'accepted', 'rejected') NOT NULL DEFAULT 'pending',
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uk_sender_receiver (sender_id, receiver_id),
			INDEX idx_receiver_status (receiver_id, status)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id          BIGINT AUTO_INCREMENT PRIMARY KEY,
			sender_id   VARCHAR(36) NOT NULL,
			receiver_id VARCHAR(36) NOT NULL,
			content     TEXT NOT NULL,
			timestamp   DATETIME(6) NOT NULL,
			INDEX idx_conversation (sender_id, receiver_id, timestamp)
		)`,
	}

	for _, table := range tables {
		if _, err := DB.Exec(table); err != nil {
			return err
		}
	}

	logger.Info("database tables ready")
	return nil
}
