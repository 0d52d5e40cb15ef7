package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/harshith2312008/leon-chat-app/chat"
	"github.com/harshith2312008/leon-chat-app/logger"
	"github.com/harshith2312008/leon-chat-app/utils"
)

var chatService *chat.Service

// Init wires the chat service the handlers delegate to.
func Init(svc *chat.Service) {
	chatService = svc
}

// respondError maps the chat error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var storageErr *chat.StorageError

	switch {
	case errors.Is(err, chat.ErrInvalidRequest):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, chat.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, chat.ErrAlreadyExists):
		utils.Conflict(c, err.Error())
	case errors.Is(err, chat.ErrForbidden):
		utils.Forbidden(c, err.Error())
	case errors.As(err, &storageErr):
		logger.Error("storage failure", "op", storageErr.Op, "error", storageErr.Err)
		utils.InternalError(c, "storage error")
	default:
		logger.Error("unexpected failure", "error", err)
		utils.InternalError(c, "internal error")
	}
}
