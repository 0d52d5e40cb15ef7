package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/harshith2312008/leon-chat-app/middleware"
	"github.com/harshith2312008/leon-chat-app/utils"
)

// GetConversation returns the full history between the caller and the
// user in the path, oldest first. Re-querying the same stored state
// yields the same ordering.
func GetConversation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	otherID := c.Param("user_id")

	messages, err := chatService.Conversation(userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, messages)
}
