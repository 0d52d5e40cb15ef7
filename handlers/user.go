package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/harshith2312008/leon-chat-app/middleware"
	"github.com/harshith2312008/leon-chat-app/utils"
)

// SearchUsers finds potential friends: a case-insensitive substring
// match on username that excludes the caller and anyone already
// linked by a friend request in either direction.
func SearchUsers(c *gin.Context) {
	userID := middleware.GetUserID(c)
	query := c.Query("q")

	users, err := chatService.SearchUsers(userID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, users)
}
