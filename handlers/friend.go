package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/harshith2312008/leon-chat-app/middleware"
	"github.com/harshith2312008/leon-chat-app/utils"
)

type SendFriendRequestBody struct {
	UserID string `json:"user_id" binding:"required"`
}

type RespondRequestBody struct {
	Decision string `json:"decision" binding:"required,oneof=accepted rejected"`
}

func GetFriends(c *gin.Context) {
	userID := middleware.GetUserID(c)

	friends, err := chatService.Friends(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, friends)
}

func GetFriendRequests(c *gin.Context) {
	userID := middleware.GetUserID(c)

	pending, err := chatService.PendingRequests(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, pending)
}

func SendFriendRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var body SendFriendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	req, err := chatService.CreateRequest(userID, body.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, req)
}

func RespondToFriendRequest(c *gin.Context) {
	requestID := c.Param("id")

	var body RespondRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := chatService.Respond(requestID, body.Decision); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{"status": body.Decision})
}
