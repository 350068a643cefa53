package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/resumechat/internal/pkg/errcode"
	"github.com/xxxsen/resumechat/internal/pkg/response"
	"github.com/xxxsen/resumechat/internal/service"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *ChatHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	reply, err := h.chat.Ask(c.Request.Context(), req.Question)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, reply)
}

func (h *ChatHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.chat.History(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, logs)
}
