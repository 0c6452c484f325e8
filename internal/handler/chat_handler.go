package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/farmwise/farmwise/internal/service"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type askRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

func (h *ChatHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reply": "Please say or type something to get a response."})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"reply": "Please say or type something to get a response."})
		return
	}
	reply, err := h.chat.Ask(c.Request.Context(), req.Message, req.Language)
	if err != nil {
		logutil.GetLogger(c.Request.Context()).Error("chat request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"reply": "Something went wrong while processing your request."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
