package handlers

import (
	"net/http"
	"strings"

	"guanago/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// chatRequest accepts either a full history or a single message.
type chatRequest struct {
	Messages []models.ChatMessage `json:"messages"`
	Message  string               `json:"message"`
}

// POST /api/chat
func (a *API) Chat(c *gin.Context) {
	var req chatRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	history := req.Messages
	if len(history) == 0 && strings.TrimSpace(req.Message) != "" {
		history = []models.ChatMessage{{Role: "user", Content: req.Message}}
	}
	reply, err := a.Concierge.Reply(c.Request.Context(), history)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
