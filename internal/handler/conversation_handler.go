package handler

import (
	"net/http"

	"whitebeat/internal/services"
	"whitebeat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	service *services.ConversationService
}

func NewConversationHandler(service *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// Open resolves or lazily creates the caller's thread with another user.
func (h *ConversationHandler) Open(c *gin.Context) {
	var req httpdto.OpenConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	otherID, err := parseUUID(req.UserID)
	if err != nil {
		badRequest(c, "invalid user_id")
		return
	}

	conv, err := h.service.GetOrCreate(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromConversation(conv, userID)))
}

func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	previews, err := h.service.ListFor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	dtos := make([]httpdto.ConversationPreviewDTO, len(previews))
	for i, p := range previews {
		dtos[i] = httpdto.FromConversationPreview(p.Conversation, userID, p.LastMessage, p.UnreadCount)
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"conversations": dtos}))
}

func (h *ConversationHandler) SetArchived(c *gin.Context) {
	conversationID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid conversation id")
		return
	}
	var req httpdto.SetArchivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conv, err := h.service.SetArchived(c.Request.Context(), userID, conversationID, req.Archived)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromConversation(conv, userID)))
}

func (h *ConversationHandler) SetMuted(c *gin.Context) {
	conversationID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid conversation id")
		return
	}
	var req httpdto.SetMutedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conv, err := h.service.SetMuted(c.Request.Context(), userID, conversationID, req.Muted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromConversation(conv, userID)))
}
