package handler

import (
	"net/http"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/message"
	"whitebeat/internal/services"
	"whitebeat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

func buildTarget(receiverID, groupID string) (message.Target, error) {
	if groupID != "" {
		id, err := parseUUID(groupID)
		if err != nil {
			return message.Target{}, err
		}
		return message.GroupTarget(id), nil
	}
	id, err := parseUUID(receiverID)
	if err != nil {
		return message.Target{}, err
	}
	return message.DirectTarget(id), nil
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	target, err := buildTarget(req.ReceiverID, req.GroupID)
	if err != nil {
		badRequest(c, "invalid target")
		return
	}
	replyTo, err := parseOptionalUUID(req.ReplyToID)
	if err != nil {
		badRequest(c, "invalid reply_to_id")
		return
	}

	msg, err := h.service.Send(c.Request.Context(), commands.SendMessageCommand{
		SenderID: userID,
		Target:   target,
		Type:     message.Type(req.Type),
		Content:  req.Content,
		MediaURL: req.MediaURL,
		ReplyTo:  replyTo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(msg)))
}

func (h *MessageHandler) Edit(c *gin.Context) {
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid message id")
		return
	}
	var req httpdto.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	msg, err := h.service.Edit(c.Request.Context(), commands.EditMessageCommand{
		ActorID:    userID,
		MessageID:  messageID,
		NewContent: req.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromMessage(msg)))
}

func (h *MessageHandler) Delete(c *gin.Context) {
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid message id")
		return
	}
	var req httpdto.DeleteMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), commands.DeleteMessageCommand{
		ActorID:     userID,
		MessageID:   messageID,
		ForEveryone: req.ForEveryone,
	}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *MessageHandler) React(c *gin.Context) {
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid message id")
		return
	}
	var req httpdto.ReactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	reaction, err := h.service.React(c.Request.Context(), commands.ReactMessageCommand{
		UserID:    userID,
		MessageID: messageID,
		Reaction:  message.ReactionType(req.Reaction),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromReaction(reaction)))
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	var req httpdto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	conversationID, err := parseOptionalUUID(req.ConversationID)
	if err != nil {
		badRequest(c, "invalid conversation_id")
		return
	}
	groupID, err := parseOptionalUUID(req.GroupID)
	if err != nil {
		badRequest(c, "invalid group_id")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), commands.MarkReadCommand{
		ReaderID:       userID,
		ConversationID: conversationID,
		GroupID:        groupID,
	}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *MessageHandler) Forward(c *gin.Context) {
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid message id")
		return
	}
	var req httpdto.ForwardMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	target, err := buildTarget(req.ReceiverID, req.GroupID)
	if err != nil {
		badRequest(c, "invalid target")
		return
	}

	msg, err := h.service.Forward(c.Request.Context(), commands.ForwardMessageCommand{
		SenderID:  userID,
		MessageID: messageID,
		Target:    target,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(msg)))
}

func (h *MessageHandler) MarkDelivered(c *gin.Context) {
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid message id")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.MarkDelivered(c.Request.Context(), messageID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// ListConversation pages one 1:1 thread oldest first.
func (h *MessageHandler) ListConversation(c *gin.Context) {
	conversationID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid conversation id")
		return
	}
	h.list(c, conversationID, true)
}

func (h *MessageHandler) list(c *gin.Context, contextID uuid.UUID, direct bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	offset, err := parseInt(c.Query("offset"), 0)
	if err != nil {
		badRequest(c, "invalid offset")
		return
	}
	limit, err := parseInt(c.Query("limit"), 50)
	if err != nil {
		badRequest(c, "invalid limit")
		return
	}

	var page services.MessagePage
	if direct {
		page, err = h.service.ListConversation(c.Request.Context(), contextID, userID, offset, limit)
	} else {
		page, err = h.service.ListGroup(c.Request.Context(), contextID, userID, offset, limit)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MessagePageResponse{
		Messages: httpdto.FromMessageSlice(page.Messages),
		Total:    page.Total,
		HasMore:  page.HasMore,
	}))
}

// ListGroup pages one group thread oldest first.
func (h *MessageHandler) ListGroup(c *gin.Context) {
	groupID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid group id")
		return
	}
	h.list(c, groupID, false)
}
