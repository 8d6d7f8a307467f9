package handler

import (
	"net/http"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/call"
	"whitebeat/internal/services"
	"whitebeat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type CallHandler struct {
	service *services.CallService
}

func NewCallHandler(service *services.CallService) *CallHandler {
	return &CallHandler{service: service}
}

func (h *CallHandler) Initiate(c *gin.Context) {
	var req httpdto.InitiateCallRequest
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

	created, err := h.service.Initiate(c.Request.Context(), commands.InitiateCallCommand{
		CallerID: userID,
		Target:   target,
		Type:     call.Type(req.Type),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromCall(created)))
}

func (h *CallHandler) Transition(c *gin.Context) {
	callID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid call id")
		return
	}
	var req httpdto.TransitionCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	updated, err := h.service.Transition(c.Request.Context(), commands.TransitionCallCommand{
		ActorID: userID,
		CallID:  callID,
		To:      call.Status(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromCall(updated)))
}

func (h *CallHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	records, err := h.service.HistoryFor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	dtos := make([]httpdto.CallRecordDTO, len(records))
	for i, r := range records {
		dtos[i] = httpdto.FromCallRecord(r.Call, r.IsIncoming)
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"calls": dtos}))
}
