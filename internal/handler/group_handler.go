package handler

import (
	"net/http"

	"whitebeat/internal/commands"
	"whitebeat/internal/services"
	"whitebeat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GroupHandler struct {
	service *services.GroupService
}

func NewGroupHandler(service *services.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req httpdto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	memberIDs := make([]uuid.UUID, 0, len(req.MemberIDs))
	for _, raw := range req.MemberIDs {
		id, err := parseUUID(raw)
		if err != nil {
			badRequest(c, "invalid member id")
			return
		}
		memberIDs = append(memberIDs, id)
	}

	result, err := h.service.Create(c.Request.Context(), commands.CreateGroupCommand{
		CreatorID:             userID,
		Name:                  req.Name,
		Description:           req.Description,
		AvatarURL:             req.AvatarURL,
		MemberIDs:             memberIDs,
		OnlyAdminsCanSend:     req.OnlyAdminsCanSend,
		OnlyAdminsCanEditInfo: req.OnlyAdminsCanEditInfo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(gin.H{
		"group":   httpdto.FromGroup(result.Group),
		"skipped": result.Skipped,
	}))
}

func (h *GroupHandler) Get(c *gin.Context) {
	groupID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid group id")
		return
	}
	g, err := h.service.GetByID(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromGroup(g)))
}

func (h *GroupHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	previews, err := h.service.ListFor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	dtos := make([]httpdto.GroupPreviewDTO, len(previews))
	for i, p := range previews {
		dtos[i] = httpdto.GroupPreviewDTO{
			Group:       httpdto.FromGroup(p.Group),
			MemberCount: p.MemberCount,
			IsAdmin:     p.IsAdmin,
			UnreadCount: p.UnreadCount,
		}
		if p.LastMessage != nil {
			last := httpdto.FromMessage(*p.LastMessage)
			dtos[i].LastMessage = &last
		}
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"groups": dtos}))
}

func (h *GroupHandler) AddMember(c *gin.Context) {
	groupID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid group id")
		return
	}
	var req httpdto.GroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	targetID, err := parseUUID(req.UserID)
	if err != nil {
		badRequest(c, "invalid user_id")
		return
	}

	if err := h.service.AddMember(c.Request.Context(), commands.AddMemberCommand{
		ActorID:  userID,
		GroupID:  groupID,
		TargetID: targetID,
	}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid group id")
		return
	}
	targetID, err := parseUUID(c.Param("userId"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), commands.RemoveMemberCommand{
		ActorID:  userID,
		GroupID:  groupID,
		TargetID: targetID,
	}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *GroupHandler) SetAdmin(c *gin.Context) {
	groupID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid group id")
		return
	}
	var req httpdto.SetAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	targetID, err := parseUUID(req.UserID)
	if err != nil {
		badRequest(c, "invalid user_id")
		return
	}

	if err := h.service.SetAdmin(c.Request.Context(), commands.SetAdminCommand{
		ActorID:  userID,
		GroupID:  groupID,
		TargetID: targetID,
		IsAdmin:  req.IsAdmin,
	}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *GroupHandler) UpdateInfo(c *gin.Context) {
	groupID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid group id")
		return
	}
	var req httpdto.UpdateGroupInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	g, err := h.service.UpdateInfo(c.Request.Context(), commands.UpdateGroupInfoCommand{
		ActorID:               userID,
		GroupID:               groupID,
		Name:                  req.Name,
		Description:           req.Description,
		AvatarURL:             req.AvatarURL,
		OnlyAdminsCanSend:     req.OnlyAdminsCanSend,
		OnlyAdminsCanEditInfo: req.OnlyAdminsCanEditInfo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromGroup(g)))
}

func (h *GroupHandler) Leave(c *gin.Context) {
	groupID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid group id")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.Leave(c.Request.Context(), userID, groupID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}
