package handler

import (
	"net/http"

	"whitebeat/internal/domain/user"
	"whitebeat/internal/services"
	"whitebeat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *services.UserService
	auth    *services.AuthService
}

func NewUserHandler(service *services.UserService, auth *services.AuthService) *UserHandler {
	return &UserHandler{service: service, auth: auth}
}

// Register creates the identity and hands back an access token for it.
func (h *UserHandler) Register(c *gin.Context) {
	var req httpdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	u, err := h.service.Register(c.Request.Context(), req.Username, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := h.auth.IssueAccessToken(u.ID, u.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(gin.H{
		"user":         httpdto.FromUser(u),
		"access_token": token,
	}))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromUser(u)))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromUser(u)))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req httpdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	upd := services.ProfileUpdate{
		DisplayName: req.DisplayName,
		About:       req.About,
		AvatarURL:   req.AvatarURL,
	}
	if req.PhotoPrivacy != nil {
		p := user.PrivacyOption(*req.PhotoPrivacy)
		upd.PhotoPrivacy = &p
	}
	if req.StatusPrivacy != nil {
		p := user.PrivacyOption(*req.StatusPrivacy)
		upd.StatusPrivacy = &p
	}
	if req.LastSeenPrivacy != nil {
		p := user.PrivacyOption(*req.LastSeenPrivacy)
		upd.LastSeenPrivacy = &p
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromUser(u)))
}

func (h *UserHandler) Login(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.Login(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *UserHandler) Heartbeat(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.Heartbeat(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *UserHandler) Presence(c *gin.Context) {
	id, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	status, err := h.service.Presence(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(status))
}

func (h *UserHandler) AddContact(c *gin.Context) {
	var req httpdto.AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	contactID, err := parseUUID(req.UserID)
	if err != nil {
		badRequest(c, "invalid user_id")
		return
	}

	if err := h.service.AddContact(c.Request.Context(), userID, contactID, req.Nickname); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *UserHandler) RemoveContact(c *gin.Context) {
	contactID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid contact id")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.RemoveContact(c.Request.Context(), userID, contactID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *UserHandler) SetBlocked(c *gin.Context) {
	contactID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid contact id")
		return
	}
	var req httpdto.SetBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.SetBlocked(c.Request.Context(), userID, contactID, req.Blocked); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *UserHandler) ListContacts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	contacts, err := h.service.ListContacts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"contacts": httpdto.FromContactSlice(contacts)}))
}
