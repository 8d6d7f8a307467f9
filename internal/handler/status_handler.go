package handler

import (
	"net/http"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/status"
	"whitebeat/internal/services"
	"whitebeat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StatusHandler struct {
	service *services.StatusService
}

func NewStatusHandler(service *services.StatusService) *StatusHandler {
	return &StatusHandler{service: service}
}

func (h *StatusHandler) Create(c *gin.Context) {
	var req httpdto.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	audience := make([]uuid.UUID, 0, len(req.Audience))
	for _, raw := range req.Audience {
		id, err := parseUUID(raw)
		if err != nil {
			badRequest(c, "invalid audience id")
			return
		}
		audience = append(audience, id)
	}

	st, err := h.service.Create(c.Request.Context(), commands.CreateStatusCommand{
		OwnerID:         userID,
		Type:            status.Type(req.Type),
		Content:         req.Content,
		MediaURL:        req.MediaURL,
		BackgroundColor: req.BackgroundColor,
		Privacy:         status.PrivacyMode(req.Privacy),
		Audience:        audience,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromStatus(st)))
}

// Feed returns other users' active statuses the caller may see, grouped by
// author.
func (h *StatusHandler) Feed(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	feed, err := h.service.FeedFor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	dtos := make([]httpdto.AuthorFeedDTO, len(feed))
	for i, af := range feed {
		dtos[i] = httpdto.AuthorFeedDTO{
			AuthorID: af.AuthorID.String(),
			Statuses: statusEntryDTOs(af.Statuses),
		}
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"feed": dtos}))
}

func (h *StatusHandler) Mine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entries, err := h.service.MyStatuses(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"statuses": statusEntryDTOs(entries)}))
}

func statusEntryDTOs(entries []services.StatusEntry) []httpdto.StatusEntryDTO {
	dtos := make([]httpdto.StatusEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = httpdto.FromStatusEntry(e.Status, e.HasViewed, e.ViewCount)
	}
	return dtos
}

func (h *StatusHandler) View(c *gin.Context) {
	statusID, err := parseUUID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid status id")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	count, err := h.service.View(c.Request.Context(), commands.ViewStatusCommand{
		ViewerID: userID,
		StatusID: statusID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"view_count": count}))
}
