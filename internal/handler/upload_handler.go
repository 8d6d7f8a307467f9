package handler

import (
	"net/http"

	"whitebeat/internal/services"
	"whitebeat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service *services.UploadService
}

func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) Presign(c *gin.Context) {
	var req httpdto.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.service.PresignUpload(c.Request.Context(), services.PresignInput{
		OwnerID:     userID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Kind:        req.Kind,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(result))
}

func (h *UploadHandler) Download(c *gin.Context) {
	key := c.Query("key")
	if _, ok := currentUser(c); !ok {
		return
	}
	url, err := h.service.DownloadURL(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"url": url}))
}
