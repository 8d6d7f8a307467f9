package handler

import (
	"net/http"
	"strconv"

	"whitebeat/internal/services"
	"whitebeat/internal/transport/httpdto"
	wb_errors "whitebeat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondError(c *gin.Context, err error) {
	c.JSON(wb_errors.HTTPStatus(err), httpdto.NewErrorResponse(err.Error(), wb_errors.CodeOf(err)))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(msg, "INVALID_ARGUMENT"))
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return uuid.Nil, false
	}
	return userID, true
}

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}

// parseOptionalUUID maps "" to nil rather than an error.
func parseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseInt(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
