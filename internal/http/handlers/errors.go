package handlers

import (
	"context"
	"errors"
	"net/http"

	"product_dashboard/internal/domain"
	"product_dashboard/internal/logger"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to a status and an {error} body
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidMonth), errors.Is(err, domain.ErrInvalidPagination):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
