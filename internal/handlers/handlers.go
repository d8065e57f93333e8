package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bilet/internal/cache"
	apperrors "bilet/internal/errors"
	"bilet/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services     *service.Services
	valkeyClient *cache.ValkeyClient
	upcomingTTL  time.Duration
}

func NewHandlers(services *service.Services, valkeyClient *cache.ValkeyClient, upcomingTTL time.Duration) *Handlers {
	return &Handlers{
		services:     services,
		valkeyClient: valkeyClient,
		upcomingTTL:  upcomingTTL,
	}
}

// respondError maps the error taxonomy to HTTP: validation errors are 400
// with the user-facing message, NotFound/Forbidden/Unauthorized map to their
// status codes, everything else is a logged 500.
func respondError(c *gin.Context, err error) {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	default:
		slog.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
