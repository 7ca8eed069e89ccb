package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

// ContextHostID is the gin context key holding the authenticated host id.
const ContextHostID = "host_id"

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeAlreadyExists:
		return http.StatusConflict
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CodeForbidden:
		return http.StatusForbidden
	case apperrors.CodeUpstreamGeneration, apperrors.CodeTranslation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Only the user-safe message leaves the
// process; the cause goes to the log.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	body := gin.H{
		"error": apperrors.MessageOf(err),
		"code":  apperrors.CodeOf(err),
	}
	if apperrors.IsUpstreamGeneration(err) {
		// Guests get a readable reply even when generation fails.
		body["fallback"] = apperrors.MessageOf(err)
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
		"code":  apperrors.CodeInvalidInput,
	})
}

func hostID(c *gin.Context) string {
	return c.GetString(ContextHostID)
}
