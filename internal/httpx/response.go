// Package httpx holds the JSON response helpers shared by the gin handlers.
package httpx

import (
	"net/http"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes err as {"message": ...} with the status for its kind.
// Internal errors are logged and their detail withheld from the client.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		if apperr.KindOf(err) != apperr.KindTransient {
			msg = "internal server error"
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// Bind decodes the JSON body into dst, answering 400 on failure.
func Bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid request body: " + err.Error()})
		return false
	}
	return true
}
