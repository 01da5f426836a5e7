package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-picklist-service/internal/httpx"
	"github.com/fekuna/omnipos-picklist-service/internal/image"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	uc     image.UseCase
	logger logger.ZapLogger
}

func NewImageHandler(uc image.UseCase, log logger.ZapLogger) *ImageHandler {
	return &ImageHandler{uc: uc, logger: log}
}

func (h *ImageHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/image/:id", h.GetImage)
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	img, err := h.uc.GetImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
