package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-picklist-service/internal/httpx"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/settings"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	uc     settings.UseCase
	logger logger.ZapLogger
}

func NewSettingsHandler(uc settings.UseCase, log logger.ZapLogger) *SettingsHandler {
	return &SettingsHandler{uc: uc, logger: log}
}

// RegisterPublic exposes the read side; the login screen shows the logo
// before anyone is signed in.
func (h *SettingsHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/settings", h.GetSettings)
}

func (h *SettingsHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/settings", h.GetSettings)
	rg.PUT("/settings", h.UpdateSettings)
}

type updateSettingsRequest struct {
	LoginLogoURL *string `json:"login_logo_url"`
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	s, err := h.uc.GetSettings(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if !httpx.Bind(c, &req) {
		return
	}

	s, err := h.uc.UpdateSettings(c.Request.Context(), req.LoginLogoURL)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
