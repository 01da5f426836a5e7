package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-picklist-service/internal/httpx"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/store"
	"github.com/fekuna/omnipos-picklist-service/internal/store/dto"
	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	uc     store.UseCase
	logger logger.ZapLogger
}

func NewStoreHandler(uc store.UseCase, log logger.ZapLogger) *StoreHandler {
	return &StoreHandler{uc: uc, logger: log}
}

// RegisterPublic mounts login, registration and the store picker.
func (h *StoreHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/admin-login", h.AdminLogin)
	rg.GET("/stores", h.ListStores)
}

// RegisterAdmin mounts store administration on an admin-only group.
func (h *StoreHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.POST("/stores", h.CreateStore)
	rg.PUT("/stores", h.UpdateStore)
	rg.PUT("/stores/:id", h.UpdateStore)
}

type loginRequest struct {
	StoreID   string `json:"storeId"`
	StoreName string `json:"storeName"`
	Password  string `json:"password" binding:"required"`
}

type registerRequest struct {
	StoreName string `json:"storeName" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Email     string `json:"email" binding:"required"`
}

type adminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type createStoreRequest struct {
	Name     string  `json:"name" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Email    *string `json:"email"`
	LogoURL  *string `json:"logo_url"`
}

type updateStoreRequest struct {
	StoreID  string                 `json:"storeId"`
	Name     model.Optional[string] `json:"name"`
	Password model.Optional[string] `json:"password"`
	LogoURL  model.Optional[string] `json:"logo_url"`
}

func (h *StoreHandler) Login(c *gin.Context) {
	var req loginRequest
	if !httpx.Bind(c, &req) {
		return
	}

	res, err := h.uc.Login(c.Request.Context(), &dto.LoginInput{
		StoreID:   req.StoreID,
		StoreName: req.StoreName,
		Password:  req.Password,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *StoreHandler) Register(c *gin.Context) {
	var req registerRequest
	if !httpx.Bind(c, &req) {
		return
	}

	res, err := h.uc.Register(c.Request.Context(), &dto.CreateStoreInput{
		Name:     req.StoreName,
		Password: req.Password,
		Email:    &req.Email,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *StoreHandler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if !httpx.Bind(c, &req) {
		return
	}

	res, err := h.uc.AdminLogin(c.Request.Context(), req.Password)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *StoreHandler) ListStores(c *gin.Context) {
	stores, err := h.uc.ListStores(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stores)
}

func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req createStoreRequest
	if !httpx.Bind(c, &req) {
		return
	}

	s, err := h.uc.CreateStore(c.Request.Context(), &dto.CreateStoreInput{
		Name:     req.Name,
		Password: req.Password,
		Email:    req.Email,
		LogoURL:  req.LogoURL,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *StoreHandler) UpdateStore(c *gin.Context) {
	var req updateStoreRequest
	if !httpx.Bind(c, &req) {
		return
	}
	id := c.Param("id")
	if id == "" {
		id = req.StoreID
	}

	s, err := h.uc.UpdateStore(c.Request.Context(), &dto.UpdateStoreInput{
		ID:       id,
		Name:     req.Name,
		Password: req.Password,
		LogoURL:  req.LogoURL,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
