package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-picklist-service/internal/auth"
	"github.com/fekuna/omnipos-picklist-service/internal/category"
	"github.com/fekuna/omnipos-picklist-service/internal/category/dto"
	"github.com/fekuna/omnipos-picklist-service/internal/httpx"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{uc: uc, logger: log}
}

// Register mounts the category routes. The scope is the session's store, so
// the same routes serve store categories under a store group and global ones
// under the admin group.
func (h *CategoryHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
	rg.POST("/categories", h.CreateCategory)
	rg.PATCH("/categories/:id", h.RenameCategory)
	rg.DELETE("/categories/:id", h.DeleteCategory)
	rg.POST("/categories/:id/move", h.MoveCategory)
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

type moveRequest struct {
	Direction dto.Direction `json:"direction" binding:"required"`
}

func scope(c *gin.Context) dto.Scope {
	return dto.Scope{StoreID: auth.StoreID(c.Request.Context())}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	cats, err := h.uc.ListCategories(c.Request.Context(), scope(c).StoreID)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req nameRequest
	if !httpx.Bind(c, &req) {
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{Scope: scope(c), Name: req.Name})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	var req nameRequest
	if !httpx.Bind(c, &req) {
		return
	}

	cat, err := h.uc.RenameCategory(c.Request.Context(), &dto.RenameCategoryInput{
		Scope: scope(c),
		ID:    c.Param("id"),
		Name:  req.Name,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), scope(c), c.Param("id")); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) MoveCategory(c *gin.Context) {
	var req moveRequest
	if !httpx.Bind(c, &req) {
		return
	}

	cats, err := h.uc.MoveCategory(c.Request.Context(), &dto.MoveCategoryInput{
		Scope:     scope(c),
		ID:        c.Param("id"),
		Direction: req.Direction,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}
