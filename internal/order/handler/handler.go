package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-picklist-service/internal/auth"
	"github.com/fekuna/omnipos-picklist-service/internal/httpx"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/order"
	"github.com/fekuna/omnipos-picklist-service/internal/order/dto"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

// Register mounts the order routes on a group guarded by auth.RequireStore.
func (h *OrderHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/order", h.ListOrder)
	rg.GET("/picklist", h.PickList)
	rg.POST("/order/scan", h.Scan)
	rg.POST("/order/items/:ean/increment", h.Increment)
	rg.PUT("/order/items/:ean/qty", h.SetQty)
	rg.PUT("/order/items/:ean/picked", h.SetPicked)
	rg.POST("/order/items/:ean/move", h.MoveItem)
	rg.DELETE("/order/picked", h.ClearPicked)
}

type incrementRequest struct {
	CategoryID string `json:"category_id" binding:"required"`
	Delta      int    `json:"delta"`
}

type setQtyRequest struct {
	CategoryID string `json:"category_id" binding:"required"`
	Qty        *int   `json:"qty" binding:"required"`
}

type setPickedRequest struct {
	IsPicked bool   `json:"is_picked"`
	PickedBy string `json:"picked_by"`
}

type moveRequest struct {
	FromCategoryID string `json:"from_category_id" binding:"required"`
	ToCategoryID   string `json:"to_category_id" binding:"required"`
}

type scanRequest struct {
	EAN        string  `json:"ean" binding:"required"`
	CategoryID string  `json:"category_id"`
	Delta      int     `json:"delta"`
	Name       string  `json:"name"`
	Brand      *string `json:"brand"`
	Weight     *string `json:"weight"`
	ImageURL   *string `json:"image_url"`
}

func storeID(c *gin.Context) string {
	return auth.StoreID(c.Request.Context())
}

func (h *OrderHandler) Increment(c *gin.Context) {
	var req incrementRequest
	if !httpx.Bind(c, &req) {
		return
	}

	qty, err := h.uc.Increment(c.Request.Context(), &dto.IncrementInput{
		StoreID:    storeID(c),
		EAN:        c.Param("ean"),
		CategoryID: req.CategoryID,
		Delta:      req.Delta,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"qty": qty})
}

func (h *OrderHandler) SetQty(c *gin.Context) {
	var req setQtyRequest
	if !httpx.Bind(c, &req) {
		return
	}

	qty, err := h.uc.SetQty(c.Request.Context(), &dto.SetQtyInput{
		StoreID:    storeID(c),
		EAN:        c.Param("ean"),
		CategoryID: req.CategoryID,
		Qty:        *req.Qty,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"qty": qty})
}

func (h *OrderHandler) SetPicked(c *gin.Context) {
	var req setPickedRequest
	if !httpx.Bind(c, &req) {
		return
	}

	n, err := h.uc.SetPicked(c.Request.Context(), &dto.SetPickedInput{
		StoreID:  storeID(c),
		EAN:      c.Param("ean"),
		IsPicked: req.IsPicked,
		PickedBy: req.PickedBy,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *OrderHandler) ClearPicked(c *gin.Context) {
	n, err := h.uc.ClearPicked(c.Request.Context(), storeID(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (h *OrderHandler) MoveItem(c *gin.Context) {
	var req moveRequest
	if !httpx.Bind(c, &req) {
		return
	}

	item, err := h.uc.MoveItem(c.Request.Context(), &dto.MoveItemInput{
		StoreID:        storeID(c),
		EAN:            c.Param("ean"),
		FromCategoryID: req.FromCategoryID,
		ToCategoryID:   req.ToCategoryID,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *OrderHandler) Scan(c *gin.Context) {
	var req scanRequest
	if !httpx.Bind(c, &req) {
		return
	}

	res, err := h.uc.Scan(c.Request.Context(), &dto.ScanInput{
		StoreID:    storeID(c),
		EAN:        req.EAN,
		CategoryID: req.CategoryID,
		Delta:      req.Delta,
		Name:       req.Name,
		Brand:      req.Brand,
		Weight:     req.Weight,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	status := http.StatusOK
	if res.ProductCreated {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

func (h *OrderHandler) ListOrder(c *gin.Context) {
	rows, err := h.uc.ListOrder(c.Request.Context(), storeID(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *OrderHandler) PickList(c *gin.Context) {
	list, err := h.uc.PickList(c.Request.Context(), storeID(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
