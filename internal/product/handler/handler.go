package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/httpx"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/product"
	"github.com/fekuna/omnipos-picklist-service/internal/product/dto"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: log}
}

// Register mounts the catalog routes on a group that already requires a session.
func (h *ProductHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:ean", h.GetProduct)
	rg.POST("/products", h.CreateProduct)
	rg.PATCH("/products/:ean", h.UpdateProduct)
}

type createProductRequest struct {
	EAN               string  `json:"ean" binding:"required"`
	Name              string  `json:"name" binding:"required"`
	Brand             *string `json:"brand"`
	Weight            *string `json:"weight"`
	ImageURL          *string `json:"image_url"`
	DefaultCategoryID *string `json:"default_category_id"`
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.EnsureProduct(c.Request.Context(), c.Param("ean"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	if p == nil {
		httpx.Error(c, h.logger, apperr.NotFound("product %s not found", c.Param("ean")))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if !httpx.Bind(c, &req) {
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		EAN:               req.EAN,
		Name:              req.Name,
		Brand:             req.Brand,
		Weight:            req.Weight,
		ImageURL:          req.ImageURL,
		DefaultCategoryID: req.DefaultCategoryID,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var patch model.ProductPatch
	if !httpx.Bind(c, &patch) {
		return
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), c.Param("ean"), &patch)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}

	products, total, err := h.uc.ListProducts(c.Request.Context(), &dto.ProductFilters{
		SearchQuery: c.Query("q"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      products,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
