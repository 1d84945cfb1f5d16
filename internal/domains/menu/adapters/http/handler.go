// Package http exposes the product catalog over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cafepos/cafe-api-server/internal/domains/menu/adapters/http/mapper"
	"github.com/cafepos/cafe-api-server/internal/domains/menu/application"
	menudomain "github.com/cafepos/cafe-api-server/internal/domains/menu/domain"
	menuports "github.com/cafepos/cafe-api-server/internal/domains/menu/ports"
	sharederrors "github.com/cafepos/cafe-api-server/internal/shared/errors"
)

// Handler serves the menu endpoints.
type Handler struct {
	service   *application.Service
	responder *sharederrors.ChainedResponder
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{
		service:   service,
		responder: sharederrors.NewChainedResponder("", mapMenuError),
	}
}

// Register mounts the public menu routes.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/menu", h.listMenu)
	r.GET("/menu/categories", h.listCategories)
	r.GET("/menu/products/:id", h.getProduct)
}

// RegisterAdmin mounts the catalog management routes, normally behind auth.
func (h *Handler) RegisterAdmin(r gin.IRouter) {
	r.GET("/menu/products", h.listAll)
	r.POST("/menu/products", h.createProduct)
	r.PATCH("/menu/products/:id", h.updateProduct)
	r.POST("/menu/products/:id/activate", h.activateProduct)
	r.DELETE("/menu/products/:id", h.deactivateProduct)
}

type createProductRequest struct {
	Name     string   `json:"name" binding:"required"`
	Price    int64    `json:"price"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type updateProductRequest struct {
	Name     *string `json:"name"`
	Price    *int64  `json:"price"`
	Category *string `json:"category"`
}

func (h *Handler) listMenu(c *gin.Context) {
	var (
		products []*menudomain.Product
		err      error
	)
	if category := c.Query("category"); category != "" {
		products, err = h.service.ProductsByCategory(c.Request.Context(), category)
	} else {
		products, err = h.service.ActiveProducts(c.Request.Context())
	}
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProducts(products))
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) listAll(c *gin.Context) {
	products, err := h.service.AllProducts(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProducts(products))
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProduct(product))
}

func (h *Handler) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	product, err := h.service.AddProduct(c.Request.Context(), req.Name, req.Price, req.Category, req.Tags...)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomainProduct(product))
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	product, err := h.service.UpdateProduct(c.Request.Context(), id, req.Name, req.Price, req.Category)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProduct(product))
}

func (h *Handler) activateProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	if err := h.service.ActivateProduct(c.Request.Context(), id); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deactivateProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	if err := h.service.DeactivateProduct(c.Request.Context(), id); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.responder.BadRequest(c, "product id must be an integer")
		return 0, false
	}
	return id, true
}

func mapMenuError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, menudomain.ErrEmptyName), errors.Is(err, menudomain.ErrInvalidPrice):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, menuports.ErrNotFound):
		return sharederrors.ErrNotFound.WithDetail("product not found"), true
	default:
		return sharederrors.ProblemDetail{}, false
	}
}
