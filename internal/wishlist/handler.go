package wishlist

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/product"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/wishlist"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/products"
)

type Catalog interface {
	Get(ctx context.Context, id string) (product.Product, error)
}

type Resolver func(c *gin.Context) (*Store, error)

type Handler struct {
	lists   Resolver
	catalog Catalog
	logger  *zap.Logger
}

func NewHandler(lists Resolver, catalog Catalog, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{lists: lists, catalog: catalog, logger: logger}
}

func (h *Handler) List(c *gin.Context) {
	s, ok := h.list(c)
	if !ok {
		return
	}
	notify.JSON(c, http.StatusOK, gin.H{"items": s.Items()})
}

type AddItemReq struct {
	ProductID string `json:"product_id" binding:"required"`
}

func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	p, err := h.catalog.Get(c.Request.Context(), req.ProductID)
	if errors.Is(err, products.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown product"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}

	s, ok := h.list(c)
	if !ok {
		return
	}
	added, err := s.AddItem(c.Request.Context(), wishlist.Entry{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.FinalPrice(),
		Image:     p.Image(),
	})
	if err != nil {
		notify.ErrorJSON(c, http.StatusInternalServerError, "failed to add item")
		return
	}
	notify.JSON(c, http.StatusOK, gin.H{"added": added, "items": s.Items()})
}

// Contains backs the heart toggle on product cards.
func (h *Handler) Contains(c *gin.Context) {
	s, ok := h.list(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"in_wishlist": s.Contains(c.Param("productId"))})
}

func (h *Handler) RemoveItem(c *gin.Context) {
	s, ok := h.list(c)
	if !ok {
		return
	}
	removed, err := s.RemoveItem(c.Request.Context(), c.Param("productId"))
	if err != nil {
		notify.ErrorJSON(c, http.StatusInternalServerError, "failed to remove item")
		return
	}
	notify.JSON(c, http.StatusOK, gin.H{"removed": removed, "items": s.Items()})
}

func (h *Handler) Clear(c *gin.Context) {
	s, ok := h.list(c)
	if !ok {
		return
	}
	if err := s.Clear(c.Request.Context()); err != nil {
		notify.ErrorJSON(c, http.StatusInternalServerError, "failed to clear wishlist")
		return
	}
	notify.JSON(c, http.StatusOK, gin.H{"items": s.Items()})
}

func (h *Handler) list(c *gin.Context) (*Store, bool) {
	s, err := h.lists(c)
	if err != nil {
		h.logger.Error("failed to load wishlist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wishlist"})
		return nil, false
	}
	return s, true
}
