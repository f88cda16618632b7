package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/checkout"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/cart"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/product"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/products"
)

// Catalog prices cart lines; client-sent prices are never used.
type Catalog interface {
	Get(ctx context.Context, id string) (product.Product, error)
}

// Resolver finds the calling visitor's cart.
type Resolver func(c *gin.Context) (*Store, error)

type Handler struct {
	carts   Resolver
	catalog Catalog
	policy  checkout.ShippingPolicy
	logger  *zap.Logger
}

func NewHandler(carts Resolver, catalog Catalog, policy checkout.ShippingPolicy, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{carts: carts, catalog: catalog, policy: policy, logger: logger}
}

func (h *Handler) GetMyCart(c *gin.Context) {
	s, ok := h.cart(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, s)
}

type AddItemReq struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=99"`
}

func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
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
	if !p.HasSize(req.Size) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size not available for this product"})
		return
	}

	s, ok := h.cart(c)
	if !ok {
		return
	}
	line := cart.Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.FinalPrice(),
		Image:     p.Image(),
		Size:      req.Size,
		Quantity:  req.Quantity,
	}
	if err := s.AddItem(c.Request.Context(), line); err != nil {
		if errors.Is(err, ErrQuantityLimit) {
			notify.ErrorJSON(c, http.StatusBadRequest, fmt.Sprintf("You can add at most %d of %s (Size: %s)", MaxQuantity, p.Name, req.Size))
			return
		}
		notify.ErrorJSON(c, http.StatusInternalServerError, "failed to add item")
		return
	}
	h.respond(c, http.StatusOK, s)
}

type UpdateQtyReq struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=99"`
}

func (h *Handler) UpdateQty(c *gin.Context) {
	var req UpdateQtyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	s, ok := h.cart(c)
	if !ok {
		return
	}
	if err := s.UpdateQuantity(c.Request.Context(), req.ProductID, req.Size, req.Quantity); err != nil {
		notify.ErrorJSON(c, http.StatusInternalServerError, "failed to update qty")
		return
	}
	h.respond(c, http.StatusOK, s)
}

type RemoveItemReq struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
}

func (h *Handler) RemoveItem(c *gin.Context) {
	var req RemoveItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	s, ok := h.cart(c)
	if !ok {
		return
	}
	if err := s.RemoveItem(c.Request.Context(), req.ProductID, req.Size); err != nil {
		notify.ErrorJSON(c, http.StatusInternalServerError, "failed to remove item")
		return
	}
	h.respond(c, http.StatusOK, s)
}

func (h *Handler) Clear(c *gin.Context) {
	s, ok := h.cart(c)
	if !ok {
		return
	}
	if err := s.Clear(c.Request.Context()); err != nil {
		notify.ErrorJSON(c, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	h.respond(c, http.StatusOK, s)
}

func (h *Handler) cart(c *gin.Context) (*Store, bool) {
	s, err := h.carts(c)
	if err != nil {
		h.logger.Error("failed to load cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return nil, false
	}
	return s, true
}

func (h *Handler) respond(c *gin.Context, status int, s *Store) {
	snap := s.Snapshot()
	q := h.policy.Quote(snap.Subtotal)
	notify.JSON(c, status, gin.H{
		"items":                   snap.Lines,
		"item_count":              snap.ItemCount,
		"subtotal":                q.Subtotal,
		"shipping":                q.Shipping,
		"total":                   q.Total,
		"free_shipping_remaining": q.FreeShippingRemaining,
	})
}
