package checkout

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
)

// CartResolver finds the calling visitor's cart.
type CartResolver func(c *gin.Context) (Cart, error)

type Handler struct {
	svc    *Service
	carts  CartResolver
	logger *zap.Logger
}

func NewHandler(svc *Service, carts CartResolver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, carts: carts, logger: logger}
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req Details
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	crt, err := h.carts(c)
	if err != nil {
		h.logger.Error("failed to load cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}

	receipt, err := h.svc.PlaceOrder(c.Request.Context(), crt, req)
	switch {
	case err == nil:
		notify.JSON(c, http.StatusCreated, gin.H{"order": receipt})
	case errors.Is(err, ErrMissingDetails):
		notify.ErrorJSON(c, http.StatusBadRequest, "Please fill in all required fields")
	case errors.Is(err, ErrEmptyCart):
		notify.ErrorJSON(c, http.StatusBadRequest, "Your cart is empty")
	case errors.Is(err, ErrUnsupportedPayment):
		notify.ErrorJSON(c, http.StatusBadRequest, "Unsupported payment method")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "order processing was interrupted"})
	default:
		notify.ErrorJSON(c, http.StatusInternalServerError, "failed to place order")
	}
}
