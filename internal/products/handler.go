package products

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultRelatedLimit = 4

type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

// ListPublic: ?tag=a&tag=b&featured=true&sale=true&q=&min_price=&max_price=&sort=
func (h *Handler) ListPublic(c *gin.Context) {
	f := Filter{
		Tags:     c.QueryArray("tag"),
		Featured: c.Query("featured") == "true",
		Sale:     c.Query("sale") == "true",
		Query:    c.Query("q"),
		Sort:     c.DefaultQuery("sort", SortFeatured),
	}
	var err error
	if f.MinPrice, err = optFloat(c.Query("min_price")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
		return
	}
	if f.MaxPrice, err = optFloat(c.Query("max_price")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
		return
	}

	items, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) GetPublic(c *gin.Context) {
	p, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// RelatedPublic: ?limit=4
func (h *Handler) RelatedPublic(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRelatedLimit)))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	items, err := h.repo.Related(c.Request.Context(), c.Param("id"), limit)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load related products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func optFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
