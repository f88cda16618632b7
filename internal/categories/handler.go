package categories

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

// ListPublic derives categories from the catalog tags on every call. The
// catalog is embedded, so the result only changes between deploys.
func (h *Handler) ListPublic(c *gin.Context) {
	items, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, gin.H{"items": items})
}
