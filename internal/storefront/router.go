package storefront

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/auth"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/cart"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/categories"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/checkout"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/kv"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/mail"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/metrics"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/products"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/wishlist"
)

type RouterDeps struct {
	Store    kv.Store
	Registry *Registry
	JWT      *auth.JWTManager
	Catalog  *products.Repo
	Checkout *checkout.Service
	Mailer   mail.Mailer
	Metrics  *metrics.Metrics
	// Gatherer backs /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	authH := auth.NewHandler(auth.Dependencies{
		JWT:       d.JWT,
		Sessions:  d.Registry.Session,
		Directory: d.Registry.Directory(),
		Mailer:    d.Mailer,
		Logger:    d.Logger,
	})
	catHandler := categories.NewHandler(categories.NewRepo(d.Catalog))
	prodHandler := products.NewHandler(d.Catalog)
	cartHandler := cart.NewHandler(d.Registry.Cart, d.Catalog, d.Checkout.Policy(), d.Logger)
	wishHandler := wishlist.NewHandler(d.Registry.Wishlist, d.Catalog, d.Logger)
	checkoutHandler := checkout.NewHandler(d.Checkout, d.Registry.CheckoutCart, d.Logger)

	r := gin.New()
	r.Use(gin.Recovery(), accessLog(d.Logger), d.Metrics.Middleware(), notify.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		if err := d.Store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "storage unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.POST("/visitors", authH.IssueVisitor)

	// Public catalog routes
	api.GET("/categories", catHandler.ListPublic)
	api.GET("/products", prodHandler.ListPublic)
	api.GET("/products/:id", prodHandler.GetPublic)
	api.GET("/products/:id/related", prodHandler.RelatedPublic)

	visitor := api.Group("/")
	visitor.Use(auth.VisitorMiddleware(d.JWT))
	{
		visitor.GET("/cart", cartHandler.GetMyCart)
		visitor.POST("/cart/items", cartHandler.AddItem)
		visitor.PATCH("/cart/items", cartHandler.UpdateQty)
		visitor.DELETE("/cart/items", cartHandler.RemoveItem)
		visitor.DELETE("/cart", cartHandler.Clear)

		visitor.GET("/wishlist", wishHandler.List)
		visitor.POST("/wishlist/items", wishHandler.AddItem)
		visitor.GET("/wishlist/items/:productId", wishHandler.Contains)
		visitor.DELETE("/wishlist/items/:productId", wishHandler.RemoveItem)
		visitor.DELETE("/wishlist", wishHandler.Clear)

		visitor.POST("/auth/register", authH.Register)
		visitor.POST("/auth/login", authH.Login)
		visitor.POST("/auth/logout", authH.Logout)
		visitor.GET("/me", authH.Me)
		visitor.PATCH("/me", authH.UpdateMe)

		visitor.POST("/checkout", checkoutHandler.PlaceOrder)

		adminOnly := visitor.Group("/admin")
		adminOnly.Use(auth.RequireAdmin(d.Registry.Session))
		adminOnly.GET("/accounts", authH.AdminListAccounts)
	}

	return r
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("visitor_id", auth.VisitorID(c)),
		)
	}
}
