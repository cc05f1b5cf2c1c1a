package httpserver

import (
	"log"

	"healside/internal/payment"
	orderrepo "healside/internal/repository/order"
	userrepo "healside/internal/repository/user"
	"healside/internal/service/auth"
	"healside/internal/service/blog"
	"healside/internal/service/cart"
	"healside/internal/service/checkout"
	"healside/internal/service/feed"
	"healside/internal/service/newsletter"
	"healside/internal/service/product"
	"healside/internal/service/review"
	"healside/internal/service/wishlist"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries everything the route handlers need.
type Deps struct {
	Auth       *auth.Service
	Google     *auth.GoogleAuthenticator
	Apple      *auth.AppleAuthenticator
	Products   *product.Service
	Carts      *cart.Service
	Checkout   *checkout.Service
	Orders     orderrepo.Repository
	Users      userrepo.Repository
	Reviews    *review.Service
	Wishlist   *wishlist.Service
	Blog       *blog.Service
	Feed       *feed.Service
	Newsletter *newsletter.Service
	Stripe     *payment.Stripe
	PayPal     *payment.PayPal

	FeedURL     string
	FeedSource  string
	FrontendURL string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if deps.FrontendURL != "" {
		corsCfg.AllowOrigins = []string{deps.FrontendURL}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = deps.FrontendURL != ""
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", sessionHeader)
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/admin/login", h.adminLogin)

		api.GET("/auth/google", h.googleRedirect)
		api.GET("/auth/google/callback", h.googleCallback)
		api.GET("/auth/apple", h.appleRedirect)
		api.POST("/auth/apple/callback", h.appleCallback)

		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.GET("/products/:id/reviews", h.listReviews)
		api.GET("/categories", h.listCategories)

		api.POST("/session", h.newSession)

		cartGroup := api.Group("/cart", h.cartIdentity)
		{
			cartGroup.GET("", h.getCart)
			cartGroup.DELETE("", h.clearCart)
			cartGroup.POST("/items", h.addCartItem)
			cartGroup.PUT("/items/:id", h.updateCartItem)
			cartGroup.DELETE("/items/:id", h.removeCartItem)
		}

		api.GET("/blog", h.listBlogPosts)
		api.GET("/blog/:slug", h.getBlogPost)
		api.GET("/external-blog", h.listExternalPosts)
		api.GET("/external-blog/:id", h.getExternalPost)

		api.POST("/newsletter/subscribe", h.subscribeNewsletter)
		api.POST("/newsletter/unsubscribe", h.unsubscribeNewsletter)

		api.POST("/payments/stripe/intent", h.createStripeIntent)
		api.GET("/payments/stripe/intent/:id", h.stripeIntentStatus)
		api.POST("/payments/stripe/webhook", h.stripeWebhook)
		api.POST("/payments/paypal/order", h.createPayPalOrder)
		api.POST("/payments/paypal/capture/:id", h.capturePayPalOrder)

		authed := api.Group("", h.requireAuth)
		{
			authed.GET("/user", h.currentUser)
			authed.PUT("/user", h.updateProfile)

			authed.POST("/checkout", h.placeOrder)
			authed.GET("/orders", h.listOrders)
			authed.GET("/orders/:id", h.getOrder)

			authed.POST("/products/:id/reviews", h.createReview)

			authed.GET("/wishlist", h.listWishlist)
			authed.GET("/wishlist/check/:productId", h.checkWishlist)
			authed.POST("/wishlist/:productId", h.addToWishlist)
			authed.DELETE("/wishlist/:productId", h.removeFromWishlist)
		}

		admin := api.Group("/admin", h.requireAuth, h.requireAdmin)
		{
			admin.GET("/dashboard", h.dashboard)
			admin.GET("/users", h.listUsers)

			admin.POST("/products", h.createProduct)
			admin.PUT("/products/:id", h.updateProduct)
			admin.DELETE("/products/:id", h.deleteProduct)
			admin.GET("/products/low-stock", h.listLowStock)
			admin.POST("/products/:id/stock", h.adjustStock)

			admin.GET("/orders", h.listAllOrders)
			admin.PUT("/orders/:id/status", h.updateOrderStatus)

			admin.POST("/blog", h.createBlogPost)
			admin.PUT("/blog/:id", h.updateBlogPost)
			admin.DELETE("/blog/:id", h.deleteBlogPost)

			admin.POST("/external-blog/sync", h.syncExternalPosts)
		}
	}

	return router
}

// handlers groups the route implementations around shared dependencies.
type handlers struct {
	deps   Deps
	logger *log.Logger
}
