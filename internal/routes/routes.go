package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers/order"
	"storefront_back_end/internal/handlers/payement"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/handlers/vendor"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/utils"
)

// RegisterRoutes branche toutes les routes de l'API sur le routeur gin
func RegisterRoutes(r *gin.Engine, cfg *config.Config) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Cart-Token", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Dépendances partagées
	orders := store.NewScyllaOrders()
	payments := store.NewScyllaPayments()
	products := store.NewScyllaProducts()
	carts := store.NewRedisCarts(database.RedisClient)
	mailer := utils.NewConfirmationMailer(cfg)

	reconciler := &payement.Reconciler{
		Payments: payments,
		Intents:  payement.NewStripeIntents(cfg.StripeSecretKey),
	}

	orderHandler := &order.Handler{
		Orders:     orders,
		Products:   products,
		Carts:      carts,
		Reconciler: reconciler,
	}

	webhookHandler := &payement.WebhookHandler{
		Secret:   cfg.StripeWebhookSecret,
		Payments: payments,
		Orders:   orders,
		Mailer:   mailer,
	}

	cartHandler := user.NewCarts(carts, products)
	vendorOrders := vendor.NewOrders(orders)

	api := r.Group("/api")

	// 🔓 Authentification
	api.POST("/auth/register", middleware.RegisterRateLimit(), user.Register)
	api.POST("/auth/login", middleware.LoginRateLimit(), user.Login)

	// 👤 Profil client
	api.GET("/customers/me", middleware.AuthRequired(), user.Me)
	api.PUT("/customers/me", middleware.AuthRequired(), user.UpdateMe)
	api.GET("/customers", middleware.AuthRequired(), middleware.RequireAdmin, user.ListCustomers)

	// 🛒 Panier (connecté ou invité via X-Cart-Token)
	api.POST("/cart/guest", cartHandler.CreateGuestCart)
	api.GET("/cart", middleware.OptionalAuth(), cartHandler.GetCart)
	api.POST("/cart/items", middleware.OptionalAuth(), cartHandler.AddItem)
	api.DELETE("/cart/items/:product_id", middleware.OptionalAuth(), cartHandler.RemoveItem)
	api.DELETE("/cart", middleware.OptionalAuth(), cartHandler.ClearCart)

	// 📦 Catalogue
	api.GET("/products", product.GetAllProducts)
	api.GET("/products/search", product.SearchProducts)
	api.GET("/products/:id", product.GetProduct)
	api.GET("/products/:id/images", product.GetProductImages)
	api.GET("/products/:id/reviews", product.GetProductReviews)
	api.POST("/products/:id/reviews", middleware.AuthRequired(), product.CreateReview)
	api.POST("/products", middleware.AuthRequired(), middleware.RequireVendor, product.CreateProduct)
	api.PUT("/products/:id", middleware.AuthRequired(), middleware.RequireVendor, product.UpdateProduct)
	api.DELETE("/products/:id", middleware.AuthRequired(), middleware.RequireAdmin, product.DeleteProduct)
	api.POST("/products/:id/images", middleware.AuthRequired(), middleware.RequireVendor, product.UploadProductImage)

	// ❤️ Likes et recommandations
	api.POST("/products/:id/like", middleware.AuthRequired(), product.LikeProduct)
	api.DELETE("/products/:id/like", middleware.AuthRequired(), product.UnlikeProduct)
	api.GET("/likes", middleware.AuthRequired(), product.GetUserLikes)
	api.GET("/recommendations", middleware.AuthRequired(), product.GetRecommendations)

	// 🗂 Collections
	api.GET("/collections", product.GetAllCollections)
	api.GET("/collections/:id", product.GetCollection)
	api.POST("/collections", middleware.AuthRequired(), middleware.RequireAdmin, product.CreateCollection)
	api.DELETE("/collections/:id", middleware.AuthRequired(), middleware.RequireAdmin, product.DeleteCollection)

	// 🏪 Vendeurs
	api.GET("/vendors", vendor.GetAllVendors)
	api.GET("/vendors/:id", vendor.GetVendor)
	api.GET("/vendors/:id/products", vendor.GetVendorProducts)
	api.POST("/vendors", middleware.AuthRequired(), vendor.CreateVendor)
	api.GET("/vendor/orders", middleware.AuthRequired(), middleware.RequireVendor, vendorOrders.List)
	api.PUT("/vendor/orders/:id/status", middleware.AuthRequired(), middleware.RequireVendor, vendorOrders.UpdateStatus)

	// 🧾 Commandes. POST reste ouvert à tous les appelants (invités compris) :
	// la réconciliation de paiement est la seule garde contre les doublons.
	api.POST("/orders", middleware.OptionalAuth(), orderHandler.Create)
	api.POST("/orders/guest-lookup", orderHandler.GuestLookup)
	api.GET("/orders", middleware.AuthRequired(), orderHandler.List)
	api.GET("/orders/:id", middleware.AuthRequired(), orderHandler.GetByID)
	api.PATCH("/orders/:id", middleware.AuthRequired(), middleware.RequireAdmin, orderHandler.Update)
	api.DELETE("/orders/:id", middleware.AuthRequired(), middleware.RequireAdmin, orderHandler.Delete)

	// 💳 Webhook Stripe (signature vérifiée dans le handler, pas de JWT)
	api.POST("/payments/webhook", webhookHandler.Handle)
}
