package routes

import (
	"net/http"

	"storefront-service/controllers"
	"storefront-service/middleware"
	"storefront-service/repository"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything the router wires together.
type Controllers struct {
	Auth      *controllers.AuthController
	Cart      *controllers.CartController
	Coupon    *controllers.CouponController
	Product   *controllers.ProductController
	Payment   *controllers.PaymentController
	Analytics *controllers.AnalyticsController
}

// Register mounts all routes on the engine. Authenticated groups share the
// Protect middleware; admin groups additionally require the admin role.
func Register(r *gin.Engine, c Controllers, tokens *services.TokenService, users repository.UserRepository) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	protect := middleware.Protect(tokens, users)
	admin := middleware.AdminOnly()

	auth := r.Group("/auth", middleware.RateLimit())
	{
		auth.POST("/signup", c.Auth.Signup)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/logout", c.Auth.Logout)
		auth.POST("/refresh-token", c.Auth.RefreshToken)
	}

	cart := r.Group("/cart", protect)
	{
		cart.GET("", c.Cart.GetCart)
		cart.POST("", c.Cart.AddToCart)
		cart.DELETE("", c.Cart.RemoveFromCart)
		cart.DELETE("/clear", c.Cart.ClearCart)
		cart.PUT("/:id", c.Cart.UpdateQuantity)
	}

	coupons := r.Group("/coupons", protect)
	{
		coupons.GET("", c.Coupon.GetCoupon)
		coupons.GET("/validate", c.Coupon.ValidateCoupon)
	}

	products := r.Group("/products")
	{
		products.GET("/featured", c.Product.GetFeaturedProducts)
		products.GET("/category/:category", c.Product.GetProductsByCategory)
		products.GET("/recommendations", c.Product.GetRecommendedProducts)

		products.GET("", protect, admin, c.Product.GetAllProducts)
		products.POST("", protect, admin, c.Product.CreateProduct)
		products.PATCH("/:id", protect, admin, c.Product.ToggleFeaturedProduct)
		products.DELETE("/:id", protect, admin, c.Product.DeleteProduct)
	}

	payments := r.Group("/payments", protect)
	{
		payments.POST("/create-order", c.Payment.CreateOrder)
		payments.POST("/verify-payment", c.Payment.VerifyPayment)
	}

	r.GET("/analytics", protect, admin, c.Analytics.GetAnalytics)
}
