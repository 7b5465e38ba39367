package controllers

import (
	"net/http"

	"storefront-service/apperrors"
	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartController handles the authenticated cart surface. Totals are
// recomputed on every response, against the user's active coupon when one
// exists.
type CartController struct {
	cart    *services.CartService
	coupons *services.CouponService
}

// NewCartController creates a new CartController.
func NewCartController(cart *services.CartService, coupons *services.CouponService) *CartController {
	return &CartController{cart: cart, coupons: coupons}
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart returns the joined product view of the cart plus fresh totals.
func (cc *CartController) GetCart(c *gin.Context) {
	user := middleware.CurrentUser(c)

	products, err := cc.cart.GetCartProducts(c.Request.Context(), user)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	cc.respondWithTotals(c, http.StatusOK, gin.H{"items": products}, user)
}

// AddToCart adds a product or bumps its quantity by one.
func (cc *CartController) AddToCart(c *gin.Context) {
	user := middleware.CurrentUser(c)
	productID, ok := cc.bindProductID(c)
	if !ok {
		return
	}

	items, err := cc.cart.Add(c.Request.Context(), user, productID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	cc.respondWithTotals(c, http.StatusOK, gin.H{
		"message": "Product added to cart successfully",
		"items":   items,
	}, user)
}

// RemoveFromCart deletes the matching cart entry.
func (cc *CartController) RemoveFromCart(c *gin.Context) {
	user := middleware.CurrentUser(c)
	productID, ok := cc.bindProductID(c)
	if !ok {
		return
	}

	items, err := cc.cart.Remove(c.Request.Context(), user, productID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	cc.respondWithTotals(c, http.StatusOK, gin.H{
		"message": "Product removed from cart",
		"items":   items,
	}, user)
}

// UpdateQuantity overwrites a cart entry's quantity; zero removes it.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	user := middleware.CurrentUser(c)

	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid product id"))
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid JSON body"))
		return
	}

	items, err := cc.cart.SetQuantity(c.Request.Context(), user, productID, *req.Quantity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	cc.respondWithTotals(c, http.StatusOK, gin.H{
		"message": "Quantity updated",
		"items":   items,
	}, user)
}

// ClearCart empties the cart; any applied coupon no longer affects totals.
func (cc *CartController) ClearCart(c *gin.Context) {
	user := middleware.CurrentUser(c)

	items, err := cc.cart.Clear(c.Request.Context(), user)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
		"items":   items,
		"totals":  models.CartTotals{},
	})
}

func (cc *CartController) bindProductID(c *gin.Context) (primitive.ObjectID, bool) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid JSON body"))
		return primitive.NilObjectID, false
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid product id"))
		return primitive.NilObjectID, false
	}
	return productID, true
}

func (cc *CartController) respondWithTotals(c *gin.Context, status int, body gin.H, user *models.User) {
	coupon, err := cc.coupons.GetActive(c.Request.Context(), user.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	totals, err := cc.cart.ComputeTotals(c.Request.Context(), user, coupon)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	body["totals"] = totals
	c.JSON(status, body)
}
