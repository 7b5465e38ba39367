package controllers

import (
	"net/http"

	"storefront-service/apperrors"
	"storefront-service/middleware"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// CouponController handles the authenticated coupon surface.
type CouponController struct {
	coupons *services.CouponService
}

// NewCouponController creates a new CouponController.
func NewCouponController(coupons *services.CouponService) *CouponController {
	return &CouponController{coupons: coupons}
}

// GetCoupon returns the user's active coupon, or null when there is none.
func (cc *CouponController) GetCoupon(c *gin.Context) {
	user := middleware.CurrentUser(c)

	coupon, err := cc.coupons.GetActive(c.Request.Context(), user.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if coupon == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// ValidateCoupon checks the code in the query string against the user's
// active coupon.
func (cc *CouponController) ValidateCoupon(c *gin.Context) {
	user := middleware.CurrentUser(c)

	code := c.Query("code")
	if code == "" {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Coupon code is required"))
		return
	}

	validated, err := cc.coupons.Validate(c.Request.Context(), code, user.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, validated)
}
