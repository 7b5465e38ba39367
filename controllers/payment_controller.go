package controllers

import (
	"net/http"

	"storefront-service/apperrors"
	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// PaymentController handles checkout: provider order creation and payment
// verification.
type PaymentController struct {
	checkout *services.CheckoutService
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(checkout *services.CheckoutService) *PaymentController {
	return &PaymentController{checkout: checkout}
}

// CreateOrder builds a provider order from the submitted cart contents and
// an optional coupon code.
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid JSON body"))
		return
	}

	resp, err := pc.checkout.CreateOrder(c.Request.Context(), user, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyPayment checks the provider's payment signature and persists the
// order on success.
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid JSON body"))
		return
	}

	resp, err := pc.checkout.VerifyPayment(c.Request.Context(), user, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
