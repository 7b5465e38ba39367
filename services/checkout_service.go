package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"storefront-service/apperrors"
	"storefront-service/logger"
	"storefront-service/models"
	"storefront-service/providers"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// checkoutLine is one line item as serialized into the provider order's
// notes. Price is in minor currency units. The verification step reads the
// lines back from the provider rather than trusting the client again.
type checkoutLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
}

// CheckoutService drives a checkout attempt from draft to persisted order:
// create a provider order for the discounted cart total, verify the
// provider's payment signature, then persist the order exactly once.
type CheckoutService struct {
	provider  providers.PaymentProvider
	orders    repository.OrderRepository
	coupons   repository.CouponRepository
	couponSvc *CouponService
	keySecret []byte
	currency  string
}

// NewCheckoutService creates a new CheckoutService. keySecret is the
// provider API secret used both for order signatures and HMAC verification.
func NewCheckoutService(
	provider providers.PaymentProvider,
	orders repository.OrderRepository,
	coupons repository.CouponRepository,
	couponSvc *CouponService,
	keySecret string,
	currency string,
) *CheckoutService {
	return &CheckoutService{
		provider:  provider,
		orders:    orders,
		coupons:   coupons,
		couponSvc: couponSvc,
		keySecret: []byte(keySecret),
		currency:  currency,
	}
}

// CreateOrder sums the cart in minor currency units, applies the user's
// coupon when the code resolves, and registers the order with the payment
// provider. Line items and the coupon code ride along in the provider
// order's notes so verification can recover them later.
func (s *CheckoutService) CreateOrder(ctx context.Context, user *models.User, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	if len(req.Products) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Invalid or empty products array")
	}

	var totalAmount int64
	lines := make([]checkoutLine, 0, len(req.Products))
	for _, p := range req.Products {
		if p.Price < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "Product price cannot be negative")
		}
		quantity := p.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		amount := int64(math.Round(p.Price * 100))
		totalAmount += amount * int64(quantity)

		lines = append(lines, checkoutLine{
			ProductID: p.ID.Hex(),
			Name:      p.Name,
			Price:     amount,
			Quantity:  quantity,
			Image:     p.Image,
		})
	}

	if req.CouponCode != "" {
		coupon, err := s.coupons.FindActiveByCodeAndUser(ctx, req.CouponCode, user.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if coupon != nil {
			totalAmount -= int64(math.Round(float64(totalAmount) * coupon.DiscountPercentage / 100))
		}
	}

	serialized, err := json.Marshal(lines)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	receiptID := "receipt_" + uuid.NewString()
	providerOrder, err := s.provider.CreateOrder(providers.OrderRequest{
		Amount:   totalAmount,
		Currency: s.currency,
		Receipt:  receiptID,
		Notes: map[string]string{
			"userId":     user.ID.Hex(),
			"couponCode": req.CouponCode,
			"products":   string(serialized),
		},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err)
	}

	return &models.CreateOrderResponse{
		ProviderOrderID: providerOrder.ID,
		Amount:          float64(totalAmount) / 100,
		ReceiptID:       receiptID,
	}, nil
}

// VerifyPayment recomputes the provider's payment signature and, on a
// match, persists the order from the provider's stored metadata. The unique
// providerOrderId index makes replays fail with a duplicate-order error
// instead of double-counting revenue. A qualifying pre-discount total earns
// the customer a reward coupon for their next order; issuing it here, after
// verification, means an abandoned payment grants nothing.
func (s *CheckoutService) VerifyPayment(ctx context.Context, user *models.User, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error) {
	if !s.signatureValid(req.ProviderOrderID, req.ProviderPaymentID, req.Signature) {
		return nil, apperrors.ErrPaymentVerification
	}

	providerOrder, err := s.provider.FetchOrder(req.ProviderOrderID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err)
	}

	var lines []checkoutLine
	if err := json.Unmarshal([]byte(providerOrder.Notes["products"]), &lines); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, fmt.Errorf("malformed provider order notes: %w", err))
	}
	couponCode := providerOrder.Notes["couponCode"]

	var subtotalMinor int64
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		productID, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrUpstream, fmt.Errorf("malformed product reference in notes: %w", err))
		}
		subtotalMinor += line.Price * int64(line.Quantity)
		items = append(items, models.OrderItem{
			Product:  productID,
			Quantity: line.Quantity,
			Price:    float64(line.Price) / 100,
		})
	}

	order := &models.Order{
		User:              user.ID,
		Products:          items,
		TotalAmount:       float64(providerOrder.Amount) / 100,
		ProviderOrderID:   req.ProviderOrderID,
		ProviderPaymentID: req.ProviderPaymentID,
		ProviderSignature: req.Signature,
		ReceiptID:         providerOrder.Receipt,
		Coupon:            couponCode,
	}

	if err := s.orders.CreateWithCouponRedemption(ctx, order, couponCode, user.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateOrder
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if subtotalMinor >= RewardThresholdMinorUnits {
		if _, err := s.couponSvc.IssueReward(ctx, user.ID); err != nil {
			// The verified order is already persisted; a missed reward is
			// recoverable, a lost order is not.
			logger.Error(ctx, "Failed to issue reward coupon", err, zap.String("user", user.ID.Hex()))
		}
	}

	return &models.VerifyPaymentResponse{
		Message:     "Payment verified and order placed successfully",
		OrderID:     order.ID,
		PaymentID:   req.ProviderPaymentID,
		TotalAmount: order.TotalAmount,
	}, nil
}

// signatureValid recomputes the HMAC-SHA256 of "orderId|paymentId" with the
// provider key secret and compares it to the supplied signature in constant
// time.
func (s *CheckoutService) signatureValid(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, s.keySecret)
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
