package services_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront-service/apperrors"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testKeySecret = "test_secret"

type checkoutFixture struct {
	provider *mockProvider
	orders   *mockOrderRepo
	coupons  *mockCouponRepo
	svc      *services.CheckoutService
	user     *models.User
}

func newCheckoutFixture() *checkoutFixture {
	provider := newMockProvider()
	coupons := newMockCouponRepo()
	orders := newMockOrderRepo(coupons)
	couponSvc := services.NewCouponService(coupons)
	return &checkoutFixture{
		provider: provider,
		orders:   orders,
		coupons:  coupons,
		svc:      services.NewCheckoutService(provider, orders, coupons, couponSvc, testKeySecret, "INR"),
		user: &models.User{
			ID:    primitive.NewObjectID(),
			Name:  "Test Buyer",
			Email: "buyer@example.com",
		},
	}
}

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testKeySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

func checkoutProducts(prices ...float64) []models.CheckoutProduct {
	products := make([]models.CheckoutProduct, 0, len(prices))
	for i, price := range prices {
		products = append(products, models.CheckoutProduct{
			ID:       primitive.NewObjectID(),
			Name:     fmt.Sprintf("Product %d", i+1),
			Price:    price,
			Quantity: 1,
		})
	}
	return products
}

func TestCheckout_CreateOrderConvertsToMinorUnits(t *testing.T) {
	fx := newCheckoutFixture()

	resp, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{
		Products: []models.CheckoutProduct{
			{ID: primitive.NewObjectID(), Name: "Headphones", Price: 500.00, Quantity: 2},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "order_1", resp.ProviderOrderID)
	assert.Equal(t, 1000.0, resp.Amount)

	assert.Len(t, fx.provider.created, 1)
	assert.Equal(t, int64(100000), fx.provider.created[0].Amount)
	assert.Equal(t, "INR", fx.provider.created[0].Currency)
	assert.Contains(t, fx.provider.created[0].Receipt, "receipt_")
	assert.Equal(t, fx.user.ID.Hex(), fx.provider.created[0].Notes["userId"])
}

func TestCheckout_CreateOrderAppliesCouponDiscount(t *testing.T) {
	fx := newCheckoutFixture()
	fx.coupons.coupons[fx.user.ID] = activeCoupon(fx.user.ID, "SAVE10", 10, 24*time.Hour)

	resp, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{
		Products: []models.CheckoutProduct{
			{ID: primitive.NewObjectID(), Name: "Headphones", Price: 500.00, Quantity: 2},
		},
		CouponCode: "SAVE10",
	})
	assert.NoError(t, err)
	assert.Equal(t, 900.0, resp.Amount)
	assert.Equal(t, int64(90000), fx.provider.created[0].Amount)
	assert.Equal(t, "SAVE10", fx.provider.created[0].Notes["couponCode"])
}

func TestCheckout_CreateOrderIgnoresUnknownCoupon(t *testing.T) {
	fx := newCheckoutFixture()

	resp, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{
		Products:   checkoutProducts(250.00),
		CouponCode: "NOSUCHCODE",
	})
	assert.NoError(t, err)
	assert.Equal(t, 250.0, resp.Amount)
}

func TestCheckout_CreateOrderEmptyProducts(t *testing.T) {
	fx := newCheckoutFixture()

	_, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Empty(t, fx.provider.created)
}

func TestCheckout_CreateOrderDefaultsQuantityToOne(t *testing.T) {
	fx := newCheckoutFixture()

	resp, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{
		Products: []models.CheckoutProduct{
			{ID: primitive.NewObjectID(), Name: "Mouse", Price: 49.99},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 49.99, resp.Amount)
}

func TestCheckout_CreateOrderProviderFailure(t *testing.T) {
	fx := newCheckoutFixture()
	fx.provider.fail = true

	_, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{
		Products: checkoutProducts(100.00),
	})
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
}

func TestCheckout_VerifyPaymentPersistsOrder(t *testing.T) {
	fx := newCheckoutFixture()

	created, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{
		Products: []models.CheckoutProduct{
			{ID: primitive.NewObjectID(), Name: "Headphones", Price: 500.00, Quantity: 2},
		},
	})
	assert.NoError(t, err)

	resp, err := fx.svc.VerifyPayment(context.Background(), fx.user, &models.VerifyPaymentRequest{
		ProviderOrderID:   created.ProviderOrderID,
		ProviderPaymentID: "pay_123",
		Signature:         sign(created.ProviderOrderID, "pay_123"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "pay_123", resp.PaymentID)
	assert.Equal(t, 1000.0, resp.TotalAmount)

	assert.Len(t, fx.orders.orders, 1)
	order := fx.orders.orders[0]
	assert.Equal(t, fx.user.ID, order.User)
	assert.Equal(t, created.ProviderOrderID, order.ProviderOrderID)
	assert.Len(t, order.Products, 1)
	assert.Equal(t, 500.0, order.Products[0].Price)
	assert.Equal(t, 2, order.Products[0].Quantity)
}

func TestCheckout_VerifyPaymentRejectsTamperedSignature(t *testing.T) {
	fx := newCheckoutFixture()

	created, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{
		Products: checkoutProducts(100.00),
	})
	assert.NoError(t, err)

	_, err = fx.svc.VerifyPayment(context.Background(), fx.user, &models.VerifyPaymentRequest{
		ProviderOrderID:   created.ProviderOrderID,
		ProviderPaymentID: "pay_123",
		Signature:         sign(created.ProviderOrderID, "pay_999"),
	})
	assert.True(t, errors.Is(err, apperrors.ErrPaymentVerification))
	assert.Empty(t, fx.orders.orders)
}

func TestCheckout_VerifyPaymentIsReplaySafe(t *testing.T) {
	fx := newCheckoutFixture()

	created, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{
		Products: checkoutProducts(100.00),
	})
	assert.NoError(t, err)

	req := &models.VerifyPaymentRequest{
		ProviderOrderID:   created.ProviderOrderID,
		ProviderPaymentID: "pay_123",
		Signature:         sign(created.ProviderOrderID, "pay_123"),
	}
	_, err = fx.svc.VerifyPayment(context.Background(), fx.user, req)
	assert.NoError(t, err)

	_, err = fx.svc.VerifyPayment(context.Background(), fx.user, req)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateOrder))
	assert.Len(t, fx.orders.orders, 1)
}

func TestCheckout_VerifyPaymentRedeemsCoupon(t *testing.T) {
	fx := newCheckoutFixture()
	fx.coupons.coupons[fx.user.ID] = activeCoupon(fx.user.ID, "SAVE10", 10, 24*time.Hour)

	created, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{
		Products:   checkoutProducts(500.00),
		CouponCode: "SAVE10",
	})
	assert.NoError(t, err)

	resp, err := fx.svc.VerifyPayment(context.Background(), fx.user, &models.VerifyPaymentRequest{
		ProviderOrderID:   created.ProviderOrderID,
		ProviderPaymentID: "pay_123",
		Signature:         sign(created.ProviderOrderID, "pay_123"),
	})
	assert.NoError(t, err)
	assert.Equal(t, 450.0, resp.TotalAmount)
	assert.Equal(t, "SAVE10", fx.orders.orders[0].Coupon)
	assert.False(t, fx.coupons.coupons[fx.user.ID].IsActive)
}

func TestCheckout_VerifyPaymentIssuesRewardAboveThreshold(t *testing.T) {
	fx := newCheckoutFixture()

	// Pre-discount subtotal of 10000.00 meets the reward threshold.
	created, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{
		Products: []models.CheckoutProduct{
			{ID: primitive.NewObjectID(), Name: "Laptop", Price: 5000.00, Quantity: 2},
		},
	})
	assert.NoError(t, err)

	_, err = fx.svc.VerifyPayment(context.Background(), fx.user, &models.VerifyPaymentRequest{
		ProviderOrderID:   created.ProviderOrderID,
		ProviderPaymentID: "pay_123",
		Signature:         sign(created.ProviderOrderID, "pay_123"),
	})
	assert.NoError(t, err)

	reward := fx.coupons.coupons[fx.user.ID]
	assert.NotNil(t, reward)
	assert.True(t, reward.IsActive)
	assert.Contains(t, reward.Code, "GIFT")
}

func TestCheckout_VerifyPaymentNoRewardBelowThreshold(t *testing.T) {
	fx := newCheckoutFixture()

	created, err := fx.svc.CreateOrder(context.Background(), fx.user, &models.CreateOrderRequest{
		Products: checkoutProducts(100.00),
	})
	assert.NoError(t, err)

	_, err = fx.svc.VerifyPayment(context.Background(), fx.user, &models.VerifyPaymentRequest{
		ProviderOrderID:   created.ProviderOrderID,
		ProviderPaymentID: "pay_123",
		Signature:         sign(created.ProviderOrderID, "pay_123"),
	})
	assert.NoError(t, err)
	assert.Nil(t, fx.coupons.coupons[fx.user.ID])
}

func TestCheckout_VerifyPaymentUnknownProviderOrder(t *testing.T) {
	fx := newCheckoutFixture()

	_, err := fx.svc.VerifyPayment(context.Background(), fx.user, &models.VerifyPaymentRequest{
		ProviderOrderID:   "order_missing",
		ProviderPaymentID: "pay_123",
		Signature:         sign("order_missing", "pay_123"),
	})
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
	assert.Empty(t, fx.orders.orders)
}
