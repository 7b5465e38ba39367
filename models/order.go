package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a line item with the unit price snapshotted at purchase time,
// in major currency units. Later catalog price changes do not affect it.
type OrderItem struct {
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Quantity int                `json:"quantity" bson:"quantity"`
	Price    float64            `json:"price" bson:"price"`
}

// Order is the immutable record persisted after a verified payment. The
// unique index on providerOrderId makes duplicate verification calls fail
// instead of double-counting revenue.
type Order struct {
	ID                primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User              primitive.ObjectID `json:"user" bson:"user"`
	Products          []OrderItem        `json:"products" bson:"products"`
	TotalAmount       float64            `json:"totalAmount" bson:"totalAmount"`
	ProviderOrderID   string             `json:"providerOrderId" bson:"providerOrderId"`
	ProviderPaymentID string             `json:"providerPaymentId,omitempty" bson:"providerPaymentId,omitempty"`
	ProviderSignature string             `json:"providerSignature,omitempty" bson:"providerSignature,omitempty"`
	ReceiptID         string             `json:"receiptId,omitempty" bson:"receiptId,omitempty"`
	Coupon            string             `json:"coupon,omitempty" bson:"coupon,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
}

// CheckoutProduct is one line of the create-order payload. Quantity defaults
// to 1 when omitted.
type CheckoutProduct struct {
	ID       primitive.ObjectID `json:"_id" binding:"required"`
	Name     string             `json:"name"`
	Price    float64            `json:"price" binding:"gte=0"`
	Quantity int                `json:"quantity"`
	Image    string             `json:"image"`
}

// CreateOrderRequest is the payload for POST /payments/create-order.
type CreateOrderRequest struct {
	Products   []CheckoutProduct `json:"products"`
	CouponCode string            `json:"couponCode"`
}

// CreateOrderResponse returns the provider order handle the client completes
// payment against. Amount is in major currency units.
type CreateOrderResponse struct {
	ProviderOrderID string  `json:"id"`
	Amount          float64 `json:"amount"`
	ReceiptID       string  `json:"receiptId"`
}

// VerifyPaymentRequest is the payload for POST /payments/verify-payment.
type VerifyPaymentRequest struct {
	ProviderOrderID   string `json:"providerOrderId" binding:"required"`
	ProviderPaymentID string `json:"paymentId" binding:"required"`
	Signature         string `json:"signature" binding:"required"`
}

// VerifyPaymentResponse confirms the persisted order.
type VerifyPaymentResponse struct {
	Message     string             `json:"message"`
	OrderID     primitive.ObjectID `json:"orderId"`
	PaymentID   string             `json:"paymentId"`
	TotalAmount float64            `json:"totalAmount"`
}
