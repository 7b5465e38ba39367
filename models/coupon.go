package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon is a percentage discount code scoped to a single user. A unique
// index on userId keeps at most one coupon per user; issuing a reward coupon
// deletes the prior one before inserting.
type Coupon struct {
	ID                 primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Code               string             `json:"code" bson:"code"`
	DiscountPercentage float64            `json:"discountPercentage" bson:"discountPercentage"`
	ExpirationDate     time.Time          `json:"expirationDate" bson:"expirationDate"`
	IsActive           bool               `json:"isActive" bson:"isActive"`
	UserID             primitive.ObjectID `json:"userId" bson:"userId"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Expired reports whether the coupon's window has passed at the given instant.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpirationDate.Before(now)
}

// ValidatedCoupon is the response for a successful coupon validation.
type ValidatedCoupon struct {
	Message            string  `json:"message"`
	Code               string  `json:"code"`
	DiscountPercentage float64 `json:"discountPercentage"`
}
