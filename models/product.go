package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Images live on an external host; only the URL
// is stored here.
type Product struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Image       string             `json:"image" bson:"image"`
	Category    string             `json:"category" bson:"category"`
	IsFeatured  bool               `json:"isFeatured" bson:"isFeatured"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateProductRequest is the admin payload for adding a catalog entry.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Image       string  `json:"image" binding:"required"`
	Category    string  `json:"category" binding:"required"`
}

// CartProduct is a product joined with the quantity held in the cart,
// returned by GET /cart.
type CartProduct struct {
	Product
	Quantity int `json:"quantity"`
}
