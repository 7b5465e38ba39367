package services

import (
	"context"
	"errors"
	"math"

	"storefront-service/apperrors"
	"storefront-service/models"
	"storefront-service/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartService mutates the cart embedded in a user document. Every mutation
// writes the whole cartItems array back in one document update, so Mongo's
// per-document atomicity is the only serialization needed.
type CartService struct {
	users    repository.UserRepository
	products repository.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(users repository.UserRepository, products repository.ProductRepository) *CartService {
	return &CartService{users: users, products: products}
}

// GetCartProducts joins the cart entries with their catalog documents.
// Entries whose product has since been deleted are skipped.
func (s *CartService) GetCartProducts(ctx context.Context, user *models.User) ([]models.CartProduct, error) {
	ids := make([]primitive.ObjectID, 0, len(user.CartItems))
	for _, item := range user.CartItems {
		ids = append(ids, item.Product)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	result := []models.CartProduct{}
	for _, item := range user.CartItems {
		if p, ok := byID[item.Product]; ok {
			result = append(result, models.CartProduct{Product: p, Quantity: item.Quantity})
		}
	}
	return result, nil
}

// Add increments the entry's quantity when the product is already in the
// cart, otherwise appends it with quantity 1.
func (s *CartService) Add(ctx context.Context, user *models.User, productID primitive.ObjectID) ([]models.CartItem, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, s.productLookupError(err)
	}

	items := user.CartItems
	found := false
	for i := range items {
		if items[i].Product == productID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.CartItem{Product: productID, Quantity: 1})
	}
	return s.save(ctx, user, items)
}

// Remove deletes the matching entry. The product must exist in the catalog;
// a missing catalog document is NotFound even when the cart holds no entry.
func (s *CartService) Remove(ctx context.Context, user *models.User, productID primitive.ObjectID) ([]models.CartItem, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, s.productLookupError(err)
	}

	items := make([]models.CartItem, 0, len(user.CartItems))
	for _, item := range user.CartItems {
		if item.Product != productID {
			items = append(items, item)
		}
	}
	return s.save(ctx, user, items)
}

// SetQuantity overwrites the entry's quantity. Zero removes the entry; a
// stored zero quantity never exists.
func (s *CartService) SetQuantity(ctx context.Context, user *models.User, productID primitive.ObjectID, quantity int) ([]models.CartItem, error) {
	if quantity < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Quantity cannot be negative")
	}

	idx := -1
	for i := range user.CartItems {
		if user.CartItems[i].Product == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperrors.WithMessage(apperrors.ErrNotFound, "Product not found in cart")
	}

	items := append([]models.CartItem(nil), user.CartItems...)
	if quantity == 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = quantity
	}
	return s.save(ctx, user, items)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, user *models.User) ([]models.CartItem, error) {
	return s.save(ctx, user, []models.CartItem{})
}

// ComputeTotals prices the cart at current catalog prices and applies the
// coupon's percentage discount when one is given. Totals are never cached:
// callers recompute after every cart or coupon change.
func (s *CartService) ComputeTotals(ctx context.Context, user *models.User, coupon *models.Coupon) (*models.CartTotals, error) {
	cartProducts, err := s.GetCartProducts(ctx, user)
	if err != nil {
		return nil, err
	}

	subtotal := 0.0
	for _, cp := range cartProducts {
		subtotal += cp.Price * float64(cp.Quantity)
	}

	total := subtotal
	totals := &models.CartTotals{}
	if coupon != nil {
		total = subtotal - subtotal*coupon.DiscountPercentage/100
		totals.Coupon = coupon.Code
	}
	totals.Subtotal = roundMoney(subtotal)
	totals.Total = roundMoney(total)
	return totals, nil
}

func (s *CartService) save(ctx context.Context, user *models.User, items []models.CartItem) ([]models.CartItem, error) {
	if err := s.users.UpdateCartItems(ctx, user.ID, items); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.CartItems = items
	return items, nil
}

func (s *CartService) productLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.WithMessage(apperrors.ErrNotFound, "Product not found")
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// roundMoney rounds to two decimal places of the major currency unit.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
