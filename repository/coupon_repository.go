package repository

import (
	"context"
	"errors"
	"time"

	"storefront-service/database"
	"storefront-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	FindActiveByUser(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error)
	FindActiveByCodeAndUser(ctx context.Context, code string, userID primitive.ObjectID) (*models.Coupon, error)
	Deactivate(ctx context.Context, code string, userID primitive.ObjectID) error
	ReplaceForUser(ctx context.Context, coupon *models.Coupon) error
}

// MongoCouponRepository implements CouponRepository on the coupons collection.
type MongoCouponRepository struct {
	coll *mongo.Collection
}

// NewMongoCouponRepository creates a new MongoCouponRepository.
func NewMongoCouponRepository(m *database.Mongo) *MongoCouponRepository {
	return &MongoCouponRepository{coll: m.DB.Collection(database.CouponsCollection)}
}

func (r *MongoCouponRepository) FindActiveByUser(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "isActive": true})
}

func (r *MongoCouponRepository) FindActiveByCodeAndUser(ctx context.Context, code string, userID primitive.ObjectID) (*models.Coupon, error) {
	return r.findOne(ctx, bson.M{"code": code, "userId": userID, "isActive": true})
}

// Deactivate flips a coupon's active flag off. Used both when an expired
// coupon is detected and when a coupon is redeemed at checkout.
func (r *MongoCouponRepository) Deactivate(ctx context.Context, code string, userID primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"code": code, "userId": userID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceForUser deletes any prior coupon for the owning user before
// inserting the new one, so the one-per-user invariant never trips the
// unique index on userId.
func (r *MongoCouponRepository) ReplaceForUser(ctx context.Context, coupon *models.Coupon) error {
	now := time.Now()
	coupon.CreatedAt = now
	coupon.UpdatedAt = now

	if _, err := r.coll.DeleteMany(ctx, bson.M{"userId": coupon.UserID}); err != nil {
		return err
	}
	res, err := r.coll.InsertOne(ctx, coupon)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		coupon.ID = id
	}
	return nil
}

func (r *MongoCouponRepository) findOne(ctx context.Context, filter bson.M) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.coll.FindOne(ctx, filter).Decode(&coupon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}
