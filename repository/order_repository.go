package repository

import (
	"context"
	"time"

	"storefront-service/database"
	"storefront-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrderTotals is the aggregate of all persisted orders.
type OrderTotals struct {
	TotalSales   int64   `bson:"totalSales"`
	TotalRevenue float64 `bson:"totalRevenue"`
}

// DailyBucket is one aggregated calendar day of orders.
type DailyBucket struct {
	Date    string  `bson:"_id"`
	Sales   int64   `bson:"sales"`
	Revenue float64 `bson:"revenue"`
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// CreateWithCouponRedemption persists the order and deactivates the
	// applied coupon (when couponCode is non-empty) in one transaction.
	// A replayed provider order id surfaces as ErrDuplicate.
	CreateWithCouponRedemption(ctx context.Context, order *models.Order, couponCode string, userID primitive.ObjectID) error
	Totals(ctx context.Context) (*OrderTotals, error)
	DailyBuckets(ctx context.Context, start, end time.Time) ([]DailyBucket, error)
}

// MongoOrderRepository implements OrderRepository on the orders collection.
type MongoOrderRepository struct {
	client  *mongo.Client
	orders  *mongo.Collection
	coupons *mongo.Collection
}

// NewMongoOrderRepository creates a new MongoOrderRepository.
func NewMongoOrderRepository(m *database.Mongo) *MongoOrderRepository {
	return &MongoOrderRepository{
		client:  m.Client,
		orders:  m.DB.Collection(database.OrdersCollection),
		coupons: m.DB.Collection(database.CouponsCollection),
	}
}

// CreateWithCouponRedemption inserts the order and, when a coupon was
// applied, flips it inactive inside the same transaction. The unique index
// on providerOrderId aborts the transaction on a duplicate verification
// call, so revenue is never double-counted.
func (r *MongoOrderRepository) CreateWithCouponRedemption(ctx context.Context, order *models.Order, couponCode string, userID primitive.ObjectID) error {
	order.CreatedAt = time.Now()

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.orders.InsertOne(sc, order)
		if err != nil {
			return nil, err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		if couponCode != "" {
			_, err = r.coupons.UpdateOne(sc,
				bson.M{"code": couponCode, "userId": userID},
				bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
			)
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// Totals sums order count and revenue over the whole collection.
func (r *MongoOrderRepository) Totals(ctx context.Context) (*OrderTotals, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalSales", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
		}}},
	}
	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []OrderTotals
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &OrderTotals{}, nil
	}
	return &results[0], nil
}

// DailyBuckets groups orders by calendar day over the inclusive range,
// sorted ascending. Days without orders are absent; the service zero-fills.
func (r *MongoOrderRepository) DailyBuckets(ctx context.Context, start, end time.Time) ([]DailyBucket, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "createdAt", Value: bson.D{
				{Key: "$gte", Value: start},
				{Key: "$lte", Value: end},
			}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$createdAt"},
			}}}},
			{Key: "sales", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	buckets := []DailyBucket{}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}
