package services

import (
	"context"
	"time"

	"storefront-service/apperrors"
	"storefront-service/models"
	"storefront-service/repository"
)

const dateLayout = "2006-01-02"

// AnalyticsService aggregates storewide counts and the daily sales series
// from persisted order history.
type AnalyticsService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(users repository.UserRepository, products repository.ProductRepository, orders repository.OrderRepository) *AnalyticsService {
	return &AnalyticsService{users: users, products: products, orders: orders}
}

// Summary counts users and products and rolls up order count and revenue.
// All values are zero when no orders exist.
func (s *AnalyticsService) Summary(ctx context.Context) (*models.AnalyticsSummary, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	totals, err := s.orders.Totals(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &models.AnalyticsSummary{
		Users:        userCount,
		Products:     productCount,
		TotalSales:   totals.TotalSales,
		TotalRevenue: totals.TotalRevenue,
	}, nil
}

// DailySeries buckets orders by calendar day over the inclusive range,
// producing one entry per day with zero values for days without orders,
// sorted ascending.
func (s *AnalyticsService) DailySeries(ctx context.Context, start, end time.Time) ([]models.DailySales, error) {
	buckets, err := s.orders.DailyBuckets(ctx, start, end)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byDate := make(map[string]repository.DailyBucket, len(buckets))
	for _, b := range buckets {
		byDate[b.Date] = b
	}

	series := []models.DailySales{}
	for day := startOfDay(start); !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		entry := models.DailySales{Date: date}
		if b, ok := byDate[date]; ok {
			entry.Sales = b.Sales
			entry.Revenue = b.Revenue
		}
		series = append(series, entry)
	}
	return series, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
