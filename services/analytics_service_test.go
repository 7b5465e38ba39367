package services_test

import (
	"context"
	"testing"
	"time"

	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAnalytics_SummaryEmptyStore(t *testing.T) {
	users := newMockUserRepo()
	products := newMockProductRepo()
	orders := newMockOrderRepo(nil)
	svc := services.NewAnalyticsService(users, products, orders)

	summary, err := svc.Summary(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, &models.AnalyticsSummary{}, summary)
}

func TestAnalytics_SummaryCountsAndRevenue(t *testing.T) {
	users := newMockUserRepo()
	products := newMockProductRepo()
	orders := newMockOrderRepo(nil)
	svc := services.NewAnalyticsService(users, products, orders)

	users.users[primitive.NewObjectID()] = &models.User{Email: "a@example.com"}
	users.users[primitive.NewObjectID()] = &models.User{Email: "b@example.com"}
	products.add("Headphones", 500)
	orders.orders = append(orders.orders,
		&models.Order{ProviderOrderID: "order_1", TotalAmount: 900},
		&models.Order{ProviderOrderID: "order_2", TotalAmount: 100.50},
	)

	summary, err := svc.Summary(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), summary.Users)
	assert.Equal(t, int64(1), summary.Products)
	assert.Equal(t, int64(2), summary.TotalSales)
	assert.Equal(t, 1000.50, summary.TotalRevenue)
}

func TestAnalytics_DailySeriesZeroFillsMissingDays(t *testing.T) {
	orders := newMockOrderRepo(nil)
	svc := services.NewAnalyticsService(newMockUserRepo(), newMockProductRepo(), orders)

	end := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -6)
	orders.buckets = []repository.DailyBucket{
		{Date: "2026-08-24", Sales: 3, Revenue: 1500},
		{Date: "2026-08-27", Sales: 1, Revenue: 900},
	}

	series, err := svc.DailySeries(context.Background(), start, end)
	assert.NoError(t, err)
	assert.Len(t, series, 7)

	// One entry per calendar day, ascending, zero-filled where no orders.
	for i, entry := range series {
		expectedDate := start.AddDate(0, 0, i).Format("2006-01-02")
		assert.Equal(t, expectedDate, entry.Date)
	}
	assert.Equal(t, models.DailySales{Date: "2026-08-22"}, series[0])
	assert.Equal(t, models.DailySales{Date: "2026-08-24", Sales: 3, Revenue: 1500}, series[2])
	assert.Equal(t, models.DailySales{Date: "2026-08-27", Sales: 1, Revenue: 900}, series[5])
	assert.Equal(t, models.DailySales{Date: "2026-08-28"}, series[6])
}

func TestAnalytics_DailySeriesSingleDayRange(t *testing.T) {
	orders := newMockOrderRepo(nil)
	svc := services.NewAnalyticsService(newMockUserRepo(), newMockProductRepo(), orders)

	day := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	series, err := svc.DailySeries(context.Background(), day, day)
	assert.NoError(t, err)
	assert.Len(t, series, 1)
	assert.Equal(t, "2026-08-28", series[0].Date)
}
