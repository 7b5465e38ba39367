package controllers

import (
	"net/http"
	"time"

	"storefront-service/apperrors"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// AnalyticsController serves the admin dashboard rollup.
type AnalyticsController struct {
	analytics *services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController.
func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

// GetAnalytics returns the storewide summary and the daily sales series for
// the last seven days. Admin only.
func (ac *AnalyticsController) GetAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := ac.analytics.Summary(ctx)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -7)
	series, err := ac.analytics.DailySeries(ctx, startDate, endDate)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analyticsData":  summary,
		"dailySalesData": series,
	})
}
