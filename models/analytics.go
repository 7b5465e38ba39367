package models

// AnalyticsSummary is the storewide rollup shown on the admin dashboard.
type AnalyticsSummary struct {
	Users        int64   `json:"users"`
	Products     int64   `json:"products"`
	TotalSales   int64   `json:"totalSales"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// DailySales is one calendar-day bucket of the sales series. Date is
// formatted YYYY-MM-DD; days without orders carry zero values.
type DailySales struct {
	Date    string  `json:"date"`
	Sales   int64   `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// CartTotals is the recomputed price view of a cart, optionally net of an
// applied coupon.
type CartTotals struct {
	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total"`
	Coupon   string  `json:"coupon,omitempty"`
}
