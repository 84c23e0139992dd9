package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cryptoclub/cryptoclub-backend-go/models"
	"github.com/cryptoclub/cryptoclub-backend-go/store"
)

// pageViewSample caps how many recent views feed the dashboard numbers,
// matching the dashboard's own read.
const pageViewSample = 1000

type pageCount struct {
	Page  string `json:"page"`
	Count int64  `json:"count"`
}

type statsResponse struct {
	TotalOrders       int64       `json:"total_orders"`
	TotalRevenue      int64       `json:"total_revenue"`
	ThisMonthOrders   int64       `json:"this_month_orders"`
	ThisMonthRevenue  int64       `json:"this_month_revenue"`
	PendingOrders     int64       `json:"pending_orders"`
	AverageOrderValue int64       `json:"average_order_value"`
	TotalPageViews    int64       `json:"total_page_views"`
	TodayViews        int64       `json:"today_views"`
	UniqueSessions    int64       `json:"unique_sessions"`
	ConversionRate    string      `json:"conversion_rate"`
	TopPages          []pageCount `json:"top_pages"`
}

// GetStats aggregates orders and page views for the admin dashboard.
func (h *Handler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	orderDocs, err := h.Orders.List(ctx, "-created_date", 0)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to fetch orders")
	}
	viewDocs, err := h.PageViews.List(ctx, "-created_date", pageViewSample)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to fetch page views")
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	today := now.Format("2006-01-02")

	stats := statsResponse{TopPages: []pageCount{}}
	for _, doc := range orderDocs {
		var order models.Order
		if err := store.Decode(doc, &order); err != nil {
			continue
		}
		stats.TotalOrders++
		stats.TotalRevenue += order.TotalAmount
		if order.Status == models.OrderStatusPending {
			stats.PendingOrders++
		}
		if created, err := time.Parse(time.RFC3339, order.CreatedDate); err == nil && !created.Before(monthStart) {
			stats.ThisMonthOrders++
			stats.ThisMonthRevenue += order.TotalAmount
		}
	}
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / stats.TotalOrders
	}

	sessions := map[string]struct{}{}
	pages := map[string]int64{}
	for _, doc := range viewDocs {
		var view models.PageView
		if err := store.Decode(doc, &view); err != nil {
			continue
		}
		stats.TotalPageViews++
		sessions[view.SessionID] = struct{}{}
		pages[view.Page]++
		if created, err := time.Parse(time.RFC3339, view.CreatedDate); err == nil &&
			created.UTC().Format("2006-01-02") == today {
			stats.TodayViews++
		}
	}
	stats.UniqueSessions = int64(len(sessions))
	if stats.UniqueSessions > 0 {
		stats.ConversionRate = fmt.Sprintf("%.1f", float64(stats.TotalOrders)/float64(stats.UniqueSessions)*100)
	} else {
		stats.ConversionRate = "0"
	}

	for page, count := range pages {
		stats.TopPages = append(stats.TopPages, pageCount{Page: page, Count: count})
	}
	sort.Slice(stats.TopPages, func(i, j int) bool {
		if stats.TopPages[i].Count != stats.TopPages[j].Count {
			return stats.TopPages[i].Count > stats.TopPages[j].Count
		}
		return stats.TopPages[i].Page < stats.TopPages[j].Page
	})
	if len(stats.TopPages) > 5 {
		stats.TopPages = stats.TopPages[:5]
	}

	return c.JSON(http.StatusOK, stats)
}
