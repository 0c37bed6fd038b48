package service

import (
	"context"
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReportWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 13, 30, 0, 0, time.UTC)

	window, err := resolveReportWindow(ReportQueryInput{Timezone: "UTC"}, now)
	require.NoError(t, err)
	assert.Equal(t, "7d", window.rangeKey)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), window.startAt)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), window.endAt)

	window, err = resolveReportWindow(ReportQueryInput{Range: "today", Timezone: "UTC"}, now)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, window.endAt.Sub(window.startAt))

	_, err = resolveReportWindow(ReportQueryInput{Range: "1y"}, now)
	assert.ErrorIs(t, err, ErrReportRangeInvalid)

	_, err = resolveReportWindow(ReportQueryInput{Range: "custom"}, now)
	assert.ErrorIs(t, err, ErrReportRangeInvalid)

	from := now.AddDate(0, 0, -100)
	_, err = resolveReportWindow(ReportQueryInput{Range: "custom", From: &from, To: &now}, now)
	assert.ErrorIs(t, err, ErrReportRangeInvalid)

	to := from
	from = now
	_, err = resolveReportWindow(ReportQueryInput{Range: "custom", From: &from, To: &to}, now)
	assert.ErrorIs(t, err, ErrReportRangeInvalid)
}

func TestReportOverviewCountsOrdersAndStock(t *testing.T) {
	s := newTestServices(t)
	collection := s.createCollection(t, "Bakery")
	bread := s.createProduct(t, collection.ID, "Bread", "10.00", 50)
	s.createProduct(t, collection.ID, "Butter", "5.00", 3)
	s.createProduct(t, collection.ID, "Jam", "4.00", 0)
	alice, _ := s.createCustomer(t, "alice@example.com", false)
	staff := Requester{UserID: 99, IsStaff: true}

	completed, err := s.orders.PlaceOrderForUser(alice.ID, s.fillCart(t, map[uint]int{bread.ID: 2}))
	require.NoError(t, err)
	_, err = s.orders.UpdateStatus(staff, completed.ID, constants.OrderStatusCompleted)
	require.NoError(t, err)
	_, err = s.orders.PlaceOrderForUser(alice.ID, s.fillCart(t, map[uint]int{bread.ID: 1}))
	require.NoError(t, err)

	overview, err := s.reports.GetOverview(context.Background(), ReportQueryInput{Range: "today", ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), overview.KPI.OrdersTotal)
	assert.Equal(t, int64(1), overview.KPI.PendingOrders)
	assert.Equal(t, int64(1), overview.KPI.CompletedOrders)
	assert.Equal(t, "20.00", overview.KPI.CompletedRevenue)
	assert.Equal(t, "50.00", overview.KPI.CompletionRate)
	assert.Equal(t, int64(3), overview.KPI.Products)
	assert.Equal(t, int64(1), overview.KPI.OutOfStockProducts)
	assert.Equal(t, int64(1), overview.KPI.LowStockProducts)
	require.NotEmpty(t, overview.TopProducts)
	assert.Equal(t, bread.ID, overview.TopProducts[0].ProductID)

	alertTypes := make([]string, 0, len(overview.Alerts))
	for _, alert := range overview.Alerts {
		alertTypes = append(alertTypes, alert.Type)
	}
	assert.ElementsMatch(t, []string{"out_of_stock_products", "low_stock_products", "pending_orders"}, alertTypes)
}

func TestListInventoryByLevel(t *testing.T) {
	s := newTestServices(t)
	collection := s.createCollection(t, "Bakery")
	s.createProduct(t, collection.ID, "Bread", "10.00", 95)
	s.createProduct(t, collection.ID, "Butter", "5.00", 3)
	s.createProduct(t, collection.ID, "Jam", "4.00", 40)

	items, total, err := s.reports.ListInventory(InventoryListInput{Page: 1, PageSize: 20, Level: "LOW"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Butter", items[0].Title)
	assert.Equal(t, constants.InventoryStatusRunningLow, items[0].InventoryStatus)

	items, _, err = s.reports.ListInventory(InventoryListInput{Page: 1, PageSize: 20, Level: "high"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, constants.InventoryStatusInStock, items[0].InventoryStatus)

	_, total, err = s.reports.ListInventory(InventoryListInput{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, _, err = s.reports.ListInventory(InventoryListInput{Level: "huge"})
	assert.ErrorIs(t, err, ErrInventoryLevelInvalid)
}

func TestErrorKindClassification(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, ErrorKindNotFound, ErrorKind(ErrCartNotFound))
	assert.Equal(t, ErrorKindValidation, ErrorKind(ErrCartEmpty))
	assert.Equal(t, ErrorKindConflict, ErrorKind(ErrProductInUse))
	assert.Equal(t, ErrorKindPermission, ErrorKind(ErrPermissionDenied))
	assert.Equal(t, ErrorKindInternal, ErrorKind(context.DeadlineExceeded))
}
