package repository

import (
	"fmt"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// ReportRepository 后台报表聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type ReportRepository interface {
	GetOverview(startAt, endAt time.Time) (ReportOverviewRow, error)
	GetOrderTrends(startAt, endAt time.Time) ([]ReportOrderTrendRow, error)
	GetStockStats(lowStockThreshold int) (ReportStockStatsRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]ReportProductRankingRow, error)
	ListInventory(filter InventoryListFilter) ([]models.Product, int64, error)
}

// ReportOverviewRow 报表总览原始统计结果
type ReportOverviewRow struct {
	OrdersTotal      int64
	PendingOrders    int64
	CompletedOrders  int64
	FailedOrders     int64
	CompletedRevenue float64
	NewCustomers     int64
	Products         int64
	Collections      int64
	Customers        int64
}

// ReportOrderTrendRow 订单趋势统计
type ReportOrderTrendRow struct {
	Day             string
	OrdersTotal     int64
	OrdersCompleted int64
	Revenue         float64
}

// ReportStockStatsRow 库存统计
type ReportStockStatsRow struct {
	OutOfStockProducts int64
	LowStockProducts   int64
	InventoryUnits     int64
}

// ReportProductRankingRow 商品排行原始行
type ReportProductRankingRow struct {
	ProductID       uint
	Title           string
	CompletedOrders int64
	Quantity        int64
	Revenue         float64
}

// GormReportRepository GORM 报表聚合实现
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓库
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

const orderRevenueExpr = "COALESCE(SUM(order_items.quantity * order_items.unit_price), 0)"

// GetOverview 获取总览统计
func (r *GormReportRepository) GetOverview(startAt, endAt time.Time) (ReportOverviewRow, error) {
	result := ReportOverviewRow{}

	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{}).
			Where("placed_at >= ? AND placed_at < ?", startAt, endAt)
	}

	if err := orderBase().Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("payment_status = ?", constants.OrderStatusPending).Count(&result.PendingOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("payment_status = ?", constants.OrderStatusCompleted).Count(&result.CompletedOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("payment_status = ?", constants.OrderStatusFailed).Count(&result.FailedOrders).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.placed_at >= ? AND orders.placed_at < ? AND orders.payment_status = ?", startAt, endAt, constants.OrderStatusCompleted).
		Select(orderRevenueExpr).
		Scan(&result.CompletedRevenue).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Customer{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewCustomers).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Customer{}).Count(&result.Customers).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).Count(&result.Products).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Collection{}).Count(&result.Collections).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetOrderTrends 获取订单趋势
func (r *GormReportRepository) GetOrderTrends(startAt, endAt time.Time) ([]ReportOrderTrendRow, error) {
	type totalRow struct {
		Day   string
		Total int64
	}
	type revenueRow struct {
		Day       string
		Completed int64
		Revenue   float64
	}

	dayExpr := "CAST(date(orders.placed_at) AS TEXT)"

	var totals []totalRow
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("orders.placed_at >= ? AND orders.placed_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var revenues []revenueRow
	if err := r.db.Model(&models.OrderItem{}).
		Select(fmt.Sprintf("%s as day, COUNT(DISTINCT orders.id) as completed, %s as revenue", dayExpr, orderRevenueExpr)).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.placed_at >= ? AND orders.placed_at < ? AND orders.payment_status = ?", startAt, endAt, constants.OrderStatusCompleted).
		Group(dayExpr).
		Order("day asc").
		Scan(&revenues).Error; err != nil {
		return nil, err
	}

	revenueMap := make(map[string]revenueRow, len(revenues))
	for _, item := range revenues {
		revenueMap[item.Day] = item
	}

	result := make([]ReportOrderTrendRow, 0, len(totals))
	for _, item := range totals {
		revenue := revenueMap[item.Day]
		result = append(result, ReportOrderTrendRow{
			Day:             item.Day,
			OrdersTotal:     item.Total,
			OrdersCompleted: revenue.Completed,
			Revenue:         revenue.Revenue,
		})
	}
	return result, nil
}

// GetStockStats 获取库存统计
func (r *GormReportRepository) GetStockStats(lowStockThreshold int) (ReportStockStatsRow, error) {
	result := ReportStockStatsRow{}
	if err := r.db.Model(&models.Product{}).Where("inventory <= 0").Count(&result.OutOfStockProducts).Error; err != nil {
		return result, err
	}
	if lowStockThreshold > 0 {
		if err := r.db.Model(&models.Product{}).
			Where("inventory > 0 AND inventory < ?", lowStockThreshold).
			Count(&result.LowStockProducts).Error; err != nil {
			return result, err
		}
	}
	if err := r.db.Model(&models.Product{}).Select("COALESCE(SUM(inventory), 0)").Scan(&result.InventoryUnits).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetTopProducts 获取已完成订单的商品排行
func (r *GormReportRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]ReportProductRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]ReportProductRankingRow, 0)
	if err := r.db.Model(&models.OrderItem{}).
		Select(fmt.Sprintf(`
			order_items.product_id as product_id,
			COALESCE(products.title, '') as title,
			COUNT(DISTINCT order_items.order_id) as completed_orders,
			COALESCE(SUM(order_items.quantity), 0) as quantity,
			%s as revenue
		`, orderRevenueExpr)).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("orders.placed_at >= ? AND orders.placed_at < ? AND orders.payment_status = ?", startAt, endAt, constants.OrderStatusCompleted).
		Group("order_items.product_id, products.title").
		Order("revenue DESC, quantity DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListInventory 库存列表（按库存升序）
func (r *GormReportRepository) ListInventory(filter InventoryListFilter) ([]models.Product, int64, error) {
	query := applyInventoryLevelFilter(r.db.Model(&models.Product{}), filter.Level, filter.LowStock, filter.HighStock)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("inventory asc, title asc, id asc").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
