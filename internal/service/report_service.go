package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

const (
	reportCacheTTL        = 45 * time.Second
	reportCustomMaxDays   = 90
	reportTopProductLimit = 5
)

// ReportService 后台报表服务
// 说明：聚合后台库存与订单经营数据。
type ReportService struct {
	repo    repository.ReportRepository
	catalog config.CatalogConfig
}

// NewReportService 创建报表服务
func NewReportService(repo repository.ReportRepository, catalog config.CatalogConfig) *ReportService {
	return &ReportService{repo: repo, catalog: catalog}
}

// ReportQueryInput 报表查询输入
type ReportQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// ReportOverviewResponse 报表总览响应
type ReportOverviewResponse struct {
	Range       string                 `json:"range"`
	From        string                 `json:"from"`
	To          string                 `json:"to"`
	Timezone    string                 `json:"timezone"`
	KPI         ReportKPI              `json:"kpi"`
	Trends      []ReportTrendPoint     `json:"trends"`
	TopProducts []ReportProductRanking `json:"top_products"`
	Alerts      []ReportAlertItem      `json:"alerts"`
}

// ReportKPI 核心指标
type ReportKPI struct {
	OrdersTotal        int64  `json:"orders_total"`
	PendingOrders      int64  `json:"pending_orders"`
	CompletedOrders    int64  `json:"completed_orders"`
	FailedOrders       int64  `json:"failed_orders"`
	CompletedRevenue   string `json:"completed_revenue"`
	CompletionRate     string `json:"completion_rate"`
	NewCustomers       int64  `json:"new_customers"`
	Customers          int64  `json:"customers"`
	Products           int64  `json:"products"`
	Collections        int64  `json:"collections"`
	OutOfStockProducts int64  `json:"out_of_stock_products"`
	LowStockProducts   int64  `json:"low_stock_products"`
	InventoryUnits     int64  `json:"inventory_units"`
}

// ReportTrendPoint 趋势点
type ReportTrendPoint struct {
	Date            string `json:"date"`
	OrdersTotal     int64  `json:"orders_total"`
	OrdersCompleted int64  `json:"orders_completed"`
	Revenue         string `json:"revenue"`
}

// ReportProductRanking 商品排行项
type ReportProductRanking struct {
	ProductID       uint   `json:"product_id"`
	Title           string `json:"title"`
	CompletedOrders int64  `json:"completed_orders"`
	Quantity        int64  `json:"quantity"`
	Revenue         string `json:"revenue"`
}

// ReportAlertItem 告警项
type ReportAlertItem struct {
	Type  string `json:"type"`
	Level string `json:"level"`
	Value int64  `json:"value"`
}

// InventoryItem 库存报表行
type InventoryItem struct {
	ID              uint         `json:"id"`
	Title           string       `json:"title"`
	Price           models.Money `json:"price"`
	Inventory       int          `json:"inventory"`
	InventoryStatus string       `json:"inventory_status"`
	CollectionID    uint         `json:"collection"`
	LastUpdate      time.Time    `json:"last_update"`
}

// InventoryListInput 库存报表查询输入
type InventoryListInput struct {
	Page     int
	PageSize int
	Level    string
}

type reportWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

// GetOverview 获取报表总览
func (s *ReportService) GetOverview(ctx context.Context, input ReportQueryInput) (*ReportOverviewResponse, error) {
	window, err := resolveReportWindow(input, time.Now())
	if err != nil {
		return nil, err
	}
	low := s.lowStockThreshold()

	cacheKey := fmt.Sprintf("report:overview:%s:%d:%d:%s:%d",
		window.rangeKey,
		window.startAt.Unix(),
		window.endAt.Unix(),
		window.timezone,
		low,
	)
	if !input.ForceRefresh {
		var cached ReportOverviewResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetOverview(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	stockStats, err := s.repo.GetStockStats(low)
	if err != nil {
		return nil, err
	}
	trendRows, err := s.repo.GetOrderTrends(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	productRows, err := s.repo.GetTopProducts(window.startAt, window.endAt, reportTopProductLimit)
	if err != nil {
		return nil, err
	}

	completionRate := 0.0
	if overview.OrdersTotal > 0 {
		completionRate = float64(overview.CompletedOrders) / float64(overview.OrdersTotal) * 100
	}

	response := &ReportOverviewResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		KPI: ReportKPI{
			OrdersTotal:        overview.OrdersTotal,
			PendingOrders:      overview.PendingOrders,
			CompletedOrders:    overview.CompletedOrders,
			FailedOrders:       overview.FailedOrders,
			CompletedRevenue:   formatMoneyValue(overview.CompletedRevenue),
			CompletionRate:     formatPercentValue(completionRate),
			NewCustomers:       overview.NewCustomers,
			Customers:          overview.Customers,
			Products:           overview.Products,
			Collections:        overview.Collections,
			OutOfStockProducts: stockStats.OutOfStockProducts,
			LowStockProducts:   stockStats.LowStockProducts,
			InventoryUnits:     stockStats.InventoryUnits,
		},
		Trends:      buildReportTrendPoints(window, trendRows),
		TopProducts: buildReportProductRankings(productRows),
		Alerts:      buildReportAlerts(overview, stockStats),
	}

	_ = cache.SetJSON(ctx, cacheKey, response, reportCacheTTL)
	return response, nil
}

// ListInventory 库存报表（含库存状态文案）
func (s *ReportService) ListInventory(input InventoryListInput) ([]InventoryItem, int64, error) {
	level := strings.ToLower(strings.TrimSpace(input.Level))
	switch level {
	case "", constants.InventoryLevelLow, constants.InventoryLevelMedium, constants.InventoryLevelHigh:
	default:
		return nil, 0, ErrInventoryLevelInvalid
	}
	products, total, err := s.repo.ListInventory(repository.InventoryListFilter{
		Page:      input.Page,
		PageSize:  input.PageSize,
		Level:     level,
		LowStock:  s.lowStockThreshold(),
		HighStock: s.highStockThreshold(),
	})
	if err != nil {
		return nil, 0, err
	}
	items := make([]InventoryItem, 0, len(products))
	for _, product := range products {
		items = append(items, InventoryItem{
			ID:              product.ID,
			Title:           product.Title,
			Price:           product.Price,
			Inventory:       product.Inventory,
			InventoryStatus: s.InventoryStatus(product.Inventory),
			CollectionID:    product.CollectionID,
			LastUpdate:      product.LastUpdate,
		})
	}
	return items, total, nil
}

// InventoryStatus 库存状态文案
func (s *ReportService) InventoryStatus(inventory int) string {
	switch {
	case inventory <= 0:
		return constants.InventoryStatusOutOfStock
	case inventory <= s.lowStockThreshold():
		return constants.InventoryStatusRunningLow
	case inventory <= s.highStockThreshold():
		return constants.InventoryStatusAdequate
	default:
		return constants.InventoryStatusInStock
	}
}

func (s *ReportService) lowStockThreshold() int {
	if s.catalog.LowStockThreshold <= 0 {
		return 10
	}
	return s.catalog.LowStockThreshold
}

func (s *ReportService) highStockThreshold() int {
	if s.catalog.HighStockThreshold <= s.lowStockThreshold() {
		return 90
	}
	return s.catalog.HighStockThreshold
}

func buildReportTrendPoints(window reportWindow, rows []repository.ReportOrderTrendRow) []ReportTrendPoint {
	rowMap := make(map[string]repository.ReportOrderTrendRow, len(rows))
	for _, item := range rows {
		rowMap[item.Day] = item
	}
	points := make([]ReportTrendPoint, 0)
	for cursor := time.Date(window.startAt.Year(), window.startAt.Month(), window.startAt.Day(), 0, 0, 0, 0, window.startAt.Location()); cursor.Before(window.endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		item := rowMap[day]
		points = append(points, ReportTrendPoint{
			Date:            day,
			OrdersTotal:     item.OrdersTotal,
			OrdersCompleted: item.OrdersCompleted,
			Revenue:         formatMoneyValue(item.Revenue),
		})
	}
	return points
}

func buildReportProductRankings(rows []repository.ReportProductRankingRow) []ReportProductRanking {
	products := make([]ReportProductRanking, 0, len(rows))
	for _, item := range rows {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "-"
		}
		products = append(products, ReportProductRanking{
			ProductID:       item.ProductID,
			Title:           title,
			CompletedOrders: item.CompletedOrders,
			Quantity:        item.Quantity,
			Revenue:         formatMoneyValue(item.Revenue),
		})
	}
	return products
}

func resolveReportWindow(input ReportQueryInput, now time.Time) (reportWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := reportWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return reportWindow{}, ErrReportRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) {
			return reportWindow{}, ErrReportRangeInvalid
		}
		if endAt.Sub(startAt) > time.Hour*24*reportCustomMaxDays {
			return reportWindow{}, ErrReportRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return reportWindow{}, ErrReportRangeInvalid
	}

	if !window.endAt.After(window.startAt) {
		return reportWindow{}, ErrReportRangeInvalid
	}
	return window, nil
}

func formatMoneyValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatPercentValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func buildReportAlerts(overview repository.ReportOverviewRow, stockStats repository.ReportStockStatsRow) []ReportAlertItem {
	alerts := make([]ReportAlertItem, 0, 3)
	if stockStats.OutOfStockProducts > 0 {
		alerts = append(alerts, ReportAlertItem{Type: "out_of_stock_products", Level: "error", Value: stockStats.OutOfStockProducts})
	}
	if stockStats.LowStockProducts > 0 {
		alerts = append(alerts, ReportAlertItem{Type: "low_stock_products", Level: "warning", Value: stockStats.LowStockProducts})
	}
	if overview.PendingOrders > 0 {
		alerts = append(alerts, ReportAlertItem{Type: "pending_orders", Level: "warning", Value: overview.PendingOrders})
	}
	return alerts
}
