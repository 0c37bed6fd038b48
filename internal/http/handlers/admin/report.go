package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// GetReportOverview 获取经营总览
func (h *Handler) GetReportOverview(c *gin.Context) {
	input, err := parseReportQuery(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.report_range_invalid", err)
		return
	}

	data, err := h.ReportService.GetOverview(c.Request.Context(), input)
	if err != nil {
		respondWithMappedError(c, err, reportErrorRules, response.CodeInternal, "error.report_fetch_failed")
		return
	}

	response.Success(c, data)
}

// GetInventoryReport 获取库存报表（level=low|medium|high）
func (h *Handler) GetInventoryReport(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	items, total, err := h.ReportService.ListInventory(service.InventoryListInput{
		Page:     page,
		PageSize: pageSize,
		Level:    c.Query("level"),
	})
	if err != nil {
		respondWithMappedError(c, err, reportErrorRules, response.CodeInternal, "error.report_fetch_failed")
		return
	}

	response.SuccessWithPage(c, items, response.BuildPagination(page, pageSize, total))
}

func parseReportQuery(c *gin.Context) (service.ReportQueryInput, error) {
	rangeRaw := strings.TrimSpace(c.DefaultQuery("range", "7d"))
	timezone := strings.TrimSpace(c.Query("tz"))
	forceRefreshRaw := strings.TrimSpace(c.Query("force_refresh"))

	from, err := parseTimeNullable(strings.TrimSpace(c.Query("from")))
	if err != nil {
		return service.ReportQueryInput{}, err
	}
	to, err := parseTimeNullable(strings.TrimSpace(c.Query("to")))
	if err != nil {
		return service.ReportQueryInput{}, err
	}

	forceRefresh := false
	if forceRefreshRaw != "" {
		parsed, err := strconv.ParseBool(forceRefreshRaw)
		if err != nil {
			return service.ReportQueryInput{}, err
		}
		forceRefresh = parsed
	}

	return service.ReportQueryInput{
		Range:        rangeRaw,
		From:         from,
		To:           to,
		Timezone:     timezone,
		ForceRefresh: forceRefresh,
	}, nil
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
