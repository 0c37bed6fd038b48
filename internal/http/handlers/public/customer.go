package public

import (
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CustomerProfileRequest 顾客资料请求
type CustomerProfileRequest struct {
	Phone      *string `json:"phone"`
	BirthDate  *string `json:"birth_date"`
	Membership *string `json:"membership" binding:"omitempty,membership"`
}

func (r CustomerProfileRequest) toInput() service.CustomerProfileInput {
	return service.CustomerProfileInput{
		Phone:      r.Phone,
		BirthDate:  r.BirthDate,
		Membership: r.Membership,
	}
}

// GetMyCustomer 获取本人顾客档案
func (h *Handler) GetMyCustomer(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	customer, err := h.CustomerService.GetByUser(uid)
	if err != nil {
		respondWithMappedError(c, err, customerErrorRules, response.CodeInternal, "error.customer_fetch_failed")
		return
	}
	response.Success(c, customer)
}

// UpdateMyCustomer 更新本人顾客档案（会员等级不可自行修改）
func (h *Handler) UpdateMyCustomer(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CustomerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	customer, err := h.CustomerService.UpdateProfile(uid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, customerErrorRules, response.CodeInternal, "error.customer_update_failed")
		return
	}
	response.Success(c, customer)
}

// GetCustomers 员工查看顾客列表
func (h *Handler) GetCustomers(c *gin.Context) {
	page, pageSize := parsePagination(c)
	customers, total, err := h.CustomerService.List(service.CustomerListInput{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		Membership: c.Query("membership"),
	})
	if err != nil {
		respondWithMappedError(c, err, customerErrorRules, response.CodeInternal, "error.customer_fetch_failed")
		return
	}
	response.SuccessWithPage(c, customers, response.BuildPagination(page, pageSize, total))
}

// GetCustomer 员工查看顾客详情
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.customer_not_found")
	if !ok {
		return
	}
	customer, err := h.CustomerService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, customerErrorRules, response.CodeInternal, "error.customer_fetch_failed")
		return
	}
	response.Success(c, customer)
}

// UpdateCustomer 员工更新顾客档案
func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.customer_not_found")
	if !ok {
		return
	}
	var req CustomerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.membership_invalid", err)
		return
	}
	customer, err := h.CustomerService.Update(id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, customerErrorRules, response.CodeInternal, "error.customer_update_failed")
		return
	}
	response.Success(c, customer)
}
