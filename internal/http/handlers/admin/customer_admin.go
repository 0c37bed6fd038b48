package admin

import (
	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UpdateMembershipRequest 修改会员等级请求
type UpdateMembershipRequest struct {
	Membership string `json:"membership" binding:"required,membership"`
}

// UpdateCustomerMembership 修改顾客会员等级
func (h *Handler) UpdateCustomerMembership(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	customerID, ok := parseIDParam(c, "id", "error.customer_not_found")
	if !ok {
		return
	}
	var req UpdateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.membership_invalid", err)
		return
	}
	customer, err := h.CustomerService.UpdateMembership(customerID, req.Membership, operatorID)
	if err != nil {
		respondWithMappedError(c, err, customerErrorRules, response.CodeInternal, "error.customer_update_failed")
		return
	}
	response.Success(c, customer)
}
