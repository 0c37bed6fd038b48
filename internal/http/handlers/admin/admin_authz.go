package admin

import (
	"errors"
	"net/url"
	"strings"

	"github.com/dujiao-next/storefront/internal/authz"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/logger"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzSetUserRolesPayload struct {
	Roles []string `json:"roles"`
}

// GetAuthzMe 获取当前员工权限快照
func (h *Handler) GetAuthzMe(c *gin.Context) {
	userID, ok := getOperatorID(c)
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}
	policies, err := h.AuthzService.GetUserPolicies(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}

	response.Success(c, gin.H{
		"user_id":      userID,
		"is_superuser": c.GetBool(constants.ContextKeyIsSuper),
		"roles":        roles,
		"policies":     policies,
	})
}

type authzRoleView struct {
	Role        string `json:"role"`
	Builtin     bool   `json:"builtin"`
	Description string `json:"description,omitempty"`
}

// ListAuthzRoles 获取角色列表，预置角色附带说明
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}
	builtin := make(map[string]string)
	for _, seed := range authz.BuiltinRoleSeeds() {
		if name, err := authz.NormalizeRole(seed.Role); err == nil {
			builtin[name] = seed.Description
		}
	}
	views := make([]authzRoleView, 0, len(roles))
	for _, role := range roles {
		description, ok := builtin[role]
		views = append(views, authzRoleView{Role: role, Builtin: ok, Description: description})
	}
	response.Success(c, views)
}

// CreateAuthzRole 创建角色
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", err)
		return
	}

	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", err)
		return
	}

	operatorID, _ := getOperatorID(c)
	logger.Infow("admin_authz_role_created",
		"operator_user_id", operatorID,
		"role", role,
		"request_id", currentRequestID(c),
	)

	response.Created(c, gin.H{"role": role})
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", nil)
		return
	}

	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 授予角色策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_policy_invalid", err)
		return
	}

	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_policy_invalid", err)
		return
	}

	operatorID, _ := getOperatorID(c)
	logger.Infow("admin_authz_policy_granted",
		"operator_user_id", operatorID,
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)

	response.Success(c, nil)
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_policy_invalid", err)
		return
	}

	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		if errors.Is(err, authz.ErrBuiltinImmutable) {
			respondError(c, response.CodeConflict, "error.authz_builtin_immutable", err)
			return
		}
		respondError(c, response.CodeBadRequest, "error.authz_policy_invalid", err)
		return
	}

	operatorID, _ := getOperatorID(c)
	logger.Infow("admin_authz_policy_revoked",
		"operator_user_id", operatorID,
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)

	response.Success(c, nil)
}

// GetAuthzUserRoles 获取用户角色
func (h *Handler) GetAuthzUserRoles(c *gin.Context) {
	userID, ok := parseIDParam(c, "id", "error.user_not_found")
	if !ok {
		return
	}
	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}

	roles, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}
	response.Success(c, roles)
}

// SetAuthzUserRoles 设置用户角色（仅员工账号可授予角色）
func (h *Handler) SetAuthzUserRoles(c *gin.Context) {
	userID, ok := parseIDParam(c, "id", "error.user_not_found")
	if !ok {
		return
	}
	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_update_failed", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}

	var req authzSetUserRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if len(req.Roles) > 0 && !user.IsStaff {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", nil)
		return
	}

	if err := h.AuthzService.SetUserRoles(userID, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", err)
		return
	}

	operatorID, _ := getOperatorID(c)
	logger.Infow("admin_authz_user_roles_updated",
		"operator_user_id", operatorID,
		"target_user_id", userID,
		"roles", req.Roles,
	)

	response.Success(c, nil)
}

func decodeRoleParam(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(decoded)
}
