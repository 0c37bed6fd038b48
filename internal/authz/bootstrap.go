package authz

import "fmt"

// 预置角色
const (
	RoleReadonlyAuditor = "readonly_auditor"
	RoleCatalogManager  = "catalog_manager"
	RoleOrderManager    = "order_manager"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role        string
	Description string
	Inherits    []string
	Policies    []Policy
}

// BuiltinRoleSeeds 店铺后台预置角色：审计只读，目录运营可清空库存，订单运营可调整会员等级
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role:        RoleReadonlyAuditor,
			Description: "read-only access to reports, orders and inventory",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:        RoleCatalogManager,
			Description: "inventory reporting and bulk inventory clearing",
			Inherits:    []string{RoleReadonlyAuditor},
			Policies: []Policy{
				{Object: "/admin/products/clear-inventory", Action: "POST"},
			},
		},
		{
			Role:        RoleOrderManager,
			Description: "order review and customer membership changes",
			Inherits:    []string{RoleReadonlyAuditor},
			Policies: []Policy{
				{Object: "/admin/customers/:id/membership", Action: "PATCH"},
			},
		},
	}
}

func isBuiltinPolicy(role, object, action string) bool {
	for _, seed := range BuiltinRoleSeeds() {
		if rolePrefix+seed.Role != role {
			continue
		}
		for _, policy := range seed.Policies {
			if NormalizeObject(policy.Object) == object && NormalizeAction(policy.Action) == action {
				return true
			}
		}
	}
	return false
}

// BootstrapBuiltinRoles 初始化预置角色、继承关系与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", seed.Role, err)
		}
		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return fmt.Errorf("seed role %s: %w", parent, err)
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("seed policy for %s: %w", seed.Role, err)
			}
		}
	}
	return nil
}
