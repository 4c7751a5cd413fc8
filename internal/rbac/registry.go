package rbac

// 系统预定义角色常量
// 每个会话取第一个角色作为主角色，权限完全由角色静态映射得出
const (
	RoleSuperAdmin      = "super_admin"      // 超级管理员
	RoleAdmin           = "admin"            // 平台管理员
	RoleModerator       = "moderator"        // 审核管理员
	RoleSupport         = "support"          // 客服
	RoleRiderAdmin      = "rider_admin"      // 骑手管理员
	RoleOperationsAdmin = "operations_admin" // 运营管理员
)

// AllRoles 全部角色枚举
var AllRoles = []string{
	RoleSuperAdmin,
	RoleAdmin,
	RoleModerator,
	RoleSupport,
	RoleRiderAdmin,
	RoleOperationsAdmin,
}

// ElevatedRoles 可进入管理台的角色层级
var ElevatedRoles = []string{
	RoleSuperAdmin,
	RoleAdmin,
	RoleModerator,
}

// 商家管理权限
const (
	PermVendorList    = "vendor:list"
	PermVendorRead    = "vendor:read"
	PermVendorCreate  = "vendor:create"
	PermVendorUpdate  = "vendor:update"
	PermVendorDelete  = "vendor:delete"
	PermVendorApprove = "vendor:approve"
	PermVendorSuspend = "vendor:suspend"
)

// 骑手管理权限
const (
	PermRiderList    = "rider:list"
	PermRiderRead    = "rider:read"
	PermRiderUpdate  = "rider:update"
	PermRiderApprove = "rider:approve"
	PermRiderSuspend = "rider:suspend"
	PermRiderDelete  = "rider:delete"
)

// 订单管理权限
const (
	PermOrderList   = "order:list"
	PermOrderRead   = "order:read"
	PermOrderAssign = "order:assign"
	PermOrderCancel = "order:cancel"
	PermOrderRefund = "order:refund"
)

// 促销活动管理权限
const (
	PermPromotionList   = "promotion:list"
	PermPromotionRead   = "promotion:read"
	PermPromotionCreate = "promotion:create"
	PermPromotionUpdate = "promotion:update"
	PermPromotionDelete = "promotion:delete"
	PermPromotionToggle = "promotion:toggle"
)

// 广告管理权限
const (
	PermAdList   = "ad:list"
	PermAdRead   = "ad:read"
	PermAdCreate = "ad:create"
	PermAdUpdate = "ad:update"
	PermAdDelete = "ad:delete"
	PermAdToggle = "ad:toggle"
)

// 员工管理权限
const (
	PermUserList   = "user:list"
	PermUserRead   = "user:read"
	PermUserCreate = "user:create"
	PermUserUpdate = "user:update"
	PermUserDelete = "user:delete"
)

// 仪表盘与实时数据权限
const (
	PermDashboardView = "dashboard:view"
	PermLiveView      = "live:view"
)

// PermissionDef 权限定义，用于权限列表接口与种子校验
type PermissionDef struct {
	Code        string `json:"code"`        // 权限代码，如 "vendor:approve"
	Name        string `json:"name"`        // 权限名称
	Module      string `json:"module"`      // 所属模块
	Action      string `json:"action"`      // 操作类型
	Description string `json:"description"` // 权限描述
}

// permissionDefs 全部权限定义
var permissionDefs = []PermissionDef{
	// 商家管理
	{Code: PermVendorList, Name: "商家列表", Module: "vendor", Action: "list", Description: "查看商家列表"},
	{Code: PermVendorRead, Name: "查看商家", Module: "vendor", Action: "read", Description: "查看商家详情"},
	{Code: PermVendorCreate, Name: "创建商家", Module: "vendor", Action: "create", Description: "创建新商家"},
	{Code: PermVendorUpdate, Name: "更新商家", Module: "vendor", Action: "update", Description: "更新商家信息"},
	{Code: PermVendorDelete, Name: "删除商家", Module: "vendor", Action: "delete", Description: "删除商家"},
	{Code: PermVendorApprove, Name: "审核商家", Module: "vendor", Action: "approve", Description: "审核通过或驳回商家入驻申请"},
	{Code: PermVendorSuspend, Name: "封禁商家", Module: "vendor", Action: "suspend", Description: "封禁或恢复商家"},

	// 骑手管理
	{Code: PermRiderList, Name: "骑手列表", Module: "rider", Action: "list", Description: "查看骑手列表"},
	{Code: PermRiderRead, Name: "查看骑手", Module: "rider", Action: "read", Description: "查看骑手详情"},
	{Code: PermRiderUpdate, Name: "更新骑手", Module: "rider", Action: "update", Description: "更新骑手信息"},
	{Code: PermRiderApprove, Name: "审核骑手", Module: "rider", Action: "approve", Description: "审核通过或驳回骑手注册申请"},
	{Code: PermRiderSuspend, Name: "封禁骑手", Module: "rider", Action: "suspend", Description: "封禁或恢复骑手"},
	{Code: PermRiderDelete, Name: "删除骑手", Module: "rider", Action: "delete", Description: "删除骑手"},

	// 订单管理
	{Code: PermOrderList, Name: "订单列表", Module: "order", Action: "list", Description: "查看订单列表"},
	{Code: PermOrderRead, Name: "查看订单", Module: "order", Action: "read", Description: "查看订单详情"},
	{Code: PermOrderAssign, Name: "指派骑手", Module: "order", Action: "assign", Description: "为订单指派配送骑手"},
	{Code: PermOrderCancel, Name: "取消订单", Module: "order", Action: "cancel", Description: "取消订单"},
	{Code: PermOrderRefund, Name: "订单退款", Module: "order", Action: "refund", Description: "发起订单退款"},

	// 促销活动管理
	{Code: PermPromotionList, Name: "活动列表", Module: "promotion", Action: "list", Description: "查看促销活动列表"},
	{Code: PermPromotionRead, Name: "查看活动", Module: "promotion", Action: "read", Description: "查看促销活动详情"},
	{Code: PermPromotionCreate, Name: "创建活动", Module: "promotion", Action: "create", Description: "创建促销活动"},
	{Code: PermPromotionUpdate, Name: "更新活动", Module: "promotion", Action: "update", Description: "更新促销活动"},
	{Code: PermPromotionDelete, Name: "删除活动", Module: "promotion", Action: "delete", Description: "删除促销活动"},
	{Code: PermPromotionToggle, Name: "上下线活动", Module: "promotion", Action: "toggle", Description: "上线或下线促销活动"},

	// 广告管理
	{Code: PermAdList, Name: "广告列表", Module: "ad", Action: "list", Description: "查看广告列表"},
	{Code: PermAdRead, Name: "查看广告", Module: "ad", Action: "read", Description: "查看广告详情"},
	{Code: PermAdCreate, Name: "创建广告", Module: "ad", Action: "create", Description: "创建广告"},
	{Code: PermAdUpdate, Name: "更新广告", Module: "ad", Action: "update", Description: "更新广告"},
	{Code: PermAdDelete, Name: "删除广告", Module: "ad", Action: "delete", Description: "删除广告"},
	{Code: PermAdToggle, Name: "暂停恢复广告", Module: "ad", Action: "toggle", Description: "暂停或恢复广告投放"},

	// 员工管理
	{Code: PermUserList, Name: "员工列表", Module: "user", Action: "list", Description: "查看员工列表"},
	{Code: PermUserRead, Name: "查看员工", Module: "user", Action: "read", Description: "查看员工信息"},
	{Code: PermUserCreate, Name: "创建员工", Module: "user", Action: "create", Description: "创建新员工账号"},
	{Code: PermUserUpdate, Name: "更新员工", Module: "user", Action: "update", Description: "更新员工信息"},
	{Code: PermUserDelete, Name: "删除员工", Module: "user", Action: "delete", Description: "删除员工账号"},

	// 仪表盘与实时数据
	{Code: PermDashboardView, Name: "查看仪表盘", Module: "dashboard", Action: "view", Description: "查看平台统计数据"},
	{Code: PermLiveView, Name: "查看实时数据", Module: "live", Action: "view", Description: "查看进行中订单与在线骑手"},
}

// rolePermissions 角色到权限集的静态映射
// 每个角色都必须有条目（允许为空）；super_admin 的权限集等于全部权限
var rolePermissions = map[string][]string{
	RoleSuperAdmin: AllPermissionCodes(),

	RoleAdmin: {
		PermVendorList, PermVendorRead, PermVendorCreate, PermVendorUpdate, PermVendorDelete,
		PermVendorApprove, PermVendorSuspend,
		PermRiderList, PermRiderRead, PermRiderUpdate, PermRiderApprove, PermRiderSuspend, PermRiderDelete,
		PermOrderList, PermOrderRead, PermOrderAssign, PermOrderCancel, PermOrderRefund,
		PermPromotionList, PermPromotionRead, PermPromotionCreate, PermPromotionUpdate,
		PermPromotionDelete, PermPromotionToggle,
		PermAdList, PermAdRead, PermAdCreate, PermAdUpdate, PermAdDelete, PermAdToggle,
		PermUserList, PermUserRead, PermUserCreate, PermUserUpdate,
		PermDashboardView, PermLiveView,
	},

	RoleModerator: {
		PermVendorList, PermVendorRead, PermVendorUpdate, PermVendorApprove, PermVendorSuspend,
		PermRiderList, PermRiderRead, PermRiderApprove, PermRiderSuspend,
		PermOrderList, PermOrderRead, PermOrderCancel,
		PermPromotionList, PermPromotionRead, PermPromotionToggle,
		PermAdList, PermAdRead, PermAdToggle,
		PermDashboardView, PermLiveView,
	},

	RoleSupport: {
		PermVendorList, PermVendorRead,
		PermRiderList, PermRiderRead,
		PermOrderList, PermOrderRead,
		PermPromotionList, PermPromotionRead,
		PermAdList, PermAdRead,
		PermDashboardView,
	},

	RoleRiderAdmin: {
		PermRiderList, PermRiderRead, PermRiderUpdate, PermRiderApprove, PermRiderSuspend, PermRiderDelete,
		PermOrderList, PermOrderRead, PermOrderAssign,
		PermDashboardView, PermLiveView,
	},

	RoleOperationsAdmin: {
		PermVendorList, PermVendorRead,
		PermRiderList, PermRiderRead,
		PermOrderList, PermOrderRead, PermOrderAssign, PermOrderCancel, PermOrderRefund,
		PermPromotionList, PermPromotionRead, PermPromotionCreate, PermPromotionUpdate, PermPromotionToggle,
		PermAdList, PermAdRead, PermAdCreate, PermAdUpdate, PermAdToggle,
		PermDashboardView, PermLiveView,
	},
}

// AllPermissions 返回全部权限定义
func AllPermissions() []PermissionDef {
	defs := make([]PermissionDef, len(permissionDefs))
	copy(defs, permissionDefs)
	return defs
}

// AllPermissionCodes 返回全部权限代码
func AllPermissionCodes() []string {
	codes := make([]string, 0, len(permissionDefs))
	for _, def := range permissionDefs {
		codes = append(codes, def.Code)
	}
	return codes
}

// PermissionsByModule 按模块返回权限定义
func PermissionsByModule(module string) []PermissionDef {
	var defs []PermissionDef
	for _, def := range permissionDefs {
		if def.Module == module {
			defs = append(defs, def)
		}
	}
	return defs
}

// RolePermissions 返回角色的静态权限代码列表
// 未知角色返回空列表（等价于没有任何权限）
func RolePermissions(role string) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return []string{}
	}
	result := make([]string, len(perms))
	copy(result, perms)
	return result
}

// IsValidRole 检查角色是否在枚举内
func IsValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// IsElevated 检查角色是否属于可进入管理台的层级
func IsElevated(role string) bool {
	for _, r := range ElevatedRoles {
		if r == role {
			return true
		}
	}
	return false
}
