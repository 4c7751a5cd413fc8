package handlers

import (
	"fdadmin/internal/rbac"
	"fdadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

// PermissionHandler 权限注册表查询接口
// 权限与角色映射是编译期静态数据，接口只读
type PermissionHandler struct{}

func NewPermissionHandler() *PermissionHandler {
	return &PermissionHandler{}
}

// List 获取全部权限定义
// 支持 module 查询参数按模块过滤
func (h *PermissionHandler) List(c *gin.Context) {
	module := c.Query("module")
	if module != "" {
		response.Success(c, rbac.PermissionsByModule(module))
		return
	}
	response.Success(c, rbac.AllPermissions())
}

// Roles 获取全部角色及其权限集
func (h *PermissionHandler) Roles(c *gin.Context) {
	roles := make([]gin.H, 0, len(rbac.AllRoles))
	for _, role := range rbac.AllRoles {
		roles = append(roles, gin.H{
			"code":        role,
			"elevated":    rbac.IsElevated(role),
			"permissions": rbac.RolePermissions(role),
		})
	}
	response.Success(c, roles)
}
