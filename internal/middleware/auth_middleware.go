package middleware

import (
	"strings"

	"fdadmin/internal/rbac"
	"fdadmin/internal/services"
	"fdadmin/pkg/jwt"
	"fdadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 权限中间件
// RequireLogin 验证JWT并把角色解析出的权限快照写入上下文，
// 其余守卫从上下文读取快照做检查：
//   - RequirePermission    合取（必须同时具备全部权限）
//   - RequireAnyPermission 析取（具备任一即可）
//   - RequireRole / RequireAnyRole 角色标签检查
//   - RequireAdmin         管理台准入（角色层级检查）
type AuthMiddleware struct {
	userService *services.UserService
	jwtManager  *jwt.JWTManager
}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{
		userService: services.NewUserService(),
		jwtManager:  jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

// RequireLogin 要求登录
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从Authorization头获取JWT token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		// 检查Bearer格式
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "认证头格式错误")
			c.Abort()
			return
		}

		// 提取token
		tokenString := authHeader[7:] // 去掉 "Bearer "

		// 验证token
		claims, err := m.jwtManager.VerifyToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Token无效或已过期")
			c.Abort()
			return
		}

		// 获取用户信息
		user, err := m.userService.GetByID(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "用户不存在")
			c.Abort()
			return
		}

		// 检查用户状态
		if !m.userService.IsActive(user) {
			response.Unauthorized(c, "用户已被禁用")
			c.Abort()
			return
		}

		// 将用户信息与权限快照保存到上下文
		c.Set("user", user)
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", user.Role)
		c.Set("is_super_admin", claims.IsSuperAdmin)
		c.Set("claims", claims)
		c.Set("permissions", rbac.Resolve(user.Role))

		c.Next()
	}
}

// permissionSet 从上下文读取权限快照
// 未登录时返回nil快照，所有检查失败关闭
func permissionSet(c *gin.Context) *rbac.PermissionSet {
	value, exists := c.Get("permissions")
	if !exists {
		return nil
	}
	set, ok := value.(*rbac.PermissionSet)
	if !ok {
		return nil
	}
	return set
}

// RequirePermission 要求同时具备全部指定权限
func (m *AuthMiddleware) RequirePermission(permissionCodes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user_id"); !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !permissionSet(c).CanAccess(permissionCodes...) {
			response.Forbidden(c, "权限不足：需要 "+strings.Join(permissionCodes, "、")+" 权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAnyPermission 要求具备任一指定权限
func (m *AuthMiddleware) RequireAnyPermission(permissionCodes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user_id"); !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !permissionSet(c).HasAnyPermission(permissionCodes...) {
			response.Forbidden(c, "权限不足：需要 "+strings.Join(permissionCodes, " 或 ")+" 权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole 要求特定角色
func (m *AuthMiddleware) RequireRole(roleCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user_id"); !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !permissionSet(c).HasRole(roleCode) {
			response.Forbidden(c, "权限不足：需要 "+roleCode+" 角色")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAnyRole 要求属于任一指定角色
func (m *AuthMiddleware) RequireAnyRole(roleCodes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user_id"); !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !permissionSet(c).HasAnyRole(roleCodes...) {
			response.Forbidden(c, "权限不足：需要 "+strings.Join(roleCodes, " 或 ")+" 角色")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin 要求管理台准入层级的角色
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		set := permissionSet(c)
		if set == nil {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !rbac.IsElevated(set.Role) {
			response.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CombineMiddleware 组合中间件（登录 + 权限合取）
func (m *AuthMiddleware) CombineMiddleware(permissionCodes ...string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.RequireLogin(),
		m.RequirePermission(permissionCodes...),
	}
}

// CombineRoleMiddleware 组合中间件（登录 + 角色）
func (m *AuthMiddleware) CombineRoleMiddleware(roleCode string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.RequireLogin(),
		m.RequireRole(roleCode),
	}
}
