package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fdadmin/internal/rbac"

	"github.com/gin-gonic/gin"
)

// loginAs 模拟RequireLogin通过后的上下文状态
func loginAs(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("username", "tester")
		c.Set("role", role)
		c.Set("permissions", rbac.Resolve(role))
		c.Next()
	}
}

func guardStatus(t *testing.T, handlers ...gin.HandlerFunc) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers = append(handlers, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/probe", handlers...)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/probe", nil))
	return w.Code
}

// 统一信封下守卫拒绝也返回HTTP 200，业务码在响应体内，
// 这里通过响应体区分放行与拒绝
func guardAllows(t *testing.T, handlers ...gin.HandlerFunc) bool {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	passed := false
	handlers = append(handlers, func(c *gin.Context) {
		passed = true
		c.Status(http.StatusOK)
	})
	router.GET("/probe", handlers...)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/probe", nil))
	return passed
}

func TestRequirePermissionAllowsGrantedRole(t *testing.T) {
	m := NewAuthMiddleware()

	if !guardAllows(t, loginAs(rbac.RoleModerator), m.RequirePermission(rbac.PermVendorApprove)) {
		t.Fatal("moderator 应可通过 vendor:approve 守卫")
	}
}

func TestRequirePermissionDeniesMissingPermission(t *testing.T) {
	m := NewAuthMiddleware()

	if guardAllows(t, loginAs(rbac.RoleSupport), m.RequirePermission(rbac.PermVendorApprove)) {
		t.Fatal("support 不应通过 vendor:approve 守卫")
	}
}

func TestRequirePermissionDeniesWithoutLogin(t *testing.T) {
	m := NewAuthMiddleware()

	if guardAllows(t, m.RequirePermission(rbac.PermVendorList)) {
		t.Fatal("未登录不应通过任何权限守卫")
	}
}

// 合取守卫：部分权限满足时必须拒绝
func TestRequirePermissionIsConjunctive(t *testing.T) {
	m := NewAuthMiddleware()

	guard := m.RequirePermission(rbac.PermVendorApprove, rbac.PermVendorDelete)
	if guardAllows(t, loginAs(rbac.RoleModerator), guard) {
		t.Fatal("moderator 缺少 vendor:delete，合取守卫应拒绝")
	}
	if !guardAllows(t, loginAs(rbac.RoleSuperAdmin), guard) {
		t.Fatal("super_admin 应通过合取守卫")
	}
}

// 析取守卫：任一权限满足即放行
func TestRequireAnyPermissionIsDisjunctive(t *testing.T) {
	m := NewAuthMiddleware()

	guard := m.RequireAnyPermission(rbac.PermVendorApprove, rbac.PermVendorDelete)
	if !guardAllows(t, loginAs(rbac.RoleModerator), guard) {
		t.Fatal("moderator 具有 vendor:approve，析取守卫应放行")
	}
	if guardAllows(t, loginAs(rbac.RoleSupport), guard) {
		t.Fatal("support 两者皆无，析取守卫应拒绝")
	}
}

func TestRequireRole(t *testing.T) {
	m := NewAuthMiddleware()

	if !guardAllows(t, loginAs(rbac.RoleAdmin), m.RequireRole(rbac.RoleAdmin)) {
		t.Fatal("admin 应通过 admin 角色守卫")
	}
	if guardAllows(t, loginAs(rbac.RoleModerator), m.RequireRole(rbac.RoleAdmin)) {
		t.Fatal("moderator 不应通过 admin 角色守卫")
	}
}

func TestRequireAnyRole(t *testing.T) {
	m := NewAuthMiddleware()

	guard := m.RequireAnyRole(rbac.RoleAdmin, rbac.RoleModerator)
	if !guardAllows(t, loginAs(rbac.RoleModerator), guard) {
		t.Fatal("moderator 应通过任一角色守卫")
	}
	if guardAllows(t, loginAs(rbac.RoleSupport), guard) {
		t.Fatal("support 不应通过任一角色守卫")
	}
}

func TestRequireAdminByRoleTier(t *testing.T) {
	m := NewAuthMiddleware()

	for _, role := range rbac.ElevatedRoles {
		if !guardAllows(t, loginAs(role), m.RequireAdmin()) {
			t.Fatalf("%s 应通过管理台准入守卫", role)
		}
	}
	for _, role := range []string{rbac.RoleSupport, rbac.RoleRiderAdmin, rbac.RoleOperationsAdmin} {
		if guardAllows(t, loginAs(role), m.RequireAdmin()) {
			t.Fatalf("%s 不应通过管理台准入守卫", role)
		}
	}
	if guardAllows(t, m.RequireAdmin()) {
		t.Fatal("未登录不应通过管理台准入守卫")
	}
}

func TestRequireLoginRejectsMissingHeader(t *testing.T) {
	m := NewAuthMiddleware()

	// RequireLogin 在没有认证头时直接拒绝，不触达数据库
	if guardAllows(t, m.RequireLogin()) {
		t.Fatal("缺少认证头应被拒绝")
	}
	if status := guardStatus(t, m.RequireLogin()); status != http.StatusOK {
		t.Fatalf("统一信封下HTTP状态应为200，实际 %d", status)
	}
}
