package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fdadmin/internal/database"
	"fdadmin/internal/middleware"
	"fdadmin/internal/models"
	"fdadmin/internal/rbac"
	"fdadmin/internal/services"
	"fdadmin/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupUserBackend 准备内存数据库与miniredis缓存，返回员工服务
func setupUserBackend(t *testing.T) *services.UserService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	database.DB = db

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	database.SetQueryCache(cache.NewQueryCacheWithClient(client, "test:fdadmin"))

	return services.NewUserService()
}

// setupAuthRouter 挂载登录与会话路由
func setupAuthRouter(t *testing.T) (*gin.Engine, *services.UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userService := setupUserBackend(t)
	authHandler := NewAuthHandler(userService)
	auth := middleware.NewAuthMiddleware()

	r := gin.New()
	r.POST("/api/v1/auth/login", authHandler.Login)
	r.GET("/api/v1/auth/me", auth.RequireLogin(), authHandler.Me)
	return r, userService
}

type loginEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Token string `json:"token"`
		User  struct {
			Username     string `json:"username"`
			Role         string `json:"role"`
			IsSuperAdmin bool   `json:"is_super_admin"`
		} `json:"user"`
		Permissions []string `json:"permissions"`
	} `json:"data"`
}

type meEnvelope struct {
	Code int `json:"code"`
	Data struct {
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
		Permissions []string `json:"permissions"`
	} `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func samePermissions(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, p := range a {
		set[p] = struct{}{}
	}
	for _, p := range b {
		if _, ok := set[p]; !ok {
			return false
		}
	}
	return true
}

func TestLoginReturnsRoleResolvedPermissions(t *testing.T) {
	r, userService := setupAuthRouter(t)

	if _, err := userService.Create("mod", "mod@fd.local", "secret123", "审核员", rbac.RoleModerator, nil); err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", `{"username":"mod","password":"secret123"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望HTTP 200，实际 %d", w.Code)
	}

	var resp loginEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析登录响应失败: %v", err)
	}
	if resp.Code != 200 {
		t.Fatalf("期望业务码200，实际 %d (%s)", resp.Code, resp.Message)
	}
	if resp.Data.Token == "" {
		t.Fatal("登录响应缺少Token")
	}
	if resp.Data.User.Role != rbac.RoleModerator || resp.Data.User.IsSuperAdmin {
		t.Fatalf("用户信息不符: %+v", resp.Data.User)
	}
	if !samePermissions(resp.Data.Permissions, rbac.RolePermissions(rbac.RoleModerator)) {
		t.Fatalf("登录返回的权限列表应与角色静态映射一致: %v", resp.Data.Permissions)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r, userService := setupAuthRouter(t)

	if _, err := userService.Create("mod", "mod@fd.local", "secret123", "审核员", rbac.RoleModerator, nil); err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", `{"username":"mod","password":"wrong-pass"}`, "")

	var resp loginEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Code != 401 {
		t.Fatalf("密码错误应返回业务码401，实际 %d", resp.Code)
	}
	if resp.Data.Token != "" {
		t.Fatal("密码错误不应下发Token")
	}
}

func TestMeRoundTripsLoginSession(t *testing.T) {
	r, userService := setupAuthRouter(t)

	if _, err := userService.Create("ops", "ops@fd.local", "secret123", "运营", rbac.RoleOperationsAdmin, nil); err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", `{"username":"ops","password":"secret123"}`, "")
	var login loginEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("解析登录响应失败: %v", err)
	}
	if login.Code != 200 {
		t.Fatalf("登录失败: %d", login.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", login.Data.Token)
	var me meEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("解析me响应失败: %v", err)
	}
	if me.Code != 200 {
		t.Fatalf("me应返回业务码200，实际 %d", me.Code)
	}
	if me.Data.User.Username != "ops" || me.Data.User.Role != rbac.RoleOperationsAdmin {
		t.Fatalf("me返回的用户不符: %+v", me.Data.User)
	}
	if !samePermissions(me.Data.Permissions, login.Data.Permissions) {
		t.Fatalf("me与登录返回的权限列表应一致: %v vs %v", me.Data.Permissions, login.Data.Permissions)
	}
}

func TestMeRejectsLockedAccount(t *testing.T) {
	r, userService := setupAuthRouter(t)

	user, err := userService.Create("mod", "mod@fd.local", "secret123", "审核员", rbac.RoleModerator, nil)
	if err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", `{"username":"mod","password":"secret123"}`, "")
	var login loginEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("解析登录响应失败: %v", err)
	}

	if _, err := userService.Lock(user.ID); err != nil {
		t.Fatalf("锁定员工失败: %v", err)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", login.Data.Token)
	var me meEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("解析me响应失败: %v", err)
	}
	if me.Code != 401 {
		t.Fatalf("锁定账号的会话应被拒绝，实际业务码 %d", me.Code)
	}
}
