package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"fdadmin/internal/models"
	"fdadmin/internal/rbac"
	"fdadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// setupUserRouter 挂载员工状态路由，operatorID 模拟当前登录账号
func setupUserRouter(t *testing.T, operatorID uint) (*gin.Engine, *services.UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userService := setupUserBackend(t)
	h := NewUserHandler(userService)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", operatorID)
		c.Next()
	})
	r.POST("/users/:id/lock", h.Lock)
	r.POST("/users/:id/activate", h.Activate)
	return r, userService
}

type userEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
}

func TestLockUserViaHandler(t *testing.T) {
	r, userService := setupUserRouter(t, 999)

	user, err := userService.Create("mod", "mod@fd.local", "secret123", "审核员", rbac.RoleModerator, nil)
	if err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/users/%d/lock", user.ID), "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望HTTP 200，实际 %d", w.Code)
	}

	var resp userEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Code != 200 {
		t.Fatalf("期望业务码200，实际 %d (%s)", resp.Code, resp.Message)
	}
	if resp.Data.Status != models.UserStatusLocked {
		t.Fatalf("期望状态 locked，实际 %s", resp.Data.Status)
	}

	stored, err := userService.GetByID(user.ID)
	if err != nil {
		t.Fatalf("查询员工失败: %v", err)
	}
	if stored.Status != models.UserStatusLocked {
		t.Fatalf("库中状态应为 locked，实际 %s", stored.Status)
	}
}

func TestLockSelfIsRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userService := setupUserBackend(t)
	user, err := userService.Create("mod", "mod@fd.local", "secret123", "审核员", rbac.RoleModerator, nil)
	if err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	h := NewUserHandler(userService)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", user.ID)
		c.Next()
	})
	r.POST("/users/:id/lock", h.Lock)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/users/%d/lock", user.ID), "", "")

	var resp userEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Code != 400 {
		t.Fatalf("锁定当前登录账号应返回业务码400，实际 %d", resp.Code)
	}

	stored, err := userService.GetByID(user.ID)
	if err != nil {
		t.Fatalf("查询员工失败: %v", err)
	}
	if stored.Status != models.UserStatusActive {
		t.Fatalf("账号状态不应被修改，实际 %s", stored.Status)
	}
}

func TestLockThenActivateRestoresAccount(t *testing.T) {
	r, userService := setupUserRouter(t, 999)

	user, err := userService.Create("mod", "mod@fd.local", "secret123", "审核员", rbac.RoleModerator, nil)
	if err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	doJSON(t, r, http.MethodPost, fmt.Sprintf("/users/%d/lock", user.ID), "", "")
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/users/%d/activate", user.ID), "", "")

	var resp userEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Code != 200 || resp.Data.Status != models.UserStatusActive {
		t.Fatalf("解锁后应恢复激活状态: code=%d status=%s", resp.Code, resp.Data.Status)
	}
}
