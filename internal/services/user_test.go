package services

import (
	"fmt"
	"testing"
	"time"

	"fdadmin/internal/database"
	"fdadmin/internal/models"
	"fdadmin/internal/rbac"
	"fdadmin/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupUserService 准备内存数据库与miniredis缓存
func setupUserService(t *testing.T) (*UserService, *gorm.DB, *cache.QueryCache) {
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
	qc := cache.NewQueryCacheWithClient(client, "test:fdadmin")
	database.SetQueryCache(qc)

	return NewUserService(), db, qc
}

func mustCreateUser(t *testing.T, s *UserService, username, role string) *models.User {
	t.Helper()

	user, err := s.Create(username, username+"@fd.local", "secret123", username, role, nil)
	if err != nil {
		t.Fatalf("创建员工 %s 失败: %v", username, err)
	}
	return user
}

func TestUserListServedFromCache(t *testing.T) {
	s, db, _ := setupUserService(t)

	mustCreateUser(t, s, "alice", rbac.RoleAdmin)

	_, total, err := s.GetWithFiltersAndPage("", "", "", 1, 10)
	if err != nil {
		t.Fatalf("查询员工列表失败: %v", err)
	}
	if total != 1 {
		t.Fatalf("期望总数1，实际 %d", total)
	}

	// 绕过服务直接写库，缓存未失效时列表应返回缓存页
	stale := &models.User{Username: "ghost", Email: "ghost@fd.local", Name: "ghost", Role: rbac.RoleSupport, Status: models.UserStatusActive}
	if err := stale.SetPassword("secret123"); err != nil {
		t.Fatalf("设置密码失败: %v", err)
	}
	if err := db.Create(stale).Error; err != nil {
		t.Fatalf("直接写库失败: %v", err)
	}

	_, total, err = s.GetWithFiltersAndPage("", "", "", 1, 10)
	if err != nil {
		t.Fatalf("二次查询失败: %v", err)
	}
	if total != 1 {
		t.Fatalf("期望命中缓存返回总数1，实际 %d", total)
	}
}

func TestUserCreateInvalidatesList(t *testing.T) {
	s, _, _ := setupUserService(t)

	mustCreateUser(t, s, "alice", rbac.RoleAdmin)

	if _, _, err := s.GetWithFiltersAndPage("", "", "", 1, 10); err != nil {
		t.Fatalf("查询员工列表失败: %v", err)
	}

	mustCreateUser(t, s, "bob", rbac.RoleSupport)

	_, total, err := s.GetWithFiltersAndPage("", "", "", 1, 10)
	if err != nil {
		t.Fatalf("二次查询失败: %v", err)
	}
	if total != 2 {
		t.Fatalf("创建员工后列表缓存应失效，期望总数2，实际 %d", total)
	}
}

func TestUserStatsCachedAndInvalidatedByStatusChange(t *testing.T) {
	s, _, _ := setupUserService(t)

	alice := mustCreateUser(t, s, "alice", rbac.RoleAdmin)
	mustCreateUser(t, s, "bob", rbac.RoleSupport)

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("查询员工统计失败: %v", err)
	}
	if stats.Total != 2 || stats.Active != 2 || stats.Locked != 0 {
		t.Fatalf("统计不符: %+v", stats)
	}

	locked, err := s.Lock(alice.ID)
	if err != nil {
		t.Fatalf("锁定员工失败: %v", err)
	}
	if locked.Status != models.UserStatusLocked {
		t.Fatalf("期望状态 locked，实际 %s", locked.Status)
	}

	stats, err = s.GetStats()
	if err != nil {
		t.Fatalf("锁定后查询统计失败: %v", err)
	}
	if stats.Active != 1 || stats.Locked != 1 {
		t.Fatalf("锁定后统计缓存应失效: %+v", stats)
	}
}

func TestLockedUserIsNotActive(t *testing.T) {
	s, _, _ := setupUserService(t)

	alice := mustCreateUser(t, s, "alice", rbac.RoleAdmin)

	locked, err := s.Lock(alice.ID)
	if err != nil {
		t.Fatalf("锁定员工失败: %v", err)
	}
	if s.IsActive(locked) {
		t.Fatal("锁定后不应视为激活状态")
	}

	restored, err := s.Activate(alice.ID)
	if err != nil {
		t.Fatalf("恢复员工失败: %v", err)
	}
	if !s.IsActive(restored) {
		t.Fatal("激活后应视为激活状态")
	}
}

func TestUserMutationInvalidatesDashboard(t *testing.T) {
	s, _, qc := setupUserService(t)

	alice := mustCreateUser(t, s, "alice", rbac.RoleAdmin)

	if err := qc.Set(dashboardResource, "stats", map[string]int{"total": 1}, time.Minute); err != nil {
		t.Fatalf("写入仪表盘缓存失败: %v", err)
	}

	if _, err := s.Deactivate(alice.ID); err != nil {
		t.Fatalf("停用员工失败: %v", err)
	}

	var cached map[string]int
	if err := qc.Get(dashboardResource, "stats", &cached); err != cache.ErrMiss {
		t.Fatalf("员工变更后仪表盘汇总缓存应失效，实际 err=%v", err)
	}
}
