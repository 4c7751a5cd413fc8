package handlers

import (
	"testing"

	"fdadmin/internal/rbac"
)

func TestAuthorizeLiveBuildsSessionSnapshot(t *testing.T) {
	h := &WebSocketHandler{}

	perms, ok := h.authorizeLive(rbac.RoleModerator)
	if !ok {
		t.Fatal("moderator 应允许建立实时连接")
	}
	if !perms.HasPermission(rbac.PermLiveView) {
		t.Fatal("会话快照应包含实时数据权限")
	}
	if !perms.HasRole(rbac.RoleModerator) {
		t.Fatal("会话快照应保留角色标签")
	}

	// 连接断开后快照清空，所有检查失败关闭
	perms.ClearPermissions()
	if perms.HasPermission(rbac.PermLiveView) {
		t.Fatal("清空后的会话不应再持有权限")
	}
	if perms.HasAdminAccess() {
		t.Fatal("清空后的会话不应再有管理台访问权")
	}
}

func TestAuthorizeLiveRejectsRoleWithoutLivePermission(t *testing.T) {
	h := &WebSocketHandler{}

	// support 角色只有只读权限，没有实时数据权限
	perms, ok := h.authorizeLive(rbac.RoleSupport)
	if ok {
		t.Fatal("support 不应允许建立实时连接")
	}
	if perms != nil {
		t.Fatal("拒绝连接时不应返回会话快照")
	}
}

func TestAuthorizeLiveFailsClosedForUnknownRole(t *testing.T) {
	h := &WebSocketHandler{}

	if _, ok := h.authorizeLive("intern"); ok {
		t.Fatal("未知角色不应允许建立实时连接")
	}
}
