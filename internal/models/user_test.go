package models

import (
	"testing"

	"fdadmin/internal/rbac"
)

func TestIsSuperAdminMatchesRegistryRoleTag(t *testing.T) {
	u := &User{Role: rbac.RoleSuperAdmin}
	if !u.IsSuperAdmin() {
		t.Fatal("super_admin 角色应判定为超级管理员")
	}

	for _, role := range []string{rbac.RoleAdmin, rbac.RoleModerator, rbac.RoleSupport, "superadmin", ""} {
		u := &User{Role: role}
		if u.IsSuperAdmin() {
			t.Fatalf("角色 %q 不应判定为超级管理员", role)
		}
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	u := &User{}
	if err := u.SetPassword("secret123"); err != nil {
		t.Fatalf("设置密码失败: %v", err)
	}
	if u.PasswordHash == "secret123" {
		t.Fatal("密码不应明文存储")
	}
	if !u.CheckPassword("secret123") {
		t.Fatal("正确密码应校验通过")
	}
	if u.CheckPassword("wrong-pass") {
		t.Fatal("错误密码不应校验通过")
	}
}
