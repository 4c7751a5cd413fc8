package rbac

import "testing"

func TestEveryRoleHasPermissionEntry(t *testing.T) {
	for _, role := range AllRoles {
		if !IsValidRole(role) {
			t.Fatalf("角色 %s 缺少权限映射条目", role)
		}
	}
}

func TestRolePermissionsAreDefined(t *testing.T) {
	defined := make(map[string]bool)
	for _, code := range AllPermissionCodes() {
		defined[code] = true
	}

	for _, role := range AllRoles {
		for _, code := range RolePermissions(role) {
			if !defined[code] {
				t.Fatalf("角色 %s 引用了未定义的权限: %s", role, code)
			}
		}
	}
}

func TestSuperAdminHasAllPermissions(t *testing.T) {
	perms := make(map[string]bool)
	for _, code := range RolePermissions(RoleSuperAdmin) {
		perms[code] = true
	}

	for _, code := range AllPermissionCodes() {
		if !perms[code] {
			t.Fatalf("super_admin 缺少权限: %s", code)
		}
	}
	if len(perms) != len(AllPermissionCodes()) {
		t.Fatalf("super_admin 权限数 %d 与权限总数 %d 不一致", len(perms), len(AllPermissionCodes()))
	}
}

func TestModeratorCanApproveButNotDelete(t *testing.T) {
	set := Resolve(RoleModerator)
	if !set.HasPermission(PermVendorApprove) {
		t.Fatal("moderator 应具有 vendor:approve")
	}
	if set.HasPermission(PermVendorDelete) {
		t.Fatal("moderator 不应具有 vendor:delete")
	}
}

func TestSupportIsReadOnly(t *testing.T) {
	set := Resolve(RoleSupport)
	if !set.HasPermission(PermVendorList) {
		t.Fatal("support 应具有 vendor:list")
	}
	for _, code := range []string{
		PermVendorApprove, PermVendorDelete, PermVendorCreate,
		PermOrderCancel, PermOrderRefund,
		PermUserCreate, PermUserDelete,
	} {
		if set.HasPermission(code) {
			t.Fatalf("support 不应具有 %s", code)
		}
	}
}

func TestUnknownRoleHasNoPermissions(t *testing.T) {
	if IsValidRole("intern") {
		t.Fatal("intern 不应是合法角色")
	}
	if len(RolePermissions("intern")) != 0 {
		t.Fatal("未知角色的权限列表应为空")
	}
}

func TestIsElevated(t *testing.T) {
	for _, role := range ElevatedRoles {
		if !IsElevated(role) {
			t.Fatalf("%s 应属于管理台准入层级", role)
		}
	}
	for _, role := range []string{RoleSupport, RoleRiderAdmin, RoleOperationsAdmin, "intern"} {
		if IsElevated(role) {
			t.Fatalf("%s 不应属于管理台准入层级", role)
		}
	}
}

func TestPermissionsByModule(t *testing.T) {
	defs := PermissionsByModule("vendor")
	if len(defs) != 7 {
		t.Fatalf("vendor 模块应有7个权限，实际 %d", len(defs))
	}
	for _, def := range defs {
		if def.Module != "vendor" {
			t.Fatalf("意外的模块: %s", def.Module)
		}
	}

	if len(PermissionsByModule("nonexistent")) != 0 {
		t.Fatal("不存在的模块应返回空列表")
	}
}
