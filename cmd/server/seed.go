package main

import (
	"fmt"

	"fdadmin/internal/database"
	"fdadmin/internal/models"
	"fdadmin/internal/rbac"
	"fdadmin/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化种子数据
func seedData() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	db := database.GetDB()

	// 1. 校验权限注册表
	if err := verifyPermissionRegistry(); err != nil {
		return fmt.Errorf("权限注册表校验失败: %v", err)
	}

	// 2. 创建默认超级管理员
	if err := createDefaultSuperAdmin(db); err != nil {
		return fmt.Errorf("创建默认超级管理员失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// verifyPermissionRegistry 校验静态权限注册表
// 角色权限映射是编译期数据，启动时确认每个角色引用的权限都在定义表内
func verifyPermissionRegistry() error {
	defined := make(map[string]bool)
	for _, code := range rbac.AllPermissionCodes() {
		defined[code] = true
	}

	for _, role := range rbac.AllRoles {
		if !rbac.IsValidRole(role) {
			return fmt.Errorf("角色 %s 缺少权限映射条目", role)
		}
		for _, code := range rbac.RolePermissions(role) {
			if !defined[code] {
				return fmt.Errorf("角色 %s 引用了未定义的权限: %s", role, code)
			}
		}
	}

	logger.GetLogger().Infof("权限注册表校验通过，共 %d 个权限、%d 个角色",
		len(rbac.AllPermissionCodes()), len(rbac.AllRoles))
	return nil
}

// createDefaultSuperAdmin 创建默认超级管理员
func createDefaultSuperAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("超级管理员已存在，跳过创建")
		return nil
	}

	user := &models.User{
		Username: "admin",
		Email:    "admin@example.com",
		Name:     "超级管理员",
		Role:     rbac.RoleSuperAdmin,
		Status:   models.UserStatusActive,
	}

	// 设置密码
	if err := user.SetPassword("Admin@123"); err != nil {
		return fmt.Errorf("设置密码失败: %v", err)
	}

	if err := db.Create(user).Error; err != nil {
		return err
	}

	logger.GetLogger().Infof("默认超级管理员创建成功 - 用户名: admin, 密码: Admin@123")
	return nil
}
