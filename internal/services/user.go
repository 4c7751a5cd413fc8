package services

import (
	"fmt"
	"strings"
	"time"

	"fdadmin/internal/database"
	"fdadmin/internal/models"
	"fdadmin/internal/rbac"
	"fdadmin/pkg/cache"
	"fdadmin/pkg/config"
	"fdadmin/pkg/listquery"
	"fdadmin/pkg/logger"

	"gorm.io/gorm"
)

// 缓存资源名
const userResource = "users"

type UserService struct {
	db    *gorm.DB
	cache *cache.QueryCache
}

// UserStats 员工统计信息
type UserStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Locked   int64 `json:"locked"`
}

// UserPage 员工分页结果（用于缓存整页）
type UserPage struct {
	Items []*models.User `json:"items"`
	Total int64          `json:"total"`
}

func NewUserService() *UserService {
	return &UserService{
		db:    database.GetDB(),
		cache: database.GetQueryCache(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建员工账号
func (s *UserService) Create(username, email, password, name, role string, phone *string) (*models.User, error) {
	// 验证参数
	if err := s.ValidateCreateParams(username, email, password, name); err != nil {
		return nil, err
	}

	// 角色必须在枚举内
	if !rbac.IsValidRole(role) {
		return nil, fmt.Errorf("无效的角色: %s", role)
	}

	// 检查用户名是否重复
	var usernameCount int64
	s.db.Model(&models.User{}).Where("username = ?", username).Count(&usernameCount)
	if usernameCount > 0 {
		return nil, fmt.Errorf("用户名已存在")
	}

	// 检查邮箱是否重复
	var emailCount int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&emailCount)
	if emailCount > 0 {
		return nil, fmt.Errorf("邮箱已存在")
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Name:     name,
		Phone:    phone,
		Role:     role,
		Status:   models.UserStatusActive,
	}

	// 设置密码
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return user, nil
}

// GetByID 根据ID获取员工
// 认证中间件每次请求都会调用，必须读到最新的状态与角色，不走缓存
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	return &user, err
}

// GetByUsername 根据用户名获取员工
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

// GetByEmail 根据邮箱获取员工
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *UserService) GetWithFiltersAndPage(role, status, keyword string, page, pageSize int) ([]*models.User, int64, error) {
	filter := &listquery.FilterState{
		Search:   keyword,
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	}
	cacheKey := fmt.Sprintf("list:role=%s&%s", role, filter.Key())

	var cached UserPage
	if err := s.cache.Get(userResource, cacheKey, &cached); err == nil {
		return cached.Items, cached.Total, nil
	}

	var users []*models.User
	var total int64

	query := s.db.Model(&models.User{})

	// 添加过滤条件
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("username LIKE ? OR email LIKE ? OR name LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	s.cacheSet(cacheKey, &UserPage{Items: users, Total: total})
	return users, total, nil
}

// Update 更新员工信息
func (s *UserService) Update(id uint, name, email string, phone *string, role, status string) (*models.User, error) {
	if !s.IsValidStatus(status) {
		return nil, fmt.Errorf("无效的状态: %s", status)
	}
	if !rbac.IsValidRole(role) {
		return nil, fmt.Errorf("无效的角色: %s", role)
	}

	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}

	// 如果邮箱变更，检查是否重复
	if user.Email != email {
		var emailCount int64
		s.db.Model(&models.User{}).Where("email = ? AND id != ?", email, id).Count(&emailCount)
		if emailCount > 0 {
			return nil, fmt.Errorf("邮箱已存在")
		}
	}

	user.Name = name
	user.Email = email
	user.Phone = phone
	user.Role = role
	user.Status = status

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &user, nil
}

// Delete 删除员工
func (s *UserService) Delete(id uint) error {
	if err := s.db.Delete(&models.User{}, id).Error; err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// ========== 快捷操作方法 ==========

// Activate 激活员工
func (s *UserService) Activate(id uint) (*models.User, error) {
	return s.setStatus(id, models.UserStatusActive)
}

// Deactivate 停用员工
func (s *UserService) Deactivate(id uint) (*models.User, error) {
	return s.setStatus(id, models.UserStatusInactive)
}

// Lock 锁定员工
func (s *UserService) Lock(id uint) (*models.User, error) {
	return s.setStatus(id, models.UserStatusLocked)
}

func (s *UserService) setStatus(id uint, status string) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}

	user.Status = status
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &user, nil
}

// ResetPassword 重置密码
func (s *UserService) ResetPassword(id uint, newPassword string) (*models.User, error) {
	if err := s.ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	err = s.db.Save(&user).Error
	return &user, err
}

// AssignRole 调整员工角色
func (s *UserService) AssignRole(id uint, role string) (*models.User, error) {
	if !rbac.IsValidRole(role) {
		return nil, fmt.Errorf("无效的角色: %s", role)
	}

	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &user, nil
}

// UpdateLastLogin 更新最后登录时间
func (s *UserService) UpdateLastLogin(id uint) error {
	now := time.Now()
	if err := s.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", now).Error; err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// ========== 统计相关方法 ==========

// GetStats 获取员工统计
func (s *UserService) GetStats() (*UserStats, error) {
	var cached UserStats
	if err := s.cache.Get(userResource, "stats", &cached); err == nil {
		return &cached, nil
	}

	stats := &UserStats{}
	s.db.Model(&models.User{}).Count(&stats.Total)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.Active)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusInactive).Count(&stats.Inactive)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusLocked).Count(&stats.Locked)

	ttl := time.Duration(config.GetConfig().Cache.StatsTime) * time.Second
	if err := s.cache.Set(userResource, "stats", stats, ttl); err != nil {
		logger.GetLogger().Warnf("写入员工统计缓存失败: %v", err)
	}
	return stats, nil
}

// ========== 业务逻辑方法 ==========

// IsActive 检查员工是否激活
func (s *UserService) IsActive(user *models.User) bool {
	return user.Status == models.UserStatusActive
}

// IsValidStatus 检查员工状态是否有效
func (s *UserService) IsValidStatus(status string) bool {
	switch status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusLocked:
		return true
	default:
		return false
	}
}

// ========== 缓存辅助方法 ==========

func (s *UserService) cacheSet(key string, value interface{}) {
	ttl := time.Duration(config.GetConfig().Cache.StaleTime) * time.Second
	if err := s.cache.Set(userResource, key, value, ttl); err != nil {
		logger.GetLogger().Warnf("写入员工缓存失败: %v", err)
	}
}

// invalidate 写操作后整体失效员工缓存
// 仪表盘汇总包含员工统计，一并失效
func (s *UserService) invalidate() {
	if err := s.cache.Invalidate(userResource, dashboardResource); err != nil {
		logger.GetLogger().Warnf("失效员工缓存失败: %v", err)
	}
}

// ========== 验证相关方法 ==========

// ValidateUsername 验证用户名
func (s *UserService) ValidateUsername(username string) bool {
	if len(username) < 3 || len(username) > 50 {
		return false
	}
	// 检查是否只包含字母、数字和下划线
	for _, r := range username {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}

// ValidateEmail 验证邮箱
func (s *UserService) ValidateEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".") && len(email) >= 5 && len(email) <= 100
}

// ValidatePassword 验证密码
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("密码长度不能少于6位")
	}
	if len(password) > 50 {
		return fmt.Errorf("密码长度不能超过50位")
	}
	return nil
}

// ValidateCreateParams 验证创建参数
func (s *UserService) ValidateCreateParams(username, email, password, name string) error {
	if !s.ValidateUsername(username) {
		return fmt.Errorf("用户名格式不正确（3-50位字母、数字或下划线）")
	}
	if !s.ValidateEmail(email) {
		return fmt.Errorf("邮箱格式不正确")
	}
	if err := s.ValidatePassword(password); err != nil {
		return err
	}
	if name == "" || len(name) > 100 {
		return fmt.Errorf("姓名不能为空且不能超过100个字符")
	}
	return nil
}
