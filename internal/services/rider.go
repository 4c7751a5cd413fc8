package services

import (
	"fmt"
	"time"

	"fdadmin/internal/database"
	"fdadmin/internal/models"
	"fdadmin/pkg/cache"
	"fdadmin/pkg/config"
	"fdadmin/pkg/listquery"
	"fdadmin/pkg/logger"
	"fdadmin/pkg/pagination"

	"gorm.io/gorm"
)

// 缓存资源名
const riderResource = "riders"

type RiderService struct {
	db    *gorm.DB
	cache *cache.QueryCache
}

// RiderStats 骑手统计信息
type RiderStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Suspended int64 `json:"suspended"`
}

// RiderPage 骑手分页结果（用于缓存整页）
type RiderPage struct {
	Items []*models.Rider `json:"items"`
	Total int64           `json:"total"`
}

func NewRiderService() *RiderService {
	return &RiderService{
		db:    database.GetDB(),
		cache: database.GetQueryCache(),
	}
}

// ========== 基础CRUD方法 ==========

// GetByID 根据ID获取骑手
func (s *RiderService) GetByID(id uint) (*models.Rider, error) {
	cacheKey := fmt.Sprintf("detail:%d", id)

	var cached models.Rider
	if err := s.cache.Get(riderResource, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var rider models.Rider
	if err := s.db.First(&rider, id).Error; err != nil {
		return nil, err
	}

	s.cacheSet(cacheKey, &rider)
	return &rider, nil
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *RiderService) GetWithFiltersAndPage(status, city, keyword string, sort *pagination.SortParams, page, pageSize int) ([]*models.Rider, int64, error) {
	filter := &listquery.FilterState{
		Search:    keyword,
		Status:    status,
		SortBy:    sort.SortBy,
		SortOrder: sort.SortOrder,
		Page:      page,
		PageSize:  pageSize,
	}
	cacheKey := fmt.Sprintf("list:city=%s&%s", city, filter.Key())

	var cached RiderPage
	if err := s.cache.Get(riderResource, cacheKey, &cached); err == nil {
		return cached.Items, cached.Total, nil
	}

	var riders []*models.Rider
	var total int64

	query := s.db.Model(&models.Rider{})

	// 添加过滤条件
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if city != "" {
		query = query.Where("city = ?", city)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR phone LIKE ?", searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order(sort.OrderClause()).Offset(offset).Limit(pageSize).Find(&riders).Error
	if err != nil {
		return nil, 0, err
	}

	s.cacheSet(cacheKey, &RiderPage{Items: riders, Total: total})
	return riders, total, nil
}

// Update 更新骑手信息
func (s *RiderService) Update(id uint, name, email, city, vehicleType string) (*models.Rider, error) {
	var rider models.Rider
	if err := s.db.First(&rider, id).Error; err != nil {
		return nil, err
	}

	rider.Name = name
	rider.Email = email
	rider.City = city
	rider.VehicleType = vehicleType

	if err := s.db.Save(&rider).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &rider, nil
}

// Delete 删除骑手
func (s *RiderService) Delete(id uint) error {
	var rider models.Rider
	if err := s.db.First(&rider, id).Error; err != nil {
		return err
	}

	if rider.Status == models.RiderStatusApproved {
		return fmt.Errorf("在职骑手不能删除，请先封禁")
	}

	// 存在配送记录的骑手不允许删除
	var orderCount int64
	s.db.Model(&models.Order{}).Where("rider_id = ?", id).Count(&orderCount)
	if orderCount > 0 {
		return fmt.Errorf("骑手存在配送记录，不能删除")
	}

	if err := s.db.Delete(&models.Rider{}, id).Error; err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// ========== 审核与状态操作 ==========

// Approve 审核通过骑手注册申请
func (s *RiderService) Approve(id, reviewerID uint) (*models.Rider, error) {
	var rider models.Rider
	if err := s.db.First(&rider, id).Error; err != nil {
		return nil, err
	}

	if rider.Status != models.RiderStatusPending {
		return nil, fmt.Errorf("只有待审核的骑手可以审核通过，当前状态: %s", rider.Status)
	}

	now := time.Now()
	rider.Status = models.RiderStatusApproved
	rider.ApprovedAt = &now
	rider.ApprovedBy = &reviewerID
	rider.RejectReason = nil

	if err := s.db.Save(&rider).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &rider, nil
}

// Reject 驳回骑手注册申请
func (s *RiderService) Reject(id, reviewerID uint, reason string) (*models.Rider, error) {
	if reason == "" {
		return nil, fmt.Errorf("驳回原因不能为空")
	}

	var rider models.Rider
	if err := s.db.First(&rider, id).Error; err != nil {
		return nil, err
	}

	if rider.Status != models.RiderStatusPending {
		return nil, fmt.Errorf("只有待审核的骑手可以驳回，当前状态: %s", rider.Status)
	}

	rider.Status = models.RiderStatusRejected
	rider.RejectReason = &reason
	rider.ApprovedBy = &reviewerID

	if err := s.db.Save(&rider).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &rider, nil
}

// Suspend 封禁骑手
func (s *RiderService) Suspend(id uint, reason string) (*models.Rider, error) {
	var rider models.Rider
	if err := s.db.First(&rider, id).Error; err != nil {
		return nil, err
	}

	if rider.Status != models.RiderStatusApproved {
		return nil, fmt.Errorf("只有在职骑手可以封禁，当前状态: %s", rider.Status)
	}

	rider.Status = models.RiderStatusSuspended
	if reason != "" {
		rider.RejectReason = &reason
	}

	if err := s.db.Save(&rider).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &rider, nil
}

// Reactivate 解除骑手封禁
func (s *RiderService) Reactivate(id uint) (*models.Rider, error) {
	var rider models.Rider
	if err := s.db.First(&rider, id).Error; err != nil {
		return nil, err
	}

	if rider.Status != models.RiderStatusSuspended {
		return nil, fmt.Errorf("只有已封禁的骑手可以恢复，当前状态: %s", rider.Status)
	}

	rider.Status = models.RiderStatusApproved

	if err := s.db.Save(&rider).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &rider, nil
}

// ========== 统计相关方法 ==========

// GetStats 获取骑手统计
func (s *RiderService) GetStats() (*RiderStats, error) {
	var cached RiderStats
	if err := s.cache.Get(riderResource, "stats", &cached); err == nil {
		return &cached, nil
	}

	stats := &RiderStats{}
	s.db.Model(&models.Rider{}).Count(&stats.Total)
	s.db.Model(&models.Rider{}).Where("status = ?", models.RiderStatusPending).Count(&stats.Pending)
	s.db.Model(&models.Rider{}).Where("status = ?", models.RiderStatusApproved).Count(&stats.Approved)
	s.db.Model(&models.Rider{}).Where("status = ?", models.RiderStatusRejected).Count(&stats.Rejected)
	s.db.Model(&models.Rider{}).Where("status = ?", models.RiderStatusSuspended).Count(&stats.Suspended)

	ttl := time.Duration(config.GetConfig().Cache.StatsTime) * time.Second
	if err := s.cache.Set(riderResource, "stats", stats, ttl); err != nil {
		logger.GetLogger().Warnf("写入骑手统计缓存失败: %v", err)
	}
	return stats, nil
}

// ========== 缓存辅助方法 ==========

func (s *RiderService) cacheSet(key string, value interface{}) {
	ttl := time.Duration(config.GetConfig().Cache.StaleTime) * time.Second
	if err := s.cache.Set(riderResource, key, value, ttl); err != nil {
		logger.GetLogger().Warnf("写入骑手缓存失败: %v", err)
	}
}

// invalidate 写操作后整体失效骑手缓存
// 仪表盘汇总包含骑手统计，一并失效
func (s *RiderService) invalidate() {
	if err := s.cache.Invalidate(riderResource, dashboardResource); err != nil {
		logger.GetLogger().Warnf("失效骑手缓存失败: %v", err)
	}
}
