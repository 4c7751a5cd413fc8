package services

import (
	"fmt"
	"strings"
	"time"

	"fdadmin/internal/database"
	"fdadmin/internal/models"
	"fdadmin/pkg/cache"
	"fdadmin/pkg/config"
	"fdadmin/pkg/listquery"
	"fdadmin/pkg/logger"
	"fdadmin/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 缓存资源名
const vendorResource = "vendors"

type VendorService struct {
	db    *gorm.DB
	cache *cache.QueryCache
}

// VendorStats 商家统计信息
type VendorStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Suspended int64 `json:"suspended"`
}

// VendorPage 商家分页结果（用于缓存整页）
type VendorPage struct {
	Items []*models.Vendor `json:"items"`
	Total int64            `json:"total"`
}

func NewVendorService() *VendorService {
	return &VendorService{
		db:    database.GetDB(),
		cache: database.GetQueryCache(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建商家（入驻申请）
func (s *VendorService) Create(name, contactName, contactPhone, email, address, cuisineType string, commissionRate float64, openingHours datatypes.JSON) (*models.Vendor, error) {
	if name == "" || len(name) > 100 {
		return nil, fmt.Errorf("商家名称不能为空且不能超过100个字符")
	}
	if commissionRate < 0 || commissionRate > 1 {
		return nil, fmt.Errorf("抽佣比例必须在0到1之间")
	}

	vendor := &models.Vendor{
		Code:           generateVendorCode(),
		Name:           name,
		ContactName:    contactName,
		ContactPhone:   contactPhone,
		Email:          email,
		Address:        address,
		CuisineType:    cuisineType,
		CommissionRate: commissionRate,
		OpeningHours:   openingHours,
		Status:         models.VendorStatusPending,
	}

	if err := s.db.Create(vendor).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return vendor, nil
}

// GetByID 根据ID获取商家
func (s *VendorService) GetByID(id uint) (*models.Vendor, error) {
	cacheKey := fmt.Sprintf("detail:%d", id)

	var cached models.Vendor
	if err := s.cache.Get(vendorResource, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var vendor models.Vendor
	if err := s.db.First(&vendor, id).Error; err != nil {
		return nil, err
	}

	s.cacheSet(cacheKey, &vendor)
	return &vendor, nil
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *VendorService) GetWithFiltersAndPage(status, cuisineType, keyword string, sort *pagination.SortParams, page, pageSize int) ([]*models.Vendor, int64, error) {
	filter := &listquery.FilterState{
		Search:    keyword,
		Status:    status,
		SortBy:    sort.SortBy,
		SortOrder: sort.SortOrder,
		Page:      page,
		PageSize:  pageSize,
	}
	cacheKey := fmt.Sprintf("list:cuisine=%s&%s", cuisineType, filter.Key())

	var cached VendorPage
	if err := s.cache.Get(vendorResource, cacheKey, &cached); err == nil {
		return cached.Items, cached.Total, nil
	}

	var vendors []*models.Vendor
	var total int64

	query := s.db.Model(&models.Vendor{})

	// 添加过滤条件
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if cuisineType != "" {
		query = query.Where("cuisine_type = ?", cuisineType)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR code LIKE ? OR contact_name LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order(sort.OrderClause()).Offset(offset).Limit(pageSize).Find(&vendors).Error
	if err != nil {
		return nil, 0, err
	}

	s.cacheSet(cacheKey, &VendorPage{Items: vendors, Total: total})
	return vendors, total, nil
}

// Update 更新商家信息
func (s *VendorService) Update(id uint, name, contactName, contactPhone, email, address, cuisineType string, commissionRate float64, openingHours datatypes.JSON) (*models.Vendor, error) {
	if commissionRate < 0 || commissionRate > 1 {
		return nil, fmt.Errorf("抽佣比例必须在0到1之间")
	}

	var vendor models.Vendor
	if err := s.db.First(&vendor, id).Error; err != nil {
		return nil, err
	}

	vendor.Name = name
	vendor.ContactName = contactName
	vendor.ContactPhone = contactPhone
	vendor.Email = email
	vendor.Address = address
	vendor.CuisineType = cuisineType
	vendor.CommissionRate = commissionRate
	if openingHours != nil {
		vendor.OpeningHours = openingHours
	}

	if err := s.db.Save(&vendor).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &vendor, nil
}

// Delete 删除商家
// 已通过审核且未封禁的商家不允许直接删除
func (s *VendorService) Delete(id uint) error {
	var vendor models.Vendor
	if err := s.db.First(&vendor, id).Error; err != nil {
		return err
	}

	if vendor.Status == models.VendorStatusApproved {
		return fmt.Errorf("营业中的商家不能删除，请先封禁")
	}

	// 存在关联订单的商家不允许删除
	var orderCount int64
	s.db.Model(&models.Order{}).Where("vendor_id = ?", id).Count(&orderCount)
	if orderCount > 0 {
		return fmt.Errorf("商家存在历史订单，不能删除")
	}

	if err := s.db.Delete(&models.Vendor{}, id).Error; err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// ========== 审核与状态操作 ==========

// Approve 审核通过商家入驻申请
func (s *VendorService) Approve(id, reviewerID uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.db.First(&vendor, id).Error; err != nil {
		return nil, err
	}

	if vendor.Status != models.VendorStatusPending {
		return nil, fmt.Errorf("只有待审核的商家可以审核通过，当前状态: %s", vendor.Status)
	}

	now := time.Now()
	vendor.Status = models.VendorStatusApproved
	vendor.ApprovedAt = &now
	vendor.ApprovedBy = &reviewerID
	vendor.RejectReason = nil

	if err := s.db.Save(&vendor).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &vendor, nil
}

// Reject 驳回商家入驻申请
func (s *VendorService) Reject(id, reviewerID uint, reason string) (*models.Vendor, error) {
	if reason == "" {
		return nil, fmt.Errorf("驳回原因不能为空")
	}

	var vendor models.Vendor
	if err := s.db.First(&vendor, id).Error; err != nil {
		return nil, err
	}

	if vendor.Status != models.VendorStatusPending {
		return nil, fmt.Errorf("只有待审核的商家可以驳回，当前状态: %s", vendor.Status)
	}

	vendor.Status = models.VendorStatusRejected
	vendor.RejectReason = &reason
	vendor.ApprovedBy = &reviewerID

	if err := s.db.Save(&vendor).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &vendor, nil
}

// Suspend 封禁商家
func (s *VendorService) Suspend(id uint, reason string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.db.First(&vendor, id).Error; err != nil {
		return nil, err
	}

	if vendor.Status != models.VendorStatusApproved {
		return nil, fmt.Errorf("只有营业中的商家可以封禁，当前状态: %s", vendor.Status)
	}

	vendor.Status = models.VendorStatusSuspended
	if reason != "" {
		vendor.RejectReason = &reason
	}

	if err := s.db.Save(&vendor).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &vendor, nil
}

// Reactivate 解除商家封禁
func (s *VendorService) Reactivate(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.db.First(&vendor, id).Error; err != nil {
		return nil, err
	}

	if vendor.Status != models.VendorStatusSuspended {
		return nil, fmt.Errorf("只有已封禁的商家可以恢复，当前状态: %s", vendor.Status)
	}

	vendor.Status = models.VendorStatusApproved

	if err := s.db.Save(&vendor).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &vendor, nil
}

// ========== 统计相关方法 ==========

// GetStats 获取商家统计
func (s *VendorService) GetStats() (*VendorStats, error) {
	var cached VendorStats
	if err := s.cache.Get(vendorResource, "stats", &cached); err == nil {
		return &cached, nil
	}

	stats := &VendorStats{}
	s.db.Model(&models.Vendor{}).Count(&stats.Total)
	s.db.Model(&models.Vendor{}).Where("status = ?", models.VendorStatusPending).Count(&stats.Pending)
	s.db.Model(&models.Vendor{}).Where("status = ?", models.VendorStatusApproved).Count(&stats.Approved)
	s.db.Model(&models.Vendor{}).Where("status = ?", models.VendorStatusRejected).Count(&stats.Rejected)
	s.db.Model(&models.Vendor{}).Where("status = ?", models.VendorStatusSuspended).Count(&stats.Suspended)

	ttl := time.Duration(config.GetConfig().Cache.StatsTime) * time.Second
	if err := s.cache.Set(vendorResource, "stats", stats, ttl); err != nil {
		logger.GetLogger().Warnf("写入商家统计缓存失败: %v", err)
	}
	return stats, nil
}

// ========== 缓存辅助方法 ==========

func (s *VendorService) cacheSet(key string, value interface{}) {
	ttl := time.Duration(config.GetConfig().Cache.StaleTime) * time.Second
	if err := s.cache.Set(vendorResource, key, value, ttl); err != nil {
		logger.GetLogger().Warnf("写入商家缓存失败: %v", err)
	}
}

// invalidate 写操作后整体失效商家缓存（列表、详情、统计）
// 仪表盘汇总包含商家统计，一并失效
func (s *VendorService) invalidate() {
	if err := s.cache.Invalidate(vendorResource, dashboardResource); err != nil {
		logger.GetLogger().Warnf("失效商家缓存失败: %v", err)
	}
}

// generateVendorCode 生成商家编号
func generateVendorCode() string {
	return "V" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}
