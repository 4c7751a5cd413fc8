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

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 缓存资源名
const promotionResource = "promotions"

type PromotionService struct {
	db    *gorm.DB
	cache *cache.QueryCache
}

// PromotionStats 活动统计信息
type PromotionStats struct {
	Total     int64 `json:"total"`
	Draft     int64 `json:"draft"`
	Scheduled int64 `json:"scheduled"`
	Active    int64 `json:"active"`
	Inactive  int64 `json:"inactive"`
	Expired   int64 `json:"expired"`
}

// PromotionPage 活动分页结果（用于缓存整页）
type PromotionPage struct {
	Items []*models.Promotion `json:"items"`
	Total int64               `json:"total"`
}

func NewPromotionService() *PromotionService {
	return &PromotionService{
		db:    database.GetDB(),
		cache: database.GetQueryCache(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建促销活动（初始为草稿）
func (s *PromotionService) Create(name, promotionType, description string, rules datatypes.JSON, vendorID *uint, startAt, endAt time.Time) (*models.Promotion, error) {
	if err := validatePromotionType(promotionType); err != nil {
		return nil, err
	}
	if !endAt.After(startAt) {
		return nil, fmt.Errorf("活动结束时间必须晚于开始时间")
	}

	// 商家级活动必须指向营业中的商家
	if vendorID != nil {
		var vendor models.Vendor
		if err := s.db.First(&vendor, *vendorID).Error; err != nil {
			return nil, fmt.Errorf("商家不存在")
		}
		if vendor.Status != models.VendorStatusApproved {
			return nil, fmt.Errorf("只能为营业中的商家创建活动")
		}
	}

	promotion := &models.Promotion{
		Name:        name,
		Type:        promotionType,
		Description: description,
		Rules:       rules,
		VendorID:    vendorID,
		StartAt:     startAt,
		EndAt:       endAt,
		Status:      models.PromotionStatusDraft,
	}

	if err := s.db.Create(promotion).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return promotion, nil
}

// GetByID 根据ID获取活动
func (s *PromotionService) GetByID(id uint) (*models.Promotion, error) {
	cacheKey := fmt.Sprintf("detail:%d", id)

	var cached models.Promotion
	if err := s.cache.Get(promotionResource, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var promotion models.Promotion
	if err := s.db.Preload("Vendor").First(&promotion, id).Error; err != nil {
		return nil, err
	}

	s.cacheSet(cacheKey, &promotion)
	return &promotion, nil
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *PromotionService) GetWithFiltersAndPage(status, promotionType, keyword string, sort *pagination.SortParams, page, pageSize int) ([]*models.Promotion, int64, error) {
	filter := &listquery.FilterState{
		Search:    keyword,
		Status:    status,
		SortBy:    sort.SortBy,
		SortOrder: sort.SortOrder,
		Page:      page,
		PageSize:  pageSize,
	}
	cacheKey := fmt.Sprintf("list:type=%s&%s", promotionType, filter.Key())

	var cached PromotionPage
	if err := s.cache.Get(promotionResource, cacheKey, &cached); err == nil {
		return cached.Items, cached.Total, nil
	}

	var promotions []*models.Promotion
	var total int64

	query := s.db.Model(&models.Promotion{})

	// 添加过滤条件
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if promotionType != "" {
		query = query.Where("type = ?", promotionType)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR description LIKE ?", searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order(sort.OrderClause()).Offset(offset).Limit(pageSize).Find(&promotions).Error
	if err != nil {
		return nil, 0, err
	}

	s.cacheSet(cacheKey, &PromotionPage{Items: promotions, Total: total})
	return promotions, total, nil
}

// Update 更新促销活动
// 进行中或已结束的活动不允许修改时间窗口之外的回退
func (s *PromotionService) Update(id uint, name, description string, rules datatypes.JSON, startAt, endAt time.Time) (*models.Promotion, error) {
	if !endAt.After(startAt) {
		return nil, fmt.Errorf("活动结束时间必须晚于开始时间")
	}

	var promotion models.Promotion
	if err := s.db.First(&promotion, id).Error; err != nil {
		return nil, err
	}

	if promotion.Status == models.PromotionStatusExpired {
		return nil, fmt.Errorf("已结束的活动不能修改")
	}

	promotion.Name = name
	promotion.Description = description
	if rules != nil {
		promotion.Rules = rules
	}
	promotion.StartAt = startAt
	promotion.EndAt = endAt

	if err := s.db.Save(&promotion).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &promotion, nil
}

// Delete 删除促销活动
func (s *PromotionService) Delete(id uint) error {
	var promotion models.Promotion
	if err := s.db.First(&promotion, id).Error; err != nil {
		return err
	}

	if promotion.Status == models.PromotionStatusActive {
		return fmt.Errorf("进行中的活动不能删除，请先下线")
	}

	if err := s.db.Delete(&models.Promotion{}, id).Error; err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// ========== 上下线操作 ==========

// Activate 上线活动
// 开始时间未到则进入待开始，已在窗口内则直接生效；已过期的不能上线
func (s *PromotionService) Activate(id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := s.db.First(&promotion, id).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	if !promotion.EndAt.After(now) {
		return nil, fmt.Errorf("活动时间窗口已过，不能上线")
	}

	switch promotion.Status {
	case models.PromotionStatusDraft, models.PromotionStatusInactive, models.PromotionStatusScheduled:
		// 可以上线
	default:
		return nil, fmt.Errorf("当前状态不允许上线: %s", promotion.Status)
	}

	if promotion.StartAt.After(now) {
		promotion.Status = models.PromotionStatusScheduled
	} else {
		promotion.Status = models.PromotionStatusActive
	}

	if err := s.db.Save(&promotion).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &promotion, nil
}

// Deactivate 下线活动
func (s *PromotionService) Deactivate(id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := s.db.First(&promotion, id).Error; err != nil {
		return nil, err
	}

	switch promotion.Status {
	case models.PromotionStatusActive, models.PromotionStatusScheduled:
		// 可以下线
	default:
		return nil, fmt.Errorf("当前状态不允许下线: %s", promotion.Status)
	}

	promotion.Status = models.PromotionStatusInactive

	if err := s.db.Save(&promotion).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &promotion, nil
}

// ========== 调度器使用的批量状态迁移 ==========

// ActivateDue 把开始时间已到的待开始活动置为进行中
func (s *PromotionService) ActivateDue() (int64, error) {
	result := s.db.Model(&models.Promotion{}).
		Where("status = ? AND start_at <= ?", models.PromotionStatusScheduled, time.Now()).
		Update("status", models.PromotionStatusActive)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		s.invalidate()
	}
	return result.RowsAffected, nil
}

// ExpireEnded 把结束时间已过的活动置为已结束
func (s *PromotionService) ExpireEnded() (int64, error) {
	result := s.db.Model(&models.Promotion{}).
		Where("status IN ? AND end_at < ?",
			[]string{models.PromotionStatusActive, models.PromotionStatusScheduled}, time.Now()).
		Update("status", models.PromotionStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		s.invalidate()
	}
	return result.RowsAffected, nil
}

// ========== 统计相关方法 ==========

// GetStats 获取活动统计
func (s *PromotionService) GetStats() (*PromotionStats, error) {
	var cached PromotionStats
	if err := s.cache.Get(promotionResource, "stats", &cached); err == nil {
		return &cached, nil
	}

	stats := &PromotionStats{}
	s.db.Model(&models.Promotion{}).Count(&stats.Total)
	s.db.Model(&models.Promotion{}).Where("status = ?", models.PromotionStatusDraft).Count(&stats.Draft)
	s.db.Model(&models.Promotion{}).Where("status = ?", models.PromotionStatusScheduled).Count(&stats.Scheduled)
	s.db.Model(&models.Promotion{}).Where("status = ?", models.PromotionStatusActive).Count(&stats.Active)
	s.db.Model(&models.Promotion{}).Where("status = ?", models.PromotionStatusInactive).Count(&stats.Inactive)
	s.db.Model(&models.Promotion{}).Where("status = ?", models.PromotionStatusExpired).Count(&stats.Expired)

	ttl := time.Duration(config.GetConfig().Cache.StatsTime) * time.Second
	if err := s.cache.Set(promotionResource, "stats", stats, ttl); err != nil {
		logger.GetLogger().Warnf("写入活动统计缓存失败: %v", err)
	}
	return stats, nil
}

// ========== 缓存辅助方法 ==========

func (s *PromotionService) cacheSet(key string, value interface{}) {
	ttl := time.Duration(config.GetConfig().Cache.StaleTime) * time.Second
	if err := s.cache.Set(promotionResource, key, value, ttl); err != nil {
		logger.GetLogger().Warnf("写入活动缓存失败: %v", err)
	}
}

// invalidate 写操作后整体失效活动缓存
// 仪表盘汇总包含活动统计，一并失效
func (s *PromotionService) invalidate() {
	if err := s.cache.Invalidate(promotionResource, dashboardResource); err != nil {
		logger.GetLogger().Warnf("失效活动缓存失败: %v", err)
	}
}

// validatePromotionType 校验活动类型
func validatePromotionType(promotionType string) error {
	switch promotionType {
	case models.PromotionTypeDiscount, models.PromotionTypeCoupon, models.PromotionTypeFlashSale:
		return nil
	default:
		return fmt.Errorf("无效的活动类型: %s", promotionType)
	}
}
