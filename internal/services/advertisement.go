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
const adResource = "advertisements"

type AdvertisementService struct {
	db    *gorm.DB
	cache *cache.QueryCache
}

// AdStats 广告统计信息
type AdStats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Paused  int64 `json:"paused"`
	Expired int64 `json:"expired"`
}

// AdPage 广告分页结果（用于缓存整页）
type AdPage struct {
	Items []*models.Advertisement `json:"items"`
	Total int64                   `json:"total"`
}

func NewAdvertisementService() *AdvertisementService {
	return &AdvertisementService{
		db:    database.GetDB(),
		cache: database.GetQueryCache(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建广告投放
func (s *AdvertisementService) Create(title, placement, imageURL, targetURL string, vendorID *uint, targeting datatypes.JSON, weight int, startAt, endAt time.Time) (*models.Advertisement, error) {
	if err := validatePlacement(placement); err != nil {
		return nil, err
	}
	if !endAt.After(startAt) {
		return nil, fmt.Errorf("投放结束时间必须晚于开始时间")
	}

	// 商家广告必须指向营业中的商家
	if vendorID != nil {
		var vendor models.Vendor
		if err := s.db.First(&vendor, *vendorID).Error; err != nil {
			return nil, fmt.Errorf("商家不存在")
		}
		if vendor.Status != models.VendorStatusApproved {
			return nil, fmt.Errorf("只能为营业中的商家投放广告")
		}
	}

	ad := &models.Advertisement{
		Title:     title,
		Placement: placement,
		ImageURL:  imageURL,
		TargetURL: targetURL,
		VendorID:  vendorID,
		Targeting: targeting,
		Weight:    weight,
		StartAt:   startAt,
		EndAt:     endAt,
		Status:    models.AdStatusActive,
	}

	if err := s.db.Create(ad).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return ad, nil
}

// GetByID 根据ID获取广告
func (s *AdvertisementService) GetByID(id uint) (*models.Advertisement, error) {
	cacheKey := fmt.Sprintf("detail:%d", id)

	var cached models.Advertisement
	if err := s.cache.Get(adResource, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var ad models.Advertisement
	if err := s.db.Preload("Vendor").First(&ad, id).Error; err != nil {
		return nil, err
	}

	s.cacheSet(cacheKey, &ad)
	return &ad, nil
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *AdvertisementService) GetWithFiltersAndPage(status, placement, keyword string, sort *pagination.SortParams, page, pageSize int) ([]*models.Advertisement, int64, error) {
	filter := &listquery.FilterState{
		Search:    keyword,
		Status:    status,
		SortBy:    sort.SortBy,
		SortOrder: sort.SortOrder,
		Page:      page,
		PageSize:  pageSize,
	}
	cacheKey := fmt.Sprintf("list:placement=%s&%s", placement, filter.Key())

	var cached AdPage
	if err := s.cache.Get(adResource, cacheKey, &cached); err == nil {
		return cached.Items, cached.Total, nil
	}

	var ads []*models.Advertisement
	var total int64

	query := s.db.Model(&models.Advertisement{})

	// 添加过滤条件
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if placement != "" {
		query = query.Where("placement = ?", placement)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("title LIKE ?", searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order(sort.OrderClause()).Offset(offset).Limit(pageSize).Find(&ads).Error
	if err != nil {
		return nil, 0, err
	}

	s.cacheSet(cacheKey, &AdPage{Items: ads, Total: total})
	return ads, total, nil
}

// Update 更新广告
func (s *AdvertisementService) Update(id uint, title, imageURL, targetURL string, targeting datatypes.JSON, weight int, startAt, endAt time.Time) (*models.Advertisement, error) {
	if !endAt.After(startAt) {
		return nil, fmt.Errorf("投放结束时间必须晚于开始时间")
	}

	var ad models.Advertisement
	if err := s.db.First(&ad, id).Error; err != nil {
		return nil, err
	}

	if ad.Status == models.AdStatusExpired {
		return nil, fmt.Errorf("已过期的广告不能修改")
	}

	ad.Title = title
	ad.ImageURL = imageURL
	ad.TargetURL = targetURL
	if targeting != nil {
		ad.Targeting = targeting
	}
	ad.Weight = weight
	ad.StartAt = startAt
	ad.EndAt = endAt

	if err := s.db.Save(&ad).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &ad, nil
}

// Delete 删除广告
func (s *AdvertisementService) Delete(id uint) error {
	if err := s.db.Delete(&models.Advertisement{}, id).Error; err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// ========== 暂停与恢复 ==========

// Pause 暂停广告投放
func (s *AdvertisementService) Pause(id uint) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := s.db.First(&ad, id).Error; err != nil {
		return nil, err
	}

	if ad.Status != models.AdStatusActive {
		return nil, fmt.Errorf("只有投放中的广告可以暂停，当前状态: %s", ad.Status)
	}

	ad.Status = models.AdStatusPaused

	if err := s.db.Save(&ad).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &ad, nil
}

// Resume 恢复广告投放
func (s *AdvertisementService) Resume(id uint) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := s.db.First(&ad, id).Error; err != nil {
		return nil, err
	}

	if ad.Status != models.AdStatusPaused {
		return nil, fmt.Errorf("只有已暂停的广告可以恢复，当前状态: %s", ad.Status)
	}

	if !ad.EndAt.After(time.Now()) {
		return nil, fmt.Errorf("投放时间窗口已过，不能恢复")
	}

	ad.Status = models.AdStatusActive

	if err := s.db.Save(&ad).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return &ad, nil
}

// ExpireEnded 把结束时间已过的广告置为已过期（调度器调用）
func (s *AdvertisementService) ExpireEnded() (int64, error) {
	result := s.db.Model(&models.Advertisement{}).
		Where("status IN ? AND end_at < ?",
			[]string{models.AdStatusActive, models.AdStatusPaused}, time.Now()).
		Update("status", models.AdStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		s.invalidate()
	}
	return result.RowsAffected, nil
}

// ========== 统计相关方法 ==========

// GetStats 获取广告统计
func (s *AdvertisementService) GetStats() (*AdStats, error) {
	var cached AdStats
	if err := s.cache.Get(adResource, "stats", &cached); err == nil {
		return &cached, nil
	}

	stats := &AdStats{}
	s.db.Model(&models.Advertisement{}).Count(&stats.Total)
	s.db.Model(&models.Advertisement{}).Where("status = ?", models.AdStatusActive).Count(&stats.Active)
	s.db.Model(&models.Advertisement{}).Where("status = ?", models.AdStatusPaused).Count(&stats.Paused)
	s.db.Model(&models.Advertisement{}).Where("status = ?", models.AdStatusExpired).Count(&stats.Expired)

	ttl := time.Duration(config.GetConfig().Cache.StatsTime) * time.Second
	if err := s.cache.Set(adResource, "stats", stats, ttl); err != nil {
		logger.GetLogger().Warnf("写入广告统计缓存失败: %v", err)
	}
	return stats, nil
}

// ========== 缓存辅助方法 ==========

func (s *AdvertisementService) cacheSet(key string, value interface{}) {
	ttl := time.Duration(config.GetConfig().Cache.StaleTime) * time.Second
	if err := s.cache.Set(adResource, key, value, ttl); err != nil {
		logger.GetLogger().Warnf("写入广告缓存失败: %v", err)
	}
}

// invalidate 写操作后整体失效广告缓存
// 仪表盘汇总包含广告统计，一并失效
func (s *AdvertisementService) invalidate() {
	if err := s.cache.Invalidate(adResource, dashboardResource); err != nil {
		logger.GetLogger().Warnf("失效广告缓存失败: %v", err)
	}
}

// validatePlacement 校验广告位置
func validatePlacement(placement string) error {
	switch placement {
	case models.AdPlacementHomeBanner, models.AdPlacementSearchTop, models.AdPlacementCategoryFeed:
		return nil
	default:
		return fmt.Errorf("无效的广告位置: %s", placement)
	}
}
