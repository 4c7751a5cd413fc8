package services

import (
	"time"

	"fdadmin/internal/database"
	"fdadmin/pkg/cache"
	"fdadmin/pkg/config"
	"fdadmin/pkg/logger"

	"gorm.io/gorm"
)

// 缓存资源名
const dashboardResource = "dashboard"

type DashboardService struct {
	db    *gorm.DB
	cache *cache.QueryCache

	vendorService    *VendorService
	riderService     *RiderService
	orderService     *OrderService
	promotionService *PromotionService
	adService        *AdvertisementService
	userService      *UserService
}

// DashboardStats 平台统计汇总
// 仪表盘首屏一次取齐各模块统计，整体缓存
type DashboardStats struct {
	Vendors     *VendorStats    `json:"vendors"`
	Riders      *RiderStats     `json:"riders"`
	Orders      *OrderStats     `json:"orders"`
	Promotions  *PromotionStats `json:"promotions"`
	Ads         *AdStats        `json:"ads"`
	Users       *UserStats      `json:"users"`
	GeneratedAt time.Time       `json:"generated_at"`
}

func NewDashboardService() *DashboardService {
	return &DashboardService{
		db:               database.GetDB(),
		cache:            database.GetQueryCache(),
		vendorService:    NewVendorService(),
		riderService:     NewRiderService(),
		orderService:     NewOrderService(),
		promotionService: NewPromotionService(),
		adService:        NewAdvertisementService(),
		userService:      NewUserService(),
	}
}

// GetStats 获取平台统计汇总
func (s *DashboardService) GetStats() (*DashboardStats, error) {
	var cached DashboardStats
	if err := s.cache.Get(dashboardResource, "stats", &cached); err == nil {
		return &cached, nil
	}

	vendorStats, err := s.vendorService.GetStats()
	if err != nil {
		return nil, err
	}
	riderStats, err := s.riderService.GetStats()
	if err != nil {
		return nil, err
	}
	orderStats, err := s.orderService.GetStats()
	if err != nil {
		return nil, err
	}
	promotionStats, err := s.promotionService.GetStats()
	if err != nil {
		return nil, err
	}
	adStats, err := s.adService.GetStats()
	if err != nil {
		return nil, err
	}
	userStats, err := s.userService.GetStats()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Vendors:     vendorStats,
		Riders:      riderStats,
		Orders:      orderStats,
		Promotions:  promotionStats,
		Ads:         adStats,
		Users:       userStats,
		GeneratedAt: time.Now(),
	}

	ttl := time.Duration(config.GetConfig().Cache.StatsTime) * time.Second
	if err := s.cache.Set(dashboardResource, "stats", stats, ttl); err != nil {
		logger.GetLogger().Warnf("写入仪表盘统计缓存失败: %v", err)
	}
	return stats, nil
}
