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
const orderResource = "orders"

type OrderService struct {
	db    *gorm.DB
	cache *cache.QueryCache
}

// OrderStats 订单统计信息
type OrderStats struct {
	Total         int64 `json:"total"`
	Active        int64 `json:"active"`          // 进行中（待确认/已接单/备餐中/配送中）
	Completed     int64 `json:"completed"`
	Cancelled     int64 `json:"cancelled"`
	Refunded      int64 `json:"refunded"`
	TodayCount    int64 `json:"today_count"`     // 今日订单数
	TodayRevenue  int64 `json:"today_revenue"`   // 今日已完成订单金额（分）
}

// OrderPage 订单分页结果（用于缓存整页）
type OrderPage struct {
	Items []*models.Order `json:"items"`
	Total int64           `json:"total"`
}

func NewOrderService() *OrderService {
	return &OrderService{
		db:    database.GetDB(),
		cache: database.GetQueryCache(),
	}
}

// ========== 查询方法 ==========

// GetByID 根据ID获取订单（含商家与骑手）
func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	cacheKey := fmt.Sprintf("detail:%d", id)

	var cached models.Order
	if err := s.cache.Get(orderResource, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var order models.Order
	if err := s.db.Preload("Vendor").Preload("Rider").First(&order, id).Error; err != nil {
		return nil, err
	}

	s.cacheSet(cacheKey, &order)
	return &order, nil
}

// GetByOrderNo 根据订单号获取订单
func (s *OrderService) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Vendor").Preload("Rider").Where("order_no = ?", orderNo).First(&order).Error
	return &order, err
}

// GetWithFiltersAndPage 组合查询（分页版本）
// keyword 匹配订单号、商家名快照或客户姓名
func (s *OrderService) GetWithFiltersAndPage(status string, vendorID, riderID *uint, keyword string, sort *pagination.SortParams, page, pageSize int) ([]*models.Order, int64, error) {
	filter := &listquery.FilterState{
		Search:    keyword,
		Status:    status,
		SortBy:    sort.SortBy,
		SortOrder: sort.SortOrder,
		Page:      page,
		PageSize:  pageSize,
	}
	cacheKey := fmt.Sprintf("list:vendor=%v&rider=%v&%s", ptrKey(vendorID), ptrKey(riderID), filter.Key())

	var cached OrderPage
	if err := s.cache.Get(orderResource, cacheKey, &cached); err == nil {
		return cached.Items, cached.Total, nil
	}

	var orders []*models.Order
	var total int64

	query := s.db.Model(&models.Order{})

	// 添加过滤条件
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}
	if riderID != nil {
		query = query.Where("rider_id = ?", *riderID)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("order_no LIKE ? OR vendor_name LIKE ? OR customer_name LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order(sort.OrderClause()).Offset(offset).Limit(pageSize).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	s.cacheSet(cacheKey, &OrderPage{Items: orders, Total: total})
	return orders, total, nil
}

// ========== 订单操作 ==========

// AssignRider 为订单指派骑手
// 只有进行中且尚未进入配送的订单可以指派；骑手必须在职
func (s *OrderService) AssignRider(orderID, riderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		return nil, err
	}

	switch order.Status {
	case models.OrderStatusConfirmed, models.OrderStatusPreparing:
		// 可以指派
	default:
		return nil, fmt.Errorf("当前状态不允许指派骑手: %s", order.Status)
	}

	var rider models.Rider
	if err := s.db.First(&rider, riderID).Error; err != nil {
		return nil, fmt.Errorf("骑手不存在")
	}
	if rider.Status != models.RiderStatusApproved {
		return nil, fmt.Errorf("只能指派在职骑手，骑手当前状态: %s", rider.Status)
	}

	order.RiderID = &rider.ID
	order.RiderName = &rider.Name

	if err := s.db.Save(&order).Error; err != nil {
		return nil, err
	}

	// 指派影响订单列表/详情与骑手视图
	s.invalidate(orderResource, riderResource)
	return &order, nil
}

// Cancel 取消订单
func (s *OrderService) Cancel(id uint, reason string) (*models.Order, error) {
	if reason == "" {
		return nil, fmt.Errorf("取消原因不能为空")
	}

	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return nil, err
	}

	if !order.IsActive() {
		return nil, fmt.Errorf("只有进行中的订单可以取消，当前状态: %s", order.Status)
	}

	order.Status = models.OrderStatusCancelled
	order.CancelReason = &reason

	if err := s.db.Save(&order).Error; err != nil {
		return nil, err
	}

	s.invalidate(orderResource)
	return &order, nil
}

// Refund 订单退款
// 只有已完成或已取消（已支付）的订单可以退款
func (s *OrderService) Refund(id uint, reason string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return nil, err
	}

	switch order.Status {
	case models.OrderStatusCompleted, models.OrderStatusCancelled:
		// 可以退款
	default:
		return nil, fmt.Errorf("当前状态不允许退款: %s", order.Status)
	}

	order.Status = models.OrderStatusRefunded
	if reason != "" {
		order.CancelReason = &reason
	}

	if err := s.db.Save(&order).Error; err != nil {
		return nil, err
	}

	s.invalidate(orderResource)
	return &order, nil
}

// ========== 统计相关方法 ==========

// GetStats 获取订单统计
func (s *OrderService) GetStats() (*OrderStats, error) {
	var cached OrderStats
	if err := s.cache.Get(orderResource, "stats", &cached); err == nil {
		return &cached, nil
	}

	stats := &OrderStats{}
	activeStatuses := []string{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusDelivering,
	}

	s.db.Model(&models.Order{}).Count(&stats.Total)
	s.db.Model(&models.Order{}).Where("status IN ?", activeStatuses).Count(&stats.Active)
	s.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted).Count(&stats.Completed)
	s.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusCancelled).Count(&stats.Cancelled)
	s.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusRefunded).Count(&stats.Refunded)

	today := time.Now().Truncate(24 * time.Hour)
	s.db.Model(&models.Order{}).Where("placed_at >= ?", today).Count(&stats.TodayCount)

	var revenue *int64
	s.db.Model(&models.Order{}).
		Select("SUM(amount + delivery_fee)").
		Where("status = ? AND placed_at >= ?", models.OrderStatusCompleted, today).
		Scan(&revenue)
	if revenue != nil {
		stats.TodayRevenue = *revenue
	}

	ttl := time.Duration(config.GetConfig().Cache.StatsTime) * time.Second
	if err := s.cache.Set(orderResource, "stats", stats, ttl); err != nil {
		logger.GetLogger().Warnf("写入订单统计缓存失败: %v", err)
	}
	return stats, nil
}

// ========== 缓存辅助方法 ==========

func (s *OrderService) cacheSet(key string, value interface{}) {
	ttl := time.Duration(config.GetConfig().Cache.StaleTime) * time.Second
	if err := s.cache.Set(orderResource, key, value, ttl); err != nil {
		logger.GetLogger().Warnf("写入订单缓存失败: %v", err)
	}
}

// invalidate 写操作后失效受影响资源的缓存
// 仪表盘汇总包含订单统计，一并失效
func (s *OrderService) invalidate(resources ...string) {
	if err := s.cache.Invalidate(append(resources, dashboardResource)...); err != nil {
		logger.GetLogger().Warnf("失效订单缓存失败: %v", err)
	}
}

// ptrKey 将可空ID转换为缓存键片段
func ptrKey(id *uint) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}
