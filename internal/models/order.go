package models

import (
	"time"

	"gorm.io/datatypes"
)

// Order 订单
// 金额统一以分为单位存储，避免浮点误差
type Order struct {
	BaseModel
	OrderNo       string         `json:"order_no" gorm:"uniqueIndex;not null;size:40"`
	VendorID      uint           `json:"vendor_id" gorm:"not null;index"`
	VendorName    string         `json:"vendor_name" gorm:"size:100"` // 下单时商家名快照
	CustomerName  string         `json:"customer_name" gorm:"size:100"`
	CustomerPhone string         `json:"customer_phone" gorm:"size:20"`
	Address       string         `json:"address" gorm:"size:255"`
	Items         datatypes.JSON `json:"items"` // 订单明细快照
	Amount        int64          `json:"amount" gorm:"not null"`       // 商品金额（分）
	DeliveryFee   int64          `json:"delivery_fee" gorm:"default:0"` // 配送费（分）
	RiderID       *uint          `json:"rider_id" gorm:"index"`
	RiderName     *string        `json:"rider_name" gorm:"size:100"`
	Status        string         `json:"status" gorm:"default:'pending';size:20;index"`
	PlacedAt      time.Time      `json:"placed_at" gorm:"index"`
	CompletedAt   *time.Time     `json:"completed_at"`
	CancelReason  *string        `json:"cancel_reason" gorm:"size:255"`

	// 关联关系
	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Rider  *Rider  `gorm:"foreignKey:RiderID" json:"rider,omitempty"`
}

// TableName 表名
func (o *Order) TableName() string {
	return "orders"
}

// 订单状态常量
const (
	OrderStatusPending    = "pending"    // 待确认
	OrderStatusConfirmed  = "confirmed"  // 商家已接单
	OrderStatusPreparing  = "preparing"  // 备餐中
	OrderStatusDelivering = "delivering" // 配送中
	OrderStatusCompleted  = "completed"  // 已完成
	OrderStatusCancelled  = "cancelled"  // 已取消
	OrderStatusRefunded   = "refunded"   // 已退款
)

// IsActive 订单是否处于进行中状态
func (o *Order) IsActive() bool {
	switch o.Status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusDelivering:
		return true
	default:
		return false
	}
}
