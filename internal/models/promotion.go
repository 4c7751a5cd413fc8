package models

import (
	"time"

	"gorm.io/datatypes"
)

// Promotion 促销活动
// VendorID 为空表示平台级活动
type Promotion struct {
	BaseModel
	Name        string         `json:"name" gorm:"not null;size:100;index"`
	Type        string         `json:"type" gorm:"not null;size:20;index"`
	Description string         `json:"description" gorm:"size:255"`
	Rules       datatypes.JSON `json:"rules"` // 满减门槛、折扣率、券面额等
	VendorID    *uint          `json:"vendor_id" gorm:"index"`
	StartAt     time.Time      `json:"start_at" gorm:"index"`
	EndAt       time.Time      `json:"end_at" gorm:"index"`
	Status      string         `json:"status" gorm:"default:'draft';size:20;index"`

	// 关联关系
	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

// TableName 表名
func (p *Promotion) TableName() string {
	return "promotions"
}

// 活动类型常量
const (
	PromotionTypeDiscount  = "discount"   // 满减/折扣
	PromotionTypeCoupon    = "coupon"     // 优惠券
	PromotionTypeFlashSale = "flash_sale" // 限时抢购
)

// 活动状态常量
const (
	PromotionStatusDraft     = "draft"     // 草稿
	PromotionStatusScheduled = "scheduled" // 待开始
	PromotionStatusActive    = "active"    // 进行中
	PromotionStatusInactive  = "inactive"  // 已下线
	PromotionStatusExpired   = "expired"   // 已结束
)
