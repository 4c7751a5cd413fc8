package models

import (
	"time"

	"gorm.io/datatypes"
)

// Advertisement 广告位投放
type Advertisement struct {
	BaseModel
	Title     string         `json:"title" gorm:"not null;size:100;index"`
	Placement string         `json:"placement" gorm:"not null;size:30;index"` // 投放位置
	ImageURL  string         `json:"image_url" gorm:"size:255"`
	TargetURL string         `json:"target_url" gorm:"size:255"`
	VendorID  *uint          `json:"vendor_id" gorm:"index"` // 为空表示平台自营广告
	Targeting datatypes.JSON `json:"targeting"`              // 城市、时段等定向条件
	Weight    int            `json:"weight" gorm:"default:0"` // 同位置排序权重
	StartAt   time.Time      `json:"start_at" gorm:"index"`
	EndAt     time.Time      `json:"end_at" gorm:"index"`
	Status    string         `json:"status" gorm:"default:'active';size:20;index"`

	// 关联关系
	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

// TableName 表名
func (a *Advertisement) TableName() string {
	return "advertisements"
}

// 广告位置常量
const (
	AdPlacementHomeBanner   = "home_banner"   // 首页轮播
	AdPlacementSearchTop    = "search_top"    // 搜索置顶
	AdPlacementCategoryFeed = "category_feed" // 分类信息流
)

// 广告状态常量
const (
	AdStatusActive  = "active"  // 投放中
	AdStatusPaused  = "paused"  // 已暂停
	AdStatusExpired = "expired" // 已过期
)
