package models

import (
	"time"

	"gorm.io/datatypes"
)

// Vendor 商家
type Vendor struct {
	BaseModel
	Code           string         `json:"code" gorm:"uniqueIndex;not null;size:40"` // 商家编号
	Name           string         `json:"name" gorm:"not null;size:100;index"`
	ContactName    string         `json:"contact_name" gorm:"size:100"`
	ContactPhone   string         `json:"contact_phone" gorm:"size:20"`
	Email          string         `json:"email" gorm:"size:100"`
	Address        string         `json:"address" gorm:"size:255"`
	CuisineType    string         `json:"cuisine_type" gorm:"size:50;index"` // 菜系分类
	CommissionRate float64        `json:"commission_rate" gorm:"default:0"`  // 平台抽佣比例
	Rating         float64        `json:"rating" gorm:"default:0"`
	OpeningHours   datatypes.JSON `json:"opening_hours"` // 营业时间，按星期存储
	Status         string         `json:"status" gorm:"default:'pending';size:20;index"`
	RejectReason   *string        `json:"reject_reason" gorm:"size:255"`
	ApprovedAt     *time.Time     `json:"approved_at"`
	ApprovedBy     *uint          `json:"approved_by"` // 审核人
}

// TableName 表名
func (v *Vendor) TableName() string {
	return "vendors"
}

// 商家状态常量
const (
	VendorStatusPending   = "pending"   // 待审核
	VendorStatusApproved  = "approved"  // 已通过
	VendorStatusRejected  = "rejected"  // 已驳回
	VendorStatusSuspended = "suspended" // 已封禁
)
