package models

import "time"

// Rider 骑手
type Rider struct {
	BaseModel
	Name            string     `json:"name" gorm:"not null;size:100;index"`
	Phone           string     `json:"phone" gorm:"uniqueIndex;not null;size:20"`
	Email           string     `json:"email" gorm:"size:100"`
	IDNumber        string     `json:"id_number" gorm:"size:30"` // 证件号
	City            string     `json:"city" gorm:"size:50;index"`
	VehicleType     string     `json:"vehicle_type" gorm:"size:20"` // 配送工具
	Rating          float64    `json:"rating" gorm:"default:0"`
	CompletedOrders int64      `json:"completed_orders" gorm:"default:0"`
	Status          string     `json:"status" gorm:"default:'pending';size:20;index"`
	RejectReason    *string    `json:"reject_reason" gorm:"size:255"`
	ApprovedAt      *time.Time `json:"approved_at"`
	ApprovedBy      *uint      `json:"approved_by"` // 审核人
}

// TableName 表名
func (r *Rider) TableName() string {
	return "riders"
}

// 骑手状态常量
const (
	RiderStatusPending   = "pending"   // 待审核
	RiderStatusApproved  = "approved"  // 已通过
	RiderStatusRejected  = "rejected"  // 已驳回
	RiderStatusSuspended = "suspended" // 已封禁
)

// 配送工具常量
const (
	VehicleTypeBicycle    = "bicycle"
	VehicleTypeEbike      = "ebike"
	VehicleTypeMotorcycle = "motorcycle"
)
