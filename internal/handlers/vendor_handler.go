package handlers

import (
	"strconv"

	"fdadmin/internal/services"
	"fdadmin/pkg/pagination"
	"fdadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type VendorHandler struct {
	vendorService *services.VendorService
}

func NewVendorHandler(vendorService *services.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// vendorSortFields 商家列表允许排序的字段
var vendorSortFields = map[string]bool{
	"created_at":      true,
	"name":            true,
	"rating":          true,
	"commission_rate": true,
}

type CreateVendorRequest struct {
	Name           string         `json:"name" binding:"required,max=100"`
	ContactName    string         `json:"contact_name" binding:"required,max=50"`
	ContactPhone   string         `json:"contact_phone" binding:"required,max=20"`
	Email          string         `json:"email" binding:"omitempty,email"`
	Address        string         `json:"address" binding:"required,max=200"`
	CuisineType    string         `json:"cuisine_type" binding:"required,max=50"`
	CommissionRate float64        `json:"commission_rate" binding:"min=0,max=1"`
	OpeningHours   datatypes.JSON `json:"opening_hours"`
}

type UpdateVendorRequest struct {
	Name           string         `json:"name" binding:"required,max=100"`
	ContactName    string         `json:"contact_name" binding:"required,max=50"`
	ContactPhone   string         `json:"contact_phone" binding:"required,max=20"`
	Email          string         `json:"email" binding:"omitempty,email"`
	Address        string         `json:"address" binding:"required,max=200"`
	CuisineType    string         `json:"cuisine_type" binding:"required,max=50"`
	CommissionRate float64        `json:"commission_rate" binding:"min=0,max=1"`
	OpeningHours   datatypes.JSON `json:"opening_hours"`
}

type ReviewRequest struct {
	Reason string `json:"reason" binding:"max=200"`
}

// Create 创建商家（入驻申请）
func (h *VendorHandler) Create(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	vendor, err := h.vendorService.Create(req.Name, req.ContactName, req.ContactPhone,
		req.Email, req.Address, req.CuisineType, req.CommissionRate, req.OpeningHours)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "创建成功", vendor)
}

// List 商家列表（分页+过滤+排序）
func (h *VendorHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	sort := pagination.ParseSortParams(c, vendorSortFields, "created_at")

	status := c.Query("status")
	cuisineType := c.Query("cuisine_type")
	keyword := c.Query("search")

	vendors, total, err := h.vendorService.GetWithFiltersAndPage(
		status, cuisineType, keyword, sort, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询商家列表失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, vendors, pageInfo)
}

// GetByID 商家详情
func (h *VendorHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的商家ID")
		return
	}

	vendor, err := h.vendorService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "商家不存在")
		return
	}

	response.Success(c, vendor)
}

// Update 更新商家信息
func (h *VendorHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的商家ID")
		return
	}

	var req UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	vendor, err := h.vendorService.Update(uint(id), req.Name, req.ContactName, req.ContactPhone,
		req.Email, req.Address, req.CuisineType, req.CommissionRate, req.OpeningHours)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "更新成功", vendor)
}

// Delete 删除商家
func (h *VendorHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的商家ID")
		return
	}

	if err := h.vendorService.Delete(uint(id)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Approve 审核通过
func (h *VendorHandler) Approve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的商家ID")
		return
	}

	reviewerID := c.GetUint("user_id")
	vendor, err := h.vendorService.Approve(uint(id), reviewerID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "审核通过", vendor)
}

// Reject 驳回入驻申请
func (h *VendorHandler) Reject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的商家ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	reviewerID := c.GetUint("user_id")
	vendor, err := h.vendorService.Reject(uint(id), reviewerID, req.Reason)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已驳回", vendor)
}

// Suspend 封禁商家
func (h *VendorHandler) Suspend(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的商家ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	vendor, err := h.vendorService.Suspend(uint(id), req.Reason)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已封禁", vendor)
}

// Reactivate 解除封禁
func (h *VendorHandler) Reactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的商家ID")
		return
	}

	vendor, err := h.vendorService.Reactivate(uint(id))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已恢复", vendor)
}

// GetStats 商家统计
func (h *VendorHandler) GetStats(c *gin.Context) {
	stats, err := h.vendorService.GetStats()
	if err != nil {
		response.ServerError(c, "查询商家统计失败")
		return
	}

	response.Success(c, stats)
}
