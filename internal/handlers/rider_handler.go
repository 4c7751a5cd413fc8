package handlers

import (
	"strconv"

	"fdadmin/internal/services"
	"fdadmin/pkg/pagination"
	"fdadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type RiderHandler struct {
	riderService *services.RiderService
}

func NewRiderHandler(riderService *services.RiderService) *RiderHandler {
	return &RiderHandler{riderService: riderService}
}

// riderSortFields 骑手列表允许排序的字段
var riderSortFields = map[string]bool{
	"created_at":       true,
	"name":             true,
	"rating":           true,
	"completed_orders": true,
}

type UpdateRiderRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
	City        string `json:"city" binding:"required,max=50"`
	VehicleType string `json:"vehicle_type" binding:"required"`
}

// List 骑手列表（分页+过滤+排序）
func (h *RiderHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	sort := pagination.ParseSortParams(c, riderSortFields, "created_at")

	status := c.Query("status")
	city := c.Query("city")
	keyword := c.Query("search")

	riders, total, err := h.riderService.GetWithFiltersAndPage(
		status, city, keyword, sort, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询骑手列表失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, riders, pageInfo)
}

// GetByID 骑手详情
func (h *RiderHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的骑手ID")
		return
	}

	rider, err := h.riderService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "骑手不存在")
		return
	}

	response.Success(c, rider)
}

// Update 更新骑手信息
func (h *RiderHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的骑手ID")
		return
	}

	var req UpdateRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	rider, err := h.riderService.Update(uint(id), req.Name, req.Email, req.City, req.VehicleType)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "更新成功", rider)
}

// Delete 删除骑手
func (h *RiderHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的骑手ID")
		return
	}

	if err := h.riderService.Delete(uint(id)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Approve 审核通过骑手注册申请
func (h *RiderHandler) Approve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的骑手ID")
		return
	}

	reviewerID := c.GetUint("user_id")
	rider, err := h.riderService.Approve(uint(id), reviewerID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "审核通过", rider)
}

// Reject 驳回骑手注册申请
func (h *RiderHandler) Reject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的骑手ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	reviewerID := c.GetUint("user_id")
	rider, err := h.riderService.Reject(uint(id), reviewerID, req.Reason)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已驳回", rider)
}

// Suspend 封禁骑手
func (h *RiderHandler) Suspend(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的骑手ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	rider, err := h.riderService.Suspend(uint(id), req.Reason)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已封禁", rider)
}

// Reactivate 解除封禁
func (h *RiderHandler) Reactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的骑手ID")
		return
	}

	rider, err := h.riderService.Reactivate(uint(id))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已恢复", rider)
}

// GetStats 骑手统计
func (h *RiderHandler) GetStats(c *gin.Context) {
	stats, err := h.riderService.GetStats()
	if err != nil {
		response.ServerError(c, "查询骑手统计失败")
		return
	}

	response.Success(c, stats)
}
