package handlers

import (
	"strconv"

	"fdadmin/internal/services"
	"fdadmin/pkg/pagination"
	"fdadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// orderSortFields 订单列表允许排序的字段
var orderSortFields = map[string]bool{
	"created_at": true,
	"amount":     true,
	"status":     true,
}

type AssignRiderRequest struct {
	RiderID uint `json:"rider_id" binding:"required"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=200"`
}

type RefundOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=200"`
}

// List 订单列表（分页+过滤+排序）
func (h *OrderHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	sort := pagination.ParseSortParams(c, orderSortFields, "created_at")

	status := c.Query("status")
	keyword := c.Query("search")
	vendorID := parseOptionalUint(c.Query("vendor_id"))
	riderID := parseOptionalUint(c.Query("rider_id"))

	orders, total, err := h.orderService.GetWithFiltersAndPage(
		status, vendorID, riderID, keyword, sort, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询订单列表失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, orders, pageInfo)
}

// GetByID 订单详情
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的订单ID")
		return
	}

	order, err := h.orderService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "订单不存在")
		return
	}

	response.Success(c, order)
}

// AssignRider 为订单指派骑手
func (h *OrderHandler) AssignRider(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的订单ID")
		return
	}

	var req AssignRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	order, err := h.orderService.AssignRider(uint(id), req.RiderID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "指派成功", order)
}

// Cancel 取消订单
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的订单ID")
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	order, err := h.orderService.Cancel(uint(id), req.Reason)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "订单已取消", order)
}

// Refund 订单退款
func (h *OrderHandler) Refund(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的订单ID")
		return
	}

	var req RefundOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	order, err := h.orderService.Refund(uint(id), req.Reason)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "退款成功", order)
}

// GetStats 订单统计
func (h *OrderHandler) GetStats(c *gin.Context) {
	stats, err := h.orderService.GetStats()
	if err != nil {
		response.ServerError(c, "查询订单统计失败")
		return
	}

	response.Success(c, stats)
}

// parseOptionalUint 解析可选的uint查询参数，非法或缺省返回nil
func parseOptionalUint(value string) *uint {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return nil
	}
	result := uint(parsed)
	return &result
}
