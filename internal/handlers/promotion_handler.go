package handlers

import (
	"fmt"
	"strconv"
	"time"

	"fdadmin/internal/services"
	"fdadmin/pkg/pagination"
	"fdadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

type PromotionHandler struct {
	promotionService *services.PromotionService
}

func NewPromotionHandler(promotionService *services.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// promotionSortFields 活动列表允许排序的字段
var promotionSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"start_at":   true,
	"end_at":     true,
}

type CreatePromotionRequest struct {
	Name        string         `json:"name" binding:"required,max=100"`
	Type        string         `json:"type" binding:"required"`
	Description string         `json:"description" binding:"max=500"`
	Rules       datatypes.JSON `json:"rules" binding:"required"`
	VendorID    *uint          `json:"vendor_id"`
	StartAt     time.Time      `json:"start_at" binding:"required"`
	EndAt       time.Time      `json:"end_at" binding:"required"`
}

type UpdatePromotionRequest struct {
	Name        string         `json:"name" binding:"required,max=100"`
	Description string         `json:"description" binding:"max=500"`
	Rules       datatypes.JSON `json:"rules" binding:"required"`
	StartAt     time.Time      `json:"start_at" binding:"required"`
	EndAt       time.Time      `json:"end_at" binding:"required"`
}

// Create 创建促销活动
func (h *PromotionHandler) Create(c *gin.Context) {
	var req CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 解析验证错误，提供更友好的提示
		if validationErr, ok := err.(validator.ValidationErrors); ok {
			errorMsg := "参数验证失败"
			for _, fieldErr := range validationErr {
				switch fieldErr.Field() {
				case "Name":
					errorMsg = "活动名称不能为空，且不能超过100个字符"
				case "Type":
					errorMsg = "活动类型必须是 discount、coupon 或 flash_sale"
				case "Rules":
					errorMsg = "活动规则不能为空"
				case "StartAt", "EndAt":
					errorMsg = "活动起止时间不能为空"
				default:
					errorMsg = fmt.Sprintf("字段 %s 验证失败", fieldErr.Field())
				}
				break // 只返回第一个错误
			}
			response.BadRequest(c, errorMsg)
			return
		}
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	promotion, err := h.promotionService.Create(req.Name, req.Type, req.Description,
		req.Rules, req.VendorID, req.StartAt, req.EndAt)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "创建成功", promotion)
}

// List 活动列表（分页+过滤+排序）
func (h *PromotionHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	sort := pagination.ParseSortParams(c, promotionSortFields, "created_at")

	status := c.Query("status")
	promotionType := c.Query("type")
	keyword := c.Query("search")

	promotions, total, err := h.promotionService.GetWithFiltersAndPage(
		status, promotionType, keyword, sort, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询活动列表失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, promotions, pageInfo)
}

// GetByID 活动详情
func (h *PromotionHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的活动ID")
		return
	}

	promotion, err := h.promotionService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "活动不存在")
		return
	}

	response.Success(c, promotion)
}

// Update 更新活动
func (h *PromotionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的活动ID")
		return
	}

	var req UpdatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	promotion, err := h.promotionService.Update(uint(id), req.Name, req.Description,
		req.Rules, req.StartAt, req.EndAt)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "更新成功", promotion)
}

// Delete 删除活动
func (h *PromotionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的活动ID")
		return
	}

	if err := h.promotionService.Delete(uint(id)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Activate 上线活动
func (h *PromotionHandler) Activate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的活动ID")
		return
	}

	promotion, err := h.promotionService.Activate(uint(id))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已上线", promotion)
}

// Deactivate 下线活动
func (h *PromotionHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的活动ID")
		return
	}

	promotion, err := h.promotionService.Deactivate(uint(id))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已下线", promotion)
}

// GetStats 活动统计
func (h *PromotionHandler) GetStats(c *gin.Context) {
	stats, err := h.promotionService.GetStats()
	if err != nil {
		response.ServerError(c, "查询活动统计失败")
		return
	}

	response.Success(c, stats)
}
