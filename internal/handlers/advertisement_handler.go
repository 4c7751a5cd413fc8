package handlers

import (
	"strconv"
	"time"

	"fdadmin/internal/services"
	"fdadmin/pkg/pagination"
	"fdadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type AdvertisementHandler struct {
	adService *services.AdvertisementService
}

func NewAdvertisementHandler(adService *services.AdvertisementService) *AdvertisementHandler {
	return &AdvertisementHandler{adService: adService}
}

// adSortFields 广告列表允许排序的字段
var adSortFields = map[string]bool{
	"created_at": true,
	"title":      true,
	"weight":     true,
	"end_at":     true,
}

type CreateAdRequest struct {
	Title     string         `json:"title" binding:"required,max=100"`
	Placement string         `json:"placement" binding:"required"`
	ImageURL  string         `json:"image_url" binding:"required,url"`
	TargetURL string         `json:"target_url" binding:"required,url"`
	VendorID  *uint          `json:"vendor_id"`
	Targeting datatypes.JSON `json:"targeting"`
	Weight    int            `json:"weight" binding:"min=0,max=100"`
	StartAt   time.Time      `json:"start_at" binding:"required"`
	EndAt     time.Time      `json:"end_at" binding:"required"`
}

type UpdateAdRequest struct {
	Title     string         `json:"title" binding:"required,max=100"`
	ImageURL  string         `json:"image_url" binding:"required,url"`
	TargetURL string         `json:"target_url" binding:"required,url"`
	Targeting datatypes.JSON `json:"targeting"`
	Weight    int            `json:"weight" binding:"min=0,max=100"`
	StartAt   time.Time      `json:"start_at" binding:"required"`
	EndAt     time.Time      `json:"end_at" binding:"required"`
}

// Create 创建广告
func (h *AdvertisementHandler) Create(c *gin.Context) {
	var req CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	ad, err := h.adService.Create(req.Title, req.Placement, req.ImageURL, req.TargetURL,
		req.VendorID, req.Targeting, req.Weight, req.StartAt, req.EndAt)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "创建成功", ad)
}

// List 广告列表（分页+过滤+排序）
func (h *AdvertisementHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	sort := pagination.ParseSortParams(c, adSortFields, "created_at")

	status := c.Query("status")
	placement := c.Query("placement")
	keyword := c.Query("search")

	ads, total, err := h.adService.GetWithFiltersAndPage(
		status, placement, keyword, sort, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询广告列表失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, ads, pageInfo)
}

// GetByID 广告详情
func (h *AdvertisementHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的广告ID")
		return
	}

	ad, err := h.adService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "广告不存在")
		return
	}

	response.Success(c, ad)
}

// Update 更新广告
func (h *AdvertisementHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的广告ID")
		return
	}

	var req UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	ad, err := h.adService.Update(uint(id), req.Title, req.ImageURL, req.TargetURL,
		req.Targeting, req.Weight, req.StartAt, req.EndAt)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "更新成功", ad)
}

// Delete 删除广告
func (h *AdvertisementHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的广告ID")
		return
	}

	if err := h.adService.Delete(uint(id)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Pause 暂停投放
func (h *AdvertisementHandler) Pause(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的广告ID")
		return
	}

	ad, err := h.adService.Pause(uint(id))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已暂停", ad)
}

// Resume 恢复投放
func (h *AdvertisementHandler) Resume(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的广告ID")
		return
	}

	ad, err := h.adService.Resume(uint(id))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已恢复", ad)
}

// GetStats 广告统计
func (h *AdvertisementHandler) GetStats(c *gin.Context) {
	stats, err := h.adService.GetStats()
	if err != nil {
		response.ServerError(c, "查询广告统计失败")
		return
	}

	response.Success(c, stats)
}
