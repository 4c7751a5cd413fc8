package handlers

import (
	"fmt"
	"time"

	"fdadmin/internal/client"
	"fdadmin/internal/database"
	"fdadmin/pkg/cache"
	"fdadmin/pkg/config"
	"fdadmin/pkg/listquery"
	"fdadmin/pkg/logger"
	"fdadmin/pkg/pagination"
	"fdadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

// 缓存资源名
const liveResource = "live"

// LiveHandler 实时数据接口
// 数据来自配送核心服务，短TTL缓存兜住管理台的轮询
type LiveHandler struct {
	coreClient *client.CoreClient
	cache      *cache.QueryCache
}

func NewLiveHandler(coreClient *client.CoreClient) *LiveHandler {
	return &LiveHandler{
		coreClient: coreClient,
		cache:      database.GetQueryCache(),
	}
}

// liveFilter 从查询参数构建过滤状态
func liveFilter(c *gin.Context) *listquery.FilterState {
	params := pagination.ParsePageParams(c)
	return &listquery.FilterState{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Page:     params.Page,
		PageSize: params.PageSize,
	}
}

// LiveOrders 进行中订单列表
func (h *LiveHandler) LiveOrders(c *gin.Context) {
	filter := liveFilter(c)
	cacheKey := "orders:" + filter.Key()

	var cached client.PaginatedResult[client.LiveOrder]
	if err := h.cache.Get(liveResource, cacheKey, &cached); err == nil {
		response.Success(c, &cached)
		return
	}

	result, err := h.coreClient.ListLiveOrders(c.Request.Context(), filter)
	if err != nil {
		response.UpstreamError(c, err.Error())
		return
	}

	h.cacheSet(cacheKey, result)
	response.Success(c, result)
}

// OnlineRiders 在线骑手列表
func (h *LiveHandler) OnlineRiders(c *gin.Context) {
	filter := liveFilter(c)
	cacheKey := "riders:" + filter.Key()

	var cached client.PaginatedResult[client.OnlineRider]
	if err := h.cache.Get(liveResource, cacheKey, &cached); err == nil {
		response.Success(c, &cached)
		return
	}

	result, err := h.coreClient.ListOnlineRiders(c.Request.Context(), filter)
	if err != nil {
		response.UpstreamError(c, err.Error())
		return
	}

	h.cacheSet(cacheKey, result)
	response.Success(c, result)
}

// OrderTracking 订单配送轨迹
func (h *LiveHandler) OrderTracking(c *gin.Context) {
	orderNo := c.Param("order_no")
	if orderNo == "" {
		response.BadRequest(c, "订单号不能为空")
		return
	}
	cacheKey := fmt.Sprintf("tracking:%s", orderNo)

	var cached []client.TrackingPoint
	if err := h.cache.Get(liveResource, cacheKey, &cached); err == nil {
		response.Success(c, cached)
		return
	}

	points, err := h.coreClient.GetOrderTracking(c.Request.Context(), orderNo)
	if err != nil {
		response.UpstreamError(c, err.Error())
		return
	}

	h.cacheSet(cacheKey, points)
	response.Success(c, points)
}

func (h *LiveHandler) cacheSet(key string, value interface{}) {
	ttl := time.Duration(config.GetConfig().Cache.LiveStaleTime) * time.Second
	if err := h.cache.Set(liveResource, key, value, ttl); err != nil {
		logger.GetLogger().Warnf("写入实时数据缓存失败: %v", err)
	}
}
