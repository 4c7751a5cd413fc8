package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fdadmin/pkg/config"
	"fdadmin/pkg/listquery"
)

// CoreClient 配送核心服务客户端
// 管理台的实时数据（进行中订单、在线骑手、配送轨迹）来自配送核心服务。
// 每个方法发起一次HTTP请求并拆开标准信封 {success, data, message}：
// 成功返回data，失败返回携带对端消息的错误（无消息时回落到按操作的默认文案）。
// 不做重试，失败直接上抛给调用方
type CoreClient struct {
	baseURL      string
	serviceToken string
	client       *http.Client
}

// envelope 配送核心服务的标准响应信封
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// PaginatedResult 配送核心服务的分页响应
type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// LiveOrder 进行中订单快照
type LiveOrder struct {
	OrderNo      string    `json:"order_no"`
	VendorName   string    `json:"vendor_name"`
	CustomerName string    `json:"customer_name"`
	RiderName    string    `json:"rider_name"`
	Status       string    `json:"status"`
	Amount       int64     `json:"amount"`
	PlacedAt     time.Time `json:"placed_at"`
	EtaMinutes   int       `json:"eta_minutes"`
}

// OnlineRider 在线骑手快照
type OnlineRider struct {
	RiderID      uint      `json:"rider_id"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	ActiveOrders int       `json:"active_orders"`
	LastSeenAt   time.Time `json:"last_seen_at"`
}

// TrackingPoint 配送轨迹点
type TrackingPoint struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewCoreClient 创建配送核心服务客户端
func NewCoreClient(cfg *config.CoreAPIConfig) *CoreClient {
	return &CoreClient{
		baseURL:      cfg.BaseURL,
		serviceToken: cfg.ServiceToken,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// ListLiveOrders 查询进行中订单
func (c *CoreClient) ListLiveOrders(ctx context.Context, filter *listquery.FilterState) (*PaginatedResult[LiveOrder], error) {
	var result PaginatedResult[LiveOrder]
	url := c.baseURL + "/api/core/orders/live?" + filter.Values().Encode()
	if err := c.get(ctx, url, "查询进行中订单失败", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListOnlineRiders 查询在线骑手
func (c *CoreClient) ListOnlineRiders(ctx context.Context, filter *listquery.FilterState) (*PaginatedResult[OnlineRider], error) {
	var result PaginatedResult[OnlineRider]
	url := c.baseURL + "/api/core/riders/online?" + filter.Values().Encode()
	if err := c.get(ctx, url, "查询在线骑手失败", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetOrderTracking 查询订单配送轨迹
func (c *CoreClient) GetOrderTracking(ctx context.Context, orderNo string) ([]TrackingPoint, error) {
	var points []TrackingPoint
	url := fmt.Sprintf("%s/api/core/orders/%s/tracking", c.baseURL, orderNo)
	if err := c.get(ctx, url, "查询配送轨迹失败", &points); err != nil {
		return nil, err
	}
	return points, nil
}

// get 发起GET请求并拆开响应信封
func (c *CoreClient) get(ctx context.Context, url, fallbackMsg string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %v", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %v", fallbackMsg, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: 解析响应失败: %v", fallbackMsg, err)
	}

	if resp.StatusCode != http.StatusOK || !env.Success {
		if env.Message != "" {
			return fmt.Errorf("%s", env.Message)
		}
		return fmt.Errorf("%s: HTTP %d", fallbackMsg, resp.StatusCode)
	}

	if dest != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return fmt.Errorf("%s: 解析数据失败: %v", fallbackMsg, err)
		}
	}

	return nil
}
