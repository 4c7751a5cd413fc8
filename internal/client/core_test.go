package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fdadmin/pkg/config"
	"fdadmin/pkg/listquery"
)

func newTestClient(baseURL string) *CoreClient {
	return NewCoreClient(&config.CoreAPIConfig{
		BaseURL:      baseURL,
		ServiceToken: "svc-token",
		Timeout:      5,
	})
}

func TestListLiveOrdersUnwrapsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/core/orders/live" {
			t.Fatalf("意外的请求路径: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer svc-token" {
			t.Fatalf("缺少服务令牌，Authorization = %q", got)
		}
		if got := r.URL.Query().Get("status"); got != "delivering" {
			t.Fatalf("过滤参数未透传，status = %q", got)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"items": []map[string]interface{}{
					{"order_no": "FD20260830001", "vendor_name": "川味小馆", "status": "delivering", "amount": 5800, "eta_minutes": 12},
				},
				"totalCount": 1,
				"pageNumber": 1,
				"pageSize":   20,
				"totalPages": 1,
			},
		})
	}))
	defer server.Close()

	filter := listquery.New(20)
	filter.SetStatus("delivering")

	result, err := newTestClient(server.URL).ListLiveOrders(context.Background(), filter)
	if err != nil {
		t.Fatalf("ListLiveOrders 失败: %v", err)
	}
	if result.TotalCount != 1 || len(result.Items) != 1 {
		t.Fatalf("结果不符: %+v", result)
	}
	if result.Items[0].OrderNo != "FD20260830001" {
		t.Fatalf("订单号 = %q", result.Items[0].OrderNo)
	}
	if result.Items[0].Amount != 5800 {
		t.Fatalf("金额 = %d", result.Items[0].Amount)
	}
}

func TestErrorCarriesBackendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "调度系统维护中",
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListOnlineRiders(context.Background(), listquery.New(20))
	if err == nil {
		t.Fatal("应返回错误")
	}
	if err.Error() != "调度系统维护中" {
		t.Fatalf("错误应携带对端消息，实际 %q", err.Error())
	}
}

func TestErrorFallsBackToGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetOrderTracking(context.Background(), "FD1")
	if err == nil {
		t.Fatal("应返回错误")
	}
	if err.Error() != "查询配送轨迹失败: HTTP 500" {
		t.Fatalf("对端无消息时应回落到默认文案，实际 %q", err.Error())
	}
}

func TestSuccessFlagFalseWithOKStatus(t *testing.T) {
	// HTTP 200 但信封标记失败，同样按失败处理
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "订单不存在",
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetOrderTracking(context.Background(), "FD404")
	if err == nil {
		t.Fatal("应返回错误")
	}
	if err.Error() != "订单不存在" {
		t.Fatalf("错误消息 = %q", err.Error())
	}
}

func TestGetOrderTracking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/core/orders/FD20260830001/tracking" {
			t.Fatalf("意外的请求路径: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"latitude": 31.23, "longitude": 121.47, "recorded_at": time.Now().Format(time.RFC3339)},
				{"latitude": 31.24, "longitude": 121.48, "recorded_at": time.Now().Format(time.RFC3339)},
			},
		})
	}))
	defer server.Close()

	points, err := newTestClient(server.URL).GetOrderTracking(context.Background(), "FD20260830001")
	if err != nil {
		t.Fatalf("GetOrderTracking 失败: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("轨迹点数 = %d", len(points))
	}
	if points[0].Latitude != 31.23 {
		t.Fatalf("纬度 = %f", points[0].Latitude)
	}
}

func TestMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListLiveOrders(context.Background(), listquery.New(20))
	if err == nil {
		t.Fatal("非JSON响应应返回错误")
	}
}
