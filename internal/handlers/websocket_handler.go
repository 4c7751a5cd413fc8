package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fdadmin/internal/client"
	"fdadmin/internal/database"
	"fdadmin/internal/rbac"
	"fdadmin/internal/services"
	"fdadmin/pkg/config"
	"fdadmin/pkg/jwt"
	"fdadmin/pkg/listquery"
	"fdadmin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// 实时订单事件的Redis频道，配送核心服务向该频道发布事件
const liveOrdersChannel = "live:orders"

// WebSocketHandler WebSocket处理器
// 向管理台推送实时订单流：连接建立后先发一次当前快照，
// 之后转发配送核心服务发布到Redis频道的订单事件
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	redisClient *redis.Client
	log         *logrus.Logger
	jwtManager  *jwt.JWTManager
	userService *services.UserService
	coreClient  *client.CoreClient
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(userService *services.UserService, coreClient *client.CoreClient) *WebSocketHandler {
	// 获取CORS配置
	cfg := config.GetConfig()
	allowedOrigins := cfg.CORS.AllowOrigins

	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// 如果允许所有源
				for _, allowed := range allowedOrigins {
					if allowed == "*" {
						return true
					}
				}

				// 同源请求Origin为空，允许
				if origin == "" {
					return true
				}

				for _, allowed := range allowedOrigins {
					if matchOrigin(origin, allowed) {
						return true
					}
				}

				logger.GetLogger().Warnf("WebSocket连接被拒绝，非法Origin: %s", origin)
				return false
			},
			ReadBufferSize:  1024 * 32,
			WriteBufferSize: 1024 * 32,
		},
		redisClient: database.GetQueryCache().GetClient(),
		log:         logger.GetLogger(),
		jwtManager:  jwt.GetJWTManager(), // 使用全局JWT管理器
		userService: userService,
		coreClient:  coreClient,
	}
}

// LiveOrders 处理实时订单流的WebSocket连接
func (h *WebSocketHandler) LiveOrders(c *gin.Context) {
	// 从查询参数获取token（WebSocket不支持自定义header）
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少认证令牌"})
		return
	}

	// 验证token
	claims, err := h.jwtManager.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的令牌"})
		return
	}

	// 检查用户状态
	user, err := h.userService.GetByID(claims.UserID)
	if err != nil || !h.userService.IsActive(user) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "用户不存在或已被禁用"})
		return
	}

	// 为长连接建立会话权限快照并检查实时数据权限
	perms, ok := h.authorizeLive(user.Role)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "权限不足：需要 " + rbac.PermLiveView + " 权限"})
		return
	}
	defer perms.ClearPermissions()

	// 升级为WebSocket连接
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Error("WebSocket升级失败")
		return
	}
	defer conn.Close()

	h.log.WithFields(logrus.Fields{
		"user_id":     claims.UserID,
		"username":    claims.Username,
		"remote_addr": c.ClientIP(),
	}).Info("实时订单WebSocket连接建立")

	h.handleLiveOrderConnection(conn)
}

// authorizeLive 为一条长连接建立会话权限快照
// 连接建立时写入、断开时清空；实时数据权限不足时不保留快照
func (h *WebSocketHandler) authorizeLive(role string) (*rbac.Service, bool) {
	perms := rbac.NewService()
	perms.SetUserPermissions(role, rbac.RolePermissions(role))

	if !perms.HasPermission(rbac.PermLiveView) {
		perms.ClearPermissions()
		return nil, false
	}

	return perms, true
}

// handleLiveOrderConnection 处理实时订单连接
func (h *WebSocketHandler) handleLiveOrderConnection(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 订阅Redis频道
	pubsub := h.redisClient.Subscribe(ctx, liveOrdersChannel)
	defer pubsub.Close()

	// 等待订阅成功
	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.WithError(err).Error("订阅实时订单频道失败")
		return
	}

	// 启动goroutine处理客户端消息（主要是ping/pong）
	go h.readPump(conn, cancel)

	const writeTimeout = 10 * time.Second

	// 先发一次当前快照
	snapshot, err := h.coreClient.ListLiveOrders(ctx, &listquery.FilterState{Page: 1, PageSize: 50})
	if err == nil {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(gin.H{"type": "snapshot", "data": snapshot}); err != nil {
			h.log.WithError(err).Error("发送订单快照失败")
			return
		}
	} else {
		h.log.WithError(err).Warn("获取订单快照失败，仅转发增量事件")
	}

	ch := pubsub.Channel()

	// 心跳ticker，每60秒发送一次ping
	pingTicker := time.NewTicker(60 * time.Second)
	defer pingTicker.Stop()

	// 循环接收并转发事件
	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.WithError(err).Error("发送ping失败")
				return
			}

		case msg := <-ch:
			if msg == nil {
				continue
			}

			var event map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.log.WithError(err).Error("解析订单事件失败")
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(gin.H{"type": "event", "data": event}); err != nil {
				h.log.WithError(err).Error("向客户端发送订单事件失败")
				return
			}
		}
	}
}

// readPump 处理客户端消息
func (h *WebSocketHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	pongWait := 300 * time.Second
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Error("WebSocket异常关闭")
			}
			break
		}
	}
}

// matchOrigin 检查origin是否匹配allowed模式
// 支持精确匹配和通配符匹配（如 *.example.com）
func matchOrigin(origin, allowed string) bool {
	if origin == allowed {
		return true
	}

	if strings.HasPrefix(allowed, "*.") {
		domain := allowed[2:]

		originHost := origin
		if idx := strings.Index(origin, "://"); idx != -1 {
			originHost = origin[idx+3:]
		}

		if idx := strings.Index(originHost, ":"); idx != -1 {
			originHost = originHost[:idx]
		}

		if originHost == domain {
			return true
		}

		if strings.HasSuffix(originHost, "."+domain) {
			return true
		}
	}

	return false
}
