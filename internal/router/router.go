package router

import (
	"time"

	"fdadmin/internal/client"
	"fdadmin/internal/handlers"
	"fdadmin/internal/middleware"
	"fdadmin/internal/rbac"
	"fdadmin/internal/services"
	"fdadmin/pkg/config"
	"fdadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter() *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	// 注册路由
	registerRoutes(router)
	return router
}

// 注册所有路由
func registerRoutes(router *gin.Engine) {

	auth := middleware.NewAuthMiddleware()
	coreClient := client.NewCoreClient(&config.GetConfig().CoreAPI)

	// API路由组
	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", healthCheck)
		api.GET("/ping", ping)

		// JWT认证路由（无需认证）
		authHandler := handlers.NewAuthHandler(services.NewUserService())
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)          // 员工登录
			authGroup.POST("/logout", authHandler.Logout)        // 员工登出
			authGroup.POST("/refresh", authHandler.RefreshToken) // 刷新Token

			// 🔒 会话校验与当前用户信息
			authGroup.GET("/validate", auth.RequireLogin(), authHandler.Validate)
			authGroup.GET("/me", auth.RequireLogin(), authHandler.Me)
		}

		// 🔐 权限注册表（只读）
		permissionHandler := handlers.NewPermissionHandler()
		permissions := api.Group("/permissions")
		{
			permissions.GET("", auth.RequireLogin(), permissionHandler.List)
			permissions.GET("/roles", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserRead), permissionHandler.Roles)
		}

		// 🔐 员工路由
		userHandler := handlers.NewUserHandler(services.NewUserService())
		users := api.Group("/users")
		{
			users.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserCreate), userHandler.Create)
			users.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserList), userHandler.List)
			users.GET("/stats", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserList), userHandler.GetStats)
			users.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserRead), userHandler.GetByID)
			users.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserUpdate), userHandler.Update)
			users.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserDelete), userHandler.Delete)

			// 🔒 快捷操作
			users.POST("/:id/activate", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserUpdate), userHandler.Activate)
			users.POST("/:id/deactivate", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserUpdate), userHandler.Deactivate)
			users.POST("/:id/lock", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserUpdate), userHandler.Lock)
			users.POST("/:id/reset-password", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserUpdate), userHandler.ResetPassword)

			// 🔒 角色调整需要同时具备员工更新与员工读取权限
			users.POST("/:id/role", auth.RequireLogin(), auth.RequirePermission(rbac.PermUserUpdate, rbac.PermUserRead), userHandler.AssignRole)
		}

		// 🔐 商家路由
		vendorHandler := handlers.NewVendorHandler(services.NewVendorService())
		vendors := api.Group("/vendors")
		{
			vendors.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.PermVendorCreate), vendorHandler.Create)
			vendors.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.PermVendorList), vendorHandler.List)
			vendors.GET("/stats", auth.RequireLogin(), auth.RequirePermission(rbac.PermVendorList), vendorHandler.GetStats)
			vendors.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermVendorRead), vendorHandler.GetByID)
			vendors.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermVendorUpdate), vendorHandler.Update)
			vendors.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermVendorDelete), vendorHandler.Delete)

			// 🔒 审核操作
			vendors.POST("/:id/approve", auth.RequireLogin(), auth.RequirePermission(rbac.PermVendorApprove), vendorHandler.Approve)
			vendors.POST("/:id/reject", auth.RequireLogin(), auth.RequirePermission(rbac.PermVendorApprove), vendorHandler.Reject)

			// 🔒 封禁操作
			vendors.POST("/:id/suspend", auth.RequireLogin(), auth.RequirePermission(rbac.PermVendorSuspend), vendorHandler.Suspend)
			vendors.POST("/:id/reactivate", auth.RequireLogin(), auth.RequirePermission(rbac.PermVendorSuspend), vendorHandler.Reactivate)
		}

		// 🔐 骑手路由
		riderHandler := handlers.NewRiderHandler(services.NewRiderService())
		riders := api.Group("/riders")
		{
			riders.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.PermRiderList), riderHandler.List)
			riders.GET("/stats", auth.RequireLogin(), auth.RequirePermission(rbac.PermRiderList), riderHandler.GetStats)
			riders.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermRiderRead), riderHandler.GetByID)
			riders.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermRiderUpdate), riderHandler.Update)
			riders.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermRiderDelete), riderHandler.Delete)

			// 🔒 审核操作
			riders.POST("/:id/approve", auth.RequireLogin(), auth.RequirePermission(rbac.PermRiderApprove), riderHandler.Approve)
			riders.POST("/:id/reject", auth.RequireLogin(), auth.RequirePermission(rbac.PermRiderApprove), riderHandler.Reject)

			// 🔒 封禁操作
			riders.POST("/:id/suspend", auth.RequireLogin(), auth.RequirePermission(rbac.PermRiderSuspend), riderHandler.Suspend)
			riders.POST("/:id/reactivate", auth.RequireLogin(), auth.RequirePermission(rbac.PermRiderSuspend), riderHandler.Reactivate)
		}

		// 🔐 订单路由
		orderHandler := handlers.NewOrderHandler(services.NewOrderService())
		orders := api.Group("/orders")
		{
			orders.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.PermOrderList), orderHandler.List)
			orders.GET("/stats", auth.RequireLogin(), auth.RequirePermission(rbac.PermOrderList), orderHandler.GetStats)
			orders.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermOrderRead), orderHandler.GetByID)

			// 🔒 指派骑手需要同时具备订单指派与骑手读取权限
			orders.POST("/:id/assign", auth.RequireLogin(), auth.RequirePermission(rbac.PermOrderAssign, rbac.PermRiderRead), orderHandler.AssignRider)

			orders.POST("/:id/cancel", auth.RequireLogin(), auth.RequirePermission(rbac.PermOrderCancel), orderHandler.Cancel)

			// 🔒 退款需要同时具备退款与订单读取权限
			orders.POST("/:id/refund", auth.RequireLogin(), auth.RequirePermission(rbac.PermOrderRefund, rbac.PermOrderRead), orderHandler.Refund)
		}

		// 🔐 促销活动路由
		promotionHandler := handlers.NewPromotionHandler(services.NewPromotionService())
		promotions := api.Group("/promotions")
		{
			promotions.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.PermPromotionCreate), promotionHandler.Create)
			promotions.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.PermPromotionList), promotionHandler.List)
			promotions.GET("/stats", auth.RequireLogin(), auth.RequirePermission(rbac.PermPromotionList), promotionHandler.GetStats)
			promotions.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermPromotionRead), promotionHandler.GetByID)
			promotions.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermPromotionUpdate), promotionHandler.Update)
			promotions.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermPromotionDelete), promotionHandler.Delete)

			// 🔒 上下线操作
			promotions.POST("/:id/activate", auth.RequireLogin(), auth.RequirePermission(rbac.PermPromotionToggle), promotionHandler.Activate)
			promotions.POST("/:id/deactivate", auth.RequireLogin(), auth.RequirePermission(rbac.PermPromotionToggle), promotionHandler.Deactivate)
		}

		// 🔐 广告路由
		adHandler := handlers.NewAdvertisementHandler(services.NewAdvertisementService())
		ads := api.Group("/ads")
		{
			ads.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.PermAdCreate), adHandler.Create)
			ads.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.PermAdList), adHandler.List)
			ads.GET("/stats", auth.RequireLogin(), auth.RequirePermission(rbac.PermAdList), adHandler.GetStats)
			ads.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermAdRead), adHandler.GetByID)
			ads.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermAdUpdate), adHandler.Update)
			ads.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.PermAdDelete), adHandler.Delete)

			// 🔒 暂停恢复操作
			ads.POST("/:id/pause", auth.RequireLogin(), auth.RequirePermission(rbac.PermAdToggle), adHandler.Pause)
			ads.POST("/:id/resume", auth.RequireLogin(), auth.RequirePermission(rbac.PermAdToggle), adHandler.Resume)
		}

		// 🔐 仪表盘路由（需要管理台准入层级）
		dashboardHandler := handlers.NewDashboardHandler(services.NewDashboardService())
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/stats", auth.RequireLogin(), auth.RequireAdmin(), auth.RequirePermission(rbac.PermDashboardView), dashboardHandler.GetStats)
		}

		// 🔐 实时数据路由（来自配送核心服务）
		liveHandler := handlers.NewLiveHandler(coreClient)
		live := api.Group("/live")
		{
			live.GET("/orders", auth.RequireLogin(), auth.RequirePermission(rbac.PermLiveView), liveHandler.LiveOrders)
			live.GET("/riders", auth.RequireLogin(), auth.RequirePermission(rbac.PermLiveView), liveHandler.OnlineRiders)

			// 🔒 轨迹查看需要同时具备实时数据与订单读取权限
			live.GET("/orders/:order_no/tracking", auth.RequireLogin(), auth.RequirePermission(rbac.PermLiveView, rbac.PermOrderRead), liveHandler.OrderTracking)
		}
	}

	// WebSocket路由（token从查询参数传入，不走统一认证中间件）
	wsHandler := handlers.NewWebSocketHandler(services.NewUserService(), coreClient)
	router.GET("/ws/live/orders", wsHandler.LiveOrders)
}

func healthCheck(c *gin.Context) {
	data := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "FDADMIN",
		"version":   "1.0.0",
	}
	response.Success(c, data)
}

func ping(c *gin.Context) {
	response.SuccessWithMessage(c, "pong", nil)
}
