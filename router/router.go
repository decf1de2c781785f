package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"barmenu-backend/config"
	"barmenu-backend/controllers"
	"barmenu-backend/middlewares"
	"barmenu-backend/services"
	"barmenu-backend/staff"
)

// Setup wires all controllers onto a gin engine. Dependencies come in
// explicitly; nothing reaches for globals.
func Setup(db *gorm.DB, hub *staff.Hub, notifier *services.Notifier,
	numbers services.OrderNumberAllocator, cfg config.AppConfig) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.PrometheusMiddleware())

	orderCtrl := controllers.NewOrderController(db, notifier, numbers)
	callCtrl := controllers.NewWaiterCallController(db, notifier)
	redirectCtrl := controllers.NewRedirectController(db, cfg.FallbackURL)
	tableCtrl := controllers.NewTableController(db, cfg.PublicBaseURL)
	pushCtrl := controllers.NewPushController(db, notifier)
	healthCtrl := controllers.NewHealthController(db)
	wsCtrl := controllers.NewStaffWSController(hub)

	r.GET("/health", healthCtrl.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// QR short links. Always a redirect, never an error page.
	r.GET("/t/:token", redirectCtrl.Resolve)

	// Customer-facing submissions, rate limited.
	submit := r.Group("/")
	submit.Use(middlewares.NewSubmitRateLimiter(cfg.SubmitRateLimit))
	{
		submit.POST("/orders", orderCtrl.CreateOrder)
		submit.POST("/waiter-calls", callCtrl.CreateCall)
	}

	// Staff endpoints. Authentication is handled by the gateway in front of
	// this service.
	r.GET("/orders/all", orderCtrl.GetAllOrders)
	r.GET("/orders/active", orderCtrl.GetActiveOrders)
	r.GET("/orders/completed", orderCtrl.GetCompletedOrders)
	r.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)

	r.GET("/waiter-calls/all", callCtrl.GetAllCalls)
	r.PATCH("/waiter-calls/:call_id/acknowledge", callCtrl.AcknowledgeCall)
	r.PATCH("/waiter-calls/:call_id/complete", callCtrl.CompleteCall)

	r.POST("/push/subscribe", pushCtrl.Subscribe)
	r.DELETE("/push/subscribe", pushCtrl.Unsubscribe)
	r.POST("/push/send", pushCtrl.SendPush)

	r.GET("/ws/staff", wsCtrl.Handle)

	admin := r.Group("/admin")
	{
		admin.GET("/tables", tableCtrl.GetAllTables)
		admin.PATCH("/tables/:table_number", tableCtrl.UpdateTable)
		admin.GET("/tables/:table_number/qr", tableCtrl.GetTableQR)
	}

	return r
}
