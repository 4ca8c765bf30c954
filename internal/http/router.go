package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	intconfig "busticket/internal/config"
	h "busticket/internal/http/handlers"
	"busticket/internal/http/middleware"
	"busticket/internal/services"
	"busticket/internal/utils"
)

func NewRouter(env intconfig.Env, hs *h.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.Metrics(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogWarn("", "http", "init", "failed to set trusted proxies: "+err.Error())
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })
	r.NoRoute(hs.NotFound)

	adminOnly := []gin.HandlerFunc{middleware.Authenticate(hs.Auth), middleware.RequireRoles(services.RoleAdmin)}
	admin := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, adminOnly...), handler)
	}

	r.GET("/", hs.Root)
	r.GET("/health", hs.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/routes", hs.ListRoutes)
	r.POST("/quote", hs.Quote)

	r.POST("/auth/login", hs.Login)

	tickets := r.Group("/tickets")
	{
		tickets.POST("", hs.CreateTicket)
		tickets.GET("", hs.ListTickets)
		tickets.GET("/:id", hs.GetTicket)
		tickets.PATCH("/:id", admin(hs.UpdateTicket)...)
		tickets.GET("/:id/e-ticket", hs.GetTicketETicketPDF)
		tickets.GET("/:id/invoice", hs.GetTicketInvoicePDF)
	}

	r.POST("/process-payment", hs.ProcessPayment)
	r.GET("/payment-status/:payment_id", hs.GetPaymentStatus)
	r.GET("/payments", admin(hs.ListPayments)...)

	r.GET("/reports/sales", admin(hs.GetSalesReport)...)

	hs.SetRouter(r)
	return r
}
