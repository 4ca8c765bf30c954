package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busticket/internal/services"
)

// GetSalesReport handles GET /reports/sales with an optional date range.
func (h *Handlers) GetSalesReport(c *gin.Context) {
	svc := services.ReportsService{Tickets: h.Tickets, Payments: h.Payments}
	report, err := svc.GetSalesReport(c.Request.Context(), services.SalesReportFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}
