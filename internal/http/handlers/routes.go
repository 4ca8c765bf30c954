package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busticket/internal/services"
)

// ListRoutes returns the route reference set, optionally filtered by origin
// and destination (case-insensitive).
func (h *Handlers) ListRoutes(c *gin.Context) {
	routes, err := h.Routes.Filter(c.Request.Context(), c.Query("origin"), c.Query("destination"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	listResponse(c, routes)
}

// Quote prices a trip for a passenger list without creating a ticket.
func (h *Handlers) Quote(c *gin.Context) {
	body, ok := readJSONObject(c)
	if !ok {
		return
	}
	trip, passengers, err := services.ValidateQuote(body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	q, err := h.pricing(c).Quote(c.Request.Context(), trip, passengers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quote": q})
}
