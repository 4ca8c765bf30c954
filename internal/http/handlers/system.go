package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"busticket/internal/domain"
	"busticket/internal/utils"
)

const serviceName = "bus-ticket-api"

// pinger is implemented by stores backed by a connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// endpoints lists the registered routes as "METHOD /path".
func (h *Handlers) endpoints() []string {
	h.mu.RLock()
	r := h.engine
	h.mu.RUnlock()
	if r == nil {
		return []string{}
	}
	routes := r.Routes()
	out := make([]string, 0, len(routes))
	for _, rt := range routes {
		if rt.Method == http.MethodOptions || rt.Method == http.MethodHead {
			continue
		}
		out = append(out, rt.Method+" "+rt.Path)
	}
	sort.Strings(out)
	return out
}

// Root is the service banner with the endpoint directory.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"service":   serviceName,
		"message":   "Bus ticket reservation API",
		"endpoints": h.endpoints(),
	})
}

// Health reports liveness, uptime, memory and which optional settings are present.
func (h *Handlers) Health(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	status := http.StatusOK
	storeState := "ok"
	if h.Store != nil {
		var err error
		if p, ok := h.Store.(pinger); ok {
			err = p.Ping(c.Request.Context())
		}
		if err == nil {
			_, err = h.Store.Read(c.Request.Context(), domain.DocRoutes)
		}
		if err != nil {
			status = http.StatusServiceUnavailable
			storeState = "unavailable"
			utils.LogWarn("", "health", "store", err.Error())
		}
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"success":   status == http.StatusOK,
		"status":    state,
		"timestamp": utils.NowUTC().Format(time.RFC3339),
		"uptime":    time.Since(h.StartedAt).Round(time.Second).Seconds(),
		"memory": gin.H{
			"alloc_bytes":      mem.Alloc,
			"heap_inuse_bytes": mem.HeapInuse,
			"sys_bytes":        mem.Sys,
			"goroutines":       runtime.NumGoroutine(),
		},
		"config": gin.H{
			"store_driver":                h.Info.StoreDriver,
			"payment_processor":           h.Info.PaymentProcessor,
			"payment_provider_configured": h.Info.ProviderConfigured,
			"auth_enabled":                h.Info.AuthEnabled,
			"cors_allowed_origins_count":  h.Info.CORSOrigins,
		},
		"store": storeState,
	})
}

// NotFound answers unmatched routes with the endpoint directory.
func (h *Handlers) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success":            false,
		"error":              "endpoint not found",
		"code":               "NOT_FOUND",
		"path":               c.Request.URL.Path,
		"method":             c.Request.Method,
		"availableEndpoints": h.endpoints(),
	})
}
