package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"busticket/internal/http/middleware"
	"busticket/internal/services"
	"busticket/internal/utils"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /auth/login
func (h *Handlers) Login(c *gin.Context) {
	if !h.Auth.Enabled() {
		respondError(c, http.StatusNotFound, "AUTH_DISABLED", "authentication is not configured", nil)
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "INVALID_CREDENTIALS_PAYLOAD", "username and password are required", nil)
		return
	}

	token, exp, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.LogWarn(middleware.GetRequestID(c), "auth", "login", "rejected login for "+req.Username)
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", "admin login "+req.Username)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      token,
		"token_type": "Bearer",
		"expires_at": exp,
		"role":       services.RoleAdmin,
	})
}
