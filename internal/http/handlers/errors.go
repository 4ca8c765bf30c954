package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"busticket/internal/domain"
	"busticket/internal/http/middleware"
	"busticket/internal/utils"
)

// respondError writes the standard error body. Details are omitted when nil.
func respondError(c *gin.Context, status int, code, message string, details map[string]any) {
	if code == "" {
		code = http.StatusText(status)
	}
	body := gin.H{
		"success":    false,
		"error":      message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, body)
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var (
		ve  domain.ValidationError
		nf  domain.NotFoundError
		ce  domain.ConflictError
		doc domain.DocumentIOError
	)
	switch {
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, ve.Code, ve.Error(), ve.Details)
	case errors.As(err, &nf):
		respondError(c, http.StatusNotFound, "NOT_FOUND", nf.Error(), nil)
	case errors.As(err, &ce):
		respondError(c, http.StatusConflict, ce.Code, ce.Error(), nil)
	case errors.As(err, &doc):
		_ = c.Error(err)
		utils.Logger(middleware.GetRequestID(c), "store").WithError(err).Error("document access failed")
		respondError(c, http.StatusInternalServerError, "DOCUMENT_IO_ERROR", "storage is unavailable", nil)
	default:
		_ = c.Error(err)
		utils.Logger(middleware.GetRequestID(c), "http").WithError(err).Error("unhandled error")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
	}
}
