package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /tickets/:id/e-ticket returns the PDF e-ticket of a paid ticket (inline).
func (h *Handlers) GetTicketETicketPDF(c *gin.Context) {
	pdfBytes, filename, err := h.docs(c).GenerateETicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /tickets/:id/invoice returns the PDF invoice of a paid ticket (inline).
func (h *Handlers) GetTicketInvoicePDF(c *gin.Context) {
	pdfBytes, filename, err := h.docs(c).GenerateInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
