package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/server/http/dto"
)

// InvoiceHandler manages invoice endpoints.
type InvoiceHandler struct {
	facade InvoiceFacade
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(facade InvoiceFacade) *InvoiceHandler {
	return &InvoiceHandler{facade: facade}
}

// Generate handles POST /api/orders/:id/invoice.
func (h *InvoiceHandler) Generate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.facade.GenerateInvoice(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toInvoiceResponse(*invoice))
}

// Pay handles POST /api/invoices/:id/pay.
func (h *InvoiceHandler) Pay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.facade.PayInvoice(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(*invoice))
}

// List handles GET /api/invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.facade.Invoices(c.Request.Context(), CurrentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(invoices) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		resp = append(resp, toInvoiceResponse(inv))
	}
	c.JSON(http.StatusOK, resp)
}

func toInvoiceResponse(inv model.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:        inv.ID,
		OrderID:   inv.OrderID,
		Total:     inv.Total,
		Paid:      inv.Paid,
		CreatedAt: inv.CreatedAt,
	}
}
