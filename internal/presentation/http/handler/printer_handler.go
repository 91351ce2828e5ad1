package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sabaidee/pos-api/internal/application/service"
	"github.com/sabaidee/pos-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles receipt printing HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
	paymentService *service.PaymentService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService, paymentService *service.PaymentService) *PrinterHandler {
	return &PrinterHandler{
		printerService: printerService,
		paymentService: paymentService,
	}
}

// Status returns printer connection status
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// TestPrint sends a test page to the printer
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		// Return the formatted receipt anyway so the caller can verify
		// the layout when no hardware is attached.
		response.Success(c, 200, "Printer unavailable, returning receipt data", gin.H{
			"receipt": receipt,
			"error":   err.Error(),
		})
		return
	}
	response.OK(c, "Test page printed", receipt)
}

// PrintPaymentSlip prints the active session's QR payment code
func (h *PrinterHandler) PrintPaymentSlip(c *gin.Context) {
	view, err := h.paymentService.Session()
	if err != nil {
		response.Error(c, err)
		return
	}
	if view.QRPayload == "" {
		response.BadRequest(c, "No payment code to print")
		return
	}

	if err := h.printerService.PrintPaymentSlip(c.Request.Context(), view.Total, view.QRPayload); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment slip printed", nil)
}

// PrintReceipt prints the receipt for a recorded sale
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	receipt, err := h.printerService.PrintTransactionReceipt(c.Request.Context(), id)
	if err != nil {
		if receipt != nil {
			response.Success(c, 200, "Printer unavailable, returning receipt data", gin.H{
				"receipt": receipt,
				"error":   err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed", receipt)
}
