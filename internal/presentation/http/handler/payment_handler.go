package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sabaidee/pos-api/internal/application/service"
	"github.com/sabaidee/pos-api/internal/domain/enum"
	"github.com/sabaidee/pos-api/internal/presentation/http/dto/response"
)

// PaymentHandler exposes the payment session lifecycle over HTTP. The POS
// front end drives the modal through these endpoints and polls the session
// state.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Open starts a payment session for the current cart
func (h *PaymentHandler) Open(c *gin.Context) {
	view, err := h.paymentService.Open(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment session opened", view)
}

// Get returns the current payment session state
func (h *PaymentHandler) Get(c *gin.Context) {
	view, err := h.paymentService.Session()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment session retrieved", view)
}

// Close abandons the payment session
func (h *PaymentHandler) Close(c *gin.Context) {
	h.paymentService.Close()
	response.NoContent(c)
}

// SelectMethod switches between cash and QR
func (h *PaymentHandler) SelectMethod(c *gin.Context) {
	var req struct {
		Method enum.PaymentMethod `json:"method" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.paymentService.SelectMethod(c.Request.Context(), req.Method)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment method selected", view)
}

// PressDigit appends a numpad digit to the entered cash amount
func (h *PaymentHandler) PressDigit(c *gin.Context) {
	var req struct {
		Digit string `json:"digit" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.paymentService.PressDigit(req.Digit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Digit entered", view)
}

// Backspace removes the last entered digit
func (h *PaymentHandler) Backspace(c *gin.Context) {
	view, err := h.paymentService.Backspace()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Digit removed", view)
}

// ClearAmount resets the entered amount
func (h *PaymentHandler) ClearAmount(c *gin.Context) {
	view, err := h.paymentService.ClearAmount()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Amount cleared", view)
}

// AddShortcut adds a banknote shortcut to the entered amount
func (h *PaymentHandler) AddShortcut(c *gin.Context) {
	var req struct {
		Amount int64 `json:"amount" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.paymentService.AddShortcut(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Amount added", view)
}

// Confirm triggers the manual confirmation path
func (h *PaymentHandler) Confirm(c *gin.Context) {
	view, err := h.paymentService.Confirm(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment confirmed", view)
}

// RetryQR regenerates the payment code
func (h *PaymentHandler) RetryQR(c *gin.Context) {
	view, err := h.paymentService.RetryQR(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "QR generation restarted", view)
}

// UseDemoCode switches the session to the demonstration code
func (h *PaymentHandler) UseDemoCode(c *gin.Context) {
	view, err := h.paymentService.UseDemoCode(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Demo code generated", view)
}

// RetryChannel reconnects the realtime confirmation channel
func (h *PaymentHandler) RetryChannel(c *gin.Context) {
	view, err := h.paymentService.RetryChannel(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Channel reconnecting", view)
}

// QRImage serves the current session's QR code as a PNG
func (h *PaymentHandler) QRImage(c *gin.Context) {
	png, err := h.paymentService.QRImage()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(200, "image/png", png)
}
