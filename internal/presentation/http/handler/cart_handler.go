package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/application/service"
	"github.com/sabaidee/pos-api/internal/presentation/http/dto/response"
)

// CartHandler handles active-cart and held-bill HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) cartPayload() gin.H {
	return gin.H{
		"items": h.cartService.Items(),
		"total": h.cartService.Total(),
	}
}

// GetCart returns the active cart
func (h *CartHandler) GetCart(c *gin.Context) {
	response.OK(c, "Cart retrieved successfully", h.cartPayload())
}

// AddItem adds one unit of a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.cartService.AddItem(c.Request.Context(), req.ProductID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added to cart", h.cartPayload())
}

// SetQuantity adjusts a line's quantity by a delta
func (h *CartHandler) SetQuantity(c *gin.Context) {
	productID, ok := ParseIDParam(c, "productId")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req struct {
		Delta int `json:"delta" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.cartService.SetQuantity(c.Request.Context(), productID, req.Delta); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantity updated", h.cartPayload())
}

// RemoveItem removes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := ParseIDParam(c, "productId")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if _, err := h.cartService.RemoveItem(c.Request.Context(), productID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed from cart", h.cartPayload())
}

// ClearCart empties the active cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart cleared", h.cartPayload())
}

// Hold parks the current cart as a held bill
func (h *CartHandler) Hold(c *gin.Context) {
	bill, err := h.cartService.Hold(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if bill == nil {
		// Holding an empty cart is a silent no-op.
		response.OK(c, "Cart is empty, nothing to hold", h.cartPayload())
		return
	}
	response.Created(c, "Bill held", gin.H{
		"bill": bill,
		"cart": h.cartPayload(),
	})
}

// ListHeldBills lists parked bills
func (h *CartHandler) ListHeldBills(c *gin.Context) {
	bills, err := h.cartService.HeldBills(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Held bills retrieved successfully", bills)
}

// Recall replaces the active cart with a held bill's items
func (h *CartHandler) Recall(c *gin.Context) {
	billID, ok := ParseIDParam(c, "billId")
	if !ok {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	if _, err := h.cartService.Recall(c.Request.Context(), billID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill recalled", h.cartPayload())
}

// Discard removes a held bill without restoring it
func (h *CartHandler) Discard(c *gin.Context) {
	billID, ok := ParseIDParam(c, "billId")
	if !ok {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	if err := h.cartService.Discard(c.Request.Context(), billID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
