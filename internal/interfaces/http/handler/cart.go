package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appordering "github.com/marketplace/backend/internal/application/ordering"
	appshopping "github.com/marketplace/backend/internal/application/shopping"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// CartHandler handles the shopping cart and checkout
type CartHandler struct {
	BaseHandler
	cartService     *appshopping.CartService
	checkoutService *appordering.CheckoutService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *appshopping.CartService, checkoutService *appordering.CheckoutService) *CartHandler {
	return &CartHandler{cartService: cartService, checkoutService: checkoutService}
}

// List handles GET /cart
func (h *CartHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	cart, err := h.cartService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Add handles POST /cart
func (h *CartHandler) Add(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appshopping.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.Add(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateQuantity handles PUT /cart/:id
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cart item id")
		return
	}

	var req appshopping.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), userID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Remove handles DELETE /cart/:id
func (h *CartHandler) Remove(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cart item id")
		return
	}

	if err := h.cartService.Remove(c.Request.Context(), userID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Checkout handles POST /cart/checkout. A stock shortfall in full mode
// responds 422 with the unfulfillable lines attached.
func (h *CartHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	// tolerate an empty body; the service rejects the missing address
	var req appordering.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		var checkoutErr *appordering.CheckoutError
		if errors.As(err, &checkoutErr) {
			resp := dto.NewErrorResponseWithRequestID("INSUFFICIENT_STOCK", checkoutErr.Error(), getRequestID(c))
			resp.Data = gin.H{"unfulfillable": checkoutErr.Lines}
			c.JSON(http.StatusUnprocessableEntity, resp)
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
