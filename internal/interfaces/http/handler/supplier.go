package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/application/catalogsync"
	appidentity "github.com/marketplace/backend/internal/application/identity"
	appordering "github.com/marketplace/backend/internal/application/ordering"
	"github.com/marketplace/backend/internal/domain/ordering"
)

// maxImportBody bounds the accepted catalog document size
const maxImportBody = 8 << 20

// SupplierHandler handles the supplier-side API: product management,
// catalog import/export and incoming orders
type SupplierHandler struct {
	BaseHandler
	productService *appcatalog.ProductService
	importService  *catalogsync.ImportService
	exportService  *catalogsync.ExportService
	orderService   *appordering.OrderService
	userService    *appidentity.UserService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(
	productService *appcatalog.ProductService,
	importService *catalogsync.ImportService,
	exportService *catalogsync.ExportService,
	orderService *appordering.OrderService,
	userService *appidentity.UserService,
) *SupplierHandler {
	return &SupplierHandler{
		productService: productService,
		importService:  importService,
		exportService:  exportService,
		orderService:   orderService,
		userService:    userService,
	}
}

// ListProducts handles GET /supplier/products
func (h *SupplierHandler) ListProducts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter appcatalog.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	result, err := h.productService.ListForSupplier(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// CreateProduct handles POST /supplier/products
func (h *SupplierHandler) CreateProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appcatalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// UpdateProduct handles PUT /supplier/products/:id
func (h *SupplierHandler) UpdateProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	var req appcatalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// DeleteProduct handles DELETE /supplier/products/:id
func (h *SupplierHandler) DeleteProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkUpdatePrices handles POST /supplier/products/prices
func (h *SupplierHandler) BulkUpdatePrices(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appcatalog.BulkPriceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.productService.BulkUpdatePrices(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ImportCatalog handles POST /supplier/catalog/import. The request body
// is the YAML catalog document.
func (h *SupplierHandler) ImportCatalog(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBody))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(data) == 0 {
		h.BadRequest(c, "Catalog document is empty")
		return
	}

	result, err := h.importService.ImportYAML(c.Request.Context(), userID, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ExportCatalog handles GET /supplier/catalog/export and returns the
// YAML document directly
func (h *SupplierHandler) ExportCatalog(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	data, err := h.exportService.ExportYAML(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/x-yaml", data)
}

// ExportCatalogToFile handles POST /supplier/catalog/export/file
func (h *SupplierHandler) ExportCatalogToFile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	path, err := h.exportService.ExportToFile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"path": path})
}

// ListOrders handles GET /supplier/orders
func (h *SupplierHandler) ListOrders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter appordering.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, err := h.orderService.ListForSupplier(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// UpdateOrderStatus handles POST /supplier/orders/:id/status
func (h *SupplierHandler) UpdateOrderStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order id")
		return
	}

	var req appordering.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), userID, orderID, ordering.OrderStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ToggleAcceptingOrders handles POST /supplier/toggle-accepting
func (h *SupplierHandler) ToggleAcceptingOrders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	accepting, err := h.userService.ToggleAcceptingOrders(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"is_accepting_orders": accepting})
}
