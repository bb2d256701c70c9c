package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/markethub/backend/internal/application/catalog"
	"github.com/markethub/backend/internal/interfaces/http/middleware"
)

// maxImageSize caps a single product image upload
const maxImageSize = 5 * 1024 * 1024

// CatalogHandler handles product listing and image upload endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateProduct handles POST /api/v1/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	vendorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatValidationError(err))
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), vendorID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetProduct handles GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// UploadImage handles POST /api/v1/uploads. Multipart form with a "file"
// part and a "product_id" field; the image URL is recorded on the product.
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	vendorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.PostForm("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Image file is required")
		return
	}
	if fileHeader.Size > maxImageSize {
		h.BadRequest(c, "Image exceeds the maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	url, err := h.catalogService.UploadProductImage(
		c.Request.Context(), vendorID, productID,
		fileHeader.Filename, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"url": url})
}
