package catalog

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/catalog"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest carries the fields of a new product listing
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
}

// Service handles product listing use cases
type Service struct {
	products catalog.ProductRepository
	storage  ObjectStorage
	logger   *zap.Logger
}

// ServiceConfig carries the service dependencies
type ServiceConfig struct {
	Products catalog.ProductRepository
	Storage  ObjectStorage
	Logger   *zap.Logger
}

// NewService creates a catalog service
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products: cfg.Products,
		storage:  cfg.Storage,
		logger:   logger,
	}
}

// CreateProduct registers a new listing for a vendor, pending approval
func (s *Service) CreateProduct(ctx context.Context, vendorID uuid.UUID, req *CreateProductRequest) (*catalog.Product, error) {
	product, err := catalog.NewProduct(vendorID, req.Name, valueobject.NewMoneyNGN(req.Price), req.Quantity)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("vendor_id", vendorID.String()))

	return product, nil
}

// GetProduct returns a product by ID
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// ListByVendor returns a vendor's listings
func (s *Service) ListByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	return s.products.FindByVendor(ctx, vendorID, filter)
}

// ApproveProduct marks a listing approved for sale
func (s *Service) ApproveProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Approve(); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeclineProduct marks a listing declined
func (s *Service) DeclineProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Decline(); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UploadProductImage stores the image and records its URL on the product.
// Only the owning vendor may replace a product's image.
func (s *Service) UploadProductImage(ctx context.Context, vendorID, productID uuid.UUID, filename string, body io.Reader, contentType string) (string, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if vendorID != uuid.Nil && product.VendorID != vendorID {
		return "", shared.NewDomainError("FORBIDDEN", "Product belongs to another vendor")
	}

	key := imageKey(productID, filename)
	url, err := s.storage.Upload(ctx, key, body, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload product image: %w", err)
	}

	product.SetImageURL(url)
	if err := s.products.Save(ctx, product); err != nil {
		return "", err
	}

	return url, nil
}

// imageKey builds a stable storage key, keeping the original extension
func imageKey(productID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "products/" + productID.String() + "/image" + ext
}
