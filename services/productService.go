package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pos-api/cache"
	"pos-api/database"
	"pos-api/dtos"
	"pos-api/logger"
	"pos-api/models"
)

//go:generate mockgen -source=productService.go -destination=mocks/productService_mock.go -package=mocks

type ProductService interface {
	CreateProduct(ctx context.Context, input dtos.ProductCreate) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	FindByCode(ctx context.Context, code string) (*models.Product, error)
}

type productService struct {
	store   *database.Store
	catalog *cache.Catalog
}

// NewProductService returns the catalog store. catalog may be nil.
func NewProductService(store *database.Store, catalog *cache.Catalog) ProductService {
	return &productService{store: store, catalog: catalog}
}

func (s *productService) CreateProduct(ctx context.Context, input dtos.ProductCreate) (*models.Product, error) {
	if input.Price == nil {
		return nil, fmt.Errorf("%w: PRICE is required", ErrInvalidInput)
	}
	product := input.ToModel()

	err := s.store.Transact(ctx, func(tx *gorm.DB) error {
		return tx.Create(&product).Error
	})
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, product.Code)
		}
		return nil, &StorageError{Op: "create product", Err: err}
	}

	s.catalog.InvalidateProduct(ctx, product.Code)

	log := logger.FromContext(ctx)
	log.Info().
		Uint("prd_id", product.PrdID).
		Str("code", product.Code).
		Msg("Product created")
	return &product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if products, ok := s.catalog.GetProducts(ctx); ok {
		return products, nil
	}

	gen := s.catalog.Generation(ctx)
	products := []models.Product{}
	err := s.store.Session(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "PRD_ID"}}).
		Find(&products).Error
	if err != nil {
		return nil, &StorageError{Op: "list products", Err: err}
	}

	s.catalog.SetProducts(ctx, gen, products)
	return products, nil
}

// FindByCode returns nil, nil when no product has the code.
func (s *productService) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	if code == "" {
		return nil, nil
	}
	if p, ok := s.catalog.GetByCode(ctx, code); ok {
		return p, nil
	}

	var products []models.Product
	err := s.store.Session(ctx).
		Where(&models.Product{Code: code}).
		Limit(1).
		Find(&products).Error
	if err != nil {
		return nil, &StorageError{Op: "find product by code", Err: err}
	}
	if len(products) == 0 {
		return nil, nil
	}

	s.catalog.SetByCode(ctx, &products[0])
	return &products[0], nil
}
