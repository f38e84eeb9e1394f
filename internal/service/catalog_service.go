package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mesquite-store/internal/domain"
	"mesquite-store/internal/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrInvalidPrice = errors.New("price must be a non-negative number")
	ErrInvalidStock = errors.New("stock must be a non-negative integer")
)

// ProductInput carries the raw editor fields for a product. Price and stock
// arrive as strings straight from the form and are coerced here, before any
// store call, so malformed input never reaches the database.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	Stock       string
	CategoryID  *uuid.UUID
	ImageURL    string
	Featured    bool
}

// CatalogService provides the public product/category listings and the
// admin editor over them.
type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ListProducts returns catalog products narrowed by the filter.
func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// GetProduct returns one product with its category.
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// CreateProduct validates and coerces the editor fields, then inserts.
func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}

	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// Re-read so the caller sees the row as the store has it, category join
	// included.
	return s.productRepo.FindByID(ctx, product.ID)
}

// UpdateProduct overwrites every editable column of the product. Partial
// patches are not supported; the editor always submits the full field set.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}

	product.ID = id
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return s.productRepo.FindByID(ctx, id)
}

// DeleteProduct removes the product unconditionally. Order items reference
// products with ON DELETE SET NULL and keep their own price snapshot, so
// historical orders are unaffected.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return err
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// ListCategories returns all categories.
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// CreateCategory inserts a category with a URL-safe slug derived from its
// name.
func (s *catalogService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if err == repository.ErrCategoryAlreadyExists {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// productFromInput validates the raw editor fields and coerces the numeric
// ones.
func productFromInput(input ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(input.Price), 64)
	if err != nil || price < 0 {
		return nil, ErrInvalidPrice
	}

	stock, err := strconv.Atoi(strings.TrimSpace(input.Stock))
	if err != nil || stock < 0 {
		return nil, ErrInvalidStock
	}

	product := &domain.Product{
		Name:        name,
		Description: input.Description,
		Price:       price,
		Stock:       stock,
		CategoryID:  input.CategoryID,
		Featured:    input.Featured,
	}
	if imageURL := strings.TrimSpace(input.ImageURL); imageURL != "" {
		product.ImageURL = &imageURL
	}

	return product, nil
}
