package repository

import (
	"context"
	"testing"
	"time"

	"mesquite-store/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func createTestCategory(ctx context.Context, repo CategoryRepository) (*domain.Category, error) {
	suffix := uuid.New().String()[:8]
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        "Test Category " + suffix,
		Slug:        "test-category-" + suffix,
		Description: "Test category description",
		CreatedAt:   time.Now(),
	}
	return category, repo.Create(ctx, category)
}

func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, description string, price float64, imageURL string, stock int, featured bool) bool {
			ctx := context.Background()

			category, err := createTestCategory(ctx, categoryRepo)
			if err != nil {
				t.Logf("FAIL: Failed to create category: %v", err)
				return false
			}
			defer testDB.Exec("DELETE FROM categories WHERE id = $1", category.ID)

			product := &domain.Product{
				ID:          uuid.New(),
				Name:        name,
				Description: description,
				Price:       price,
				CategoryID:  &category.ID,
				ImageURL:    &imageURL,
				Stock:       stock,
				Featured:    featured,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}

			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}
			defer productRepo.Delete(ctx, product.ID)

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.ID != product.ID {
				t.Logf("FAIL: ID mismatch. Expected %s, got %s", product.ID, retrieved.ID)
				return false
			}
			if retrieved.Name != product.Name {
				t.Logf("FAIL: Name mismatch. Expected %s, got %s", product.Name, retrieved.Name)
				return false
			}
			if retrieved.Description != product.Description {
				t.Logf("FAIL: Description mismatch")
				return false
			}
			if retrieved.Price < price-0.01 || retrieved.Price > price+0.01 {
				t.Logf("FAIL: Price mismatch. Expected %f, got %f", price, retrieved.Price)
				return false
			}
			if retrieved.CategoryID == nil || *retrieved.CategoryID != category.ID {
				t.Logf("FAIL: CategoryID mismatch")
				return false
			}
			if retrieved.Category == nil || retrieved.Category.Slug != category.Slug {
				t.Logf("FAIL: joined category not populated")
				return false
			}
			if retrieved.ImageURL == nil || *retrieved.ImageURL != imageURL {
				t.Logf("FAIL: ImageURL mismatch")
				return false
			}
			if retrieved.Stock != stock {
				t.Logf("FAIL: Stock mismatch. Expected %d, got %d", stock, retrieved.Stock)
				return false
			}
			if retrieved.Featured != featured {
				t.Logf("FAIL: Featured mismatch")
				return false
			}
			if retrieved.CreatedAt.IsZero() || retrieved.UpdatedAt.IsZero() {
				t.Logf("FAIL: timestamps not set")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{10,200}`),
		gen.Float64Range(0.01, 9999.99),
		gen.RegexMatch(`https?://[a-z0-9.-]+/[a-z0-9/._-]{1,50}`),
		gen.IntRange(0, 1000),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ProductUpdatesAreReflected(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("updating a product and retrieving it shows the updated values", prop.ForAll(
		func(name1 string, name2 string, price1 float64, price2 float64, stock1 int, stock2 int) bool {
			ctx := context.Background()

			category, err := createTestCategory(ctx, categoryRepo)
			if err != nil {
				t.Logf("FAIL: Failed to create category: %v", err)
				return false
			}
			defer testDB.Exec("DELETE FROM categories WHERE id = $1", category.ID)

			product := &domain.Product{
				ID:          uuid.New(),
				Name:        name1,
				Description: "initial description",
				Price:       price1,
				CategoryID:  &category.ID,
				Stock:       stock1,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}
			defer productRepo.Delete(ctx, product.ID)

			product.Name = name2
			product.Description = "updated description"
			product.Price = price2
			product.Stock = stock2
			product.Featured = true
			product.UpdatedAt = time.Now()

			if err := productRepo.Update(ctx, product); err != nil {
				t.Logf("FAIL: Failed to update product: %v", err)
				return false
			}

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Name != name2 {
				t.Logf("FAIL: Name not updated. Expected %s, got %s", name2, retrieved.Name)
				return false
			}
			if retrieved.Description != "updated description" {
				t.Logf("FAIL: Description not updated")
				return false
			}
			if retrieved.Price < price2-0.01 || retrieved.Price > price2+0.01 {
				t.Logf("FAIL: Price not updated. Expected %f, got %f", price2, retrieved.Price)
				return false
			}
			if retrieved.Stock != stock2 {
				t.Logf("FAIL: Stock not updated. Expected %d, got %d", stock2, retrieved.Stock)
				return false
			}
			if !retrieved.Featured {
				t.Logf("FAIL: Featured not updated")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.Float64Range(0.01, 9999.99),
		gen.Float64Range(0.01, 9999.99),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ProductDeletionRemovesFromCatalog(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("deleting a product makes it not retrievable", prop.ForAll(
		func(name string, price float64, stock int) bool {
			ctx := context.Background()

			category, err := createTestCategory(ctx, categoryRepo)
			if err != nil {
				t.Logf("FAIL: Failed to create category: %v", err)
				return false
			}
			defer testDB.Exec("DELETE FROM categories WHERE id = $1", category.ID)

			product := &domain.Product{
				ID:         uuid.New(),
				Name:       name,
				Price:      price,
				CategoryID: &category.ID,
				Stock:      stock,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}
			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			if _, err := productRepo.FindByID(ctx, product.ID); err != nil {
				t.Logf("FAIL: Product should exist before deletion: %v", err)
				return false
			}

			if err := productRepo.Delete(ctx, product.ID); err != nil {
				t.Logf("FAIL: Failed to delete product: %v", err)
				return false
			}

			if _, err := productRepo.FindByID(ctx, product.ID); err != ErrProductNotFound {
				t.Logf("FAIL: Expected ErrProductNotFound after deletion, got: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.Float64Range(0.01, 9999.99),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestListFiltersByCategorySlugAndFeatured(t *testing.T) {
	ctx := context.Background()
	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)

	category, err := createTestCategory(ctx, categoryRepo)
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	defer testDB.Exec("DELETE FROM categories WHERE id = $1", category.ID)

	inCategory := &domain.Product{
		ID:         uuid.New(),
		Name:       "Filtered Tray " + uuid.New().String()[:8],
		Price:      30,
		CategoryID: &category.ID,
		Featured:   true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	uncategorized := &domain.Product{
		ID:        uuid.New(),
		Name:      "Loose Board " + uuid.New().String()[:8],
		Price:     12,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for _, p := range []*domain.Product{inCategory, uncategorized} {
		if err := productRepo.Create(ctx, p); err != nil {
			t.Fatalf("Failed to create product: %v", err)
		}
		defer productRepo.Delete(ctx, p.ID)
	}

	bySlug, err := productRepo.List(ctx, ProductFilter{CategorySlug: category.Slug})
	if err != nil {
		t.Fatalf("List by slug failed: %v", err)
	}
	if len(bySlug) != 1 || bySlug[0].ID != inCategory.ID {
		t.Fatalf("Expected only the categorized product, got %d rows", len(bySlug))
	}

	featured, err := productRepo.List(ctx, ProductFilter{FeaturedOnly: true})
	if err != nil {
		t.Fatalf("List featured failed: %v", err)
	}
	for _, p := range featured {
		if !p.Featured {
			t.Fatalf("Non-featured product %s returned by featured filter", p.ID)
		}
	}

	search, err := productRepo.List(ctx, ProductFilter{Search: inCategory.Name})
	if err != nil {
		t.Fatalf("List by search failed: %v", err)
	}
	if len(search) != 1 || search[0].ID != inCategory.ID {
		t.Fatalf("Expected search to match exactly the created product, got %d rows", len(search))
	}
}
