package repositories

import (
	"errors"
	"fmt"

	"productstore/internal/models"

	"gorm.io/gorm"
)

// productColumns are the mutable columns overwritten by Update.
var productColumns = []string{"name", "description", "price", "available", "category"}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// FindByName returns the products whose name equals name exactly.
func (r *GORMProductRepository) FindByName(name string) ([]models.Product, error) {
	return r.findWhere("name = ?", name)
}

// FindByCategory returns the products in category.
func (r *GORMProductRepository) FindByCategory(category models.Category) ([]models.Product, error) {
	return r.findWhere("category = ?", string(category))
}

// FindByAvailability returns the products whose availability matches.
func (r *GORMProductRepository) FindByAvailability(available bool) ([]models.Product, error) {
	return r.findWhere("available = ?", available)
}

func (r *GORMProductRepository) findWhere(query string, arg interface{}) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.Where(query, arg).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products where %s: %w", query, err)
	}
	return products, nil
}

// Create inserts a new product; the database assigns its ID.
func (r *GORMProductRepository) Create(product *models.Product) error {
	product.ID = 0
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	if product.ID == 0 {
		return fmt.Errorf("update called with empty ID: %w", models.ErrProductNotFound)
	}
	res := r.db.Model(product).Select(productColumns).Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", product.ID, models.ErrProductNotFound)
	}
	return nil
}

// Delete removes a product by its ID. Deleting a missing product is a no-op.
func (r *GORMProductRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Product{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
