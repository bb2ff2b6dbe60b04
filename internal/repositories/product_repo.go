package repositories

import (
	"productstore/internal/models"
)

// ProductRepository defines the interface for product data access.
// Find methods return an empty slice, never an error, when nothing matches.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	FindByName(name string) ([]models.Product, error)
	FindByCategory(category models.Category) ([]models.Product, error)
	FindByAvailability(available bool) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	// Delete is idempotent: removing an unknown id is not an error.
	Delete(id uint) error
}
