package services

import (
	"errors"
	"fmt"

	"productstore/internal/models"
	"productstore/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Product lifecycle event names.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher announces product changes to other systems.
type EventPublisher interface {
	PublishProductEvent(event string, product map[string]interface{}) error
}

// ProductFilter selects products for listing. At most one criterion is
// applied, in the order Name, Category, Available.
type ProductFilter struct {
	Name      string
	Category  *models.Category
	Available *bool
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	log       *logrus.Logger
}

// NewProductService creates a new ProductService. publisher may be nil,
// in which case no events are emitted.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, log *logrus.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// ListProducts returns the products matching filter, or all of them.
func (s *ProductService) ListProducts(filter ProductFilter) ([]models.Product, error) {
	switch {
	case filter.Name != "":
		s.log.WithField("name", filter.Name).Info("Find by name")
		return s.repo.FindByName(filter.Name)
	case filter.Category != nil:
		s.log.WithField("category", *filter.Category).Info("Find by category")
		return s.repo.FindByCategory(*filter.Category)
	case filter.Available != nil:
		s.log.WithField("available", *filter.Available).Info("Find by availability")
		return s.repo.FindByAvailability(*filter.Available)
	default:
		s.log.Info("Find all")
		return s.repo.GetAll()
	}
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct persists a new product and assigns its ID.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.log.WithField("id", product.ID).Info("Product created")
	s.publish(EventProductCreated, product)
	return nil
}

// UpdateProduct applies body to the product with the given ID and saves it.
// The ID is preserved whatever the body says.
func (s *ProductService) UpdateProduct(id uint, body []byte) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := product.Deserialize(body); err != nil {
		return nil, err
	}
	product.ID = id
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.log.WithField("id", id).Info("Product updated")
	s.publish(EventProductUpdated, product)
	return product, nil
}

// DeleteProduct removes the product with the given ID. A missing product
// is not an error.
func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.repo.GetByID(id)
	if errors.Is(err, models.ErrProductNotFound) {
		s.log.WithField("id", id).Info("Product already absent, nothing to delete")
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	s.log.WithField("id", id).Info("Product deleted")
	s.publish(EventProductDeleted, product)
	return nil
}

// publish never fails the calling operation; errors are only logged.
func (s *ProductService) publish(event string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProductEvent(event, product.Serialize()); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event": event,
			"id":    product.ID,
		}).Warn("Failed to publish product event")
	}
}
