package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"productstore/internal/middleware"
	"productstore/internal/models"
	"productstore/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	log     *logrus.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	requireJSON := middleware.RequireContentType(fiber.MIMEApplicationJSON)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Post("/", requireJSON, h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Put("/:id", requireJSON, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts returns every product, or those matching a single
// query filter. name takes precedence over category, category over available.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	h.log.Info("Request to list Products...")
	filter, err := parseProductFilter(c)
	if err != nil {
		return err
	}

	products, err := h.service.ListProducts(filter)
	if err != nil {
		return err
	}

	h.log.Infof("[%d] Products returned", len(products))
	return c.Status(fiber.StatusOK).JSON(models.SerializeAll(products))
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	h.log.Infof("Request to Retrieve a product with id [%d]", id)

	product, err := h.service.GetProductByID(id)
	if err != nil {
		return err
	}

	h.log.Infof("Returning product: %s", product.Name)
	return c.Status(fiber.StatusOK).JSON(product.Serialize())
}

// HandleCreateProduct creates a new product and points Location at it.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	h.log.Info("Request to Create a Product...")
	product := models.NewProduct()
	if err := product.Deserialize(c.Body()); err != nil {
		return err
	}

	if err := h.service.CreateProduct(product); err != nil {
		return err
	}

	location := fmt.Sprintf("%s%s/%d", c.BaseURL(), strings.TrimSuffix(c.Path(), "/"), product.ID)
	c.Location(location)
	h.log.Infof("Product with ID [%d] created", product.ID)
	return c.Status(fiber.StatusCreated).JSON(product.Serialize())
}

// HandleUpdateProduct replaces the supplied fields of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	h.log.Infof("Request to Update a product with id [%d]", id)

	product, err := h.service.UpdateProduct(id, c.Body())
	if err != nil {
		return err
	}

	h.log.Infof("Product with id [%d] updated", id)
	return c.Status(fiber.StatusOK).JSON(product.Serialize())
}

// HandleDeleteProduct deletes a product. Unknown IDs still yield 204.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		h.log.Infof("Request to Delete a product with non-numeric id [%s]", c.Params("id"))
		return c.SendStatus(fiber.StatusNoContent)
	}
	h.log.Infof("Request to Delete a product with id [%d]", id)

	if err := h.service.DeleteProduct(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// productID parses the :id route parameter. An id that is not an unsigned
// integer cannot name a product, so it is reported as not found.
func productID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("product with ID %q: %w", raw, models.ErrProductNotFound)
	}
	return uint(id), nil
}

func parseProductFilter(c *fiber.Ctx) (services.ProductFilter, error) {
	if name := c.Query("name"); name != "" {
		return services.ProductFilter{Name: name}, nil
	}

	if raw := c.Query("category"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			return services.ProductFilter{}, &models.ValidationError{
				Message: fmt.Sprintf("Invalid category: %s", raw),
				Err:     err,
			}
		}
		return services.ProductFilter{Category: &category}, nil
	}

	if raw := c.Query("available"); raw != "" {
		available := parseAvailable(raw)
		return services.ProductFilter{Available: &available}, nil
	}

	return services.ProductFilter{}, nil
}

// parseAvailable treats true, yes and 1 as true and anything else as false.
func parseAvailable(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}
