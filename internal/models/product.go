package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Product represents an item in the store catalog.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null;index"`
	Description string          `json:"description" gorm:"type:varchar(250);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null"`
	Available   bool            `json:"available" gorm:"not null"`
	Category    Category        `json:"category" gorm:"type:varchar(20);not null;default:UNKNOWN;index"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// NewProduct returns an empty product with the column defaults applied.
func NewProduct() *Product {
	return &Product{
		Available: true,
		Category:  CategoryUnknown,
	}
}

// productPayload mirrors the JSON body accepted on create and update.
// Pointer fields distinguish an absent key from a zero value. Price is
// bounded by the numeric(14,2) column.
type productPayload struct {
	Name        *string          `json:"name" validate:"required,min=1,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=250"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0,lte=999999999999.99"`
	Available   *bool            `json:"available"`
	Category    *string          `json:"category" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Deserialize applies a JSON payload to the product. name, price and
// category are required; fields absent from the payload keep their
// current values and unknown fields are ignored. Any id in the payload is
// ignored. Every failure is returned as a *ValidationError and leaves the
// product untouched.
func (p *Product) Deserialize(body []byte) error {
	var payload productPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &ValidationError{
				Message: "Invalid product",
				Fields: map[string]string{
					typeErr.Field: fmt.Sprintf("Invalid type for [%s]: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
				},
				Err: err,
			}
		}
		return &ValidationError{Message: "Invalid product: body is not a valid product document", Err: err}
	}

	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return &ValidationError{Message: "Invalid product", Err: err}
		}
		fields := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return &ValidationError{Message: "Invalid product", Fields: fields, Err: err}
	}

	category, err := ParseCategory(*payload.Category)
	if err != nil {
		return &ValidationError{
			Message: "Invalid product",
			Fields:  map[string]string{"category": fmt.Sprintf("Invalid category: %s", *payload.Category)},
			Err:     err,
		}
	}

	p.Name = *payload.Name
	p.Price = *payload.Price
	p.Category = category
	if payload.Description != nil {
		p.Description = *payload.Description
	}
	if payload.Available != nil {
		p.Available = *payload.Available
	}
	return nil
}

// Serialize renders the product as a JSON-compatible map.
func (p Product) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.StringFixed(2),
		"available":   p.Available,
		"category":    p.Category.String(),
	}
}

// SerializeAll serializes products in order. The result is never nil.
func SerializeAll(products []Product) []map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(products))
	for _, p := range products {
		results = append(results, p.Serialize())
	}
	return results
}
