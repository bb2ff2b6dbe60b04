package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"

	"productstore/internal/database"
	"productstore/internal/models"
	"productstore/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupApp sets up a Fiber app for testing backed by a throwaway SQLite database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.Open("sqlite://"+filepath.Join(t.TempDir(), "products.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	return newApp(repositories.NewGORMProductRepository(db))
}

var testCategories = []models.Category{
	models.CategoryCloths,
	models.CategoryFood,
	models.CategoryHousewares,
	models.CategoryAutomotive,
	models.CategoryTools,
}

// createProducts posts count products and returns the created bodies.
func createProducts(t *testing.T, app *fiber.App, count int) []map[string]interface{} {
	t.Helper()
	created := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		payload := map[string]interface{}{
			"name":        fmt.Sprintf("Product %d", i%3),
			"description": fmt.Sprintf("Description of product %d", i),
			"price":       fmt.Sprintf("%d.99", 10+i),
			"available":   i%2 == 0,
			"category":    testCategories[i%len(testCategories)].String(),
		}
		resp := doRequest(t, app, http.MethodPost, baseURL, payload, "application/json")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var product map[string]interface{}
		decodeJSON(t, resp, &product)
		created = append(created, product)
	}
	return created
}

func TestProductLifecycle(t *testing.T) {
	app := setupApp(t)

	// --- Create ---
	newProduct := map[string]interface{}{
		"name":        "Smartphone",
		"description": "Latest model smartphone",
		"price":       "799.99",
		"available":   true,
		"category":    "HOUSEWARES",
	}
	resp := doRequest(t, app, http.MethodPost, baseURL, newProduct, "application/json")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.NotEmpty(t, location)

	var createdProduct map[string]interface{}
	decodeJSON(t, resp, &createdProduct)
	assert.NotZero(t, createdProduct["id"])
	assert.Equal(t, newProduct["name"], createdProduct["name"])
	assert.Equal(t, newProduct["description"], createdProduct["description"])
	assert.Equal(t, newProduct["price"], createdProduct["price"])
	assert.Equal(t, newProduct["available"], createdProduct["available"])
	assert.Equal(t, newProduct["category"], createdProduct["category"])

	// --- The Location header resolves to the new product ---
	locationURL, err := url.Parse(location)
	require.NoError(t, err)
	resp = doRequest(t, app, http.MethodGet, locationURL.Path, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetchedProduct map[string]interface{}
	decodeJSON(t, resp, &fetchedProduct)
	assert.Equal(t, createdProduct, fetchedProduct)

	// --- Update ---
	productURL := fmt.Sprintf("%s/%v", baseURL, createdProduct["id"])
	update := map[string]interface{}{
		"name":        "Smartphone Pro",
		"description": "Latest model smartphone pro edition",
		"price":       "899.99",
		"available":   false,
		"category":    "HOUSEWARES",
	}
	resp = doRequest(t, app, http.MethodPut, productURL, update, "application/json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updatedProduct map[string]interface{}
	decodeJSON(t, resp, &updatedProduct)
	assert.Equal(t, createdProduct["id"], updatedProduct["id"])
	assert.Equal(t, "Smartphone Pro", updatedProduct["name"])
	assert.Equal(t, "899.99", updatedProduct["price"])
	assert.Equal(t, false, updatedProduct["available"])

	resp = doRequest(t, app, http.MethodGet, productURL, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &fetchedProduct)
	assert.Equal(t, updatedProduct, fetchedProduct)

	// --- Delete, twice ---
	for i := 0; i < 2; i++ {
		resp = doRequest(t, app, http.MethodDelete, productURL, nil, "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, productURL, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateProductWithNumericPrice(t *testing.T) {
	app := setupApp(t)
	resp := doRequest(t, app, http.MethodPost, baseURL, `{"name":"Oil","price":7.5,"category":"automotive"}`, "application/json")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var product map[string]interface{}
	decodeJSON(t, resp, &product)
	assert.Equal(t, "7.50", product["price"])
	assert.Equal(t, "AUTOMOTIVE", product["category"])
	assert.Equal(t, true, product["available"], "available defaults to true")
	assert.Equal(t, "", product["description"])
}

func TestGetProductNotFound(t *testing.T) {
	app := setupApp(t)
	resp := doRequest(t, app, http.MethodGet, baseURL+"/0", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProductNotFound(t *testing.T) {
	app := setupApp(t)
	body := map[string]interface{}{"name": "x", "price": "1", "category": "FOOD"}
	resp := doRequest(t, app, http.MethodPut, baseURL+"/0", body, "application/json")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListAllProducts(t *testing.T) {
	app := setupApp(t)
	createProducts(t, app, 5)

	resp := doRequest(t, app, http.MethodGet, baseURL, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []map[string]interface{}
	decodeJSON(t, resp, &products)
	assert.Len(t, products, 5)
}

func TestListEmptyCatalog(t *testing.T) {
	app := setupApp(t)
	resp := doRequest(t, app, http.MethodGet, baseURL, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []map[string]interface{}
	decodeJSON(t, resp, &products)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListProductsByName(t *testing.T) {
	app := setupApp(t)
	created := createProducts(t, app, 6)
	name := created[0]["name"].(string)

	expected := 0
	for _, p := range created {
		if p["name"] == name {
			expected++
		}
	}

	resp := doRequest(t, app, http.MethodGet, baseURL+"?name="+url.QueryEscape(name), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []map[string]interface{}
	decodeJSON(t, resp, &products)
	assert.Len(t, products, expected)
	for _, p := range products {
		assert.Equal(t, name, p["name"])
	}
}

func TestListProductsByCategory(t *testing.T) {
	app := setupApp(t)
	created := createProducts(t, app, 10)
	category := created[0]["category"].(string)

	expected := 0
	for _, p := range created {
		if p["category"] == category {
			expected++
		}
	}

	resp := doRequest(t, app, http.MethodGet, baseURL+"?category="+category, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []map[string]interface{}
	decodeJSON(t, resp, &products)
	assert.Len(t, products, expected)
	for _, p := range products {
		assert.Equal(t, category, p["category"])
	}

	resp = doRequest(t, app, http.MethodGet, baseURL+"?category=NOT_A_CATEGORY", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListProductsByAvailability(t *testing.T) {
	app := setupApp(t)
	created := createProducts(t, app, 10)

	expected := 0
	for _, p := range created {
		if p["available"] == true {
			expected++
		}
	}

	resp := doRequest(t, app, http.MethodGet, baseURL+"?available=true", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []map[string]interface{}
	decodeJSON(t, resp, &products)
	assert.Len(t, products, expected)
	for _, p := range products {
		assert.Equal(t, true, p["available"])
	}
}
