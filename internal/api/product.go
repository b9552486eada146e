package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"restaurant-service/internal/entity"
	"restaurant-service/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new instance of ProductHandler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProduct creates a new product --> POST /products
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	createdProduct, err := h.productService.CreateProduct(c.Request().Context(), &product)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(201, createdProduct)
}

// GetProduct retrieves a product by ID --> GET /products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	product, err := h.productService.GetProductByID(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, product)
}

// ListProducts lists available products --> GET /products?category=
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.GetProducts(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, products)
}

// UpdateProduct updates a product --> PUT /products/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	product.ID = id

	updatedProduct, err := h.productService.UpdateProduct(c.Request().Context(), &product)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, updatedProduct)
}

// DeleteProduct soft-deletes a product --> DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		return errorJSON(c, err)
	}

	return c.NoContent(204)
}
