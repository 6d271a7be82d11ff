package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type ProductHandler struct {
	service *application.ProductService
}

// NewProductHandler builds the product handler.
func NewProductHandler(service *application.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type productRequest struct {
	Name     string  `json:"name" validate:"required"`
	Category string  `json:"category"`
	Price    float64 `json:"price" validate:"gte=0"`
	Stock    int     `json:"stock" validate:"gte=0"`
	ImageURL string  `json:"imageUrl"`
	Active   bool    `json:"active"`
}

type restockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// Create registers a product.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if !parseBody(c, &req) {
		return nil
	}

	product := &domain.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
		ImageURL: req.ImageURL,
	}
	if err := h.service.Create(c.Context(), product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// List returns the catalogue; ?active=true narrows to sellable items.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.service.List(c.Context(), c.QueryBool("active", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"products": products})
}

// Get returns one product.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// Update rewrites a product.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req productRequest
	if !parseBody(c, &req) {
		return nil
	}

	current, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	current.Name = req.Name
	current.Category = req.Category
	current.Price = req.Price
	current.ImageURL = req.ImageURL
	current.Active = req.Active

	if err := h.service.Update(c.Context(), current); err != nil {
		return respondError(c, err)
	}
	return c.JSON(current)
}

// Restock adjusts stock by a delta.
func (h *ProductHandler) Restock(c *fiber.Ctx) error {
	var req restockRequest
	if !parseBody(c, &req) {
		return nil
	}

	product, err := h.service.Restock(c.Context(), c.Params("id"), req.Delta)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// Delete removes a product.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}
