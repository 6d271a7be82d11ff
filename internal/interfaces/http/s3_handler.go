package http

import (
	"github.com/gofiber/fiber/v2"

	services "github.com/AlexSafo-tech/motel-management-backend-sub000/internal/service"
)

type S3Handler struct {
	service *services.S3Service
}

// NewS3Handler builds the upload handler. service may be nil when S3 is not
// configured; uploads then answer 503.
func NewS3Handler(service *services.S3Service) *S3Handler {
	return &S3Handler{service: service}
}

// UploadImage stores a multipart image and returns its public URL.
func (h *S3Handler) UploadImage(c *fiber.Ctx) error {
	if h.service == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "image storage is not configured",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing file field",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "could not open uploaded file",
		})
	}
	defer file.Close()

	folder := c.Query("folder", "products")
	if folder != "products" && folder != "rooms" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "folder must be products or rooms",
		})
	}

	url, err := h.service.UploadFile(c.Context(), file, fileHeader, folder)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}
