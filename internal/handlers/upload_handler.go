package handlers

import (
	"fmt"
	"log"

	"rental/internal/apperr"
	"rental/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler handles photo uploads.
type UploadHandler struct {
	service *services.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{
		service: service,
	}
}

// RegisterRoutes registers the upload routes.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/upload", h.HandleUpload)
	router.Post("/upload-by-link", h.HandleUploadByLink)
}

// HandleUpload stores the files of the multipart field "photos".
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return invalidBody(err)
	}
	headers := form.File["photos"]
	if len(headers) > services.MaxUploadFiles {
		return apperr.Validation(map[string]string{
			"photos": fmt.Sprintf("at most %d files per upload, got %d", services.MaxUploadFiles, len(headers)),
		})
	}

	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}
		defer f.Close()
		files = append(files, services.UploadFile{OriginalName: fh.Filename, Content: f})
	}

	names, err := h.service.StoreFiles(files)
	if err != nil {
		return err
	}
	log.Printf("Stored %d uploaded photos", len(names))
	return c.JSON(names)
}

// UploadByLinkRequest is the body of POST /upload-by-link.
type UploadByLinkRequest struct {
	Link string `json:"link"`
}

// HandleUploadByLink downloads a remote image into the upload directory.
func (h *UploadHandler) HandleUploadByLink(c *fiber.Ctx) error {
	var req UploadByLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	name, err := h.service.StoreFromLink(c.UserContext(), req.Link)
	if err != nil {
		return err
	}
	return c.JSON(name)
}
