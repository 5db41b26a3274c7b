package api

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/marketplace-service/internal/apperr"
	"github.com/fathima-sithara/marketplace-service/internal/service"
)

func (h *Handlers) uploadImage(c *fiber.Ctx) error {
	if h.uploads == nil {
		return h.httpError(c, fmt.Errorf("%w: uploads not configured", apperr.ErrUnavailable))
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file"})
	}
	f, err := readUploadFile(fh)
	if err != nil {
		return h.httpError(c, err)
	}
	res, err := h.uploads.UploadImage(c.Context(), f)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(res)
}

func (h *Handlers) uploadImages(c *fiber.Ctx) error {
	if h.uploads == nil {
		return h.httpError(c, fmt.Errorf("%w: uploads not configured", apperr.ErrUnavailable))
	}
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid form"})
	}
	headers := form.File["files"]
	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readUploadFile(fh)
		if err != nil {
			return h.httpError(c, err)
		}
		files = append(files, f)
	}
	items, err := h.uploads.UploadImages(c.Context(), files)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

func readUploadFile(fh *multipart.FileHeader) (service.UploadFile, error) {
	f, err := fh.Open()
	if err != nil {
		return service.UploadFile{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageBytes+1))
	if err != nil {
		return service.UploadFile{}, err
	}
	return service.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
