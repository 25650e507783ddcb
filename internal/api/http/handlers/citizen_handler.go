package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Masomatta/Afg-egov-portal/internal/auth"
	"github.com/Masomatta/Afg-egov-portal/internal/config"
	"github.com/Masomatta/Afg-egov-portal/internal/service"
	apperrors "github.com/Masomatta/Afg-egov-portal/pkg/util"
)

var allowedUploadExtensions = map[string]struct{}{
	".pdf":  {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// CitizenHandler manages citizen-facing endpoints.
type CitizenHandler struct {
	requests *service.RequestService
	catalog  *service.AdminService
	upload   config.UploadConfig
}

// NewCitizenHandler constructs handler. The admin service doubles as the
// read-only catalog source.
func NewCitizenHandler(requests *service.RequestService, catalog *service.AdminService, upload config.UploadConfig) *CitizenHandler {
	return &CitizenHandler{requests: requests, catalog: catalog, upload: upload}
}

// ListServices GET /citizen/services.
func (h *CitizenHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.catalog.ListServices(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceSummaryResponses(services)})
}

// Apply POST /citizen/requests. Multipart: service_id, notes and up to the
// configured number of document files.
func (h *CitizenHandler) Apply(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form required", nil)
	}

	serviceID := firstValue(form, "service_id")
	if serviceID == "" {
		return apperrors.NewValidationError("service_id required", nil)
	}
	notes := firstValue(form, "notes")

	fileHeaders := form.File["documents"]
	if err := h.validateUploads(fileHeaders); err != nil {
		return err
	}

	uploads := make([]service.FileUpload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		file, err := fh.Open()
		if err != nil {
			return apperrors.NewValidationError("unreadable upload", map[string]any{"file": fh.Filename})
		}
		defer file.Close()
		uploads = append(uploads, service.FileUpload{Name: fh.Filename, Content: file})
	}

	request, err := h.requests.Submit(c.UserContext(), principal.Actor, serviceID, notes, uploads)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":           request.ID,
		"status":       request.Status,
		"submitted_at": request.SubmittedAt,
	}})
}

// ListRequests GET /citizen/requests.
func (h *CitizenHandler) ListRequests(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	summaries, err := h.requests.ListForActor(c.UserContext(), principal.Actor, parseListFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestSummaryResponses(summaries)})
}

// GetRequest GET /citizen/requests/:id.
func (h *CitizenHandler) GetRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	detail, err := h.requests.GetDetail(c.UserContext(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetailResponse(detail)})
}

// Pay POST /citizen/requests/:id/pay.
func (h *CitizenHandler) Pay(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.requests.ConfirmPayment(c.UserContext(), principal.Actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"paid": true}})
}

// Notifications GET /citizen/notifications.
func (h *CitizenHandler) Notifications(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	notifications, err := h.requests.Notifications(c.UserContext(), principal.Actor, parseInt(c.Query("limit"), 50))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": notificationResponses(notifications)})
}

func (h *CitizenHandler) validateUploads(fileHeaders []*multipart.FileHeader) error {
	if h.upload.MaxFiles > 0 && len(fileHeaders) > h.upload.MaxFiles {
		return apperrors.NewValidationError(
			fmt.Sprintf("at most %d documents per request", h.upload.MaxFiles), nil)
	}
	for _, fh := range fileHeaders {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if _, ok := allowedUploadExtensions[ext]; !ok {
			return apperrors.NewValidationError("unsupported file type",
				map[string]any{"file": fh.Filename, "allowed": "pdf, jpg, jpeg, png"})
		}
		if h.upload.MaxFileSizeBytes > 0 && fh.Size > h.upload.MaxFileSizeBytes {
			return apperrors.NewValidationError("file exceeds size limit",
				map[string]any{"file": fh.Filename, "max_bytes": h.upload.MaxFileSizeBytes})
		}
	}
	return nil
}

func firstValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
