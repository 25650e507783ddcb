package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Masomatta/Afg-egov-portal/internal/api/dto"
	"github.com/Masomatta/Afg-egov-portal/internal/auth"
	"github.com/Masomatta/Afg-egov-portal/internal/domain"
	"github.com/Masomatta/Afg-egov-portal/internal/service"
	apperrors "github.com/Masomatta/Afg-egov-portal/pkg/util"
)

// AdminHandler manages administrative endpoints.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ---- users ----

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.AdminUserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.AdminUserResponse{
			UserResponse:   userResponse(&users[i].User),
			DepartmentName: users[i].DepartmentName,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateUser POST /admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.AdminUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.admin.CreateUser(c.UserContext(), adminUserInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateUser PUT /admin/users/:id.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.AdminUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.admin.UpdateUser(c.UserContext(), c.Params("id"), adminUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeleteUser DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.admin.DeleteUser(c.UserContext(), principal.Actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// ---- departments ----

// ListDepartments GET /admin/departments.
func (h *AdminHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.admin.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, dto.DepartmentResponse{
			ID:           dept.ID,
			Name:         dept.Name,
			Description:  dept.Description,
			ServiceCount: dept.ServiceCount,
			StaffCount:   dept.StaffCount,
			CreatedAt:    dept.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateDepartment POST /admin/departments.
func (h *AdminHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.admin.CreateDepartment(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": departmentResponse(dept)})
}

// UpdateDepartment PUT /admin/departments/:id.
func (h *AdminHandler) UpdateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.admin.UpdateDepartment(c.UserContext(), c.Params("id"), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(dept)})
}

// ---- services ----

// ListServices GET /admin/services.
func (h *AdminHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.admin.ListServices(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceSummaryResponses(services)})
}

// CreateService POST /admin/services.
func (h *AdminHandler) CreateService(c *fiber.Ctx) error {
	input, err := serviceInput(c)
	if err != nil {
		return err
	}
	svc, err := h.admin.CreateService(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": serviceResponse(svc)})
}

// UpdateService PUT /admin/services/:id.
func (h *AdminHandler) UpdateService(c *fiber.Ctx) error {
	input, err := serviceInput(c)
	if err != nil {
		return err
	}
	svc, err := h.admin.UpdateService(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceResponse(svc)})
}

// ---- requests and reports ----

// BrowseRequests GET /admin/requests.
func (h *AdminHandler) BrowseRequests(c *fiber.Ctx) error {
	summaries, err := h.admin.BrowseRequests(c.UserContext(), parseListFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestSummaryResponses(summaries)})
}

// Overview GET /admin/overview.
func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.admin.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.OverviewResponse{
		TotalRequests:   overview.TotalRequests,
		TotalUsers:      overview.TotalUsers,
		RequestsToday:   overview.RequestsToday,
		PendingRequests: overview.PendingRequests,
		TotalRevenue:    overview.TotalRevenue,
	}})
}

// Report GET /admin/reports?period=week|month|year|all.
func (h *AdminHandler) Report(c *fiber.Ctx) error {
	report, err := h.admin.Report(c.UserContext(), c.Query("period"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

// ---- mapping helpers ----

func adminUserInput(req dto.AdminUserRequest) service.UserInput {
	return service.UserInput{
		NationalID:   req.NationalID,
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		JobTitle:     req.JobTitle,
	}
}

func serviceInput(c *fiber.Ctx) (service.ServiceInput, error) {
	var req dto.ServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ServiceInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	fee := decimal.Zero
	if req.Fee != "" {
		parsed, err := decimal.NewFromString(req.Fee)
		if err != nil {
			return service.ServiceInput{}, apperrors.NewValidationError("invalid fee", map[string]any{"fee": req.Fee})
		}
		fee = parsed
	}
	return service.ServiceInput{
		Name:         req.Name,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		Fee:          fee,
		Requirements: req.Requirements,
	}, nil
}

func departmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:          dept.ID,
		Name:        dept.Name,
		Description: dept.Description,
		CreatedAt:   dept.CreatedAt,
	}
}

func serviceResponse(svc *domain.Service) dto.ServiceSummaryResponse {
	return dto.ServiceSummaryResponse{
		ID:           svc.ID,
		Name:         svc.Name,
		Description:  svc.Description,
		DepartmentID: svc.DepartmentID,
		Fee:          svc.Fee,
		Requirements: svc.Requirements,
	}
}

func reportResponse(report *domain.Report) dto.ReportResponse {
	byStatus := make([]dto.StatusCountEntry, 0, len(report.ByStatus))
	for _, entry := range report.ByStatus {
		byStatus = append(byStatus, dto.StatusCountEntry{Status: entry.Status, Count: entry.Count})
	}
	perf := make([]dto.DepartmentPerformanceRow, 0, len(report.DepartmentPerformance))
	for _, row := range report.DepartmentPerformance {
		perf = append(perf, dto.DepartmentPerformanceRow{
			DepartmentName:    row.DepartmentName,
			TotalRequests:     row.TotalRequests,
			Approved:          row.Approved,
			Rejected:          row.Rejected,
			AvgProcessingDays: row.AvgProcessingDays,
		})
	}
	popularity := make([]dto.ServicePopularityRow, 0, len(report.ServicePopularity))
	for _, row := range report.ServicePopularity {
		popularity = append(popularity, dto.ServicePopularityRow{
			ServiceName:    row.ServiceName,
			DepartmentName: row.DepartmentName,
			RequestCount:   row.RequestCount,
		})
	}
	revenue := make([]dto.RevenueRow, 0, len(report.Revenue))
	for _, row := range report.Revenue {
		revenue = append(revenue, dto.RevenueRow{
			Date:         row.Date,
			ServiceName:  row.ServiceName,
			PaymentCount: row.PaymentCount,
			TotalAmount:  row.TotalAmount,
		})
	}
	return dto.ReportResponse{
		Period:                report.Period,
		ByStatus:              byStatus,
		DepartmentPerformance: perf,
		ServicePopularity:     popularity,
		Revenue:               revenue,
	}
}
