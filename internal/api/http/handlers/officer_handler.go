package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Masomatta/Afg-egov-portal/internal/api/dto"
	"github.com/Masomatta/Afg-egov-portal/internal/auth"
	"github.com/Masomatta/Afg-egov-portal/internal/repository"
	"github.com/Masomatta/Afg-egov-portal/internal/service"
	apperrors "github.com/Masomatta/Afg-egov-portal/pkg/util"
)

// OfficerHandler manages review endpoints for department staff.
type OfficerHandler struct {
	requests *service.RequestService
	users    repository.UserRepository
}

// NewOfficerHandler constructs handler.
func NewOfficerHandler(requests *service.RequestService, users repository.UserRepository) *OfficerHandler {
	return &OfficerHandler{requests: requests, users: users}
}

// Worklist GET /officer/requests. Officers see unassigned department work
// plus their own; department heads see the whole department.
func (h *OfficerHandler) Worklist(c *fiber.Ctx) error {
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

// GetRequest GET /officer/requests/:id.
func (h *OfficerHandler) GetRequest(c *fiber.Ctx) error {
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

// Decide POST /officer/requests/:id/decision.
func (h *OfficerHandler) Decide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.DecideRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.requests.Decide(c.UserContext(), principal.Actor, c.Params("id"), req.Decision, req.Notes); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": req.Decision}})
}

// Assign POST /officer/requests/:id/assign.
func (h *OfficerHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OfficerID == "" {
		return apperrors.NewValidationError("officer_id required", nil)
	}
	if err := h.requests.Assign(c.UserContext(), principal.Actor, c.Params("id"), req.OfficerID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"assigned": true}})
}

// Stats GET /officer/stats.
func (h *OfficerHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.requests.StatsForReviewer(c.UserContext(), principal.Actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.OfficerStatsResponse{
		TotalAssigned: stats.TotalAssigned,
		InProgress:    stats.InProgress,
		Approved:      stats.Approved,
		Rejected:      stats.Rejected,
	}})
}

// DepartmentOfficers GET /officer/department/officers lists assignable staff
// for the caller's department.
func (h *OfficerHandler) DepartmentOfficers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.Actor.DepartmentID == nil {
		return apperrors.NewAccessDenied("no department assigned")
	}
	officers, err := h.users.ListOfficersByDepartment(c.UserContext(), *principal.Actor.DepartmentID)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.UserResponse, 0, len(officers))
	for i := range officers {
		items = append(items, userResponse(&officers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
