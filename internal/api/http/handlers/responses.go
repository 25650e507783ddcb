package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Masomatta/Afg-egov-portal/internal/api/dto"
	"github.com/Masomatta/Afg-egov-portal/internal/domain"
	"github.com/Masomatta/Afg-egov-portal/internal/service"
)

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.ID,
		NationalID:   user.NationalID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		JobTitle:     user.JobTitle,
		CreatedAt:    user.CreatedAt,
	}
}

func requestSummaryResponse(summary *domain.RequestSummary) dto.RequestSummaryResponse {
	return dto.RequestSummaryResponse{
		ID:                summary.ID,
		ServiceName:       summary.ServiceName,
		DepartmentName:    summary.DepartmentName,
		CitizenName:       summary.CitizenName,
		CitizenNationalID: summary.CitizenNationalID,
		Status:            summary.Status,
		Notes:             summary.Notes,
		SubmittedAt:       summary.SubmittedAt,
		ReviewedAt:        summary.ReviewedAt,
		ReviewerName:      summary.ReviewerName,
	}
}

func requestSummaryResponses(summaries []domain.RequestSummary) []dto.RequestSummaryResponse {
	items := make([]dto.RequestSummaryResponse, 0, len(summaries))
	for i := range summaries {
		items = append(items, requestSummaryResponse(&summaries[i]))
	}
	return items
}

func requestDetailResponse(detail *service.RequestDetail) dto.RequestDetailResponse {
	documents := make([]dto.DocumentResponse, 0, len(detail.Documents))
	for _, doc := range detail.Documents {
		documents = append(documents, dto.DocumentResponse{
			ID:         doc.ID,
			FileName:   doc.FileName,
			URL:        doc.Locator,
			UploadedAt: doc.UploadedAt,
		})
	}
	history := make([]dto.ReviewEventEntry, 0, len(detail.History))
	for _, event := range detail.History {
		history = append(history, dto.ReviewEventEntry{
			Action:      event.Action,
			OccurredAt:  event.OccurredAt,
			OfficerName: event.OfficerName,
		})
	}
	resp := dto.RequestDetailResponse{
		RequestSummaryResponse: requestSummaryResponse(&detail.Request),
		Documents:              documents,
		History:                history,
	}
	if detail.Payment != nil {
		resp.Payment = &dto.PaymentResponse{
			ID:          detail.Payment.ID,
			Amount:      detail.Payment.Amount,
			Status:      detail.Payment.Status,
			PaymentDate: detail.Payment.PaymentDate,
		}
	}
	return resp
}

func serviceSummaryResponses(services []domain.ServiceSummary) []dto.ServiceSummaryResponse {
	items := make([]dto.ServiceSummaryResponse, 0, len(services))
	for _, svc := range services {
		items = append(items, dto.ServiceSummaryResponse{
			ID:             svc.ID,
			Name:           svc.Name,
			Description:    svc.Description,
			DepartmentID:   svc.DepartmentID,
			DepartmentName: svc.DepartmentName,
			Fee:            svc.Fee,
			Requirements:   svc.Requirements,
			RequestCount:   svc.RequestCount,
		})
	}
	return items
}

func notificationResponses(notifications []domain.Notification) []dto.NotificationResponse {
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}
	return items
}

func parseListFilter(c *fiber.Ctx) service.ListFilter {
	filter := service.ListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.RequestStatus(strings.TrimSpace(part)))
		}
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.SearchTerm = &search
	}
	if dept := strings.TrimSpace(c.Query("department_id")); dept != "" {
		filter.DepartmentID = &dept
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
