package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
	"github.com/Masomatta/Afg-egov-portal/internal/events"
	"github.com/Masomatta/Afg-egov-portal/internal/repository"
	"github.com/Masomatta/Afg-egov-portal/internal/storage"
	apperrors "github.com/Masomatta/Afg-egov-portal/pkg/util"
)

// RequestService owns the request lifecycle: submission, listing, review
// decisions, assignment and the simulated payment. Every multi-write
// operation runs inside one transaction.
type RequestService struct {
	repos      *repository.Repositories
	tx         repository.TxManager
	store      storage.Store
	dispatcher events.Dispatcher
}

// RequestDependencies bundles collaborators for the service.
type RequestDependencies struct {
	Repos      *repository.Repositories
	Tx         repository.TxManager
	Store      storage.Store
	Dispatcher events.Dispatcher
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	return &RequestService{
		repos:      deps.Repos,
		tx:         deps.Tx,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
	}
}

// FileUpload carries one uploaded document into Submit.
type FileUpload struct {
	Name    string
	Content io.Reader
}

// RequestDetail is the joined view returned by GetDetail.
type RequestDetail struct {
	Request   domain.RequestSummary
	Documents []domain.Document
	Payment   *domain.Payment
	History   []domain.ReviewEvent
}

// ListFilter narrows listings beyond the actor's visibility scope.
// DepartmentID only has effect for admin views; other roles are already
// scoped to their own department or their own requests.
type ListFilter struct {
	Statuses     []domain.RequestStatus
	SearchTerm   *string
	DepartmentID *string
	Limit        int
	Offset       int
}

// Submit creates a request with its documents, the optional payment record
// and the citizen notification as one atomic bundle. Files are persisted to
// storage before the transaction opens.
func (s *RequestService) Submit(ctx context.Context, actor domain.Actor, serviceID, notes string, uploads []FileUpload) (*domain.Request, error) {
	if actor.Role != domain.RoleCitizen {
		return nil, apperrors.NewAccessDenied("only citizens submit requests")
	}

	svc, err := s.repos.Services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("service", map[string]any{"service_id": serviceID})
		}
		return nil, apperrors.MapError(err)
	}

	type storedFile struct {
		name    string
		locator string
	}
	stored := make([]storedFile, 0, len(uploads))
	for _, upload := range uploads {
		locator, err := s.store.Store(ctx, upload.Name, upload.Content)
		if err != nil {
			return nil, apperrors.NewStorageError(err)
		}
		stored = append(stored, storedFile{name: upload.Name, locator: locator})
	}

	request := &domain.Request{
		CitizenID: actor.ID,
		ServiceID: svc.ID,
		Status:    domain.RequestStatusSubmitted,
		Notes:     strings.TrimSpace(notes),
	}

	err = s.tx.InTx(ctx, func(r *repository.Repositories) error {
		if err := r.Requests.Create(ctx, request); err != nil {
			return err
		}
		for _, f := range stored {
			doc := &domain.Document{
				RequestID: request.ID,
				FileName:  f.name,
				Locator:   f.locator,
			}
			if err := r.Documents.Create(ctx, doc); err != nil {
				return err
			}
		}
		if svc.Fee.IsPositive() {
			payment := &domain.Payment{
				RequestID: request.ID,
				Amount:    svc.Fee,
				Status:    domain.PaymentStatusPending,
			}
			if err := r.Payments.Create(ctx, payment); err != nil {
				return err
			}
		}
		return r.Notifications.Create(ctx, &domain.Notification{
			UserID:  actor.ID,
			Message: fmt.Sprintf("Your %s request has been submitted successfully.", svc.Name),
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventRequestSubmitted,
		RequestID: request.ID,
		Actor:     events.Actor{ID: actor.ID, Role: actor.Role},
		Payload: events.RequestSubmittedPayload{
			ServiceID:     svc.ID,
			ServiceName:   svc.Name,
			DepartmentID:  svc.DepartmentID,
			DocumentCount: len(stored),
			Fee:           svc.Fee,
		},
	})
	return request, nil
}

// ListForActor returns requests visible to the actor, most recent first.
// Citizens see their own, officers their department's unassigned or
// self-assigned work, department heads their whole department, admins all.
func (s *RequestService) ListForActor(ctx context.Context, actor domain.Actor, filter ListFilter) ([]domain.RequestSummary, error) {
	repoFilter := repository.RequestFilter{
		Statuses:   filter.Statuses,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}

	switch actor.Role {
	case domain.RoleCitizen:
		citizenID := actor.ID
		repoFilter.CitizenID = &citizenID
	case domain.RoleOfficer:
		if actor.DepartmentID == nil {
			return nil, apperrors.NewAccessDenied("no department assigned")
		}
		repoFilter.DepartmentID = actor.DepartmentID
		reviewerID := actor.ID
		repoFilter.UnassignedOrReviewedBy = &reviewerID
	case domain.RoleDepartmentHead:
		if actor.DepartmentID == nil {
			return nil, apperrors.NewAccessDenied("no department assigned")
		}
		repoFilter.DepartmentID = actor.DepartmentID
	case domain.RoleAdmin:
		// global view
	default:
		return nil, apperrors.NewAccessDenied("unknown role")
	}

	result, err := s.repos.Requests.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// GetDetail fetches a request with its documents, payment and review
// history, enforcing actor visibility.
func (s *RequestService) GetDetail(ctx context.Context, actor domain.Actor, requestID string) (*RequestDetail, error) {
	summary, err := s.getSummary(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !CanView(actor, summary) {
		return nil, apperrors.NewAccessDenied("access denied")
	}

	documents, err := s.repos.Documents.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	payment, err := s.repos.Payments.GetByRequest(ctx, requestID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	return &RequestDetail{
		Request:   *summary,
		Documents: documents,
		Payment:   payment,
		History:   summary.History(),
	}, nil
}

// Decide applies an approve/reject decision. The transition is a
// compare-and-set: a concurrent decision or an already-terminal request
// surfaces as Conflict, never a silent overwrite.
func (s *RequestService) Decide(ctx context.Context, actor domain.Actor, requestID string, decision domain.RequestStatus, notes string) error {
	if !decision.Terminal() {
		return apperrors.NewValidationError("decision must be approved or rejected", map[string]any{"decision": decision})
	}

	summary, err := s.getSummary(ctx, requestID)
	if err != nil {
		return err
	}
	if !CanActOn(actor, summary.DepartmentID) {
		return apperrors.NewAccessDenied("access denied")
	}
	if summary.Status.Terminal() {
		return apperrors.NewConflict("request already finalized", map[string]any{"status": summary.Status})
	}

	err = s.tx.InTx(ctx, func(r *repository.Repositories) error {
		ok, err := r.Requests.Decide(ctx, requestID, decision, actor.ID, strings.TrimSpace(notes))
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewConflict("request already finalized", nil)
		}
		return r.Notifications.Create(ctx, &domain.Notification{
			UserID:  summary.CitizenID,
			Message: decisionMessage(summary.ServiceName, decision, notes),
		})
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventRequestDecided,
		RequestID: requestID,
		Actor:     events.Actor{ID: actor.ID, Role: actor.Role},
		Payload:   events.RequestDecidedPayload{Decision: decision, Notes: notes},
	})
	return nil
}

// Assign sets the reviewer on a request and moves submitted work to
// under_review. Only department heads (within their department) and admins
// may assign; terminal requests stay untouched.
func (s *RequestService) Assign(ctx context.Context, actor domain.Actor, requestID, officerID string) error {
	if !CanAssign(actor) {
		return apperrors.NewAccessDenied("only department heads and admins assign requests")
	}

	summary, err := s.getSummary(ctx, requestID)
	if err != nil {
		return err
	}
	if !CanActOn(actor, summary.DepartmentID) {
		return apperrors.NewAccessDenied("access denied")
	}
	if summary.Status.Terminal() {
		return apperrors.NewConflict("request already finalized", map[string]any{"status": summary.Status})
	}

	officer, err := s.repos.Users.GetByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("officer", map[string]any{"officer_id": officerID})
		}
		return apperrors.MapError(err)
	}
	if !officer.Role.OfficerLevel() {
		return apperrors.NewValidationError("assignee is not an officer", map[string]any{"role": officer.Role})
	}
	if officer.DepartmentID == nil || *officer.DepartmentID != summary.DepartmentID {
		return apperrors.NewAccessDenied("assignee outside service department")
	}

	err = s.tx.InTx(ctx, func(r *repository.Repositories) error {
		ok, err := r.Requests.AssignReviewer(ctx, requestID, officerID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewConflict("request already finalized", nil)
		}
		return nil
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventRequestAssigned,
		RequestID: requestID,
		Actor:     events.Actor{ID: actor.ID, Role: actor.Role},
		Payload:   events.RequestAssignedPayload{ReviewerID: officerID},
	})
	return nil
}

// ConfirmPayment marks the citizen's pending payment completed. Repeating
// the call on a completed payment is a harmless no-op; a missing payment
// row is NotFound.
func (s *RequestService) ConfirmPayment(ctx context.Context, actor domain.Actor, requestID string) error {
	request, err := s.repos.Requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("request", map[string]any{"request_id": requestID})
		}
		return apperrors.MapError(err)
	}
	if request.CitizenID != actor.ID {
		return apperrors.NewAccessDenied("access denied")
	}

	payment, err := s.repos.Payments.GetByRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("payment", map[string]any{"request_id": requestID})
		}
		return apperrors.MapError(err)
	}
	if payment.Status == domain.PaymentStatusCompleted {
		return nil
	}

	if _, err := s.repos.Payments.Complete(ctx, requestID); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventPaymentConfirmed,
		RequestID: requestID,
		Actor:     events.Actor{ID: actor.ID, Role: actor.Role},
		Payload:   events.PaymentConfirmedPayload{Amount: payment.Amount},
	})
	return nil
}

// StatsForReviewer returns workload counters for an officer dashboard.
func (s *RequestService) StatsForReviewer(ctx context.Context, actor domain.Actor) (*domain.OfficerStats, error) {
	stats, err := s.repos.Requests.StatsByReviewer(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// Notifications lists the actor's notifications, newest first.
func (s *RequestService) Notifications(ctx context.Context, actor domain.Actor, limit int) ([]domain.Notification, error) {
	result, err := s.repos.Notifications.ListByUser(ctx, actor.ID, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

func (s *RequestService) getSummary(ctx context.Context, requestID string) (*domain.RequestSummary, error) {
	summary, err := s.repos.Requests.GetSummary(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", map[string]any{"request_id": requestID})
		}
		return nil, apperrors.MapError(err)
	}
	return summary, nil
}

func decisionMessage(serviceName string, decision domain.RequestStatus, notes string) string {
	switch decision {
	case domain.RequestStatusApproved:
		return fmt.Sprintf("Your %s request has been approved.", serviceName)
	default:
		msg := fmt.Sprintf("Your %s request has been rejected.", serviceName)
		if reason := strings.TrimSpace(notes); reason != "" {
			msg += " Reason: " + reason
		}
		return msg
	}
}

func (s *RequestService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
