package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
	"github.com/Masomatta/Afg-egov-portal/internal/repository"
)

// fakeState is the in-memory backing store shared by the fake repositories.
type fakeState struct {
	users         map[string]domain.User
	departments   map[string]domain.Department
	services      map[string]domain.Service
	requests      map[string]domain.Request
	documents     []domain.Document
	payments      map[string]domain.Payment // keyed by request id
	notifications []domain.Notification

	failNotifications bool
}

func newFakeState() *fakeState {
	return &fakeState{
		users:       map[string]domain.User{},
		departments: map[string]domain.Department{},
		services:    map[string]domain.Service{},
		requests:    map[string]domain.Request{},
		payments:    map[string]domain.Payment{},
	}
}

func (s *fakeState) clone() fakeState {
	out := fakeState{
		users:             make(map[string]domain.User, len(s.users)),
		departments:       make(map[string]domain.Department, len(s.departments)),
		services:          make(map[string]domain.Service, len(s.services)),
		requests:          make(map[string]domain.Request, len(s.requests)),
		payments:          make(map[string]domain.Payment, len(s.payments)),
		documents:         append([]domain.Document(nil), s.documents...),
		notifications:     append([]domain.Notification(nil), s.notifications...),
		failNotifications: s.failNotifications,
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.departments {
		out.departments[k] = v
	}
	for k, v := range s.services {
		out.services[k] = v
	}
	for k, v := range s.requests {
		out.requests[k] = v
	}
	for k, v := range s.payments {
		out.payments[k] = v
	}
	return out
}

func (s *fakeState) addUser(u domain.User) domain.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	s.users[u.ID] = u
	return u
}

func (s *fakeState) addDepartment(name string) domain.Department {
	d := domain.Department{ID: uuid.NewString(), Name: name}
	s.departments[d.ID] = d
	return d
}

func (s *fakeState) addService(svc domain.Service) domain.Service {
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	s.services[svc.ID] = svc
	return svc
}

func fakeRepos(st *fakeState) *repository.Repositories {
	return &repository.Repositories{
		Users:         &fakeUserRepo{st: st},
		Departments:   &fakeDepartmentRepo{st: st},
		Services:      &fakeServiceRepo{st: st},
		Requests:      &fakeRequestRepo{st: st},
		Documents:     &fakeDocumentRepo{st: st},
		Payments:      &fakePaymentRepo{st: st},
		Notifications: &fakeNotificationRepo{st: st},
	}
}

// fakeTxManager snapshots state before the callback and restores it when the
// callback fails, mirroring rollback semantics.
type fakeTxManager struct {
	st *fakeState
}

func (m *fakeTxManager) InTx(_ context.Context, fn func(r *repository.Repositories) error) error {
	snapshot := m.st.clone()
	if err := fn(fakeRepos(m.st)); err != nil {
		*m.st = snapshot
		return err
	}
	return nil
}

// ---- user repo ----

type fakeUserRepo struct {
	st *fakeState
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.st.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.st.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.st.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.st.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.st.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.st.users[id]; ok {
		return &u, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByNationalID(_ context.Context, nationalID string) (*domain.User, error) {
	for _, u := range r.st.users {
		if u.NationalID == nationalID {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]repository.UserListItem, error) {
	items := make([]repository.UserListItem, 0, len(r.st.users))
	for _, u := range r.st.users {
		items = append(items, repository.UserListItem{User: u})
	}
	return items, nil
}

func (r *fakeUserRepo) ListOfficersByDepartment(_ context.Context, departmentID string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.st.users {
		if u.Role.OfficerLevel() && u.DepartmentID != nil && *u.DepartmentID == departmentID {
			out = append(out, u)
		}
	}
	return out, nil
}

// ---- department repo ----

type fakeDepartmentRepo struct {
	st *fakeState
}

func (r *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	dept.ID = uuid.NewString()
	dept.CreatedAt = time.Now()
	r.st.departments[dept.ID] = *dept
	return nil
}

func (r *fakeDepartmentRepo) Update(_ context.Context, dept *domain.Department) error {
	if _, ok := r.st.departments[dept.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.st.departments[dept.ID] = *dept
	return nil
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	if dept, ok := r.st.departments[id]; ok {
		return &dept, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDepartmentRepo) List(_ context.Context) ([]domain.Department, error) {
	out := make([]domain.Department, 0, len(r.st.departments))
	for _, dept := range r.st.departments {
		out = append(out, dept)
	}
	return out, nil
}

func (r *fakeDepartmentRepo) ListWithCounts(_ context.Context) ([]domain.DepartmentSummary, error) {
	out := make([]domain.DepartmentSummary, 0, len(r.st.departments))
	for _, dept := range r.st.departments {
		out = append(out, domain.DepartmentSummary{Department: dept})
	}
	return out, nil
}

// ---- service repo ----

type fakeServiceRepo struct {
	st *fakeState
}

func (r *fakeServiceRepo) Create(_ context.Context, svc *domain.Service) error {
	svc.ID = uuid.NewString()
	r.st.services[svc.ID] = *svc
	return nil
}

func (r *fakeServiceRepo) Update(_ context.Context, svc *domain.Service) error {
	if _, ok := r.st.services[svc.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.st.services[svc.ID] = *svc
	return nil
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	if svc, ok := r.st.services[id]; ok {
		return &svc, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeServiceRepo) List(_ context.Context) ([]domain.ServiceSummary, error) {
	out := make([]domain.ServiceSummary, 0, len(r.st.services))
	for _, svc := range r.st.services {
		out = append(out, domain.ServiceSummary{Service: svc})
	}
	return out, nil
}

// ---- request repo ----

type fakeRequestRepo struct {
	st *fakeState
}

func (r *fakeRequestRepo) Create(_ context.Context, req *domain.Request) error {
	req.ID = uuid.NewString()
	req.SubmittedAt = time.Now()
	r.st.requests[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*domain.Request, error) {
	if req, ok := r.st.requests[id]; ok {
		return &req, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeRequestRepo) GetSummary(_ context.Context, id string) (*domain.RequestSummary, error) {
	req, ok := r.st.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.summarize(req), nil
}

func (r *fakeRequestRepo) summarize(req domain.Request) *domain.RequestSummary {
	summary := &domain.RequestSummary{Request: req}
	if svc, ok := r.st.services[req.ServiceID]; ok {
		summary.ServiceName = svc.Name
		summary.DepartmentID = svc.DepartmentID
		if dept, ok := r.st.departments[svc.DepartmentID]; ok {
			summary.DepartmentName = dept.Name
		}
	}
	if citizen, ok := r.st.users[req.CitizenID]; ok {
		summary.CitizenName = citizen.Name
		summary.CitizenNationalID = citizen.NationalID
	}
	if req.ReviewedBy != nil {
		if officer, ok := r.st.users[*req.ReviewedBy]; ok {
			name := officer.Name
			summary.ReviewerName = &name
		}
	}
	return summary
}

func (r *fakeRequestRepo) ListWithFilter(_ context.Context, filter repository.RequestFilter) ([]domain.RequestSummary, error) {
	var out []domain.RequestSummary
	for _, req := range r.st.requests {
		summary := r.summarize(req)
		if filter.CitizenID != nil && req.CitizenID != *filter.CitizenID {
			continue
		}
		if filter.DepartmentID != nil && summary.DepartmentID != *filter.DepartmentID {
			continue
		}
		if filter.UnassignedOrReviewedBy != nil &&
			req.ReviewedBy != nil && *req.ReviewedBy != *filter.UnassignedOrReviewedBy {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, status := range filter.Statuses {
				if req.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, *summary)
	}
	return out, nil
}

func (r *fakeRequestRepo) Decide(_ context.Context, id string, status domain.RequestStatus, reviewerID, notes string) (bool, error) {
	req, ok := r.st.requests[id]
	if !ok || req.Status.Terminal() {
		return false, nil
	}
	now := time.Now()
	req.Status = status
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	if notes != "" {
		req.Notes = notes
	}
	r.st.requests[id] = req
	return true, nil
}

func (r *fakeRequestRepo) AssignReviewer(_ context.Context, id, reviewerID string) (bool, error) {
	req, ok := r.st.requests[id]
	if !ok || req.Status.Terminal() {
		return false, nil
	}
	req.ReviewedBy = &reviewerID
	if req.Status == domain.RequestStatusSubmitted {
		req.Status = domain.RequestStatusUnderReview
	}
	r.st.requests[id] = req
	return true, nil
}

func (r *fakeRequestRepo) StatsByReviewer(_ context.Context, reviewerID string) (*domain.OfficerStats, error) {
	stats := &domain.OfficerStats{}
	for _, req := range r.st.requests {
		if req.ReviewedBy == nil || *req.ReviewedBy != reviewerID {
			continue
		}
		stats.TotalAssigned++
		switch req.Status {
		case domain.RequestStatusUnderReview:
			stats.InProgress++
		case domain.RequestStatusApproved:
			stats.Approved++
		case domain.RequestStatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

// ---- document repo ----

type fakeDocumentRepo struct {
	st *fakeState
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	doc.ID = uuid.NewString()
	doc.UploadedAt = time.Now()
	r.st.documents = append(r.st.documents, *doc)
	return nil
}

func (r *fakeDocumentRepo) ListByRequest(_ context.Context, requestID string) ([]domain.Document, error) {
	var out []domain.Document
	for _, doc := range r.st.documents {
		if doc.RequestID == requestID {
			out = append(out, doc)
		}
	}
	return out, nil
}

// ---- payment repo ----

type fakePaymentRepo struct {
	st *fakeState
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	payment.ID = uuid.NewString()
	r.st.payments[payment.RequestID] = *payment
	return nil
}

func (r *fakePaymentRepo) GetByRequest(_ context.Context, requestID string) (*domain.Payment, error) {
	if p, ok := r.st.payments[requestID]; ok {
		return &p, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePaymentRepo) Complete(_ context.Context, requestID string) (bool, error) {
	p, ok := r.st.payments[requestID]
	if !ok || p.Status != domain.PaymentStatusPending {
		return false, nil
	}
	now := time.Now()
	p.Status = domain.PaymentStatusCompleted
	p.PaymentDate = &now
	r.st.payments[requestID] = p
	return true, nil
}

// ---- notification repo ----

type fakeNotificationRepo struct {
	st *fakeState
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.st.failNotifications {
		return errors.New("notification insert failed")
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	r.st.notifications = append(r.st.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.st.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
