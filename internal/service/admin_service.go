package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Masomatta/Afg-egov-portal/internal/auth"
	"github.com/Masomatta/Afg-egov-portal/internal/config"
	"github.com/Masomatta/Afg-egov-portal/internal/domain"
	"github.com/Masomatta/Afg-egov-portal/internal/repository"
	apperrors "github.com/Masomatta/Afg-egov-portal/pkg/util"
)

// AdminService covers user, department and service administration plus
// portal-wide reporting.
type AdminService struct {
	repos      *repository.Repositories
	cache      *redis.Client
	cacheTTL   time.Duration
	bcryptCost int
	logger     *zap.Logger
}

// AdminDependencies wires the admin service.
type AdminDependencies struct {
	Repos  *repository.Repositories
	Cache  *redis.Client
	Config *config.Config
	Logger *zap.Logger
}

// NewAdminService builds the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		repos:      deps.Repos,
		cache:      deps.Cache,
		cacheTTL:   deps.Config.Reports.CacheTTL(),
		bcryptCost: deps.Config.Auth.BcryptCost,
		logger:     deps.Logger,
	}
}

// ---- users ----

// UserInput is the admin payload for creating or updating accounts.
type UserInput struct {
	NationalID   string
	Name         string
	Email        string
	Password     string
	Role         domain.Role
	DepartmentID *string
	JobTitle     *string
}

func (s *AdminService) validateUserInput(ctx context.Context, input UserInput) error {
	if !input.Role.Valid() {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if input.Role.OfficerLevel() {
		if input.DepartmentID == nil || *input.DepartmentID == "" {
			return apperrors.NewValidationError("officers must belong to a department", nil)
		}
		if _, err := s.repos.Departments.GetByID(ctx, *input.DepartmentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("department", nil)
			}
			return apperrors.MapError(err)
		}
	}
	return nil
}

// CreateUser provisions any role; citizens normally self-register but the
// admin path accepts them too.
func (s *AdminService) CreateUser(ctx context.Context, input UserInput) (*domain.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.NationalID == "" || input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("national_id, name, email, password required", nil)
	}
	if err := s.validateUserInput(ctx, input); err != nil {
		return nil, err
	}
	if _, err := s.repos.Users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if _, err := s.repos.Users.GetByNationalID(ctx, input.NationalID); err == nil {
		return nil, apperrors.NewConflict("national id already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user := &domain.User{
		NationalID:   input.NationalID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		JobTitle:     input.JobTitle,
	}
	if input.Role.OfficerLevel() {
		user.DepartmentID = input.DepartmentID
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateUser edits an existing account. An empty Password leaves the current
// hash in place.
func (s *AdminService) UpdateUser(ctx context.Context, id string, input UserInput) (*domain.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.validateUserInput(ctx, input); err != nil {
		return nil, err
	}

	user.NationalID = input.NationalID
	user.Name = input.Name
	user.Email = strings.TrimSpace(strings.ToLower(input.Email))
	user.Role = input.Role
	user.JobTitle = input.JobTitle
	if input.Role.OfficerLevel() {
		user.DepartmentID = input.DepartmentID
	} else {
		user.DepartmentID = nil
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		user.PasswordHash = hash
	}
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actor domain.Actor, id string) error {
	if actor.ID == id {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]repository.UserListItem, error) {
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ---- departments ----

func (s *AdminService) CreateDepartment(ctx context.Context, name, description string) (*domain.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("department name required", nil)
	}
	dept := &domain.Department{Name: name, Description: description}
	if err := s.repos.Departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

func (s *AdminService) UpdateDepartment(ctx context.Context, id, name, description string) (*domain.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("department name required", nil)
	}
	dept := &domain.Department{ID: id, Name: name, Description: description}
	if err := s.repos.Departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.repos.Departments.GetByID(ctx, id)
}

func (s *AdminService) ListDepartments(ctx context.Context) ([]domain.DepartmentSummary, error) {
	depts, err := s.repos.Departments.ListWithCounts(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return depts, nil
}

// ---- services ----

// ServiceInput is the admin payload for the service catalog.
type ServiceInput struct {
	Name         string
	Description  string
	DepartmentID string
	Fee          decimal.Decimal
	Requirements string
}

func (s *AdminService) validateServiceInput(ctx context.Context, input ServiceInput) error {
	if strings.TrimSpace(input.Name) == "" || input.DepartmentID == "" {
		return apperrors.NewValidationError("service name and department required", nil)
	}
	if input.Fee.IsNegative() {
		return apperrors.NewValidationError("fee must not be negative", map[string]any{"fee": input.Fee.String()})
	}
	if _, err := s.repos.Departments.GetByID(ctx, input.DepartmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("department", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AdminService) CreateService(ctx context.Context, input ServiceInput) (*domain.Service, error) {
	if err := s.validateServiceInput(ctx, input); err != nil {
		return nil, err
	}
	svc := &domain.Service{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		DepartmentID: input.DepartmentID,
		Fee:          input.Fee,
		Requirements: input.Requirements,
	}
	if err := s.repos.Services.Create(ctx, svc); err != nil {
		return nil, apperrors.MapError(err)
	}
	return svc, nil
}

func (s *AdminService) UpdateService(ctx context.Context, id string, input ServiceInput) (*domain.Service, error) {
	if err := s.validateServiceInput(ctx, input); err != nil {
		return nil, err
	}
	svc := &domain.Service{
		ID:           id,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		DepartmentID: input.DepartmentID,
		Fee:          input.Fee,
		Requirements: input.Requirements,
	}
	if err := s.repos.Services.Update(ctx, svc); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.repos.Services.GetByID(ctx, id)
}

func (s *AdminService) ListServices(ctx context.Context) ([]domain.ServiceSummary, error) {
	services, err := s.repos.Services.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return services, nil
}

// ---- requests ----

// BrowseRequests is the unrestricted admin view over all requests.
func (s *AdminService) BrowseRequests(ctx context.Context, filter ListFilter) ([]domain.RequestSummary, error) {
	repoFilter := repository.RequestFilter{
		Statuses:   filter.Statuses,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		repoFilter.DepartmentID = filter.DepartmentID
	}
	result, err := s.repos.Requests.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ---- reports ----

// reportWindows maps a period name to its lookback in days; zero means no
// lower bound.
var reportWindows = map[string]int{
	"week":  7,
	"month": 30,
	"year":  365,
	"all":   0,
}

func (s *AdminService) Overview(ctx context.Context) (*domain.Overview, error) {
	overview, err := s.repos.Reports.Overview(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return overview, nil
}

// Report assembles the periodic report, serving from Redis when a fresh copy
// exists. Cache failures degrade to a direct read.
func (s *AdminService) Report(ctx context.Context, period string) (*domain.Report, error) {
	if period == "" {
		period = "month"
	}
	windowDays, ok := reportWindows[period]
	if !ok {
		return nil, apperrors.NewValidationError("unknown report period", map[string]any{"period": period})
	}

	cacheKey := fmt.Sprintf("reports:%s", period)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Bytes()
		switch {
		case err == nil:
			var report domain.Report
			if err := json.Unmarshal(cached, &report); err == nil {
				return &report, nil
			}
			s.logger.Warn("discarding malformed cached report", zap.String("key", cacheKey))
		case !errors.Is(err, redis.Nil):
			s.logger.Warn("report cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	report, err := s.buildReport(ctx, period, windowDays)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		payload, err := json.Marshal(report)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("report cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}
	return report, nil
}

func (s *AdminService) buildReport(ctx context.Context, period string, windowDays int) (*domain.Report, error) {
	byStatus, err := s.repos.Reports.CountsByStatus(ctx, windowDays)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	perf, err := s.repos.Reports.DepartmentPerformance(ctx, windowDays)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	popularity, err := s.repos.Reports.ServicePopularity(ctx, windowDays)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	revenue, err := s.repos.Reports.Revenue(ctx, windowDays)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &domain.Report{
		Period:                period,
		ByStatus:              byStatus,
		DepartmentPerformance: perf,
		ServicePopularity:     popularity,
		Revenue:               revenue,
	}, nil
}
