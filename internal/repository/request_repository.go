package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
)

// RequestFilter captures listing parameters. Actor scoping is expressed
// through CitizenID, DepartmentID and UnassignedOrReviewedBy.
type RequestFilter struct {
	CitizenID    *string
	DepartmentID *string
	// UnassignedOrReviewedBy restricts to rows with no reviewer or the given
	// reviewer; used for the plain-officer worklist.
	UnassignedOrReviewedBy *string
	Statuses               []domain.RequestStatus
	SearchTerm             *string
	Limit                  int
	Offset                 int
}

// RequestRepository encapsulates request persistence. Status transitions go
// through Decide/AssignReviewer which compare-and-set on reviewable states.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	GetSummary(ctx context.Context, id string) (*domain.RequestSummary, error)
	ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.RequestSummary, error)
	// Decide atomically moves a reviewable request to a terminal status and
	// records the reviewer. Returns false when the row was not reviewable,
	// either because another transition won the race or the id is unknown.
	Decide(ctx context.Context, id string, status domain.RequestStatus, reviewerID, notes string) (bool, error)
	// AssignReviewer sets the reviewer on a reviewable request, promoting
	// submitted rows to under_review and leaving under_review untouched.
	AssignReviewer(ctx context.Context, id, reviewerID string) (bool, error)
	StatsByReviewer(ctx context.Context, reviewerID string) (*domain.OfficerStats, error)
}

type requestRepository struct {
	q Querier
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(q Querier) RequestRepository {
	return &requestRepository{q: q}
}

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	const query = `
        INSERT INTO requests (citizen_id, service_id, status, notes)
        VALUES ($1,$2,$3,$4)
        RETURNING id, submitted_at`
	return r.q.QueryRow(ctx, query,
		req.CitizenID,
		req.ServiceID,
		req.Status,
		req.Notes,
	).Scan(&req.ID, &req.SubmittedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	const query = `
        SELECT id, citizen_id, service_id, status, notes, submitted_at, reviewed_by, reviewed_at
        FROM requests WHERE id=$1`
	var req domain.Request
	if err := r.q.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.CitizenID,
		&req.ServiceID,
		&req.Status,
		&req.Notes,
		&req.SubmittedAt,
		&req.ReviewedBy,
		&req.ReviewedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

const summaryColumns = `
        r.id, r.citizen_id, r.service_id, r.status, r.notes, r.submitted_at,
        r.reviewed_by, r.reviewed_at,
        s.name, s.department_id, d.name, u.name, u.national_id, officer.name`

const summaryJoins = `
        FROM requests r
        JOIN services s ON r.service_id = s.id
        JOIN departments d ON s.department_id = d.id
        JOIN users u ON r.citizen_id = u.id
        LEFT JOIN users officer ON r.reviewed_by = officer.id`

func (r *requestRepository) GetSummary(ctx context.Context, id string) (*domain.RequestSummary, error) {
	query := `SELECT ` + summaryColumns + summaryJoins + ` WHERE r.id=$1`
	var item domain.RequestSummary
	if err := r.q.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.CitizenID,
		&item.ServiceID,
		&item.Status,
		&item.Notes,
		&item.SubmittedAt,
		&item.ReviewedBy,
		&item.ReviewedAt,
		&item.ServiceName,
		&item.DepartmentID,
		&item.DepartmentName,
		&item.CitizenName,
		&item.CitizenNationalID,
		&item.ReviewerName,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *requestRepository) ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.RequestSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CitizenID != nil {
		args = append(args, *filter.CitizenID)
		clauses = append(clauses, fmt.Sprintf("r.citizen_id=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("s.department_id=$%d", len(args)))
	}
	if filter.UnassignedOrReviewedBy != nil {
		args = append(args, *filter.UnassignedOrReviewedBy)
		clauses = append(clauses, fmt.Sprintf("(r.reviewed_by IS NULL OR r.reviewed_by=$%d)", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("r.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.TrimSpace(*filter.SearchTerm) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(u.name ILIKE %s OR u.national_id ILIKE %s OR s.name ILIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY r.submitted_at DESC LIMIT %d OFFSET %d`,
		summaryColumns, summaryJoins, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaries(rows pgx.Rows) ([]domain.RequestSummary, error) {
	var result []domain.RequestSummary
	for rows.Next() {
		var item domain.RequestSummary
		if err := rows.Scan(
			&item.ID,
			&item.CitizenID,
			&item.ServiceID,
			&item.Status,
			&item.Notes,
			&item.SubmittedAt,
			&item.ReviewedBy,
			&item.ReviewedAt,
			&item.ServiceName,
			&item.DepartmentID,
			&item.DepartmentName,
			&item.CitizenName,
			&item.CitizenNationalID,
			&item.ReviewerName,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *requestRepository) Decide(ctx context.Context, id string, status domain.RequestStatus, reviewerID, notes string) (bool, error) {
	const query = `
        UPDATE requests
        SET status=$1, reviewed_by=$2, reviewed_at=NOW(),
            notes=CASE WHEN $3='' THEN notes ELSE $3 END
        WHERE id=$4 AND status IN ('submitted','under_review')`
	cmd, err := r.q.Exec(ctx, query, status, reviewerID, notes, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *requestRepository) AssignReviewer(ctx context.Context, id, reviewerID string) (bool, error) {
	const query = `
        UPDATE requests
        SET reviewed_by=$1,
            status=CASE WHEN status='submitted' THEN 'under_review' ELSE status END
        WHERE id=$2 AND status IN ('submitted','under_review')`
	cmd, err := r.q.Exec(ctx, query, reviewerID, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *requestRepository) StatsByReviewer(ctx context.Context, reviewerID string) (*domain.OfficerStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='under_review'),
               COUNT(*) FILTER (WHERE status='approved'),
               COUNT(*) FILTER (WHERE status='rejected')
        FROM requests
        WHERE reviewed_by=$1`
	var stats domain.OfficerStats
	if err := r.q.QueryRow(ctx, query, reviewerID).Scan(
		&stats.TotalAssigned,
		&stats.InProgress,
		&stats.Approved,
		&stats.Rejected,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}
