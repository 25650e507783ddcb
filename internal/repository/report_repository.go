package repository

import (
	"context"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
)

// ReportRepository runs the aggregate queries behind admin reporting.
// A window of 0 days means no time restriction.
type ReportRepository interface {
	Overview(ctx context.Context) (*domain.Overview, error)
	CountsByStatus(ctx context.Context, windowDays int) ([]domain.StatusCount, error)
	DepartmentPerformance(ctx context.Context, windowDays int) ([]domain.DepartmentPerformance, error)
	ServicePopularity(ctx context.Context, windowDays int) ([]domain.ServicePopularity, error)
	Revenue(ctx context.Context, windowDays int) ([]domain.RevenueEntry, error)
}

type reportRepository struct {
	q Querier
}

// NewReportRepository builds the repository.
func NewReportRepository(q Querier) ReportRepository {
	return &reportRepository{q: q}
}

func (r *reportRepository) Overview(ctx context.Context) (*domain.Overview, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM requests),
            (SELECT COUNT(*) FROM users),
            (SELECT COUNT(*) FROM requests WHERE submitted_at::date = CURRENT_DATE),
            (SELECT COUNT(*) FROM requests WHERE status = 'submitted'),
            (SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'completed')`
	var overview domain.Overview
	if err := r.q.QueryRow(ctx, query).Scan(
		&overview.TotalRequests,
		&overview.TotalUsers,
		&overview.RequestsToday,
		&overview.PendingRequests,
		&overview.TotalRevenue,
	); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (r *reportRepository) CountsByStatus(ctx context.Context, windowDays int) ([]domain.StatusCount, error) {
	const query = `
        SELECT status, COUNT(*)
        FROM requests
        WHERE ($1 = 0 OR submitted_at >= NOW() - make_interval(days => $1))
        GROUP BY status`
	rows, err := r.q.Query(ctx, query, windowDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusCount
	for rows.Next() {
		var item domain.StatusCount
		if err := rows.Scan(&item.Status, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *reportRepository) DepartmentPerformance(ctx context.Context, windowDays int) ([]domain.DepartmentPerformance, error) {
	const query = `
        SELECT d.name,
               COUNT(r.id),
               COUNT(*) FILTER (WHERE r.status = 'approved'),
               COUNT(*) FILTER (WHERE r.status = 'rejected'),
               AVG(CASE WHEN r.reviewed_at IS NOT NULL
                   THEN EXTRACT(EPOCH FROM (r.reviewed_at - r.submitted_at))/86400 END)
        FROM departments d
        LEFT JOIN services s ON d.id = s.department_id
        LEFT JOIN requests r ON s.id = r.service_id
            AND ($1 = 0 OR r.submitted_at >= NOW() - make_interval(days => $1))
        GROUP BY d.id, d.name
        ORDER BY COUNT(r.id) DESC`
	rows, err := r.q.Query(ctx, query, windowDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DepartmentPerformance
	for rows.Next() {
		var item domain.DepartmentPerformance
		if err := rows.Scan(
			&item.DepartmentName,
			&item.TotalRequests,
			&item.Approved,
			&item.Rejected,
			&item.AvgProcessingDays,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *reportRepository) ServicePopularity(ctx context.Context, windowDays int) ([]domain.ServicePopularity, error) {
	const query = `
        SELECT s.name, d.name, COUNT(r.id)
        FROM services s
        JOIN departments d ON s.department_id = d.id
        LEFT JOIN requests r ON s.id = r.service_id
            AND ($1 = 0 OR r.submitted_at >= NOW() - make_interval(days => $1))
        GROUP BY s.id, s.name, d.name
        ORDER BY COUNT(r.id) DESC
        LIMIT 10`
	rows, err := r.q.Query(ctx, query, windowDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServicePopularity
	for rows.Next() {
		var item domain.ServicePopularity
		if err := rows.Scan(&item.ServiceName, &item.DepartmentName, &item.RequestCount); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *reportRepository) Revenue(ctx context.Context, windowDays int) ([]domain.RevenueEntry, error) {
	const query = `
        SELECT p.payment_date::date, s.name, COUNT(p.id), SUM(p.amount)
        FROM payments p
        JOIN requests r ON p.request_id = r.id
        JOIN services s ON r.service_id = s.id
        WHERE p.status = 'completed'
          AND ($1 = 0 OR p.payment_date >= NOW() - make_interval(days => $1))
        GROUP BY p.payment_date::date, s.name
        ORDER BY p.payment_date::date DESC
        LIMIT 30`
	rows, err := r.q.Query(ctx, query, windowDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RevenueEntry
	for rows.Next() {
		var item domain.RevenueEntry
		if err := rows.Scan(&item.Date, &item.ServiceName, &item.PaymentCount, &item.TotalAmount); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
