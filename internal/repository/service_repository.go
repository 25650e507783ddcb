package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
)

// ServiceRepository manages service offerings.
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) error
	Update(ctx context.Context, svc *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context) ([]domain.ServiceSummary, error)
}

type serviceRepository struct {
	q Querier
}

// NewServiceRepository builds the repository.
func NewServiceRepository(q Querier) ServiceRepository {
	return &serviceRepository{q: q}
}

func (r *serviceRepository) Create(ctx context.Context, svc *domain.Service) error {
	const query = `
        INSERT INTO services (name, description, department_id, fee, requirements)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		svc.Name,
		svc.Description,
		svc.DepartmentID,
		svc.Fee,
		svc.Requirements,
	).Scan(&svc.ID, &svc.CreatedAt, &svc.UpdatedAt)
}

func (r *serviceRepository) Update(ctx context.Context, svc *domain.Service) error {
	const query = `
        UPDATE services SET name=$1, description=$2, department_id=$3, fee=$4,
            requirements=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.q.Exec(ctx, query,
		svc.Name,
		svc.Description,
		svc.DepartmentID,
		svc.Fee,
		svc.Requirements,
		svc.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	const query = `
        SELECT id, name, description, department_id, fee, requirements, created_at, updated_at
        FROM services WHERE id=$1`
	var svc domain.Service
	if err := r.q.QueryRow(ctx, query, id).Scan(
		&svc.ID,
		&svc.Name,
		&svc.Description,
		&svc.DepartmentID,
		&svc.Fee,
		&svc.Requirements,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]domain.ServiceSummary, error) {
	const query = `
        SELECT s.id, s.name, s.description, s.department_id, s.fee, s.requirements,
               s.created_at, s.updated_at, d.name, COUNT(r.id) AS request_count
        FROM services s
        JOIN departments d ON s.department_id = d.id
        LEFT JOIN requests r ON s.id = r.service_id
        GROUP BY s.id, d.name
        ORDER BY d.name, s.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceSummary
	for rows.Next() {
		var item domain.ServiceSummary
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.DepartmentID,
			&item.Fee,
			&item.Requirements,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.DepartmentName,
			&item.RequestCount,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
