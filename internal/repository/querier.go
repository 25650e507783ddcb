package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx calls repositories need. Both *pgxpool.Pool
// and pgx.Tx satisfy it, so the same repository code runs inside and outside
// transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles every repository bound to one Querier.
type Repositories struct {
	Users         UserRepository
	Departments   DepartmentRepository
	Services      ServiceRepository
	Requests      RequestRepository
	Documents     DocumentRepository
	Payments      PaymentRepository
	Notifications NotificationRepository
	Reports       ReportRepository
}

// New binds all repositories to the given querier.
func New(q Querier) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(q),
		Departments:   NewDepartmentRepository(q),
		Services:      NewServiceRepository(q),
		Requests:      NewRequestRepository(q),
		Documents:     NewDocumentRepository(q),
		Payments:      NewPaymentRepository(q),
		Notifications: NewNotificationRepository(q),
		Reports:       NewReportRepository(q),
	}
}

// TxManager runs a function against transaction-bound repositories,
// committing on nil and rolling back on error.
type TxManager interface {
	InTx(ctx context.Context, fn func(r *Repositories) error) error
}

type pgxTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager builds a pgx-backed transaction manager.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgxTxManager{pool: pool}
}

func (m *pgxTxManager) InTx(ctx context.Context, fn func(r *Repositories) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(New(tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
