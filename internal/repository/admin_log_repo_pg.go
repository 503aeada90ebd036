package repository

import (
	"context"

	"github.com/avdeyev/flightbook/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminLogRepository interface {
	Insert(ctx context.Context, entry *domain.AdminLog) error
}

type PGAdminLogRepository struct {
	db *pgxpool.Pool
}

func NewAdminLogRepository(db *pgxpool.Pool) AdminLogRepository {
	return &PGAdminLogRepository{db: db}
}

func (r *PGAdminLogRepository) Insert(ctx context.Context, entry *domain.AdminLog) error {
	return r.db.QueryRow(ctx, `INSERT INTO billing.admin_logs (admin_username, action, ip_address)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		entry.AdminUsername, entry.Action, entry.IPAddress).
		Scan(&entry.ID, &entry.CreatedAt)
}

var _ AdminLogRepository = (*PGAdminLogRepository)(nil)
