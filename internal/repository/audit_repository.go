package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/storefront/internal/domain"
)

// AuditRepository stores the session audit trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_events (id, event_type, session_id, subject, role, payload, occurred_at)
        VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6,$7)
        ON CONFLICT (id) DO NOTHING`
	var payload []byte
	if len(entry.Payload) > 0 {
		payload = entry.Payload
	}
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.EventType,
		entry.SessionID,
		entry.Subject,
		string(entry.Role),
		payload,
		entry.OccurredAt,
	)
	return err
}

func (r *auditRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id, event_type, session_id, COALESCE(subject,''), COALESCE(role,''), payload, occurred_at
        FROM audit_events WHERE session_id=$1 ORDER BY occurred_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var (
			entry   domain.AuditEntry
			role    string
			payload []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.EventType,
			&entry.SessionID,
			&entry.Subject,
			&role,
			&payload,
			&entry.OccurredAt,
		); err != nil {
			return nil, err
		}
		entry.Role = domain.Role(role)
		entry.Payload = payload
		result = append(result, entry)
	}
	return result, rows.Err()
}
