package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAuditLog = `-- name: CreateAuditLog :exec
INSERT INTO audit_logs (
    id, user_id, action, resource_type, resource_id,
    ip_address, user_agent, request_id,
    before_state, after_state, status, error_message, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

type CreateAuditLogParams struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Action       string             `json:"action"`
	ResourceType string             `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	IpAddress    string             `json:"ip_address"`
	UserAgent    string             `json:"user_agent"`
	RequestID    string             `json:"request_id"`
	BeforeState  []byte             `json:"before_state"`
	AfterState   []byte             `json:"after_state"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateAuditLog(ctx context.Context, arg CreateAuditLogParams) error {
	_, err := q.db.Exec(ctx, createAuditLog,
		arg.ID,
		arg.UserID,
		arg.Action,
		arg.ResourceType,
		arg.ResourceID,
		arg.IpAddress,
		arg.UserAgent,
		arg.RequestID,
		arg.BeforeState,
		arg.AfterState,
		arg.Status,
		arg.ErrorMessage,
		arg.CreatedAt,
	)
	return err
}
