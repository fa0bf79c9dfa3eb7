package chat

import (
	"context"
	"database/sql"
	"fmt"

	"groundwater-backend/internal/interpreter"
)

type PGLog struct {
	DB *sql.DB
}

func (l *PGLog) Record(ctx context.Context, e Entry) error {
	const query = `
INSERT INTO chat_queries (id, user_id, role, message, intent, confidence, requires_clarification, groundwater_status, processing_time_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := l.DB.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.Role,
		e.Message,
		string(e.Intent),
		e.Confidence,
		e.RequiresClarification,
		e.GroundwaterStatus,
		e.ProcessingTimeMs,
		e.CreatedAt,
	)
	return err
}

func (l *PGLog) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	const query = `
SELECT id, user_id, role, message, intent, confidence, requires_clarification, groundwater_status, processing_time_ms, created_at
FROM chat_queries
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := l.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var intent string
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Role,
			&e.Message,
			&intent,
			&e.Confidence,
			&e.RequiresClarification,
			&e.GroundwaterStatus,
			&e.ProcessingTimeMs,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan chat history: %w", err)
		}
		e.Intent = interpreter.Intent(intent)
		out = append(out, e)
	}
	return out, rows.Err()
}
