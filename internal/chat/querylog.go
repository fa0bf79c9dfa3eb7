package chat

import (
	"context"
	"sync"
	"time"

	"groundwater-backend/internal/interpreter"
)

// Entry is one answered query as kept in the query log.
type Entry struct {
	ID                    string             `json:"id"`
	UserID                string             `json:"userId"`
	Role                  string             `json:"role"`
	Message               string             `json:"message"`
	Intent                interpreter.Intent `json:"intent"`
	Confidence            float64            `json:"confidence"`
	RequiresClarification bool               `json:"requiresClarification"`
	GroundwaterStatus     string             `json:"groundwaterStatus"`
	ProcessingTimeMs      float64            `json:"processingTimeMs"`
	CreatedAt             time.Time          `json:"createdAt"`
}

// QueryLog stores answered queries per caller.
type QueryLog interface {
	Record(ctx context.Context, entry Entry) error
	// Recent returns up to limit entries for userID, newest first.
	Recent(ctx context.Context, userID string, limit int) ([]Entry, error)
}

// MemoryLog keeps the newest perUser entries for each caller.
type MemoryLog struct {
	mu      sync.RWMutex
	perUser int
	entries map[string][]Entry
}

func NewMemoryLog(perUser int) *MemoryLog {
	if perUser <= 0 {
		perUser = 100
	}
	return &MemoryLog{perUser: perUser, entries: make(map[string][]Entry)}
}

func (l *MemoryLog) Record(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	list := append(l.entries[entry.UserID], entry)
	if len(list) > l.perUser {
		list = append([]Entry(nil), list[len(list)-l.perUser:]...)
	}
	l.entries[entry.UserID] = list
	return nil
}

func (l *MemoryLog) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := l.entries[userID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make([]Entry, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
