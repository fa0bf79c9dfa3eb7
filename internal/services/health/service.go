// Package health reports liveness, runtime status and advertised capabilities.
package health

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"groundwater-backend/internal/interpreter"
)

// Pinger checks a backing dependency; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const (
	DependencyOK          = "ok"
	DependencyUnavailable = "unavailable"
	DependencyDisabled    = "disabled"
)

// Service encapsulates health-related checks.
type Service struct {
	Version  string
	Env      string
	Platform string
	Regions  int
	DB       Pinger

	clock     clockwork.Clock
	startedAt time.Time
}

// NewService constructs a health service whose uptime starts now.
func NewService(clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		clock:     clock,
		startedAt: clock.Now(),
	}
}

// Status returns a simple health payload.
func (s *Service) Status() map[string]bool {
	return map[string]bool{"ok": true}
}

// MemoryUsage is reported in whole megabytes.
type MemoryUsage struct {
	Sys       uint64 `json:"sys"`
	HeapTotal uint64 `json:"heap_total"`
	HeapUsed  uint64 `json:"heap_used"`
	Stack     uint64 `json:"stack"`
}

type Report struct {
	Status         string      `json:"status"`
	Version        string      `json:"version"`
	IntentCount    int         `json:"intent_count"`
	ServerTime     string      `json:"server_time"`
	Uptime         int64       `json:"uptime"`
	MemoryUsage    MemoryUsage `json:"memory_usage"`
	Environment    string      `json:"environment"`
	Platform       string      `json:"platform"`
	Database       string      `json:"database"`
	CatalogRegions int         `json:"catalog_regions"`
	Goroutines     int         `json:"goroutines"`
}

// Report gathers the runtime status. The database check is bounded by ctx.
func (s *Service) Report(ctx context.Context) Report {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	now := s.clock.Now()

	env := s.Env
	if strings.TrimSpace(env) == "" {
		env = "dev"
	}
	return Report{
		Status:      "online",
		Version:     s.Version,
		IntentCount: len(interpreter.Intents),
		ServerTime:  now.UTC().Format(time.RFC3339),
		Uptime:      int64(now.Sub(s.startedAt) / time.Second),
		MemoryUsage: MemoryUsage{
			Sys:       toMB(ms.Sys),
			HeapTotal: toMB(ms.HeapSys),
			HeapUsed:  toMB(ms.HeapAlloc),
			Stack:     toMB(ms.StackSys),
		},
		Environment:    env,
		Platform:       s.Platform,
		Database:       s.databaseState(ctx),
		CatalogRegions: s.Regions,
		Goroutines:     runtime.NumGoroutine(),
	}
}

func (s *Service) databaseState(ctx context.Context) string {
	if s.DB == nil {
		return DependencyDisabled
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		return DependencyUnavailable
	}
	return DependencyOK
}

func toMB(b uint64) uint64 {
	return (b + (1<<20)/2) >> 20
}

// Capabilities lists what the chat service can answer.
type Capabilities struct {
	Capabilities       []string        `json:"capabilities"`
	Intents            []string        `json:"intents"`
	TotalIntents       int             `json:"total_intents"`
	SupportedLanguages string          `json:"supported_languages"`
	Features           map[string]bool `json:"features"`
	DataSources        []string        `json:"data_sources"`
}

func (s *Service) Capabilities() Capabilities {
	intents := make([]string, len(interpreter.Intents))
	for i, in := range interpreter.Intents {
		intents[i] = string(in)
	}
	return Capabilities{
		Capabilities: []string{
			"Location-based groundwater queries",
			"Year-specific assessments with fallback to the latest assessment",
			"Historical trend analysis",
			"Two-region comparisons",
			"Crisis area identification",
			"Policy recommendations",
			"Confidence scoring",
			"Follow-up suggestions",
			"Data source attribution",
		},
		Intents:            intents,
		TotalIntents:       len(intents),
		SupportedLanguages: strings.Join(interpreter.SupportedLanguages, ", "),
		Features: map[string]bool{
			"multi_language":  true,
			"fuzzy_matching":  true,
			"historical_data": true,
			"role_based_auth": true,
			"rate_limiting":   true,
			"metrics":         true,
		},
		DataSources: append([]string(nil), interpreter.DataSources...),
	}
}
