package interpreter

import (
	"strings"
	"time"
)

// StatusNormal is reported when no single region was resolved.
const StatusNormal = "normal"

// DataSources is attached to every result.
var DataSources = []string{
	"Central Ground Water Board (CGWB)",
	"State Water Resources Departments",
}

// Result is the response contract returned to callers verbatim.
type Result struct {
	Message               string   `json:"message"`
	Intent                Intent   `json:"intent"`
	Confidence            float64  `json:"confidence"`
	ProcessingTimeMs      float64  `json:"processing_time_ms"`
	HasData               bool     `json:"has_data"`
	RequiresClarification bool     `json:"requires_clarification"`
	Suggestions           []string `json:"suggestions"`
	DataSources           []string `json:"data_sources"`
	GroundwaterStatus     string   `json:"groundwater_status"`
}

func assemble(r reply, q Query, elapsed time.Duration) Result {
	out := Result{
		Message:               r.message,
		Intent:                r.intent,
		Confidence:            clamp01(r.confidence),
		ProcessingTimeMs:      float64(elapsed.Microseconds()) / 1000.0,
		HasData:               r.hasData,
		RequiresClarification: r.requiresClarification,
		Suggestions:           append([]string{}, r.suggestions...),
		DataSources:           append([]string{}, DataSources...),
		GroundwaterStatus:     StatusNormal,
	}
	if strings.TrimSpace(string(out.Intent)) == "" {
		out.Intent = IntentUnknown
	}
	if out.ProcessingTimeMs < 0 {
		out.ProcessingTimeMs = 0
	}
	if r.region != nil {
		out.GroundwaterStatus = r.region.Resolve(q.Year).Category.Slug()
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
