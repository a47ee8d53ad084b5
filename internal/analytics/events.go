package analytics

import (
	"time"

	"github.com/civic-records/registry-search/internal/query"
)

type EventType string

const (
	EventQuery      EventType = "query"
	EventZeroResult EventType = "zero_result"
	EventReload     EventType = "reload"
)

// QueryEvent records one answered query for downstream analytics.
type QueryEvent struct {
	Type      EventType      `json:"type"`
	Criteria  query.Criteria `json:"criteria"`
	Total     int            `json:"total"`
	LatencyMs int64          `json:"latency_ms"`
	CacheHit  bool           `json:"cache_hit"`
	Timestamp time.Time      `json:"timestamp"`
	RequestID string         `json:"request_id"`
}

// ReloadEvent records a corpus reload and the shape of the new index set.
type ReloadEvent struct {
	Type         EventType `json:"type"`
	Records      int       `json:"records"`
	SurnameKeys  int       `json:"surname_keys"`
	ProvinceKeys int       `json:"province_keys"`
	YearKeys     int       `json:"year_keys"`
	BuildMs      int64     `json:"build_ms"`
	Timestamp    time.Time `json:"timestamp"`
	RequestID    string    `json:"request_id"`
}
