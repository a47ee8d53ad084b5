// Package registry owns the loaded corpus and its index snapshot and
// exposes the load and search operations on them.
package registry

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/civic-records/registry-search/internal/index"
	"github.com/civic-records/registry-search/internal/query"
)

// state bundles one snapshot with its load metadata so both swap together.
type state struct {
	snap      *index.Snapshot
	loadedAt  time.Time
	buildTime time.Duration
}

// Engine answers queries against the current corpus. Load builds a fresh
// snapshot off to the side and swaps it in atomically: queries in flight
// keep reading the previous fully built snapshot and never observe a
// partial rebuild. There is no incremental update path; a reload discards
// all prior index content.
type Engine struct {
	current atomic.Pointer[state]
	logger  *slog.Logger
}

// Stats describes the currently loaded corpus and its indexes.
type Stats struct {
	Records      int       `json:"records"`
	SurnameKeys  int       `json:"surname_keys"`
	ProvinceKeys int       `json:"province_keys"`
	YearKeys     int       `json:"year_keys"`
	LoadedAt     time.Time `json:"loaded_at"`
	BuildMs      int64     `json:"build_ms"`
}

// New returns an Engine with an empty corpus loaded.
func New() *Engine {
	e := &Engine{
		logger: slog.Default().With("component", "registry-engine"),
	}
	e.current.Store(&state{snap: index.Build(nil), loadedAt: time.Now().UTC()})
	return e
}

// Load replaces the corpus, rebuilding all three indexes from scratch in a
// single scan, and returns stats for the new snapshot.
func (e *Engine) Load(lines []string) Stats {
	start := time.Now()
	snap := index.Build(lines)
	st := &state{
		snap:      snap,
		loadedAt:  time.Now().UTC(),
		buildTime: time.Since(start),
	}
	e.current.Store(st)

	stats := snapshotStats(st)
	e.logger.Info("corpus loaded",
		"records", stats.Records,
		"surname_keys", stats.SurnameKeys,
		"province_keys", stats.ProvinceKeys,
		"year_keys", stats.YearKeys,
		"build_ms", stats.BuildMs,
	)
	return stats
}

// Search answers one conjunctive query against the current snapshot and
// returns the matching record lines in ascending corpus-position order.
func (e *Engine) Search(c query.Criteria) []string {
	return query.Execute(e.current.Load().snap, c)
}

// Query is Search wrapped in a serialisable Result.
func (e *Engine) Query(c query.Criteria) *query.Result {
	return query.Run(e.current.Load().snap, c)
}

// Stats reports on the currently loaded snapshot.
func (e *Engine) Stats() Stats {
	return snapshotStats(e.current.Load())
}

func snapshotStats(st *state) Stats {
	return Stats{
		Records:      st.snap.Len(),
		SurnameKeys:  st.snap.Surname.Keys(),
		ProvinceKeys: st.snap.Province.Keys(),
		YearKeys:     st.snap.Year.Keys(),
		LoadedAt:     st.loadedAt,
		BuildMs:      st.buildTime.Milliseconds(),
	}
}
