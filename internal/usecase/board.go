package usecase

import (
	"sync"
	"time"

	"CoinFunnel/internal/domain/models"
)

// Pipeline phases reported by the status board.
const (
	PhaseIdle       = "idle"
	PhaseScanning   = "scanning"
	PhaseAnalyzing  = "analyzing"
	PhaseMonitoring = "monitoring"
	PhaseCooldown   = "cooldown"
)

// StatusBoard holds the latest pipeline state for the ops API and streams
// tick evaluations to subscribers. All methods are safe for concurrent use.
type StatusBoard struct {
	mu          sync.RWMutex
	phase       string
	passCount   int
	records     map[string]models.AnalysisRecord
	evaluations []models.TickEvaluation
	updatedAt   time.Time
	subscribers map[chan []models.TickEvaluation]struct{}
}

// NewStatusBoard creates an empty board.
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{
		phase:       PhaseIdle,
		subscribers: make(map[chan []models.TickEvaluation]struct{}),
	}
}

// SetPhase records the current pipeline phase.
func (b *StatusBoard) SetPhase(phase string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.phase = phase
	b.updatedAt = time.Now()
}

// BeginPass increments the pass counter and clears stale state.
func (b *StatusBoard) BeginPass() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.passCount++
	b.records = nil
	b.evaluations = nil
	b.updatedAt = time.Now()
}

// SetRecords stores the current watchlist analysis records.
func (b *StatusBoard) SetRecords(records map[string]models.AnalysisRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = records
	b.updatedAt = time.Now()
}

// SetEvaluations stores the latest tick evaluations and fans them out to
// subscribers. Slow subscribers miss batches instead of blocking the
// monitor.
func (b *StatusBoard) SetEvaluations(evals []models.TickEvaluation) {
	b.mu.Lock()
	b.evaluations = evals
	b.updatedAt = time.Now()
	subs := make([]chan []models.TickEvaluation, 0, len(b.subscribers))
	for ch := range b.subscribers {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- evals:
		default:
		}
	}
}

// Status returns the current phase, pass count, watchlist ids, and last
// update time.
func (b *StatusBoard) Status() (phase string, passCount int, watchlist []string, updatedAt time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, 0, len(b.records))
	for id := range b.records {
		ids = append(ids, id)
	}
	return b.phase, b.passCount, ids, b.updatedAt
}

// Evaluations returns a copy of the latest tick evaluations.
func (b *StatusBoard) Evaluations() []models.TickEvaluation {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.TickEvaluation, len(b.evaluations))
	copy(out, b.evaluations)
	return out
}

// Record returns the analysis record for an asset, if present.
func (b *StatusBoard) Record(assetID string) (models.AnalysisRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rec, ok := b.records[assetID]
	return rec, ok
}

// Subscribe registers a new evaluation stream. The caller must call the
// returned cancel function when done.
func (b *StatusBoard) Subscribe() (<-chan []models.TickEvaluation, func()) {
	ch := make(chan []models.TickEvaluation, 4)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subscribers, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}
