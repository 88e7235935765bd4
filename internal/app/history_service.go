package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"bmitrack/internal/domain"

	"github.com/google/uuid"
)

// HistoryKey is the store key holding the weight log.
const HistoryKey = "bmitrack:weightHistory"

var errCorruptDocument = errors.New("corrupt document")

// HistoryService keeps the append-only weight log. The whole log is
// rewritten on every append.
type HistoryService struct {
	store domain.KeyValueStore
	log   *slog.Logger
	now   func() time.Time

	// Serializes read-modify-write cycles within this process only.
	mu sync.Mutex
}

// NewHistoryService creates a HistoryService backed by the given store.
func NewHistoryService(store domain.KeyValueStore, log *slog.Logger) *HistoryService {
	if log == nil {
		log = slog.Default()
	}
	return &HistoryService{store: store, log: log, now: time.Now}
}

// WithClock replaces the time source used to stamp new entries.
func (s *HistoryService) WithClock(now func() time.Time) *HistoryService {
	s.now = now
	return s
}

// LoadHistory returns every entry in insertion order. Storage and decode
// failures are logged and produce an empty log.
func (s *HistoryService) LoadHistory(ctx context.Context) []domain.HistoryEntry {
	entries, err := s.read(ctx)
	if err != nil {
		s.log.Error("failed to load weight history", "key", HistoryKey, "error", err)
		return []domain.HistoryEntry{}
	}
	return entries
}

// AppendEntry records weight, expressed in sys, stamped with the current
// time.
func (s *HistoryService) AppendEntry(ctx context.Context, weight float64, sys domain.MeasurementSystem) (domain.HistoryEntry, error) {
	if !positive(weight) {
		return domain.HistoryEntry{}, invalidf("weight must be > 0")
	}
	if !sys.Valid() {
		return domain.HistoryEntry{}, invalidf("unknown measurement system")
	}
	if !finite(domain.ConvertWeight(weight, sys, domain.Metric), domain.ConvertWeight(weight, sys, domain.Imperial)) {
		return domain.HistoryEntry{}, invalidf("weight out of range")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(ctx)
	switch {
	case errors.Is(err, errCorruptDocument):
		s.log.Warn("discarding corrupt weight history", "key", HistoryKey, "error", err)
		entries = nil
	case err != nil:
		return domain.HistoryEntry{}, fmt.Errorf("load history: %w", err)
	}

	entry := domain.HistoryEntry{
		ID:     uuid.New().String(),
		Date:   s.now().UTC(),
		Weight: weight,
		System: sys,
	}
	entries = append(entries, entry)

	raw, err := json.Marshal(entries)
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("encode history: %w", err)
	}
	if err := s.store.SetItem(ctx, HistoryKey, raw); err != nil {
		s.log.Error("failed to save weight entry", "key", HistoryKey, "error", err)
		return domain.HistoryEntry{}, err
	}
	s.log.Info("saved weight entry", "id", entry.ID, "weight", weight, "system", sys, "entries", len(entries))
	return entry, nil
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns
// all of them.
func (s *HistoryService) Recent(ctx context.Context, limit int) []domain.HistoryEntry {
	entries := s.LoadHistory(ctx)
	// Later appends win ties on equal timestamps.
	slices.Reverse(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func (s *HistoryService) read(ctx context.Context) ([]domain.HistoryEntry, error) {
	raw, err := s.store.GetItem(ctx, HistoryKey)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []domain.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptDocument, err)
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}
