package metrics

import (
	"context"
	"errors"

	"bmitrack/internal/domain"
)

type instrumentedStore struct {
	next domain.KeyValueStore
	m    *Metrics
}

// InstrumentStore counts failures of s in bmitrack_store_errors_total.
// A miss is not a failure.
func (m *Metrics) InstrumentStore(s domain.KeyValueStore) domain.KeyValueStore {
	if m == nil {
		return s
	}
	return &instrumentedStore{next: s, m: m}
}

func (s *instrumentedStore) GetItem(ctx context.Context, key string) ([]byte, error) {
	v, err := s.next.GetItem(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.m.RecordStoreError("get_item")
	}
	return v, err
}

func (s *instrumentedStore) SetItem(ctx context.Context, key string, value []byte) error {
	err := s.next.SetItem(ctx, key, value)
	if err != nil {
		s.m.RecordStoreError("set_item")
	}
	return err
}
