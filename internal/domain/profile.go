package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a KeyValueStore when a key has never been set.
var ErrNotFound = errors.New("not found")

// Settings is the single user profile of an installation.
type Settings struct {
	System       MeasurementSystem `json:"system"`
	Weight       float64           `json:"weight"`
	Height       float64           `json:"height"`
	StartWeight  float64           `json:"startWeight"`
	TargetWeight float64           `json:"targetWeight"`
}

// DefaultSettings is used until the user saves a profile.
func DefaultSettings() Settings {
	return Settings{
		System:       Imperial,
		Weight:       150,
		Height:       67,
		StartWeight:  155,
		TargetWeight: 145,
	}
}

// HistoryEntry is one logged weight. Entries are never modified once
// appended.
type HistoryEntry struct {
	ID     string            `json:"id"`
	Date   time.Time         `json:"date"`
	Weight float64           `json:"weight"`
	System MeasurementSystem `json:"system"`
}

// KeyValueStore is the port for local document persistence. Each key holds
// one opaque JSON document that is replaced as a whole.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) ([]byte, error)
	SetItem(ctx context.Context, key string, value []byte) error
}
