package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"bmitrack/internal/domain"
)

// SettingsKey is the store key holding the profile document.
const SettingsKey = "bmitrack:userSettings"

// SettingsService loads and saves the installation's single profile.
type SettingsService struct {
	store domain.KeyValueStore
	log   *slog.Logger
}

// NewSettingsService creates a SettingsService backed by the given store.
func NewSettingsService(store domain.KeyValueStore, log *slog.Logger) *SettingsService {
	if log == nil {
		log = slog.Default()
	}
	return &SettingsService{store: store, log: log}
}

// LoadSettings returns the stored profile. A missing, unreadable or corrupt
// document yields domain.DefaultSettings; failures are logged, not returned.
func (s *SettingsService) LoadSettings(ctx context.Context) domain.Settings {
	raw, err := s.store.GetItem(ctx, SettingsKey)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultSettings()
	}
	if err != nil {
		s.log.Error("failed to load settings", "key", SettingsKey, "error", err)
		return domain.DefaultSettings()
	}

	var st domain.Settings
	if err := json.Unmarshal(raw, &st); err != nil {
		s.log.Error("failed to decode settings", "key", SettingsKey, "error", err)
		return domain.DefaultSettings()
	}
	if err := validateSettings(st); err != nil {
		s.log.Error("stored settings are invalid", "key", SettingsKey, "error", err)
		return domain.DefaultSettings()
	}
	return st
}

// SaveSettings validates st and replaces the stored profile.
func (s *SettingsService) SaveSettings(ctx context.Context, st domain.Settings) error {
	if err := validateSettings(st); err != nil {
		return err
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.store.SetItem(ctx, SettingsKey, raw); err != nil {
		s.log.Error("failed to save settings", "key", SettingsKey, "error", err)
		return err
	}
	s.log.Debug("saved settings", "system", st.System, "weight", st.Weight, "height", st.Height)
	return nil
}

// SwitchSystem converts every weight and the height of the stored profile
// into sys and saves it. Kilograms and height are rounded to a whole unit,
// pounds keep one decimal.
func (s *SettingsService) SwitchSystem(ctx context.Context, sys domain.MeasurementSystem) (domain.Settings, error) {
	if !sys.Valid() {
		return domain.Settings{}, invalidf("unknown measurement system")
	}
	st := s.LoadSettings(ctx)
	if st.System == sys {
		return st, nil
	}

	from := st.System
	st = domain.Settings{
		System:       sys,
		Weight:       convertWeight(st.Weight, from, sys),
		Height:       math.Round(domain.ConvertHeight(st.Height, from, sys)),
		StartWeight:  convertWeight(st.StartWeight, from, sys),
		TargetWeight: convertWeight(st.TargetWeight, from, sys),
	}
	if err := s.SaveSettings(ctx, st); err != nil {
		return domain.Settings{}, err
	}
	return st, nil
}

func validateSettings(st domain.Settings) error {
	if !st.System.Valid() {
		return invalidf("unknown measurement system")
	}
	if !positive(st.Weight) || !positive(st.StartWeight) || !positive(st.TargetWeight) {
		return invalidf("weights must be > 0")
	}
	if !positive(st.Height) {
		return invalidf("height must be > 0")
	}
	if _, err := evaluate(st.Weight, st.Height, st.System); err != nil {
		return err
	}
	return nil
}

func convertWeight(v float64, from, to domain.MeasurementSystem) float64 {
	w := domain.ConvertWeight(v, from, to)
	if to == domain.Metric {
		return math.Round(w)
	}
	return round1(w)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
