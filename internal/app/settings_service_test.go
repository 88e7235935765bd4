package app_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"bmitrack/internal/app"
	"bmitrack/internal/domain"
)

func TestLoadSettings_Defaults(t *testing.T) {
	tests := []struct {
		name  string
		store *mockStore
	}{
		{"missing", newMockStore()},
		{"storage error", &mockStore{getFn: func(context.Context, string) ([]byte, error) {
			return nil, errors.New("disk gone")
		}}},
		{"corrupt json", &mockStore{getFn: func(context.Context, string) ([]byte, error) {
			return []byte("{not json"), nil
		}}},
		{"invalid values", &mockStore{getFn: func(context.Context, string) ([]byte, error) {
			return []byte(`{"system":"metric","weight":70,"height":0,"startWeight":70,"targetWeight":65}`), nil
		}}},
		{"overflowing bmi", &mockStore{getFn: func(context.Context, string) ([]byte, error) {
			return []byte(`{"system":"metric","weight":1e308,"height":0.01,"startWeight":70,"targetWeight":65}`), nil
		}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := app.NewSettingsService(tc.store, testLogger())
			got := svc.LoadSettings(context.Background())
			if got != domain.DefaultSettings() {
				t.Fatalf("expected defaults, got %+v", got)
			}
		})
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	store := newMockStore()
	svc := app.NewSettingsService(store, testLogger())
	want := domain.Settings{System: domain.Metric, Weight: 68, Height: 170, StartWeight: 72, TargetWeight: 65}

	if err := svc.SaveSettings(context.Background(), want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.LoadSettings(context.Background()); got != want {
		t.Fatalf("LoadSettings = %+v; want %+v", got, want)
	}
	if _, ok := store.items[app.SettingsKey]; !ok {
		t.Fatalf("settings not stored under %q", app.SettingsKey)
	}
}

func TestSaveSettings_Validation(t *testing.T) {
	svc := app.NewSettingsService(newMockStore(), testLogger())
	base := domain.DefaultSettings()

	tests := []struct {
		name   string
		mutate func(*domain.Settings)
	}{
		{"zero height", func(s *domain.Settings) { s.Height = 0 }},
		{"negative weight", func(s *domain.Settings) { s.Weight = -1 }},
		{"nan target", func(s *domain.Settings) { s.TargetWeight = math.NaN() }},
		{"zero start", func(s *domain.Settings) { s.StartWeight = 0 }},
		{"bad system", func(s *domain.Settings) { s.System = domain.MeasurementSystem(9) }},
		{"overflowing bmi", func(s *domain.Settings) { s.Weight, s.Height = 1e308, 0.01 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := base
			tc.mutate(&st)
			if err := svc.SaveSettings(context.Background(), st); !errors.Is(err, app.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestSaveSettings_StoreError(t *testing.T) {
	store := &mockStore{setFn: func(context.Context, string, []byte) error { return errors.New("read-only") }}
	svc := app.NewSettingsService(store, testLogger())
	if err := svc.SaveSettings(context.Background(), domain.DefaultSettings()); err == nil {
		t.Fatal("expected error from store")
	}
}

func TestSwitchSystem(t *testing.T) {
	svc := app.NewSettingsService(newMockStore(), testLogger())
	ctx := context.Background()

	got, err := svc.SwitchSystem(ctx, domain.Metric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.Settings{System: domain.Metric, Weight: 68, Height: 170, StartWeight: 70, TargetWeight: 66}
	if got != want {
		t.Fatalf("SwitchSystem(metric) = %+v; want %+v", got, want)
	}
	if stored := svc.LoadSettings(ctx); stored != want {
		t.Fatalf("switched settings not persisted: %+v", stored)
	}

	back, err := svc.SwitchSystem(ctx, domain.Imperial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.System != domain.Imperial || back.Height != 67 || back.Weight != 149.9 {
		t.Fatalf("unexpected imperial settings %+v", back)
	}
}

func TestSwitchSystem_SameSystemNoop(t *testing.T) {
	store := &mockStore{
		items: map[string][]byte{},
		setFn: func(context.Context, string, []byte) error {
			return errors.New("should not write")
		},
	}
	svc := app.NewSettingsService(store, testLogger())
	got, err := svc.SwitchSystem(context.Background(), domain.Imperial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.DefaultSettings() {
		t.Fatalf("unexpected settings %+v", got)
	}
}
