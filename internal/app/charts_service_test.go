package app_test

import (
	"context"
	"testing"
	"time"

	"bmitrack/internal/app"
	"bmitrack/internal/domain"
)

func newChartsFixture(t *testing.T, entries ...float64) *app.ChartsService {
	t.Helper()
	store := newMockStore()
	settings := app.NewSettingsService(store, testLogger())
	if err := settings.SaveSettings(context.Background(), domain.Settings{
		System: domain.Metric, Weight: 80, Height: 180, StartWeight: 85, TargetWeight: 75,
	}); err != nil {
		t.Fatal(err)
	}
	history := app.NewHistoryService(store, testLogger())
	for _, w := range entries {
		if _, err := history.AppendEntry(context.Background(), w, domain.Metric); err != nil {
			t.Fatal(err)
		}
	}
	return app.NewChartsService(history, settings)
}

func TestGetDaily_LatestOfToday(t *testing.T) {
	svc := newChartsFixture(t, 81, 80)

	points := svc.GetDaily(context.Background(), 3, domain.Metric)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	today := points[2]
	if today.Day != time.Now().In(time.Local).Format("2006-01-02") {
		t.Errorf("last point should be today, got %s", today.Day)
	}
	if today.Weight == nil || today.Weight.Value != 80 || today.Weight.Unit != "kg" {
		t.Fatalf("unexpected today weight %+v", today.Weight)
	}
	if today.Weight.BMI < 24.6 || today.Weight.BMI > 24.7 {
		t.Errorf("unexpected BMI %v", today.Weight.BMI)
	}
	if points[0].Weight != nil {
		t.Errorf("expected no weight two days ago, got %+v", points[0].Weight)
	}
}

func TestGetDaily_ConvertUnit(t *testing.T) {
	svc := newChartsFixture(t, 100)

	points := svc.GetDaily(context.Background(), 1, domain.Imperial)
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	w := points[0].Weight
	if w == nil || w.Value < 220 || w.Value > 221 || w.Unit != "lb" {
		t.Fatalf("expected ~220.5 lb, got %+v", w)
	}
	if w.BMI < 30.8 || w.BMI > 30.9 {
		t.Errorf("BMI should not depend on the display system, got %v", w.BMI)
	}
}

func TestGetDaily_ClampsTo366(t *testing.T) {
	svc := newChartsFixture(t)
	if points := svc.GetDaily(context.Background(), 500, domain.Metric); len(points) != 366 {
		t.Fatalf("expected 366 points (clamped), got %d", len(points))
	}
	if points := svc.GetDaily(context.Background(), 0, domain.Metric); len(points) != 1 {
		t.Fatalf("expected 1 point for days=0, got %d", len(points))
	}
}
