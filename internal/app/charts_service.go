package app

import (
	"context"
	"time"

	"bmitrack/internal/domain"
)

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	history  *HistoryService
	settings *SettingsService
}

// NewChartsService creates a ChartsService over the weight log and profile.
func NewChartsService(h *HistoryService, st *SettingsService) *ChartsService {
	return &ChartsService{history: h, settings: st}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day    string       `json:"day"`
	Weight *WeightPoint `json:"weight"`
}

// WeightPoint is the optional weight value within a DayPoint, with its BMI
// at the profile height.
type WeightPoint struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	BMI   float64 `json:"bmi"`
}

// GetDaily returns per-day chart data for the last days days, using the
// latest entry of each local day, with weights converted to sys.
func (s *ChartsService) GetDaily(ctx context.Context, days int, sys domain.MeasurementSystem) []DayPoint {
	if days > 366 {
		days = 366
	}
	if days < 1 {
		days = 1
	}

	st := s.settings.LoadSettings(ctx)
	height := domain.ConvertHeight(st.Height, st.System, sys)

	latest := make(map[string]domain.HistoryEntry)
	for _, e := range s.history.LoadHistory(ctx) {
		day := localDay(e.Date)
		if cur, ok := latest[day]; !ok || !e.Date.Before(cur.Date) {
			latest[day] = e
		}
	}

	today := time.Now().In(time.Local)
	points := make([]DayPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		dayStr := localDay(today.AddDate(0, 0, -i))

		var wp *WeightPoint
		if e, ok := latest[dayStr]; ok {
			val := domain.ConvertWeight(e.Weight, e.System, sys)
			bmi := domain.ComputeBMI(val, height, sys)
			if finite(val, bmi) {
				wp = &WeightPoint{
					Value: round1(val),
					Unit:  sys.WeightUnit(),
					BMI:   bmi,
				}
			}
		}
		points = append(points, DayPoint{Day: dayStr, Weight: wp})
	}
	return points
}

func localDay(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02")
}
