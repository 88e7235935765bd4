package app

import (
	"context"
	"math"

	"bmitrack/internal/domain"
)

// Report bundles everything derived from one weight/height pair.
type Report struct {
	BMI         float64                  `json:"bmi"`
	System      domain.MeasurementSystem `json:"system"`
	Category    domain.CategoryBand      `json:"category"`
	NormalRange domain.WeightRange       `json:"normalRange"`
	Delta       domain.WeightDelta       `json:"delta"`
}

// ProfileReport is a Report for the stored profile plus goal tracking.
type ProfileReport struct {
	Report
	Settings     domain.Settings `json:"settings"`
	GoalProgress float64         `json:"goalProgress"`
}

// BMIService exposes the BMI arithmetic with input validation.
type BMIService struct {
	settings *SettingsService
}

// NewBMIService creates a BMIService reading the profile from settings.
func NewBMIService(settings *SettingsService) *BMIService {
	return &BMIService{settings: settings}
}

// Evaluate computes the report for weight and height expressed in sys.
func (s *BMIService) Evaluate(weight, height float64, sys domain.MeasurementSystem) (Report, error) {
	if !positive(weight) {
		return Report{}, invalidf("weight must be > 0")
	}
	if !positive(height) {
		return Report{}, invalidf("height must be > 0")
	}
	if !sys.Valid() {
		return Report{}, invalidf("unknown measurement system")
	}
	return evaluate(weight, height, sys)
}

// CurrentReport evaluates the stored profile.
func (s *BMIService) CurrentReport(ctx context.Context) ProfileReport {
	st := s.settings.LoadSettings(ctx)
	r, err := evaluate(st.Weight, st.Height, st.System)
	if err != nil {
		// LoadSettings only returns documents that evaluate cleanly.
		st = domain.DefaultSettings()
		r, _ = evaluate(st.Weight, st.Height, st.System)
	}
	return ProfileReport{
		Report:       r,
		Settings:     st,
		GoalProgress: domain.GoalProgress(st.StartWeight, st.TargetWeight, st.Weight),
	}
}

// evaluate rejects inputs whose report would hold a non-finite number, such as
// a tiny height that overflows the BMI.
func evaluate(weight, height float64, sys domain.MeasurementSystem) (Report, error) {
	bmi := domain.ComputeBMI(weight, height, sys)
	r := Report{
		BMI:         bmi,
		System:      sys,
		Category:    domain.Classify(bmi),
		NormalRange: domain.NormalRangeForHeight(height, sys),
		Delta:       domain.WeightDeltaFor(weight, height, sys),
	}
	if !finite(r.BMI, r.NormalRange.Min, r.NormalRange.Max, r.Delta.Amount) {
		return Report{}, invalidf("weight and height give a bmi out of range")
	}
	return r, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
