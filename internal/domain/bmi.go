package domain

import (
	"encoding/json"
	"math"
)

// imperialFactor converts lb/in² to kg/m².
const imperialFactor = 703

// Category identifies one of the eight BMI bands, in ascending order.
type Category int

const (
	VerySeverelyUnderweight Category = iota
	SeverelyUnderweight
	Underweight
	Normal
	Overweight
	ModeratelyObese
	SeverelyObese
	VerySeverelyObese
)

// CategoryBand is a half-open BMI interval [Min, Max) with its display data.
type CategoryBand struct {
	Category Category
	Label    string
	Min      float64
	Max      float64
	Color    string
}

var bands = [...]CategoryBand{
	{VerySeverelyUnderweight, "Very Severely Underweight", 0, 15, "#3b82f6"},
	{SeverelyUnderweight, "Severely Underweight", 15, 16, "#60a5fa"},
	{Underweight, "Underweight", 16, 18.5, "#93c5fd"},
	{Normal, "Normal", 18.5, 25, "#43d06e"},
	{Overweight, "Overweight", 25, 30, "#f59e0b"},
	{ModeratelyObese, "Moderately Obese", 30, 35, "#fb923c"},
	{SeverelyObese, "Severely Obese", 35, 40, "#ef4444"},
	{VerySeverelyObese, "Very Severely Obese", 40, math.Inf(1), "#dc2626"},
}

// String returns the human-readable label of c.
func (c Category) String() string {
	if c < 0 || int(c) >= len(bands) {
		return "Unknown"
	}
	return bands[c].Label
}

// Bands returns a copy of the category table in ascending order.
func Bands() []CategoryBand {
	out := make([]CategoryBand, len(bands))
	copy(out, bands[:])
	return out
}

// NormalBand returns the band for the Normal category.
func NormalBand() CategoryBand {
	return bands[Normal]
}

// MarshalJSON encodes the open upper bound of the top band as null, since
// JSON has no infinity.
func (b CategoryBand) MarshalJSON() ([]byte, error) {
	var upper *float64
	if !math.IsInf(b.Max, 1) {
		upper = &b.Max
	}
	return json.Marshal(struct {
		Category string   `json:"category"`
		Label    string   `json:"label"`
		Min      float64  `json:"min"`
		Max      *float64 `json:"max"`
		Color    string   `json:"color"`
	}{b.Category.Key(), b.Label, b.Min, upper, b.Color})
}

// Key is the stable snake_case identifier used in JSON and metrics.
func (c Category) Key() string {
	switch c {
	case VerySeverelyUnderweight:
		return "very_severely_underweight"
	case SeverelyUnderweight:
		return "severely_underweight"
	case Underweight:
		return "underweight"
	case Normal:
		return "normal"
	case Overweight:
		return "overweight"
	case ModeratelyObese:
		return "moderately_obese"
	case SeverelyObese:
		return "severely_obese"
	case VerySeverelyObese:
		return "very_severely_obese"
	}
	return "unknown"
}

// ComputeBMI returns the body-mass index for weight and height expressed in
// sys. Height must be > 0; the result is not clamped.
func ComputeBMI(weight, height float64, sys MeasurementSystem) float64 {
	if sys == Metric {
		m := height / 100
		return weight / (m * m)
	}
	return imperialFactor * weight / (height * height)
}

// Classify returns the band containing bmi. A value on a boundary belongs to
// the band it opens and the top band has no upper limit, +Inf included.
// Input outside every band (negative or NaN) yields the first band.
func Classify(bmi float64) CategoryBand {
	for _, b := range bands {
		if bmi >= b.Min && (bmi < b.Max || math.IsInf(b.Max, 1)) {
			return b
		}
	}
	return bands[0]
}

// WeightRange is a closed weight interval in a single unit system.
type WeightRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NormalRangeForHeight returns the weights whose BMI falls on the Normal
// band bounds at the given height.
func NormalRangeForHeight(height float64, sys MeasurementSystem) WeightRange {
	n := NormalBand()
	return WeightRange{
		Min: weightForBMI(n.Min, height, sys),
		Max: weightForBMI(n.Max, height, sys),
	}
}

func weightForBMI(bmi, height float64, sys MeasurementSystem) float64 {
	if sys == Metric {
		m := height / 100
		return bmi * m * m
	}
	return bmi * height * height / imperialFactor
}

// DeltaKind tags a WeightDelta.
type DeltaKind int

const (
	Maintain DeltaKind = iota
	Gain
	Lose
)

func (k DeltaKind) String() string {
	switch k {
	case Gain:
		return "gain"
	case Lose:
		return "lose"
	}
	return "maintain"
}

// WeightDelta describes the change needed to reach the Normal band. Amount
// and Unit are zero for Maintain.
type WeightDelta struct {
	Kind   DeltaKind
	Amount float64
	Unit   string
}

// MarshalJSON implements json.Marshaler.
func (d WeightDelta) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string  `json:"kind"`
		Amount float64 `json:"amount,omitempty"`
		Unit   string  `json:"unit,omitempty"`
	}{d.Kind.String(), d.Amount, d.Unit})
}

// WeightDeltaFor compares the BMI of weight at height against the Normal
// band and reports how much to gain or lose, rounded to one decimal.
func WeightDeltaFor(weight, height float64, sys MeasurementSystem) WeightDelta {
	bmi := ComputeBMI(weight, height, sys)
	n := NormalBand()
	r := NormalRangeForHeight(height, sys)

	switch {
	case bmi < n.Min:
		return WeightDelta{Kind: Gain, Amount: round1(r.Min - weight), Unit: sys.WeightUnit()}
	case bmi >= n.Max:
		return WeightDelta{Kind: Lose, Amount: round1(weight - r.Max), Unit: sys.WeightUnit()}
	}
	return WeightDelta{Kind: Maintain}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
