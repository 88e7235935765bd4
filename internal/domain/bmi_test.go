package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"bmitrack/internal/domain"
)

var systems = []domain.MeasurementSystem{domain.Metric, domain.Imperial}

func TestComputeBMI_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		weight, height float64
		sys            domain.MeasurementSystem
		wantBMI        float64
		wantCategory   domain.Category
	}{
		{"metric normal", 68, 170, domain.Metric, 23.53, domain.Normal},
		{"imperial normal", 150, 67, domain.Imperial, 23.49, domain.Normal},
		{"metric underweight", 50, 170, domain.Metric, 17.30, domain.Underweight},
		{"imperial low normal", 120, 67, domain.Imperial, 18.79, domain.Normal},
		{"imperial obese", 200, 67, domain.Imperial, 31.32, domain.ModeratelyObese},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bmi := domain.ComputeBMI(tc.weight, tc.height, tc.sys)
			if !almostEqual(bmi, tc.wantBMI, 0.01) {
				t.Fatalf("ComputeBMI(%v, %v, %v) = %v; want ~%v", tc.weight, tc.height, tc.sys, bmi, tc.wantBMI)
			}
			if got := domain.Classify(bmi).Category; got != tc.wantCategory {
				t.Errorf("Classify(%v) = %v; want %v", bmi, got, tc.wantCategory)
			}
		})
	}
}

func TestComputeBMI_Monotonic(t *testing.T) {
	for _, sys := range systems {
		for h := 50.0; h <= 220; h += 10 {
			for w := 20.0; w <= 200; w += 5 {
				base := domain.ComputeBMI(w, h, sys)
				if heavier := domain.ComputeBMI(w+1, h, sys); heavier <= base {
					t.Fatalf("%v: BMI not increasing in weight at w=%v h=%v", sys, w, h)
				}
				if taller := domain.ComputeBMI(w, h+1, sys); taller >= base {
					t.Fatalf("%v: BMI not decreasing in height at w=%v h=%v", sys, w, h)
				}
			}
		}
	}
}

func TestBands_Contiguous(t *testing.T) {
	bands := domain.Bands()
	if len(bands) != 8 {
		t.Fatalf("expected 8 bands, got %d", len(bands))
	}
	if bands[0].Min != 0 {
		t.Errorf("first band starts at %v; want 0", bands[0].Min)
	}
	if !math.IsInf(bands[len(bands)-1].Max, 1) {
		t.Errorf("top band must be unbounded, got %v", bands[len(bands)-1].Max)
	}
	for i := 0; i < len(bands)-1; i++ {
		if bands[i].Max != bands[i+1].Min {
			t.Errorf("gap between %v and %v", bands[i].Category, bands[i+1].Category)
		}
		if got := domain.Classify(bands[i].Max).Category; got != bands[i+1].Category {
			t.Errorf("Classify(%v) = %v; want %v", bands[i].Max, got, bands[i+1].Category)
		}
	}
}

func TestBands_ReturnsCopy(t *testing.T) {
	b := domain.Bands()
	b[0].Label = "changed"
	if domain.Bands()[0].Label == "changed" {
		t.Fatal("Bands exposed the internal table")
	}
}

func TestClassify_Edges(t *testing.T) {
	tests := []struct {
		bmi  float64
		want domain.Category
	}{
		{0, domain.VerySeverelyUnderweight},
		{14.99, domain.VerySeverelyUnderweight},
		{15, domain.SeverelyUnderweight},
		{18.5, domain.Normal},
		{24.999, domain.Normal},
		{25, domain.Overweight},
		{40, domain.VerySeverelyObese},
		{100, domain.VerySeverelyObese},
		{1000, domain.VerySeverelyObese},
		{math.MaxFloat64, domain.VerySeverelyObese},
		{math.Inf(1), domain.VerySeverelyObese},
		{-1, domain.VerySeverelyUnderweight},
		{math.NaN(), domain.VerySeverelyUnderweight},
	}
	for _, tc := range tests {
		if got := domain.Classify(tc.bmi).Category; got != tc.want {
			t.Errorf("Classify(%v) = %v; want %v", tc.bmi, got, tc.want)
		}
	}
}

func TestClassify_Total(t *testing.T) {
	for v := 0.0; v < 200; v += 0.05 {
		b := domain.Classify(v)
		if v < b.Min || v >= b.Max {
			t.Fatalf("Classify(%v) returned band [%v, %v)", v, b.Min, b.Max)
		}
	}
}

func TestNormalRangeForHeight(t *testing.T) {
	r := domain.NormalRangeForHeight(170, domain.Metric)
	if !almostEqual(r.Min, 53.465, 0.001) || !almostEqual(r.Max, 72.25, 0.001) {
		t.Fatalf("NormalRangeForHeight(170, metric) = %+v", r)
	}

	for _, sys := range systems {
		for h := 1.0; h <= 250; h += 7 {
			r := domain.NormalRangeForHeight(h, sys)
			if r.Min >= r.Max {
				t.Fatalf("%v h=%v: min %v >= max %v", sys, h, r.Min, r.Max)
			}
			if bmi := domain.ComputeBMI(r.Min, h, sys); !almostEqual(bmi, 18.5, 1e-9) {
				t.Fatalf("%v h=%v: BMI at min = %v", sys, h, bmi)
			}
		}
	}
}

func TestWeightDeltaFor(t *testing.T) {
	tests := []struct {
		name           string
		weight, height float64
		sys            domain.MeasurementSystem
		want           domain.WeightDelta
	}{
		{"gain metric", 50, 170, domain.Metric, domain.WeightDelta{Kind: domain.Gain, Amount: 3.5, Unit: "kg"}},
		{"maintain imperial", 120, 67, domain.Imperial, domain.WeightDelta{Kind: domain.Maintain}},
		{"maintain metric", 68, 170, domain.Metric, domain.WeightDelta{Kind: domain.Maintain}},
		{"lose imperial", 200, 67, domain.Imperial, domain.WeightDelta{Kind: domain.Lose, Amount: 40.4, Unit: "lb"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.WeightDeltaFor(tc.weight, tc.height, tc.sys)
			if got.Kind != tc.want.Kind || got.Unit != tc.want.Unit || !almostEqual(got.Amount, tc.want.Amount, 1e-9) {
				t.Errorf("WeightDeltaFor(%v, %v, %v) = %+v; want %+v", tc.weight, tc.height, tc.sys, got, tc.want)
			}
		})
	}
}

func TestWeightDeltaFor_MaintainIffNormal(t *testing.T) {
	for _, sys := range systems {
		for h := 140.0; h <= 200; h += 5 {
			for w := 30.0; w <= 150; w += 0.5 {
				bmi := domain.ComputeBMI(w, h, sys)
				inNormal := bmi >= 18.5 && bmi < 25
				isMaintain := domain.WeightDeltaFor(w, h, sys).Kind == domain.Maintain
				if inNormal != isMaintain {
					t.Fatalf("%v w=%v h=%v bmi=%v: maintain=%v", sys, w, h, bmi, isMaintain)
				}
			}
		}
	}
}

func TestWeightDelta_JSON(t *testing.T) {
	b, err := json.Marshal(domain.WeightDelta{Kind: domain.Gain, Amount: 3.5, Unit: "kg"})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"kind":"gain","amount":3.5,"unit":"kg"}` {
		t.Errorf("unexpected json: %s", b)
	}

	b, _ = json.Marshal(domain.WeightDelta{Kind: domain.Maintain})
	if string(b) != `{"kind":"maintain"}` {
		t.Errorf("unexpected json: %s", b)
	}
}

func TestCategoryBand_JSONTopBand(t *testing.T) {
	b, err := json.Marshal(domain.Classify(50))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m["max"] != nil {
		t.Errorf("expected null max, got %v", m["max"])
	}
	if m["category"] != "very_severely_obese" {
		t.Errorf("unexpected category %v", m["category"])
	}
}
