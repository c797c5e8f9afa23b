package trend

import (
	"math"
	"testing"
)

// TestAnalyze_ShortSeries verifies that series with fewer than 2 samples
// yield the zero record exactly.
func TestAnalyze_ShortSeries(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
	}{
		{name: "nil", samples: nil},
		{name: "empty", samples: []float64{}},
		{name: "single", samples: []float64{21.5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Analyze(tc.samples, DefaultWindow)
			if got.LinearTrend != 0 || got.RSquared != 0 || got.Volatility != 0 || got.Seasonality != 0 {
				t.Fatalf("Analyze(%v) = %+v, want zero record", tc.samples, got)
			}
			if len(got.MovingAverage) != 0 {
				t.Fatalf("moving average = %v, want empty", got.MovingAverage)
			}
		})
	}
}

// TestAnalyze_ConstantSeries verifies that a flat series produces zero
// trend and zero volatility.
func TestAnalyze_ConstantSeries(t *testing.T) {
	samples := []float64{25, 25, 25, 25, 25, 25, 25, 25, 25, 25}
	got := Analyze(samples, DefaultWindow)

	if got.LinearTrend != 0 {
		t.Errorf("linear trend = %v, want 0", got.LinearTrend)
	}
	if got.Volatility != 0 {
		t.Errorf("volatility = %v, want 0", got.Volatility)
	}
	if got.RSquared != 0 {
		t.Errorf("r squared = %v, want 0", got.RSquared)
	}
	if got.Seasonality != 0 {
		t.Errorf("seasonality = %v, want 0", got.Seasonality)
	}
}

// TestAnalyze_PerfectLinearSeries verifies slope and fit quality on an
// exact line.
func TestAnalyze_PerfectLinearSeries(t *testing.T) {
	// y = 2x + 5
	samples := make([]float64, 12)
	for i := range samples {
		samples[i] = 2*float64(i) + 5
	}

	got := Analyze(samples, DefaultWindow)
	if math.Abs(got.LinearTrend-2) > 1e-9 {
		t.Errorf("linear trend = %v, want 2", got.LinearTrend)
	}
	if math.Abs(got.RSquared-1) > 1e-9 {
		t.Errorf("r squared = %v, want 1", got.RSquared)
	}
}

func TestAnalyze_MovingAverageLength(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		window  int
		wantLen int
	}{
		{name: "shorter than window", n: 5, window: 7, wantLen: 0},
		{name: "exactly window", n: 7, window: 7, wantLen: 1},
		{name: "longer than window", n: 10, window: 7, wantLen: 4},
		{name: "window of two", n: 4, window: 2, wantLen: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			samples := make([]float64, tc.n)
			for i := range samples {
				samples[i] = float64(i)
			}
			got := Analyze(samples, tc.window)
			if len(got.MovingAverage) != tc.wantLen {
				t.Fatalf("moving average length = %d, want %d", len(got.MovingAverage), tc.wantLen)
			}
		})
	}
}

func TestAnalyze_MovingAverageValues(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5}
	got := Analyze(samples, 3)

	want := []float64{2, 3, 4}
	if len(got.MovingAverage) != len(want) {
		t.Fatalf("moving average = %v, want %v", got.MovingAverage, want)
	}
	for i := range want {
		if math.Abs(got.MovingAverage[i]-want[i]) > 1e-9 {
			t.Fatalf("moving average = %v, want %v", got.MovingAverage, want)
		}
	}
}

// TestAnalyze_Volatility checks the population standard deviation on a
// known series.
func TestAnalyze_Volatility(t *testing.T) {
	samples := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := Analyze(samples, DefaultWindow)

	// Classic textbook series with population std exactly 2.
	if math.Abs(got.Volatility-2) > 1e-9 {
		t.Errorf("volatility = %v, want 2", got.Volatility)
	}
}

// TestAnalyze_SeasonalityPeriodicSeries verifies that a series repeating
// with the lag window produces strong positive seasonality.
func TestAnalyze_SeasonalityPeriodicSeries(t *testing.T) {
	const window = 7
	samples := make([]float64, 28)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * float64(i) / window)
	}

	got := Analyze(samples, window)
	if got.Seasonality < 0.99 {
		t.Errorf("seasonality = %v, want near 1 for period-%d series", got.Seasonality, window)
	}
}

// TestAnalyze_SeasonalityBounds verifies the coefficient stays in [-1,1].
func TestAnalyze_SeasonalityBounds(t *testing.T) {
	samples := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9}
	got := Analyze(samples, 7)
	if got.Seasonality < -1 || got.Seasonality > 1 {
		t.Errorf("seasonality = %v, out of [-1,1]", got.Seasonality)
	}
}

// TestAnalyze_NonFiniteInput verifies that NaN or Inf samples resolve to
// the zero record instead of propagating.
func TestAnalyze_NonFiniteInput(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
	}{
		{name: "nan", samples: []float64{1, 2, math.NaN(), 4}},
		{name: "positive inf", samples: []float64{1, math.Inf(1), 3}},
		{name: "negative inf", samples: []float64{math.Inf(-1), 2, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Analyze(tc.samples, DefaultWindow)
			if got.LinearTrend != 0 || got.RSquared != 0 || got.Volatility != 0 || got.Seasonality != 0 {
				t.Fatalf("Analyze(%v) = %+v, want zero record", tc.samples, got)
			}
		})
	}
}

// TestAnalyze_SeasonalityTooShortOverlap ensures overlaps below 2 points
// yield zero seasonality.
func TestAnalyze_SeasonalityTooShortOverlap(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	got := Analyze(samples, 7) // overlap is a single point
	if got.Seasonality != 0 {
		t.Errorf("seasonality = %v, want 0 for single-point overlap", got.Seasonality)
	}
}
