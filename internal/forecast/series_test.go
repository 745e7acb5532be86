package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverage(t *testing.T) {
	t.Parallel()

	xs := []float64{1, 2, 3, 4, 5}
	out := MovingAverage(xs, 3)
	require.Len(t, out, 5)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)
}

func TestMovingAverage_WindowLargerThanSeries(t *testing.T) {
	t.Parallel()

	out := MovingAverage([]float64{1, 2}, 5)
	require.Len(t, out, 2)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
}

func TestMinMaxScaler_RoundTrip(t *testing.T) {
	t.Parallel()

	xs := []float64{10, 20, 15, 30}
	var s MinMaxScaler
	s.Fit(xs)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 30.0, s.Max)

	scaled := s.Transform(xs)
	assert.InDelta(t, 0.0, scaled[0], 1e-9)
	assert.InDelta(t, 0.5, scaled[1], 1e-9)
	assert.InDelta(t, 1.0, scaled[3], 1e-9)

	back := s.Inverse(scaled)
	for i := range xs {
		assert.InDelta(t, xs[i], back[i], 1e-9)
	}
}

func TestMinMaxScaler_ConstantSeries(t *testing.T) {
	t.Parallel()

	var s MinMaxScaler
	s.Fit([]float64{5, 5, 5})
	out := s.Transform([]float64{5, 5})
	assert.Equal(t, []float64{0, 0}, out)
}

func TestWindows(t *testing.T) {
	t.Parallel()

	xs := []float64{1, 2, 3, 4, 5}
	windows, targets := Windows(xs, 3)
	require.Len(t, windows, 2)
	require.Len(t, targets, 2)

	assert.Equal(t, []float64{1, 2, 3}, windows[0])
	assert.Equal(t, 4.0, targets[0])
	assert.Equal(t, []float64{2, 3, 4}, windows[1])
	assert.Equal(t, 5.0, targets[1])
}

func TestWindows_TooShort(t *testing.T) {
	t.Parallel()

	windows, targets := Windows([]float64{1, 2, 3}, 3)
	assert.Nil(t, windows)
	assert.Nil(t, targets)
}

func TestMetrics_PerfectPrediction(t *testing.T) {
	t.Parallel()

	actual := []float64{1, 2, 3, 4}
	assert.Equal(t, 0.0, MSE(actual, actual))
	assert.Equal(t, 0.0, RMSE(actual, actual))
	assert.InDelta(t, 1.0, R2(actual, actual), 1e-9)
}

func TestMetrics_KnownValues(t *testing.T) {
	t.Parallel()

	actual := []float64{1, 2, 3}
	predicted := []float64{2, 2, 2}

	assert.InDelta(t, 2.0/3.0, MSE(actual, predicted), 1e-9)
	assert.InDelta(t, math.Sqrt(2.0/3.0), RMSE(actual, predicted), 1e-9)
	// predicting the mean everywhere gives an R2 of exactly zero
	assert.InDelta(t, 0.0, R2(actual, predicted), 1e-9)
}

func TestMetrics_LengthMismatch(t *testing.T) {
	t.Parallel()

	assert.True(t, math.IsNaN(MSE([]float64{1}, []float64{1, 2})))
	assert.True(t, math.IsNaN(R2(nil, nil)))
}
