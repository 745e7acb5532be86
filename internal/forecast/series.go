package forecast

import "math"

// MovingAverage returns the simple moving average of xs over the given
// window. Positions with fewer than window samples behind them hold NaN,
// mirroring how rolling means leave the head of the series undefined.
func MovingAverage(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	if window <= 0 {
		return out
	}
	var sum float64
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// MinMaxScaler maps values linearly onto [0, 1] based on the range seen
// during Fit.
type MinMaxScaler struct {
	Min float64
	Max float64
}

func (s *MinMaxScaler) Fit(xs []float64) {
	if len(xs) == 0 {
		return
	}
	s.Min, s.Max = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
	}
}

func (s *MinMaxScaler) Transform(xs []float64) []float64 {
	out := make([]float64, len(xs))
	span := s.Max - s.Min
	if span == 0 {
		return out
	}
	for i, x := range xs {
		out[i] = (x - s.Min) / span
	}
	return out
}

func (s *MinMaxScaler) Inverse(xs []float64) []float64 {
	out := make([]float64, len(xs))
	span := s.Max - s.Min
	for i, x := range xs {
		out[i] = x*span + s.Min
	}
	return out
}

// Windows slices xs into overlapping windows of the given size paired with
// the value that immediately follows each window.
func Windows(xs []float64, size int) (windows [][]float64, targets []float64) {
	if size <= 0 || len(xs) <= size {
		return nil, nil
	}
	for i := size; i < len(xs); i++ {
		w := make([]float64, size)
		copy(w, xs[i-size:i])
		windows = append(windows, w)
		targets = append(targets, xs[i])
	}
	return windows, targets
}
