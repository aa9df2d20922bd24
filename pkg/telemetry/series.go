package telemetry

import "time"

// LabelLayout is the wall-clock format used to label samples on charts.
const LabelLayout = "15:04:05"

// Sample is one telemetry reading.
type Sample struct {
	Time  time.Time
	Label string
	Value float64
}

// Series is a rolling history holding at most capacity samples. When full,
// pushing a sample evicts the oldest one. Series is not safe for concurrent
// use; the Synchronizer guards its series.
type Series struct {
	capacity int
	samples  []Sample
}

// NewSeries creates an empty series. Capacities below one are raised to one.
func NewSeries(capacity int) *Series {
	if capacity < 1 {
		capacity = 1
	}
	return &Series{
		capacity: capacity,
		samples:  make([]Sample, 0, capacity+1),
	}
}

// Push appends s, evicting the oldest sample past capacity.
func (s *Series) Push(sample Sample) {
	s.samples = append(s.samples, sample)
	if len(s.samples) > s.capacity {
		copy(s.samples, s.samples[1:])
		s.samples = s.samples[:s.capacity]
	}
}

// Samples returns a copy of the history, oldest first.
func (s *Series) Samples() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Len returns the number of stored samples.
func (s *Series) Len() int {
	return len(s.samples)
}

// Values extracts the sample values in order.
func Values(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

// Labels extracts the sample labels in order.
func Labels(samples []Sample) []string {
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = s.Label
	}
	return out
}
