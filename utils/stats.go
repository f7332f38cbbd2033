package utils

import (
	"math"
	"time"
)

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func Mean[T Numeric](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// StdDev is the population standard deviation, 0 for fewer than two values.
func StdDev[T Numeric](values []T) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		diff := float64(v) - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)))
}

// DurationSpread returns the mean and standard deviation of ds.
func DurationSpread(ds []time.Duration) (mean, stddev time.Duration) {
	return time.Duration(Mean(ds)), time.Duration(StdDev(ds))
}
