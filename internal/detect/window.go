package detect

import (
	"math"
	"time"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Hours returns the range duration in hours, never less than a small epsilon
// so rate computations cannot divide by zero.
func (r TimeRange) Hours() float64 {
	h := r.End.Sub(r.Start).Hours()
	if h <= 0 {
		return 1.0 / 3600 // one second
	}
	return h
}

// mean returns the arithmetic mean of xs. Callers guarantee len(xs) > 0.
func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev returns the sample standard deviation (n-1 denominator).
// Callers guarantee len(xs) >= 2.
func stddev(xs []float64) float64 {
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// wellFormed reports whether a metrics value is usable as a detector input.
func wellFormed(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// hourlyBuckets groups records by the hour their timestamp falls in,
// returning buckets in chronological order. Hours with no records produce no
// bucket: absence of data is not a zero sample.
func hourlyBuckets(records []*domain.ActivityRecord) [][]*domain.ActivityRecord {
	byHour := make(map[time.Time][]*domain.ActivityRecord)
	var order []time.Time
	for _, rec := range records {
		h := rec.Timestamp.UTC().Truncate(time.Hour)
		if _, seen := byHour[h]; !seen {
			order = append(order, h)
		}
		byHour[h] = append(byHour[h], rec)
	}

	// Sort bucket keys chronologically.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j].Before(order[j-1]); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	buckets := make([][]*domain.ActivityRecord, 0, len(order))
	for _, h := range order {
		buckets = append(buckets, byHour[h])
	}
	return buckets
}
