// Package normalizer applies the rest-hours business rules that sit between
// parsing and aggregation. Keeping them here makes the defaults auditable in
// one place.
package normalizer

import "github.com/turanyusif9/watchkeeper/internal/domain/record"

// Theoretical rest maxima substituted for not-applicable entries.
const (
	MaxRest24h = 24.0
	MaxRest7d  = 168.0
)

// NormalizeRestHours converts the raw rest-hours sequences to plain values.
// A not-applicable entry means the seafarer logged no work for that day, so
// full rest is assumed: 24 hours for the 24h window, 168 for the 7d window.
// All other values pass through unchanged.
func NormalizeRestHours(rest record.RestHours) (in24h, in7d []float64) {
	return normalize(rest.In24h, MaxRest24h), normalize(rest.In7d, MaxRest7d)
}

func normalize(values []record.RestValue, max float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v.NA {
			out[i] = max
			continue
		}
		out[i] = v.Hours
	}
	return out
}
