package api

// ------------------------------------------------------------------------------------------------
// General naming conventions:
// ------------------------------------------------------------------------------------------------
// - ...Kind - a closed enum discriminating a tagged union.
// - Metric  - a finalized, immutable metric as sent to / received from the server.
// ------------------------------------------------------------------------------------------------

// MetricKind discriminates the value type of a Metric. Exactly one of the
// typed value slices of a Metric is populated, matching its kind.
type MetricKind string

const (
	MetricKindFloat   MetricKind = "float"
	MetricKindInteger MetricKind = "integer"
	MetricKindString  MetricKind = "string"
)

// Metric is a named, ordered sequence of values sharing one kind.
//
// The accumulation path only ever produces float and string metrics
// (integers are promoted to floats before reconciliation), but integer
// metrics are first-class on the wire: a producer that never lost integer
// precision can send them and they round-trip through the server intact.
type Metric struct {
	Name    string     `json:"name" validate:"required"`
	Kind    MetricKind `json:"kind" validate:"required,oneof=float integer string"`
	Floats  []float64  `json:"floats,omitempty"`
	Ints    []int64    `json:"ints,omitempty"`
	Strings []string   `json:"strings,omitempty"`
}

// NewFloatMetric builds a float metric.
func NewFloatMetric(name string, vals []float64) Metric {
	return Metric{Name: name, Kind: MetricKindFloat, Floats: vals}
}

// NewIntMetric builds an integer metric.
func NewIntMetric(name string, vals []int64) Metric {
	return Metric{Name: name, Kind: MetricKindInteger, Ints: vals}
}

// NewStringMetric builds a string metric.
func NewStringMetric(name string, vals []string) Metric {
	return Metric{Name: name, Kind: MetricKindString, Strings: vals}
}

// Len returns the number of values carried by the metric.
func (m Metric) Len() int {
	switch m.Kind {
	case MetricKindFloat:
		return len(m.Floats)
	case MetricKindInteger:
		return len(m.Ints)
	default:
		return len(m.Strings)
	}
}
