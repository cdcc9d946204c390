// Package metrics buffers loosely-typed logged values per metric name and
// reconciles each buffered sequence into one typed metric on finalize.
package metrics

import (
	"fmt"
	"reflect"

	"github.com/zeddo123/mlsolid-go/pkg/api"
)

// Accumulator collects raw logged values per metric name. Not safe for
// concurrent use; one run is driven by one logical caller.
type Accumulator struct {
	order []string
	raw   map[string][]any
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{raw: make(map[string][]any)}
}

// Log appends value to the sequence for name, creating the sequence if
// absent. Append order is preserved; nothing is ever overwritten.
func (a *Accumulator) Log(name string, value any) {
	if _, ok := a.raw[name]; !ok {
		a.order = append(a.order, name)
	}
	a.raw[name] = append(a.raw[name], value)
}

// Len returns the number of metric names with at least one logged value.
func (a *Accumulator) Len() int {
	return len(a.order)
}

// Finalize reconciles every name with at least one logged value into a
// single typed metric, in first-log insertion order.
//
// Per name: logged values are flattened one level (a logged slice or
// array is spliced element by element), each flattened element is
// classified as float (any numeric type, integers promoted) or string
// (everything else), and:
//
//   - one distinct kind: the metric has that kind and carries the
//     flattened values;
//   - mixed kinds: the metric is a string metric whose values are the
//     string representation of each ORIGINAL logged call, in call order,
//     not the flattened elements.
func (a *Accumulator) Finalize() []api.Metric {
	out := make([]api.Metric, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, reconcile(name, a.raw[name]))
	}
	return out
}

func reconcile(name string, logged []any) api.Metric {
	flat := flatten(logged)

	kinds := make(map[api.MetricKind]struct{}, 2)
	for _, v := range flat {
		kinds[classify(v)] = struct{}{}
	}

	if len(kinds) > 1 {
		// Mixed-kind fallback: keep the shape of the original log
		// calls as text, not the flattened elements.
		return api.NewStringMetric(name, stringify(logged))
	}

	if _, ok := kinds[api.MetricKindFloat]; ok {
		vals := make([]float64, len(flat))
		for i, v := range flat {
			vals[i] = toFloat(v)
		}
		return api.NewFloatMetric(name, vals)
	}

	// Single string kind, or the (never constructed in practice) empty
	// sequence: carry the flattened values as strings.
	return api.NewStringMetric(name, stringify(flat))
}

// flatten splices one level of sequence nesting: a logged slice or array
// contributes its elements in order; any other value contributes itself.
// Deeper nesting is left alone; inner sequences stay sequence values.
// Strings and byte slices are scalars, never spliced.
func flatten(logged []any) []any {
	flat := make([]any, 0, len(logged))
	for _, v := range logged {
		if _, isBytes := v.([]byte); isBytes {
			flat = append(flat, v)
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := range rv.Len() {
				flat = append(flat, rv.Index(i).Interface())
			}
			continue
		}
		flat = append(flat, v)
	}
	return flat
}

// classify buckets a flattened element. Any integer or float type is a
// float (integers are always promoted; the accumulation path never emits
// integer metrics). Everything else, booleans included, is a string.
func classify(v any) api.MetricKind {
	if v == nil {
		return api.MetricKindString
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return api.MetricKindFloat
	default:
		return api.MetricKindString
	}
}

func toFloat(v any) float64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	default:
		return rv.Float()
	}
}

func stringify(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = fmt.Sprint(v)
	}
	return out
}
