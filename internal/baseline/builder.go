// Package baseline derives the reference ("typical patient") profile from
// historical cohort data. One representative value is computed per feature
// with type-aware aggregation; features without usable history fall back to
// the embedded defaults.
package baseline

import (
	"math"

	"github.com/montanaflynn/stats"

	"plaquerisk/domain/core"
	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
)

// Builder computes reference profiles for a fixed schema.
type Builder struct {
	schema   feature.Schema
	defaults feature.Profile
}

// NewBuilder creates a builder with the given schema and fallback defaults.
func NewBuilder(schema feature.Schema, defaults feature.Profile) *Builder {
	return &Builder{schema: schema, defaults: defaults}
}

// Build derives one representative value per feature, walking the schema in
// declaration order. Given identical input frames the result is always
// byte-identical: aggregation never iterates a map, and mode ties resolve
// to the first-encountered value.
func (b *Builder) Build(frame *dataset.Frame) feature.Profile {
	values := make(map[string]feature.Value, b.schema.Len())
	for _, field := range b.schema.Fields() {
		values[field.Name] = b.buildFeature(field, frame)
	}
	return feature.NewProfile(b.schema, values)
}

// BuildDefault returns the fallback defaults as a profile. Used when no
// baseline dataset exists at all, degrading to "default == baseline".
func (b *Builder) BuildDefault() feature.Profile {
	return b.defaults
}

func (b *Builder) buildFeature(field feature.Field, frame *dataset.Frame) feature.Value {
	fallback := b.defaults.Value(field.Name)
	if frame == nil {
		return fallback
	}

	column, ok := frame.Column(field.Name)
	if !ok {
		return fallback
	}
	present := dataset.NonMissing(column)
	if len(present) == 0 {
		return fallback
	}

	switch field.Kind {
	case feature.KindBoolean:
		if parsed, ok := feature.ParseBoolean(mode(present)); ok {
			return feature.NewBooleanValue(parsed)
		}
		return fallback
	case feature.KindInteger:
		med, ok := median(present)
		if !ok {
			return fallback
		}
		return feature.NewIntegerValue(int64(math.Round(med)))
	case feature.KindRatio:
		med, ok := median(present)
		if !ok {
			return fallback
		}
		return feature.NewNumericValue(core.Round2(med))
	case feature.KindNumeric:
		med, ok := median(present)
		if !ok {
			return fallback
		}
		return feature.NewNumericValue(core.Round3(med))
	default:
		return mode(present)
	}
}

// median computes the median of the parseable numeric readings.
func median(values []feature.Value) (float64, bool) {
	numeric := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := feature.ParseNumeric(v); ok {
			numeric = append(numeric, f)
		}
	}
	if len(numeric) == 0 {
		return 0, false
	}
	med, err := stats.Median(numeric)
	if err != nil {
		return 0, false
	}
	return med, true
}

// mode returns the most frequent value; on a count tie the value
// encountered first in row order wins. values must be non-empty.
func mode(values []feature.Value) feature.Value {
	type tally struct {
		count int
		first int
		value feature.Value
	}
	counts := make(map[string]*tally, len(values))
	order := make([]string, 0, len(values))
	for i, v := range values {
		key := string(v.Type) + "|" + v.String()
		if t, ok := counts[key]; ok {
			t.count++
			continue
		}
		counts[key] = &tally{count: 1, first: i, value: v}
		order = append(order, key)
	}

	best := counts[order[0]]
	for _, key := range order[1:] {
		t := counts[key]
		if t.count > best.count || (t.count == best.count && t.first < best.first) {
			best = t
		}
	}
	return best.value
}
