// Package transform holds reusable value transforms and filters for bindings.
package transform

import (
	"fmt"
	"math"

	"github.com/okian/cockpit/internal/domain/value"
)

// Func maps a value. It has the shape binding.WithTransform expects.
type Func func(value.Value) (value.Value, error)

// Predicate tests a value. It has the shape binding.WithFilter expects.
type Predicate func(value.Value) bool

// Linear returns v*factor + offset, keeping v's unit.
func Linear(factor, offset float64) Func {
	return func(v value.Value) (value.Value, error) {
		n, err := v.AsNumber(value.UnitNone)
		if err != nil {
			return value.Value{}, err
		}
		return value.Number(n*factor+offset, v.Unit()), nil
	}
}

// Clamp limits a numeric value to [lo, hi].
func Clamp(lo, hi float64) Func {
	return func(v value.Value) (value.Value, error) {
		n, err := v.AsNumber(value.UnitNone)
		if err != nil {
			return value.Value{}, err
		}
		return value.Number(math.Max(lo, math.Min(hi, n)), v.Unit()), nil
	}
}

// Invert negates a boolean value.
func Invert() Func {
	return func(v value.Value) (value.Value, error) {
		b, err := v.AsBool()
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(!b), nil
	}
}

// Threshold turns a number into true when it is at or above limit.
func Threshold(limit float64) Func {
	return func(v value.Value) (value.Value, error) {
		n, err := v.AsNumber(value.UnitNone)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(n >= limit), nil
	}
}

// Format renders a number as text with a fmt verb, e.g. "%05.0f".
func Format(format string) Func {
	return func(v value.Value) (value.Value, error) {
		n, err := v.AsNumber(value.UnitNone)
		if err != nil {
			return value.Value{}, err
		}
		return value.Text(fmt.Sprintf(format, n)), nil
	}
}

// Point is one input/output pair of a Mapping.
type Point struct {
	In  float64
	Out float64
}

// Mapping maps discrete numeric inputs through a table. Inputs not in the
// table pass through unchanged.
func Mapping(points ...Point) Func {
	table := make(map[float64]float64, len(points))
	for _, p := range points {
		table[p.In] = p.Out
	}
	return func(v value.Value) (value.Value, error) {
		n, err := v.AsNumber(value.UnitNone)
		if err != nil {
			return value.Value{}, err
		}
		if out, ok := table[n]; ok {
			return value.Number(out, v.Unit()), nil
		}
		return v, nil
	}
}

// WithUnit retags a value's unit without converting it.
func WithUnit(u value.Unit) Func {
	return func(v value.Value) (value.Value, error) {
		return v.WithUnit(u), nil
	}
}

// Chain applies fns left to right and stops at the first error.
func Chain(fns ...Func) Func {
	return func(v value.Value) (value.Value, error) {
		var err error
		for _, fn := range fns {
			if v, err = fn(v); err != nil {
				return value.Value{}, err
			}
		}
		return v, nil
	}
}

// Equals passes values equal to want.
func Equals(want value.Value) Predicate {
	return func(v value.Value) bool { return v.Equal(want) }
}

// IsTrue passes boolean true.
func IsTrue() Predicate {
	return func(v value.Value) bool {
		b, err := v.AsBool()
		return err == nil && b
	}
}

// IsFalse passes boolean false.
func IsFalse() Predicate {
	return func(v value.Value) bool {
		b, err := v.AsBool()
		return err == nil && !b
	}
}
