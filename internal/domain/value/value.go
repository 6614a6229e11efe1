// Package value defines the unit-tagged scalar that flows along bindings.
//
// A Value is exactly one of boolean, numeric or text. The unit tag is
// informative only: nothing here converts between units. Consumers either ask
// for the unit they expect (and get ErrUnitMismatch otherwise) or read the raw
// payload.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind discriminates the payload of a Value.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindNumeric
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "boolean", "bool":
		return KindBoolean, nil
	case "numeric", "number":
		return KindNumeric, nil
	case "text", "string":
		return KindText, nil
	}
	return 0, fmt.Errorf("unknown value kind %q: %w", s, ErrKindMismatch)
}

// Unit tags a Value with the unit its producer documents.
type Unit string

const (
	UnitNone                Unit = ""
	UnitBoolean             Unit = "boolean"
	UnitNumeric             Unit = "numeric"
	UnitText                Unit = "text"
	UnitDegrees             Unit = "degrees"
	UnitRadians             Unit = "radians"
	UnitFeet                Unit = "feet"
	UnitFeetPerMinute       Unit = "feet per minute"
	UnitFeetPerSecond       Unit = "feet per second"
	UnitKnots               Unit = "knots"
	UnitNauticalMiles       Unit = "nautical miles"
	UnitMach                Unit = "mach"
	UnitPounds              Unit = "pounds"
	UnitPoundsPerHour       Unit = "pounds per hour"
	UnitPoundsPerSquareInch Unit = "psi"
	UnitInchesOfMercury     Unit = "inches of mercury"
	UnitPercent             Unit = "percent"
	UnitSeconds             Unit = "seconds"
	UnitCelsius             Unit = "celsius"
	UnitGForce              Unit = "g"
)

// Value is the tagged union carried by trigger firings.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	unit Unit
}

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b, unit: UnitBoolean} }

// Number returns a numeric Value tagged with unit. An empty unit is
// recorded as UnitNumeric (dimensionless).
func Number(n float64, unit Unit) Value {
	if unit == UnitNone {
		unit = UnitNumeric
	}
	return Value{kind: KindNumeric, n: n, unit: unit}
}

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, s: s, unit: UnitText} }

// Kind reports which payload is populated.
func (v Value) Kind() Kind { return v.kind }

// Unit reports the unit tag.
func (v Value) Unit() Unit { return v.unit }

// WithUnit returns a copy of v re-tagged with unit. The payload is untouched.
func (v Value) WithUnit(unit Unit) Value {
	v.unit = unit
	return v
}

// RawBool returns the boolean payload, false for other kinds.
func (v Value) RawBool() bool { return v.b }

// RawNumber returns the numeric payload, 0 for other kinds.
func (v Value) RawNumber() float64 { return v.n }

// RawText returns the text payload, "" for other kinds.
func (v Value) RawText() string { return v.s }

// AsBool returns the payload if v is boolean.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBoolean {
		return false, fmt.Errorf("want boolean, have %s: %w", v.kind, ErrKindMismatch)
	}
	return v.b, nil
}

// AsNumber returns the payload if v is numeric and tagged with unit.
// UnitNone accepts any numeric unit.
func (v Value) AsNumber(unit Unit) (float64, error) {
	if v.kind != KindNumeric {
		return 0, fmt.Errorf("want numeric, have %s: %w", v.kind, ErrKindMismatch)
	}
	if unit != UnitNone && unit != v.unit {
		return 0, fmt.Errorf("want %q, have %q: %w", unit, v.unit, ErrUnitMismatch)
	}
	return v.n, nil
}

// AsText returns the payload if v is text.
func (v Value) AsText() (string, error) {
	if v.kind != KindText {
		return "", fmt.Errorf("want text, have %s: %w", v.kind, ErrKindMismatch)
	}
	return v.s, nil
}

// Equal reports whether kind, payload and unit all match.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.unit != o.unit {
		return false
	}
	switch v.kind {
	case KindBoolean:
		return v.b == o.b
	case KindNumeric:
		return v.n == o.n
	default:
		return v.s == o.s
	}
}

// String renders the payload for logs.
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindNumeric:
		return strconv.FormatFloat(v.n, 'g', -1, 64) + " " + string(v.unit)
	default:
		return strconv.Quote(v.s)
	}
}

type wireValue struct {
	Kind  string          `json:"kind"`
	Unit  Unit            `json:"unit,omitempty"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON renders {"kind":..,"unit":..,"value":..}. NaN and infinite
// numbers render as a null value.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.kind {
	case KindBoolean:
		payload = v.b
	case KindNumeric:
		if !math.IsNaN(v.n) && !math.IsInf(v.n, 0) {
			payload = v.n
		}
	default:
		payload = v.s
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireValue{Kind: v.kind.String(), Unit: v.unit, Value: raw})
}

// UnmarshalJSON accepts the MarshalJSON shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, err := ParseKind(w.Kind)
	if err != nil {
		return err
	}
	switch kind {
	case KindBoolean:
		var b bool
		if err := json.Unmarshal(w.Value, &b); err != nil {
			return fmt.Errorf("boolean payload: %w", err)
		}
		*v = Bool(b)
	case KindNumeric:
		var n float64
		if err := json.Unmarshal(w.Value, &n); err != nil {
			return fmt.Errorf("numeric payload: %w", err)
		}
		*v = Number(n, w.Unit)
	default:
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			return fmt.Errorf("text payload: %w", err)
		}
		*v = Text(s)
	}
	return nil
}
