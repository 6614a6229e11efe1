package value_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/cockpit/internal/domain/value"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValueAccessors(t *testing.T) {
	Convey("Given a numeric value tagged in degrees", t, func() {
		v := value.Number(90, value.UnitDegrees)

		Convey("Then asking for degrees returns the payload", func() {
			n, err := v.AsNumber(value.UnitDegrees)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 90)
		})

		Convey("Then asking for feet is a unit mismatch, not a conversion", func() {
			_, err := v.AsNumber(value.UnitFeet)
			So(errors.Is(err, value.ErrUnitMismatch), ShouldBeTrue)
		})

		Convey("Then asking without a unit returns the raw payload", func() {
			n, err := v.AsNumber(value.UnitNone)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 90)
		})

		Convey("Then asking for a boolean is a kind mismatch", func() {
			_, err := v.AsBool()
			So(errors.Is(err, value.ErrKindMismatch), ShouldBeTrue)
		})
	})

	Convey("Given a numeric value without a unit", t, func() {
		v := value.Number(3, value.UnitNone)

		Convey("Then it is tagged dimensionless", func() {
			So(v.Unit(), ShouldEqual, value.UnitNumeric)
		})
	})

	Convey("Given boolean and text values", t, func() {
		b := value.Bool(true)
		s := value.Text("DED")

		Convey("Then their kinds and payloads are reported", func() {
			So(b.Kind(), ShouldEqual, value.KindBoolean)
			So(b.RawBool(), ShouldBeTrue)
			So(s.Kind(), ShouldEqual, value.KindText)
			got, err := s.AsText()
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "DED")
		})

		Convey("Then raw accessors of other kinds return zero values", func() {
			So(b.RawText(), ShouldEqual, "")
			So(s.RawNumber(), ShouldEqual, 0)
		})
	})
}

func TestValueEquality(t *testing.T) {
	Convey("Given two values", t, func() {
		Convey("Then same kind, payload and unit are equal", func() {
			So(value.Number(1, value.UnitFeet).Equal(value.Number(1, value.UnitFeet)), ShouldBeTrue)
		})

		Convey("Then differing units are not equal", func() {
			So(value.Number(1, value.UnitFeet).Equal(value.Number(1, value.UnitDegrees)), ShouldBeFalse)
		})

		Convey("Then re-tagging changes only the unit", func() {
			v := value.Number(5, value.UnitFeet).WithUnit(value.UnitNauticalMiles)
			So(v.Unit(), ShouldEqual, value.UnitNauticalMiles)
			So(v.RawNumber(), ShouldEqual, 5)
		})
	})
}

func TestValueJSON(t *testing.T) {
	Convey("Given a numeric value", t, func() {
		v := value.Number(12.5, value.UnitKnots)

		Convey("When marshaled", func() {
			data, err := json.Marshal(v)
			So(err, ShouldBeNil)

			Convey("Then the wire shape names kind, unit and value", func() {
				So(string(data), ShouldEqual, `{"kind":"numeric","unit":"knots","value":12.5}`)
			})

			Convey("Then it round-trips", func() {
				var back value.Value
				So(json.Unmarshal(data, &back), ShouldBeNil)
				So(back.Equal(v), ShouldBeTrue)
			})
		})
	})

	Convey("Given non-finite numbers", t, func() {
		Convey("Then they marshal with a null value", func() {
			for _, n := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
				data, err := json.Marshal(value.Number(n, value.UnitDegrees))
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"kind":"numeric","unit":"degrees","value":null}`)
			}
		})
	})

	Convey("Given a payload with an unknown kind", t, func() {
		var v value.Value
		err := json.Unmarshal([]byte(`{"kind":"color","value":1}`), &v)
		So(errors.Is(err, value.ErrKindMismatch), ShouldBeTrue)
	})
}
