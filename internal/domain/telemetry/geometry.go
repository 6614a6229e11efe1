package telemetry

import "math"

// Conversion constants.
const (
	FeetPerSecondPerKnot = 1.68780986
	FeetPerNauticalMile  = 6076.11549
	DegreesPerRadianRWR  = 57.3
)

// ClampDegrees adds or subtracts whole turns until 0 <= x <= 360. Positive
// multiples of 360 stay at 360; NaN and infinities map to 0.
func ClampDegrees(x float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		return 0
	case x < 0:
		x = math.Mod(x, 360)
		if x < 0 {
			x += 360
		}
		if x == 0 {
			x = 0 // drop the sign of -0
		}
	case x > 360:
		x = math.Mod(x, 360)
		if x == 0 {
			x = 360
		}
	}
	return x
}

// CalculateHSICourseDeviation maps a raw course deviation in degrees to the
// needle deflection of an HSI whose full scale is deviationLimit.
//
// Deflections inside (-1.1, 1.1) pass through. Beyond that the needle pins,
// and deviations near 180 degrees wrap back toward center the way the analog
// gauge does for reverse sensing. A zero or non-finite limit, or a non-finite
// deviation, centers the needle.
func CalculateHSICourseDeviation(deviationLimit, courseDeviation float64) float64 {
	if deviationLimit == 0 || !isFinite(deviationLimit) || !isFinite(courseDeviation) {
		return 0
	}
	var d float64
	if math.Floor(courseDeviation) <= 179 {
		d = math.Mod(courseDeviation, 180) / deviationLimit
	} else {
		d = math.Mod(180-courseDeviation, 180) / deviationLimit
	}

	switch {
	case d > -1.1 && d < 1.1:
		return d
	case d > 1.1 && d < 17:
		return 1
	case d > 17 && d < 18.1:
		return 18 - d
	case d < -16.9:
		return -d - 18
	default:
		return -1
	}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// GroundSpeedInFeetPerSecond returns the planar speed of the velocity
// (xDot, yDot), given in feet per second, divided by feet per second per
// knot. The result is in knots.
func GroundSpeedInFeetPerSecond(xDot, yDot float64) float64 {
	return math.Sqrt(xDot*xDot+yDot*yDot) / FeetPerSecondPerKnot
}

// BullseyeFix is the ownship position relative to the bullseye.
type BullseyeFix struct {
	DeltaX     float64 // feet north of bullseye
	DeltaY     float64 // feet east of bullseye
	Distance   float64 // nautical miles
	Heading    float64 // degrees from bullseye to ownship
	Reciprocal float64 // degrees from ownship to bullseye
}

// OwnshipFromBullseye computes the bullseye-relative fix of ownship.
func OwnshipFromBullseye(ownX, ownY, bullX, bullY float64) BullseyeFix {
	dx := ownX - bullX
	dy := ownY - bullY
	deg := math.Atan2(dy, dx) * 180 / math.Pi
	return BullseyeFix{
		DeltaX:     dx,
		DeltaY:     dy,
		Distance:   math.Hypot(dx, dy) / FeetPerNauticalMile,
		Heading:    ClampDegrees(deg),
		Reciprocal: ClampDegrees(deg + 180),
	}
}

// RoundToNearestTen rounds n half-up to a multiple of ten.
func RoundToNearestTen(n int) int {
	rem := n % 10
	if rem >= 5 {
		return n - rem + 10
	}
	return n - rem
}

// RelativeCourse is ClampDegrees(360 - heading) + course, the course as seen
// on a heading-up instrument.
func RelativeCourse(heading, course float64) float64 {
	return ClampDegrees(360-heading) + course
}
