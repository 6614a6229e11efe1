package snapgen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/okian/cockpit/internal/domain/telemetry"
)

const maxContacts = telemetry.MaxRwrObjects

// Flight profile of the synthetic ownship.
const (
	startNorthFeet   = 1_200_000
	startEastFeet    = 900_000
	bullseyeNorth    = 1_250_000
	bullseyeEast     = 950_000
	cruiseAltitude   = 18_000
	cruiseFeetPerSec = 600
	turnDegPerSec    = 1.5
	cruiseKias       = 350
	lightCycleFrames = 50 // frames each caution lamp stays lit
	blinkFrames      = 20 // frames with the marker blink bit set
	secondsPerDay    = 24 * 60 * 60
)

// lampCycle is the order caution lamps light up in.
var lampCycle = []telemetry.LightBits{
	telemetry.FltControlSys,
	telemetry.EngineFault,
	telemetry.Avionics,
	telemetry.Hyd,
	telemetry.FuelLow,
	telemetry.Hook,
	telemetry.IFF,
	telemetry.NWSFail,
}

// Generator produces the region records for successive frames.
type Generator struct {
	interval time.Duration
	start    time.Time
	contacts []contact
}

type contact struct {
	symbol    int32
	bearing   float64 // radians
	drift     float64 // radians per frame
	lethality float32
}

// NewGenerator creates a generator for cfg. The same seed yields the same
// contacts.
func NewGenerator(cfg *Config) *Generator {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // synthetic data
	g := &Generator{interval: cfg.Interval, start: cfg.Start}
	for i := 0; i < cfg.Contacts; i++ {
		g.contacts = append(g.contacts, contact{
			symbol:    int32(1 + rng.IntN(120)),
			bearing:   rng.Float64() * 2 * math.Pi,
			drift:     (rng.Float64() - 0.5) * 0.02,
			lethality: float32(rng.Float64()),
		})
	}
	return g
}

func (g *Generator) elapsed(frame int) float64 {
	return (time.Duration(frame) * g.interval).Seconds()
}

// Heading returns the ownship heading at frame, in degrees.
func (g *Generator) Heading(frame int) float64 {
	return math.Mod(turnDegPerSec*g.elapsed(frame), 360)
}

// Lamp returns the caution lamp lit at frame.
func (g *Generator) Lamp(frame int) telemetry.LightBits {
	return lampCycle[(frame/lightCycleFrames)%len(lampCycle)]
}

// Primary returns the primary region record for frame.
func (g *Generator) Primary(frame int) *telemetry.FlightData {
	fd := &telemetry.FlightData{VersionNum: telemetry.FlightDataVersion}

	heading := g.Heading(frame)
	rad := heading * math.Pi / 180
	t := g.elapsed(frame)

	// Integrate the constant-rate turn so position and velocity agree.
	omega := turnDegPerSec * math.Pi / 180
	fd.X = float32(startNorthFeet + cruiseFeetPerSec/omega*math.Sin(omega*t))
	fd.Y = float32(startEastFeet + cruiseFeetPerSec/omega*(1-math.Cos(omega*t)))
	fd.Z = -cruiseAltitude
	fd.XDot = float32(cruiseFeetPerSec * math.Cos(rad))
	fd.YDot = float32(cruiseFeetPerSec * math.Sin(rad))
	fd.Yaw = float32(rad)
	fd.Roll = float32(0.3)
	fd.Pitch = float32(0.02 * math.Sin(t/10))
	fd.Kias = cruiseKias
	fd.Mach = 0.72
	fd.Vt = cruiseFeetPerSec
	fd.Gs = 1.1
	fd.CurrentHeading = float32(heading)
	fd.DesiredCourse = float32(math.Mod(heading+30, 360))
	fd.CourseDeviation = float32(5 * math.Sin(t/20))
	fd.DeviationLimit = 10
	fd.HalfDeviationLimit = 5
	fd.DistanceToBeacon = float32(40 - math.Mod(t/10, 40))
	fd.BearingToBeacon = float32(math.Mod(heading+45, 360))

	fd.InternalFuel = float32(math.Max(0, 7000-t*2))
	fd.FuelFlow = 3200
	fd.RPM = 88
	fd.FTIT = 7.2
	fd.NozzlePos = 0.1
	fd.OilPressure = 40
	fd.ChaffCount = 60
	fd.FlareCount = 30

	fd.LightBits = g.Lamp(frame)
	if frame%lightCycleFrames < lightCycleFrames/2 {
		fd.LightBits |= telemetry.MasterCaution
	}
	fd.LightBits2 = telemetry.AuxPwr | telemetry.EcmPwr
	fd.HsiBits = telemetry.Flying
	if frame%(2*blinkFrames) < blinkFrames {
		fd.HsiBits |= telemetry.OuterMarker
	}
	fd.MainPower = 2

	fd.SetDEDLine(0, fmt.Sprintf("UHF 251.00  STPT %3d", 1+frame%99))
	fd.SetDEDLine(1, fmt.Sprintf(" HDG %03.0f", heading))
	fd.SetDEDLine(2, fmt.Sprintf(" ALT %5d", cruiseAltitude))

	fd.RwrObjectCount = int32(len(g.contacts))
	for i, c := range g.contacts {
		fd.RWRSymbol[i] = c.symbol
		fd.Bearing[i] = float32(math.Mod(c.bearing+c.drift*float64(frame), 2*math.Pi))
		fd.Lethality[i] = c.lethality
		if i == 0 {
			fd.Selected[i] = 1
		}
		if (frame/lightCycleFrames)%2 == 1 && i == len(g.contacts)-1 {
			fd.MissileActivity[i] = 1
		}
	}
	return fd
}

// Secondary returns the secondary region record for frame.
func (g *Generator) Secondary(frame int) *telemetry.FlightData2 {
	fd2 := &telemetry.FlightData2{VersionNum: telemetry.FlightData2Version}
	fd2.AAUZ = cruiseAltitude
	fd2.AltCalReading = 2992
	fd2.PowerBits = telemetry.BusPowerBattery | telemetry.BusPowerEmergency |
		telemetry.BusPowerEssential | telemetry.BusPowerNonEssential | telemetry.MainGenerator
	if frame%(2*blinkFrames) < blinkFrames {
		fd2.BlinkBits = telemetry.BlinkOuterMarker
	}
	fd2.BullseyeX = bullseyeNorth
	fd2.BullseyeY = bullseyeEast
	fd2.Latitude = 36.2
	fd2.Longitude = 127.5
	fd2.CabinAlt = 8000
	fd2.HydPressureA = 3000
	fd2.HydPressureB = 3000
	fd2.BingoFuel = 2000

	base := g.start
	if base.IsZero() {
		base = time.Date(2000, 1, 1, 10, 0, 0, 0, time.UTC)
	}
	at := base.Add(time.Duration(frame) * g.interval)
	fd2.CurrentTime = int32((at.Hour()*3600 + at.Minute()*60 + at.Second()) % secondsPerDay)
	return fd2
}
