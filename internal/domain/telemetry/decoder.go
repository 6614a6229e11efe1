package telemetry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/okian/cockpit/internal/domain/blink"
	"github.com/okian/cockpit/internal/domain/value"
	"github.com/okian/cockpit/pkg/clock"
	"github.com/okian/cockpit/pkg/logger"
	"github.com/okian/cockpit/pkg/metrics"
)

// Decoder polls the two snapshot regions and publishes derived values.
//
// Poll is meant to be driven by a single loop. The mutex only guards the
// accessors used by other goroutines (contacts, readiness).
type Decoder struct {
	primary   Source
	secondary Source
	pub       Publisher
	log       logger.Logger
	clock     clock.Clock
	blinks    *blink.Bank

	mu            sync.RWMutex
	primaryOpen   bool
	secondaryOpen bool
	fd            FlightData
	fd2           FlightData2
	haveFD        bool
	haveFD2       bool
	contacts      Contacts
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) DecoderOption {
	return func(d *Decoder) {
		if l != nil {
			d.log = l
		}
	}
}

// WithClock sets the clock blink timers read.
func WithClock(c clock.Clock) DecoderOption {
	return func(d *Decoder) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithBlinkBank sets the blink state store.
func WithBlinkBank(b *blink.Bank) DecoderOption {
	return func(d *Decoder) {
		if b != nil {
			d.blinks = b
		}
	}
}

// NewDecoder returns a decoder reading primary (FlightData) and secondary
// (FlightData2) and publishing to pub. Either source may be nil, in which
// case that region is never available.
func NewDecoder(primary, secondary Source, pub Publisher, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		primary:   primary,
		secondary: secondary,
		pub:       pub,
		clock:     clock.Real(),
		blinks:    blink.NewBank(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logger.Get().Named("decoder")
	}
	return d
}

// Open opens both sources. A region that fails to open stays unavailable;
// the failures are returned joined and wrap ErrTransportFailure. Calling Open
// again retries only the regions that are not open.
func (d *Decoder) Open(ctx context.Context) error {
	d.mu.RLock()
	p, s := d.primaryOpen, d.secondaryOpen
	d.mu.RUnlock()

	var errs []error
	open := func(already bool, src Source, region string) bool {
		if already {
			return true
		}
		if src == nil {
			return false
		}
		if err := src.Open(ctx); err != nil {
			metrics.RecordTransportFailure(region, "open")
			d.log.Error(ctx, "cannot open region", logger.String("region", region), logger.Error(err))
			errs = append(errs, fmt.Errorf("open %s region: %w: %w", region, ErrTransportFailure, err))
			return false
		}
		d.log.Info(ctx, "region open", logger.String("region", region))
		return true
	}
	p = open(p, d.primary, RegionPrimary)
	s = open(s, d.secondary, RegionSecondary)

	d.mu.Lock()
	d.primaryOpen, d.secondaryOpen = p, s
	d.mu.Unlock()
	return errors.Join(errs...)
}

// Opened reports which regions are open.
func (d *Decoder) Opened() (primary, secondary bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.primaryOpen, d.secondaryOpen
}

// Close closes every open source. It is safe to call more than once.
func (d *Decoder) Close() error {
	d.mu.Lock()
	p, s := d.primaryOpen, d.secondaryOpen
	d.primaryOpen, d.secondaryOpen = false, false
	d.mu.Unlock()

	var errs []error
	closeRegion := func(open bool, src Source, region string) {
		if !open {
			return
		}
		if err := src.Close(); err != nil {
			metrics.RecordTransportFailure(region, "close")
			errs = append(errs, fmt.Errorf("close %s region: %w: %w", region, ErrTransportFailure, err))
		}
	}
	closeRegion(p, d.primary, RegionPrimary)
	closeRegion(s, d.secondary, RegionSecondary)
	return errors.Join(errs...)
}

// Ready reports whether each region has decoded at least once.
func (d *Decoder) Ready() (primary, secondary bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.haveFD, d.haveFD2
}

// FlightData returns the last good primary record, or ErrRegionUnavailable.
func (d *Decoder) FlightData() (FlightData, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.haveFD {
		return FlightData{}, ErrRegionUnavailable
	}
	return d.fd, nil
}

// FlightData2 returns the last good secondary record, or ErrRegionUnavailable.
func (d *Decoder) FlightData2() (FlightData2, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.haveFD2 {
		return FlightData2{}, ErrRegionUnavailable
	}
	return d.fd2, nil
}

// Contacts returns the visible RWR contacts.
func (d *Decoder) Contacts() []RadarContact {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.contacts.Visible()
}

// Poll samples both regions once and publishes everything derivable from
// the records available. Stages run in order: region decode and simple
// values, then flag fan-out, then blink evaluation, then bullseye geometry.
func (d *Decoder) Poll(ctx context.Context) PollResult {
	start := d.clock.Now()
	b := &batch{ctx: ctx, pub: d.pub}

	d.mu.Lock()
	primaryOpen, secondaryOpen := d.primaryOpen, d.secondaryOpen
	d.mu.Unlock()

	var res PollResult
	res.Primary = d.readRegion(ctx, d.primary, primaryOpen, RegionPrimary, func(buf []byte) error {
		fd, err := DecodeFlightData(buf)
		if err != nil {
			return err
		}
		d.mu.Lock()
		d.fd, d.haveFD = fd, true
		d.contacts.Update(&d.fd)
		d.mu.Unlock()
		return nil
	})
	if res.Primary == StatusUpdated {
		publishPrimary(b, &d.fd)
	}

	res.Secondary = d.readRegion(ctx, d.secondary, secondaryOpen, RegionSecondary, func(buf []byte) error {
		fd2, err := DecodeFlightData2(buf)
		if err != nil {
			return err
		}
		d.mu.Lock()
		d.fd2, d.haveFD2 = fd2, true
		d.mu.Unlock()
		return nil
	})
	if res.Secondary == StatusUpdated {
		publishSecondary(b, &d.fd2)
	}

	if res.Primary == StatusUpdated || res.Secondary == StatusUpdated {
		d.publishDerived(b)
	}

	res.Published = b.n
	res.Err = errors.Join(b.errs...)
	if res.Err != nil {
		d.log.Warn(ctx, "publication errors",
			logger.Int("count", len(b.errs)), logger.Error(b.errs[0]))
	}
	metrics.RecordValuesPublished(b.n)
	metrics.RecordPoll(float64(d.clock.Now().Sub(start).Microseconds()) / 1000)
	return res
}

func (d *Decoder) readRegion(ctx context.Context, src Source, open bool, region string, decode func([]byte) error) RegionStatus {
	if !open || src == nil || !src.DataAvailable() {
		metrics.RecordRegionUnavailable(region)
		return StatusUnavailable
	}
	buf, err := src.ReadSnapshot()
	if err != nil {
		metrics.RecordTransportFailure(region, "read")
		d.log.Warn(ctx, "cannot read region", logger.String("region", region), logger.Error(err))
		return StatusReadFailed
	}
	if err := decode(buf); err != nil {
		metrics.RecordDecodeMismatch(region)
		d.log.Warn(ctx, "region layout mismatch, keeping last good values",
			logger.String("region", region), logger.Error(err))
		return StatusMismatch
	}
	metrics.RecordRegionDecode(region)
	return StatusUpdated
}

// publishDerived fans out flag words and evaluates blink machines and the
// bullseye. Parts needing a region that never decoded are skipped.
func (d *Decoder) publishDerived(b *batch) {
	if !d.haveFD {
		return
	}
	fd := &d.fd
	publishLightBits(b, fd.LightBits)
	publishLightBits3(b, fd.LightBits3)
	publishHsiBits(b, fd.HsiBits)
	if !d.haveFD2 {
		return
	}
	fd2 := &d.fd2
	publishLightBits2(b, fd.LightBits2)

	now := d.clock.Now()
	for _, ind := range blinkingIndicators {
		on, toggled := d.blinks.Evaluate(ind.Key(), ind.active(fd), fd2.BlinkBits.Has(ind.blink), blink.Slow, now)
		if toggled {
			metrics.RecordBlinkToggle(ind.Key())
		}
		b.flag(ind.Category, ind.Field, on)
	}

	publishBullseye(b, OwnshipFromBullseye(float64(fd.X), float64(fd.Y), float64(fd2.BullseyeX), float64(fd2.BullseyeY)))
}

// batch collects the publications of one poll.
type batch struct {
	ctx  context.Context
	pub  Publisher
	n    int
	errs []error
}

func (b *batch) emit(category, field string, v value.Value) {
	b.n++
	if b.pub == nil {
		return
	}
	if err := b.pub.Publish(b.ctx, category, field, v); err != nil {
		b.errs = append(b.errs, fmt.Errorf("%s.%s: %w", category, field, err))
	}
}

func (b *batch) num(category, field string, n float64) {
	unit := value.UnitNumeric
	if e, ok := Lookup(category, field); ok {
		unit = e.Unit
	}
	b.emit(category, field, value.Number(n, unit))
}

func (b *batch) flag(category, field string, on bool) {
	b.emit(category, field, value.Bool(on))
}

func (b *batch) text(category, field, s string) {
	b.emit(category, field, value.Text(s))
}

func publishPrimary(b *batch, fd *FlightData) {
	heading := float64(fd.CurrentHeading)

	b.num("Altimeter", "altitidue", math.Abs(float64(fd.Z)))
	b.num("ADI", "pitch", float64(fd.Pitch))
	b.num("ADI", "roll", float64(fd.Roll))
	b.num("ADI", "ils horizontal", float64(fd.AdiIlsHorPos/2.5-1))
	b.num("ADI", "ils vertical", float64(fd.AdiIlsVerPos*2-1))
	b.num("HSI", "bearing to beacon", float64(fd.BearingToBeacon))
	b.num("HSI", "current heading", heading)
	b.num("HSI", "desired course", float64(fd.DesiredCourse))
	b.num("HSI", "desired heading", float64(fd.DesiredHeading))
	b.num("HSI", "desired course calculated", RelativeCourse(heading, float64(fd.DesiredCourse)))
	b.num("HSI", "desired heading calculated", RelativeCourse(heading, float64(fd.DesiredHeading)))
	b.num("HSI", "bearing to beacon calculated", RelativeCourse(heading, float64(fd.BearingToBeacon)))
	b.num("HSI", "course deviation", CalculateHSICourseDeviation(float64(fd.DeviationLimit), float64(fd.CourseDeviation)))
	b.num("HSI", "distance to beacon", float64(fd.DistanceToBeacon))
	b.num("VVI", "vertical velocity", float64(fd.ZDot))
	b.num("AOA", "angle of attack", float64(fd.Alpha))
	b.num("IAS", "mach", float64(fd.Mach))
	b.num("IAS", "indicated air speed", float64(fd.Kias))
	b.num("IAS", "true air speed", float64(fd.Vt))

	b.num("General", "Gs", float64(fd.Gs))
	b.num("Engine", "nozzle position", float64(fd.NozzlePos*100))
	b.num("Fuel", "internal fuel", float64(fd.InternalFuel))
	b.num("Fuel", "external fuel", float64(fd.ExternalFuel))
	b.num("Engine", "fuel flow", float64(fd.FuelFlow))
	b.num("Engine", "rpm", float64(fd.RPM))
	b.num("Engine", "ftit", float64(fd.FTIT*100))
	b.flag("Landging Gear", "position", fd.GearPos != 0)
	b.num("General", "speed brake position", float64(fd.SpeedBrake))
	b.flag("General", "speed brake indicator", fd.SpeedBrake > 0)
	b.num("EPU", "fuel", float64(fd.EPUFuel))
	b.num("Engine", "oil pressure", float64(fd.OilPressure))

	b.num("CMDS", "chaff remaining", float64(fd.ChaffCount))
	b.num("CMDS", "flares remaining", float64(fd.FlareCount))

	b.num("Trim", "roll trim", float64(fd.TrimRoll))
	b.num("Trim", "pitch trim", float64(fd.TrimPitch))
	b.num("Trim", "yaw trim", float64(fd.TrimYaw))

	b.num("Fuel", "fwd fuel", float64(fd.Fwd))
	b.num("Fuel", "aft fuel", float64(fd.Aft))
	b.num("Fuel", "total fuel", float64(fd.Total))

	b.num("Tacan", "ufc tacan chan", float64(fd.UFCTChan))
	b.num("Tacan", "aux tacan chan", float64(fd.AUXTChan))

	for line := 0; line < DEDLines; line++ {
		b.text("DED", "DED Line "+strconv.Itoa(line+1), DecodeUserInterfaceText(fd.DED[:], line*DEDLineLength, DEDLineLength))
	}

	b.num("Ownship", "x", float64(fd.X))
	b.num("Ownship", "y", float64(fd.Y))
	b.num("Ownship", "ground speed", GroundSpeedInFeetPerSecond(float64(fd.XDot), float64(fd.YDot)))
}

func publishSecondary(b *batch, fd2 *FlightData2) {
	b.num("Altimeter", "indicated altitude", math.Abs(float64(fd2.AAUZ)))
	b.num("HSI", "nav mode", float64(fd2.NavMode))
	tacanBand := func(t TacanBits) float64 {
		if t.Has(TacanBand) {
			return 1
		}
		return 2
	}
	tacanMode := func(t TacanBits) float64 {
		if t.Has(TacanMode) {
			return 2
		}
		return 1
	}
	b.num("Tacan", "ufc tacan band", tacanBand(fd2.TacanInfo[TacanUFC]))
	b.num("Tacan", "ufc tacan mode", tacanMode(fd2.TacanInfo[TacanUFC]))
	b.num("Tacan", "aux tacan band", tacanBand(fd2.TacanInfo[TacanAUX]))
	b.num("Tacan", "aux tacan mode", tacanMode(fd2.TacanInfo[TacanAUX]))

	b.num("Engine", "nozzle 2 position", float64(fd2.NozzlePos2*100))
	b.num("Engine", "rpm2", float64(fd2.RPM2))
	b.num("Engine", "ftit2", float64(fd2.FTIT2*100))
	b.num("Engine", "oil pressure 2", float64(fd2.OilPressure2))
	b.num("Engine", "fuel flow 2", float64(fd2.FuelFlow2))
	b.num("Altimeter", "barimetric pressure", float64(fd2.AltCalReading))

	b.flag("Altimeter", "altimeter calibration type", fd2.AltBits.Has(CalType))
	b.flag("Altimeter", "altimeter pneu flag", fd2.AltBits.Has(PneuFlag))

	b.flag("POWER", "bus power battery", fd2.PowerBits.Has(BusPowerBattery))
	b.flag("POWER", "bus power emergency", fd2.PowerBits.Has(BusPowerEmergency))
	b.flag("POWER", "bus power essential", fd2.PowerBits.Has(BusPowerEssential))
	b.flag("POWER", "bus power non essential", fd2.PowerBits.Has(BusPowerNonEssential))
	b.flag("POWER", "main generator", fd2.PowerBits.Has(MainGenerator))
	b.flag("POWER", "standby generator", fd2.PowerBits.Has(StandbyGenerator))
	b.flag("POWER", "Jetfuel starter", fd2.PowerBits.Has(JetFuelStarter))

	freq := fd2.BupUhfFreq
	b.num("CMDS", "CMDS Mode", float64(fd2.CMDSMode))
	b.num("UHF", "Backup channel", float64(fd2.BupUhfPreset))
	b.num("UHF", "Backup frequency", float64(freq))
	b.num("UHF", "Backup frequency digit 1", float64(freq/100000%10))
	b.num("UHF", "Backup frequency digit 2", float64(freq/10000%10))
	b.num("UHF", "Backup frequency digit 3", float64(freq/1000%10))
	b.num("UHF", "Backup frequency digit 4", float64(freq/100%10))
	b.num("UHF", "Backup frequency digit 5,6", float64(freq%100))
	b.num("Altitude", "Cabin Altitude", float64(fd2.CabinAlt))
	b.num("Hydraulic", "Pressure A", float64(fd2.HydPressureA))
	b.num("Hydraulic", "Pressure B", float64(fd2.HydPressureB))
	b.num("Time", "Time", float64(fd2.CurrentTime))

	b.num("AV8B", "vtol exhaust angle position", float64(fd2.VtolPos))

	b.num("IFF", "backup mode 1 digit 1", float64(fd2.IffBackupMode1Digit1))
	b.num("IFF", "backup mode 1 digit 2", float64(fd2.IffBackupMode1Digit2))
	b.num("IFF", "backup mode 3 digit 1", float64(fd2.IffBackupMode3ADigit1))
	b.num("IFF", "backup mode 3 digit 2", float64(fd2.IffBackupMode3ADigit2))

	b.text("Altimeter", "radar alt", RadarAltitudeText(fd2.MiscBits, fd2.RALT))

	b.num("Ownship", "latitude", float64(fd2.Latitude))
	b.num("Ownship", "longitude", float64(fd2.Longitude))
}

// RadarAltitudeText renders the radar altitude rounded to ten feet, or ""
// when the radar altimeter has no valid reading.
func RadarAltitudeText(bits MiscBits, ralt float32) string {
	if !bits.Has(RALTValid) {
		return ""
	}
	return strconv.Itoa(RoundToNearestTen(int(math.Abs(float64(ralt)))))
}

func publishBullseye(b *batch, fix BullseyeFix) {
	b.num("Ownship", "deltaX from bulls", fix.DeltaX)
	b.num("Ownship", "deltaY from bulls", fix.DeltaY)
	b.num("Ownship", "distance from bullseye", math.Abs(fix.Distance))
	b.num("Ownship", "heading from bullseye", fix.Heading)
	b.num("Ownship", "heading to bullseye", fix.Reciprocal)
}
