package telemetry

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Fixed sizes of the layouts.
const (
	MaxRwrObjects = 40
	DEDLines      = 5
	DEDLineLength = 26
	PFLLines      = 5
	PFLLineLength = 26
	RwrInfoSize   = 512
)

// Layout versions these records describe. A record reporting an older
// VersionNum is rejected.
const (
	FlightDataVersion  = 118
	FlightData2Version = 19
)

// FlightData is the primary region ("FalconSharedMemoryArea"). Records are
// packed little-endian with no padding between fields.
type FlightData struct {
	X     float32 // ownship north, feet
	Y     float32 // ownship east, feet
	Z     float32 // ownship down, feet
	XDot  float32 // feet per second
	YDot  float32
	ZDot  float32
	Alpha float32 // degrees
	Beta  float32
	Gamma float32
	Pitch float32 // radians
	Roll  float32
	Yaw   float32
	Mach  float32
	Kias  float32 // knots
	Vt    float32 // true air speed, feet per second
	Gs    float32
	Wind  float32

	NozzlePos    float32 // 0-1
	InternalFuel float32
	ExternalFuel float32
	FuelFlow     float32
	RPM          float32
	FTIT         float32 // hundreds of degrees C
	GearPos      float32
	SpeedBrake   float32 // 0-1
	EPUFuel      float32
	OilPressure  float32
	LightBits    LightBits

	HeadPitch float32
	HeadRoll  float32
	HeadYaw   float32

	LightBits2 LightBits2
	LightBits3 LightBits3

	ChaffCount   float32
	FlareCount   float32
	NoseGearPos  float32
	LeftGearPos  float32
	RightGearPos float32

	AdiIlsHorPos float32
	AdiIlsVerPos float32

	CourseState  int32
	HeadingState int32
	TotalStates  int32

	CourseDeviation    float32
	DesiredCourse      float32
	DistanceToBeacon   float32
	BearingToBeacon    float32
	CurrentHeading     float32
	DesiredHeading     float32
	DeviationLimit     float32
	HalfDeviationLimit float32
	LocalizerCourse    float32
	AirbaseX           float32
	AirbaseY           float32
	TotalValues        float32

	TrimPitch float32
	TrimRoll  float32
	TrimYaw   float32

	HsiBits HsiBits

	DED       [DEDLines * DEDLineLength]byte
	DEDInvert [DEDLines * DEDLineLength]byte
	PFL       [PFLLines * PFLLineLength]byte
	PFLInvert [PFLLines * PFLLineLength]byte

	UFCTChan int32
	AUXTChan int32

	RwrObjectCount  int32
	RWRSymbol       [MaxRwrObjects]int32
	Bearing         [MaxRwrObjects]float32 // radians
	MissileActivity [MaxRwrObjects]uint32
	MissileLaunch   [MaxRwrObjects]uint32
	Selected        [MaxRwrObjects]uint32
	Lethality       [MaxRwrObjects]float32
	NewDetection    [MaxRwrObjects]uint32

	Fwd   float32
	Aft   float32
	Total float32

	VersionNum int32

	HeadX float32
	HeadY float32
	HeadZ float32

	MainPower int32
}

// FlightData2 is the secondary region ("FalconSharedMemoryArea2").
type FlightData2 struct {
	NozzlePos2   float32
	RPM2         float32
	FTIT2        float32
	OilPressure2 float32

	NavMode   uint8
	AAUZ      float32 // indicated altitude, feet
	TacanInfo [2]TacanBits

	AltCalReading int32
	AltBits       AltBits
	PowerBits     PowerBits
	BlinkBits     BlinkBits

	CMDSMode     int32
	BupUhfPreset int32
	BupUhfFreq   int32

	CabinAlt     float32
	HydPressureA float32
	HydPressureB float32
	CurrentTime  int32 // seconds since midnight
	VehicleACD   int16

	VersionNum int32

	FuelFlow2 float32
	RwrInfo   [RwrInfoSize]byte
	LefPos    float32
	TefPos    float32
	VtolPos   float32

	Latitude  float32
	Longitude float32

	IffBackupMode1Digit1  int8
	IffBackupMode1Digit2  int8
	IffBackupMode3ADigit1 int8
	IffBackupMode3ADigit2 int8

	InstrLight uint8
	BettyBits  uint32
	MiscBits   MiscBits
	RALT       float32 // feet
	BingoFuel  float32
	CaraAlow   float32
	BullseyeX  float32
	BullseyeY  float32
}

// FlightDataSize and FlightData2Size are the encoded record sizes.
var (
	FlightDataSize  = binary.Size(FlightData{})
	FlightData2Size = binary.Size(FlightData2{})
)

// DecodeFlightData decodes a primary region snapshot. Trailing bytes beyond
// the record are ignored so newer, larger layouts still decode.
func DecodeFlightData(buf []byte) (FlightData, error) {
	var fd FlightData
	if err := decode(buf, FlightDataSize, &fd); err != nil {
		return FlightData{}, err
	}
	if fd.VersionNum < FlightDataVersion {
		return FlightData{}, fmt.Errorf("flight data version %d below %d: %w", fd.VersionNum, FlightDataVersion, ErrDecodeMismatch)
	}
	return fd, nil
}

// DecodeFlightData2 decodes a secondary region snapshot.
func DecodeFlightData2(buf []byte) (FlightData2, error) {
	var fd FlightData2
	if err := decode(buf, FlightData2Size, &fd); err != nil {
		return FlightData2{}, err
	}
	if fd.VersionNum < FlightData2Version {
		return FlightData2{}, fmt.Errorf("flight data 2 version %d below %d: %w", fd.VersionNum, FlightData2Version, ErrDecodeMismatch)
	}
	return fd, nil
}

func decode(buf []byte, size int, into any) error {
	if len(buf) < size {
		return fmt.Errorf("have %d bytes, want %d: %w", len(buf), size, ErrDecodeMismatch)
	}
	if err := binary.Read(bytes.NewReader(buf[:size]), binary.LittleEndian, into); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeMismatch, err)
	}
	return nil
}

// MarshalBinary encodes fd in the region layout.
func (fd *FlightData) MarshalBinary() ([]byte, error) {
	return encode(fd, FlightDataSize)
}

// MarshalBinary encodes fd in the region layout.
func (fd *FlightData2) MarshalBinary() ([]byte, error) {
	return encode(fd, FlightData2Size)
}

func encode(v any, size int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(size)
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SetDEDLine writes s into line (0-4) of the DED, padding with spaces.
func (fd *FlightData) SetDEDLine(line int, s string) {
	if line < 0 || line >= DEDLines {
		return
	}
	row := fd.DED[line*DEDLineLength : (line+1)*DEDLineLength]
	for i := range row {
		row[i] = ' '
	}
	copy(row, s)
}
