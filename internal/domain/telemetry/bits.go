package telemetry

// LightBits is the first caution/warning light word.
type LightBits uint32

// Has reports whether every bit of mask is set.
func (b LightBits) Has(mask LightBits) bool { return b&mask == mask }

const (
	MasterCaution LightBits = 0x1
	TF            LightBits = 0x2
	OxyBrow       LightBits = 0x4
	EquipHot      LightBits = 0x8
	OnGroundLB    LightBits = 0x10
	EngFire       LightBits = 0x20
	Config        LightBits = 0x40
	Hyd           LightBits = 0x80
	FlcsABCD      LightBits = 0x100
	Flcs          LightBits = 0x200
	Can           LightBits = 0x400
	TLCfg         LightBits = 0x800
	AOAAbove      LightBits = 0x1000
	AOAOn         LightBits = 0x2000
	AOABelow      LightBits = 0x4000
	RefuelRDY     LightBits = 0x8000
	RefuelAR      LightBits = 0x10000
	RefuelDSC     LightBits = 0x20000
	FltControlSys LightBits = 0x40000
	LEFlaps       LightBits = 0x80000
	EngineFault   LightBits = 0x100000
	Overheat      LightBits = 0x200000
	FuelLow       LightBits = 0x400000
	Avionics      LightBits = 0x800000
	RadarAlt      LightBits = 0x1000000
	IFF           LightBits = 0x2000000
	ECM           LightBits = 0x4000000
	Hook          LightBits = 0x8000000
	NWSFail       LightBits = 0x10000000
	CabinPress    LightBits = 0x20000000
	AutoPilotOn   LightBits = 0x40000000
	TFRStby       LightBits = 0x80000000
)

// LightBits2 is the second light word: threat warning, CMDS, ECM and more.
type LightBits2 uint32

// Has reports whether every bit of mask is set.
func (b LightBits2) Has(mask LightBits2) bool { return b&mask == mask }

const (
	HandOff    LightBits2 = 0x1
	Launch     LightBits2 = 0x2
	PriMode    LightBits2 = 0x4
	Naval      LightBits2 = 0x8
	Unk        LightBits2 = 0x10
	TgtSep     LightBits2 = 0x20
	Go         LightBits2 = 0x40
	NoGo       LightBits2 = 0x80
	Degr       LightBits2 = 0x100
	Rdy        LightBits2 = 0x200
	ChaffLo    LightBits2 = 0x400
	FlareLo    LightBits2 = 0x800
	AuxSrch    LightBits2 = 0x1000
	AuxAct     LightBits2 = 0x2000
	AuxLow     LightBits2 = 0x4000
	AuxPwr     LightBits2 = 0x8000
	EcmPwr     LightBits2 = 0x10000
	EcmFail    LightBits2 = 0x20000
	FwdFuelLow LightBits2 = 0x40000
	AftFuelLow LightBits2 = 0x80000
	EPUOn      LightBits2 = 0x100000
	JFSOn      LightBits2 = 0x200000
	SEC        LightBits2 = 0x400000
	OxyLow     LightBits2 = 0x800000
	ProbeHeat  LightBits2 = 0x1000000
	SeatArm    LightBits2 = 0x2000000
	BUC        LightBits2 = 0x4000000
	FuelOilHot LightBits2 = 0x8000000
	AntiSkid   LightBits2 = 0x10000000
	TFREngaged LightBits2 = 0x20000000
	GearHandle LightBits2 = 0x40000000
	Engine     LightBits2 = 0x80000000
)

// LightBits3 is the third light word: electrical, gear and FLCS.
type LightBits3 uint32

// Has reports whether every bit of mask is set.
func (b LightBits3) Has(mask LightBits3) bool { return b&mask == mask }

const (
	FlcsPmg       LightBits3 = 0x1
	MainGen       LightBits3 = 0x2
	StbyGen       LightBits3 = 0x4
	EpuGen        LightBits3 = 0x8
	EpuPmg        LightBits3 = 0x10
	ToFlcs        LightBits3 = 0x20
	FlcsRly       LightBits3 = 0x40
	BatFail       LightBits3 = 0x80
	Hydrazine     LightBits3 = 0x100
	Air           LightBits3 = 0x200
	ElecFault     LightBits3 = 0x400
	LefFault      LightBits3 = 0x800
	OnGround      LightBits3 = 0x1000
	FlcsBitRun    LightBits3 = 0x2000
	FlcsBitFail   LightBits3 = 0x4000
	DbuWarn       LightBits3 = 0x8000
	NoseGearDown  LightBits3 = 0x10000
	LeftGearDown  LightBits3 = 0x20000
	RightGearDown LightBits3 = 0x40000
	ParkBrakeOn   LightBits3 = 0x100000
	PowerOff      LightBits3 = 0x200000
	Cadc          LightBits3 = 0x400000
	SpeedBrake    LightBits3 = 0x800000
	SysTest       LightBits3 = 0x1000000
	MCAnnounced   LightBits3 = 0x2000000
	MLGWOW        LightBits3 = 0x4000000
	NLGWOW        LightBits3 = 0x8000000
	ATFNotEngaged LightBits3 = 0x10000000
)

// HsiBits carries HSI, ADI and instrument flags.
type HsiBits uint32

// Has reports whether every bit of mask is set.
func (b HsiBits) Has(mask HsiBits) bool { return b&mask == mask }

const (
	ToTrue        HsiBits = 0x1
	IlsWarning    HsiBits = 0x2
	CourseWarning HsiBits = 0x4
	Init          HsiBits = 0x8
	TotalFlags    HsiBits = 0x10
	ADIOff        HsiBits = 0x20
	ADIAux        HsiBits = 0x40
	ADIGS         HsiBits = 0x80
	ADILOC        HsiBits = 0x100
	HSIOff        HsiBits = 0x200
	BUPADIOff     HsiBits = 0x400
	VVI           HsiBits = 0x800
	AOA           HsiBits = 0x1000
	AVTR          HsiBits = 0x2000
	OuterMarker   HsiBits = 0x4000
	MiddleMarker  HsiBits = 0x8000
	FromTrue      HsiBits = 0x10000
	Flying        HsiBits = 0x80000000
)

// BlinkBits says which lit indicators should currently blink.
type BlinkBits uint32

// Has reports whether every bit of mask is set.
func (b BlinkBits) Has(mask BlinkBits) bool { return b&mask == mask }

const (
	BlinkOuterMarker  BlinkBits = 0x1
	BlinkMiddleMarker BlinkBits = 0x2
	BlinkProbeHeat    BlinkBits = 0x4
	BlinkAuxSrch      BlinkBits = 0x8
	BlinkLaunch       BlinkBits = 0x10
	BlinkPriMode      BlinkBits = 0x20
	BlinkUnk          BlinkBits = 0x40
	BlinkElecFault    BlinkBits = 0x80
	BlinkOxyBrow      BlinkBits = 0x100
	BlinkEPUOn        BlinkBits = 0x200
	BlinkJFSOnSlow    BlinkBits = 0x400
	BlinkJFSOnFast    BlinkBits = 0x800
)

// AltBits carries altimeter flags.
type AltBits uint32

// Has reports whether every bit of mask is set.
func (b AltBits) Has(mask AltBits) bool { return b&mask == mask }

const (
	CalType  AltBits = 0x1
	PneuFlag AltBits = 0x2
)

// PowerBits carries electrical bus and generator state.
type PowerBits uint32

// Has reports whether every bit of mask is set.
func (b PowerBits) Has(mask PowerBits) bool { return b&mask == mask }

const (
	BusPowerBattery      PowerBits = 0x1
	BusPowerEmergency    PowerBits = 0x2
	BusPowerEssential    PowerBits = 0x4
	BusPowerNonEssential PowerBits = 0x8
	MainGenerator        PowerBits = 0x10
	StandbyGenerator     PowerBits = 0x20
	JetFuelStarter       PowerBits = 0x40
)

// MiscBits carries miscellaneous flags.
type MiscBits uint32

// Has reports whether every bit of mask is set.
func (b MiscBits) Has(mask MiscBits) bool { return b&mask == mask }

const (
	RALTValid MiscBits = 0x1
)

// TacanBits carries the band and mode of one tacan source.
type TacanBits uint8

// Has reports whether every bit of mask is set.
func (b TacanBits) Has(mask TacanBits) bool { return b&mask == mask }

const (
	TacanBand TacanBits = 0x1
	TacanMode TacanBits = 0x2
)

// Tacan sources, indexes into FlightData2.TacanInfo.
const (
	TacanUFC = 0
	TacanAUX = 1
)
