package telemetry

// flagSpec publishes one bit of a flag word as a boolean.
type flagSpec[W ~uint32] struct {
	Category string
	Field    string
	Mask     W
}

// publishFlags publishes every spec, set or not.
func publishFlags[W ~uint32](b *batch, word W, specs []flagSpec[W]) {
	for _, s := range specs {
		b.flag(s.Category, s.Field, word&s.Mask == s.Mask)
	}
}

var lightBitsFlags = []flagSpec[LightBits]{
	{"Left Eyebrow", "master caution indicator", MasterCaution},
	{"Left Eyebrow", "tf-fail indicator", TF},
	{"Right Eyebrow", "oxy low indicator", OxyBrow},
	{"Right Eyebrow", "engine fire indicator", EngFire},
	{"Right Eyebrow", "hydraulic/oil indicator", Hyd},
	{"Right Eyebrow", "canopy indicator", Can},
	{"Right Eyebrow", "takeoff landing config indicator", TLCfg},
	{"Right Eyebrow", "flcs indicator", Flcs},
	{"Caution", "stores config indicator", Config},
	{"AOA Indexer", "above indicator", AOAAbove},
	{"AOA Indexer", "on indicator", AOAOn},
	{"AOA Indexer", "below indicator", AOABelow},
	{"Refuel Indexer", "ready indicator", RefuelRDY},
	{"Refuel Indexer", "air/nws indicator", RefuelAR},
	{"Refuel Indexer", "disconnect indicator", RefuelDSC},
	{"Caution", "flight control system indicator", FltControlSys},
	{"Caution", "leading edge flaps indicator", LEFlaps},
	{"Caution", "engine fault indticator", EngineFault},
	{"Caution", "equip hot indicator", EquipHot},
	{"Caution", "overheat indicator", Overheat},
	{"Caution", "low fuel indicator", FuelLow},
	{"Caution", "avionics indicator", Avionics},
	{"Caution", "radar altimeter indicator", RadarAlt},
	{"Caution", "iff indicator", IFF},
	{"Caution", "ecm indicator", ECM},
	{"Caution", "hook indicator", Hook},
	{"Caution", "nws fail indicator", NWSFail},
	{"Caution", "cabin pressure indicator", CabinPress},
	{"Autopilot", "on indicator", AutoPilotOn},
	{"Misc", "tfs stanby indicator", TFRStby},
	{"Test Panel", "FLCS channel lamps", FlcsABCD},
}

// Launch, priority mode, unknown mode, aux search and probe heat are
// published by the blink stage instead.
var lightBits2Flags = []flagSpec[LightBits2]{
	{"Threat Warning Prime", "handoff indicator", HandOff},
	{"Threat Warning Prime", "naval indicator", Naval},
	{"Threat Warning Prime", "target step indicator", TgtSep},
	{"Aux Threat Warning", "activity indicator", AuxAct},
	{"Aux Threat Warning", "low altitude indicator", AuxLow},
	{"Aux Threat Warning", "power indicator", AuxPwr},
	{"CMDS", "Go", Go},
	{"CMDS", "NoGo", NoGo},
	{"CMDS", "Degr", Degr},
	{"CMDS", "Rdy", Rdy},
	{"CMDS", "ChaffLo", ChaffLo},
	{"CMDS", "FlareLo", FlareLo},
	{"ECM", "power indicator", EcmPwr},
	{"ECM", "fail indicator", EcmFail},
	{"Caution", "forward fuel low indicator", FwdFuelLow},
	{"Caution", "aft fuel low indicator", AftFuelLow},
	{"EPU", "on indicator", EPUOn},
	{"JFS", "run indicator", JFSOn},
	{"Caution", "second engine compressor indicator", SEC},
	{"Caution", "oxygen low indicator", OxyLow},
	{"Caution", "seat arm indicator", SeatArm},
	{"Caution", "backup fuel control indicator", BUC},
	{"Caution", "fuel oil hot indicator", FuelOilHot},
	{"Caution", "anti skid indicator", AntiSkid},
	{"Misc", "tfs engaged indicator", TFREngaged},
	{"Gear Handle", "handle indicator", GearHandle},
	{"Right Eyebrow", "engine indicator", Engine},
}

var lightBits3Flags = []flagSpec[LightBits3]{
	{"Electronic", "flcs pmg indicator", FlcsPmg},
	{"Electronic", "main gen indicator", MainGen},
	{"Electronic", "standby generator indicator", StbyGen},
	{"Electronic", "epu gen indicator", EpuGen},
	{"Electronic", "epu pmg indicator", EpuPmg},
	{"Electronic", "to flcs indicator", ToFlcs},
	{"Electronic", "flcs rly indicator", FlcsRly},
	{"Electronic", "bat fail indicator", BatFail},
	{"EPU", "hydrazine indicator", Hydrazine},
	{"EPU", "air indicator", Air},
	{"Caution", "electric bus fail indicator", ElecFault},
	{"Caution", "lef fault indicator", LefFault},
	{"Caution", "atf not engaged", ATFNotEngaged},
	{"General", "on ground", OnGround},
	{"Flight Control", "run light", FlcsBitRun},
	{"Flight Control", "fail light", FlcsBitFail},
	{"Right Eyebrow", "dbu on indicator", DbuWarn},
	{"General", "parking brake engaged", ParkBrakeOn},
	{"Caution", "cadc indicator", Cadc},
	{"General", "speed barke", SpeedBrake},
	{"Landing Gear", "nose gear indicator", NoseGearDown},
	{"Landing Gear", "left gear indicator", LeftGearDown},
	{"Landing Gear", "right gear indicator", RightGearDown},
	{"General", "power off", PowerOff},
	{"Threat Warning Prime", "systest indicator", SysTest},
}

// The outer and middle markers are published by the blink stage.
var hsiBitsFlags = []flagSpec[HsiBits]{
	{"HSI", "to flag", ToTrue},
	{"HSI", "from flag", FromTrue},
	{"HSI", "ils warning flag", IlsWarning},
	{"HSI", "course warning flag", CourseWarning},
	{"HSI", "off flag", HSIOff},
	{"HSI", "init flag", Init},
	{"ADI", "off flag", ADIOff},
	{"ADI", "aux flag", ADIAux},
	{"ADI", "gs flag", ADIGS},
	{"ADI", "loc flag", ADILOC},
	{"Backup ADI", "off flag", BUPADIOff},
	{"VVI", "off flag", VVI},
	{"AOA", "off flag", AOA},
	{"AVTR", "avtr indicator", AVTR},
}

func publishLightBits(b *batch, bits LightBits) { publishFlags(b, bits, lightBitsFlags) }

func publishLightBits3(b *batch, bits LightBits3) { publishFlags(b, bits, lightBits3Flags) }

func publishHsiBits(b *batch, bits HsiBits) { publishFlags(b, bits, hsiBitsFlags) }

func publishLightBits2(b *batch, bits LightBits2) {
	publishFlags(b, bits, lightBits2Flags)
	b.flag("Threat Warning Prime", "open mode indicator", bits.Has(AuxPwr) && !bits.Has(PriMode))
}

// blinkIndicator is a lamp whose published state comes from a blink machine.
type blinkIndicator struct {
	Category string
	Field    string
	active   func(*FlightData) bool
	blink    BlinkBits
}

// Key returns "<Category>.<Field>", the blink state name.
func (i blinkIndicator) Key() string { return i.Category + "." + i.Field }

var blinkingIndicators = []blinkIndicator{
	{"HSI", "Outer marker indicator", func(fd *FlightData) bool { return fd.HsiBits.Has(OuterMarker) }, BlinkOuterMarker},
	{"HSI", "Middle marker indicator", func(fd *FlightData) bool { return fd.HsiBits.Has(MiddleMarker) }, BlinkMiddleMarker},
	{"Caution", "probe heat indicator", func(fd *FlightData) bool { return fd.LightBits2.Has(ProbeHeat) }, BlinkProbeHeat},
	{"Aux Threat Warning", "search indicator", func(fd *FlightData) bool { return fd.LightBits2.Has(AuxSrch) }, BlinkAuxSrch},
	{"Threat Warning Prime", "launch indicator", func(fd *FlightData) bool { return fd.LightBits2.Has(Launch) }, BlinkLaunch},
	{"Threat Warning Prime", "prioirty mode indicator", func(fd *FlightData) bool { return fd.LightBits2.Has(PriMode) }, BlinkPriMode},
	{"Threat Warning Prime", "unknown mode indicator", func(fd *FlightData) bool { return fd.LightBits2.Has(Unk) }, BlinkUnk},
}

// BlinkingIndicators returns the "<Category>.<Field>" keys of the lamps
// driven by blink machines.
func BlinkingIndicators() []string {
	out := make([]string, len(blinkingIndicators))
	for i, ind := range blinkingIndicators {
		out[i] = ind.Key()
	}
	return out
}
