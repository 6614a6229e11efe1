package telemetry

import (
	"github.com/okian/cockpit/internal/domain/value"
)

// Entry documents one published value. (Category, Field) is the stable key
// consumers bind to; spellings are part of that contract.
type Entry struct {
	Category         string     `json:"category"`
	Field            string     `json:"field"`
	Description      string     `json:"description"`
	ValueDescription string     `json:"value_description,omitempty"`
	Unit             value.Unit `json:"unit"`
}

// Key returns "<Category>.<Field>".
func (e Entry) Key() string { return e.Category + "." + e.Field }

func lamp(category, field, description string) Entry {
	return Entry{category, field, description, "True if lit", value.UnitBoolean}
}

func flag(category, field, description, valueDescription string) Entry {
	return Entry{category, field, description, valueDescription, value.UnitBoolean}
}

func num(category, field, description, valueDescription string, unit value.Unit) Entry {
	return Entry{category, field, description, valueDescription, unit}
}

func text(category, field, description string) Entry {
	return Entry{category, field, description, "", value.UnitText}
}

var catalog = []Entry{
	// Primary region
	num("Altimeter", "altitidue", "Current altitude", "Feet above sea level", value.UnitFeet),
	num("ADI", "pitch", "Current pitch", "", value.UnitRadians),
	num("ADI", "roll", "Current roll", "", value.UnitRadians),
	num("ADI", "ils horizontal", "Position of the horizontal ILS bar", "(-1 to 1)", value.UnitNumeric),
	num("ADI", "ils vertical", "Position of the vertical ILS bar", "(-1 to 1)", value.UnitNumeric),
	num("HSI", "bearing to beacon", "Bearing to the tuned beacon", "", value.UnitDegrees),
	num("HSI", "current heading", "Current heading", "", value.UnitDegrees),
	num("HSI", "desired course", "Selected course", "", value.UnitDegrees),
	num("HSI", "desired heading", "Selected heading", "", value.UnitDegrees),
	num("HSI", "desired course calculated", "Internally calculated value", "360 - current heading + desired course", value.UnitDegrees),
	num("HSI", "desired heading calculated", "Internally calculated value", "360 - current heading + desired heading", value.UnitDegrees),
	num("HSI", "bearing to beacon calculated", "Internally calculated value", "360 - current heading + bearing to beacon", value.UnitDegrees),
	num("HSI", "course deviation", "Course deviation needle position", "(-1 to 1)", value.UnitNumeric),
	num("HSI", "distance to beacon", "Distance to the tuned beacon", "", value.UnitNauticalMiles),
	num("VVI", "vertical velocity", "Current vertical velocity", "", value.UnitFeetPerSecond),
	num("AOA", "angle of attack", "Current angle of attack", "", value.UnitDegrees),
	num("IAS", "mach", "Current mach number", "", value.UnitMach),
	num("IAS", "indicated air speed", "Current indicated air speed", "", value.UnitKnots),
	num("IAS", "true air speed", "Current true air speed", "", value.UnitFeetPerSecond),
	num("General", "Gs", "Current g load", "", value.UnitGForce),
	num("Engine", "nozzle position", "Current engine nozzle.", "Percent open (0-100)", value.UnitPercent),
	num("Fuel", "internal fuel", "Amount of internal fuel", "", value.UnitPounds),
	num("Fuel", "external fuel", "Amount of external fuel", "", value.UnitPounds),
	num("Engine", "fuel flow", "Current fuel flow to the engine.", "", value.UnitPoundsPerHour),
	num("Engine", "rpm", "Current engine rpm.", "Percent (0-103)", value.UnitPercent),
	num("Engine", "ftit", "Current forward turbine inlet temp", "Degrees C", value.UnitCelsius),
	flag("Landging Gear", "position", "Landing gear position", "True if the gear is not fully retracted"),
	num("General", "speed brake position", "Speed brake position", "(0 to 1)", value.UnitNumeric),
	flag("General", "speed brake indicator", "Speed brake indicator", "True if the speed brake is open"),
	num("EPU", "fuel", "EPU fuel remaining", "Percent (0-100)", value.UnitPercent),
	num("Engine", "oil pressure", "Current oil pressure in the engine.", "Percent (0-100)", value.UnitPercent),
	num("CMDS", "chaff remaining", "Number of chaff remaining", "", value.UnitNumeric),
	num("CMDS", "flares remaining", "Number of flares remaining", "", value.UnitNumeric),
	num("Trim", "roll trim", "Roll trim", "(-0.5 to 0.5)", value.UnitNumeric),
	num("Trim", "pitch trim", "Pitch trim", "(-0.5 to 0.5)", value.UnitNumeric),
	num("Trim", "yaw trim", "Yaw trim", "(-0.5 to 0.5)", value.UnitNumeric),
	num("Fuel", "fwd fuel", "Amount of fuel in the fwd tanks", "", value.UnitPounds),
	num("Fuel", "aft fuel", "Amount of fuel in the aft tanks", "", value.UnitPounds),
	num("Fuel", "total fuel", "Amount of total fuel", "", value.UnitPounds),
	num("Tacan", "ufc tacan chan", "Tacan channel set with the UFC.", "", value.UnitNumeric),
	num("Tacan", "aux tacan chan", "Tacan channel set with the AUX COM panel.", "", value.UnitNumeric),
	text("DED", "DED Line 1", "Data entry display line 1"),
	text("DED", "DED Line 2", "Data entry display line 2"),
	text("DED", "DED Line 3", "Data entry display line 3"),
	text("DED", "DED Line 4", "Data entry display line 4"),
	text("DED", "DED Line 5", "Data entry display line 5"),
	num("Ownship", "x", "Ownship North (Ft)", "", value.UnitFeet),
	num("Ownship", "y", "Ownship East (Ft)", "", value.UnitFeet),
	num("Ownship", "ground speed", "Ownship ground speed", "in knots", value.UnitKnots),

	// Secondary region
	num("Altimeter", "indicated altitude", "Current indicated altitude", "", value.UnitFeet),
	num("HSI", "nav mode", "Nav mode currently selected for the HSI/eHSI", "", value.UnitNumeric),
	num("Tacan", "ufc tacan band", "Tacan band set with the UFC.", "1 = X, 2 = Y", value.UnitNumeric),
	num("Tacan", "aux tacan band", "Tacan band set with the AUX COM panel.", "1 = X, 2 = Y", value.UnitNumeric),
	num("Tacan", "ufc tacan mode", "Tacan mode set with the UFC.", "1 = TR, 2 = AA", value.UnitNumeric),
	num("Tacan", "aux tacan mode", "Tacan mode set with the AUX COM panel.", "1 = TR, 2 = AA", value.UnitNumeric),
	num("Engine", "nozzle 2 position", "Current engine nozzle2.", "Percent open (0-100)", value.UnitPercent),
	num("Engine", "rpm2", "Current engine rpm2.", "Percent (0-103)", value.UnitPercent),
	num("Engine", "ftit2", "Current forward turbine inlet temp2", "Degrees C", value.UnitCelsius),
	num("Engine", "oil pressure 2", "Current oil pressure 2 in the engine.", "Percent (0-100)", value.UnitPercent),
	num("Engine", "fuel flow 2", "Current fuel flow to the engine 2.", "", value.UnitPoundsPerHour),
	num("Altimeter", "barimetric pressure", "Altimeter calibration setting", "inHg x100 or hPa", value.UnitNumeric),
	flag("Altimeter", "altimeter calibration type", "", "True if hg otherwise hpa."),
	flag("Altimeter", "altimeter pneu flag", "", "True if visible"),
	flag("POWER", "bus power battery", "at least the battery bus is powered", "True if powered"),
	flag("POWER", "bus power emergency", "at least the emergency bus is powered", "True if powered"),
	flag("POWER", "bus power essential", "at least the essential bus is powered", "True if powered"),
	flag("POWER", "bus power non essential", "at least the non-essential bus is powered", "True if powered"),
	flag("POWER", "main generator", "main generator is online", "True if online"),
	flag("POWER", "standby generator", "standby generator is online", "True if online"),
	flag("POWER", "Jetfuel starter", "JFS is running, can be used for magswitch", "True if running"),
	num("CMDS", "CMDS Mode", "Current CMDS mode", "(0 off, 1 stby, 2 Man, 3 Semi, 4 Auto, 5 BYP)", value.UnitNumeric),
	num("UHF", "Backup channel", "Current Backup UHF channel", "", value.UnitNumeric),
	num("UHF", "Backup frequency", "Current Backup UHF frequency", "", value.UnitNumeric),
	num("UHF", "Backup frequency digit 1", "Current Backup UHF frequency digit 1", "", value.UnitNumeric),
	num("UHF", "Backup frequency digit 2", "Current Backup UHF frequency digit 2", "", value.UnitNumeric),
	num("UHF", "Backup frequency digit 3", "Current Backup UHF frequency digit 3", "", value.UnitNumeric),
	num("UHF", "Backup frequency digit 4", "Current Backup UHF frequency digit 4", "", value.UnitNumeric),
	num("UHF", "Backup frequency digit 5,6", "Current Backup UHF frequency digit 5,6", "", value.UnitNumeric),
	num("Altitude", "Cabin Altitude", "Current cabin altitude", "", value.UnitFeet),
	num("Hydraulic", "Pressure A", "Current hydraulic pressure a", "", value.UnitPoundsPerSquareInch),
	num("Hydraulic", "Pressure B", "Current hydraulic pressure b", "", value.UnitPoundsPerSquareInch),
	num("Time", "Time", "Current time in seconds", "(max 60 * 60 * 24)", value.UnitSeconds),
	num("AV8B", "vtol exhaust angle position", "angle of vtol exhaust", "", value.UnitDegrees),
	num("IFF", "backup mode 1 digit 1", "AUX COMM: Mode 1 left digit", "", value.UnitNumeric),
	num("IFF", "backup mode 1 digit 2", "AUX COMM: Mode 1 right digit", "", value.UnitNumeric),
	num("IFF", "backup mode 3 digit 1", "AUX COMM: Mode 3 left digit", "", value.UnitNumeric),
	num("IFF", "backup mode 3 digit 2", "AUX COMM: Mode 3 right digit", "", value.UnitNumeric),
	text("Altimeter", "radar alt", "radar altitude, feet rounded to ten, empty when invalid"),
	num("Ownship", "latitude", "Ownship latitude", "in degrees (as known by avionics)", value.UnitDegrees),
	num("Ownship", "longitude", "Ownship longitude", "in degrees (as known by avionics)", value.UnitDegrees),

	// HSI bits
	flag("HSI", "to flag", "HSI to flag", "True if displayed"),
	flag("HSI", "from flag", "HSI from flag", "True if displayed"),
	flag("HSI", "ils warning flag", "HSI ILS warning flag", "True if displayed"),
	flag("HSI", "course warning flag", "HSI course warning flag", "True if displayed"),
	flag("HSI", "off flag", "HSI off flag", "True if displayed"),
	flag("HSI", "init flag", "HSI init flag", "True if displayed"),
	flag("ADI", "off flag", "ADI off flag", "True if displayed"),
	flag("ADI", "aux flag", "ADI aux flag", "True if displayed"),
	flag("ADI", "gs flag", "ADI glide slope flag", "True if displayed"),
	flag("ADI", "loc flag", "ADI localizer flag", "True if displayed"),
	flag("Backup ADI", "off flag", "Backup ADI off flag", "True if displayed"),
	flag("VVI", "off flag", "VVI off flag", "True if displayed"),
	flag("AOA", "off flag", "AOA off flag", "True if displayed"),
	lamp("AVTR", "avtr indicator", "Indicates whether the acmi is recording"),
	lamp("HSI", "Outer marker indicator", "Outer marker indicator on HSI"),
	lamp("HSI", "Middle marker indicator", "Middle marker indicator on HSI"),

	// Light bits
	lamp("Left Eyebrow", "master caution indicator", "Master caution indicator"),
	lamp("Left Eyebrow", "tf-fail indicator", "Terrain following fail indicator"),
	lamp("Right Eyebrow", "oxy low indicator", "OXY LOW indicator on right eyebrow"),
	lamp("Right Eyebrow", "engine fire indicator", "Engine fire indicator"),
	lamp("Right Eyebrow", "hydraulic/oil indicator", "Hydraulic/oil indicator"),
	lamp("Right Eyebrow", "canopy indicator", "Canopy indicator"),
	lamp("Right Eyebrow", "takeoff landing config indicator", "Takeoff/landing config indicator"),
	lamp("Right Eyebrow", "flcs indicator", "FLCS Indicator"),
	lamp("Caution", "stores config indicator", "Stores config indicator"),
	lamp("AOA Indexer", "above indicator", "AOA above indicator"),
	lamp("AOA Indexer", "on indicator", "AOA on speed indicator"),
	lamp("AOA Indexer", "below indicator", "AOA below indicator"),
	lamp("Refuel Indexer", "ready indicator", "Refuel ready indicator"),
	lamp("Refuel Indexer", "air/nws indicator", "Refuel air/nws indicator"),
	lamp("Refuel Indexer", "disconnect indicator", "Refuel disconnect indicator"),
	lamp("Caution", "flight control system indicator", "Flight control system indicator"),
	lamp("Caution", "leading edge flaps indicator", "Leading edge flaps indicator"),
	lamp("Caution", "engine fault indticator", "Engine fault indicator"),
	lamp("Caution", "equip hot indicator", "Equip hot indicator on caution panel"),
	lamp("Caution", "overheat indicator", "Overheat indicator"),
	lamp("Caution", "low fuel indicator", "Low fuel indicator"),
	lamp("Caution", "avionics indicator", "Avionics indicator"),
	lamp("Caution", "radar altimeter indicator", "Radar altimeter indicator"),
	lamp("Caution", "iff indicator", "IFF indicator"),
	lamp("Caution", "ecm indicator", "ECM indicator"),
	lamp("Caution", "hook indicator", "Hook indicator"),
	lamp("Caution", "nws fail indicator", "NWS fail indicator"),
	lamp("Caution", "cabin pressure indicator", "Cabin pressure indicator"),
	flag("Autopilot", "on indicator", "Indicates whether the autopilot is on.", "True if on"),
	lamp("Misc", "tfs stanby indicator", "TFR standby indicator"),
	lamp("Test Panel", "FLCS channel lamps", "FLCS channel lamps on test panel (abcd)"),

	// Light bits 2
	lamp("Threat Warning Prime", "handoff indicator", "Handoff indicator"),
	lamp("Threat Warning Prime", "launch indicator", "Launch indicator"),
	lamp("Threat Warning Prime", "prioirty mode indicator", "Priority mode indicator"),
	lamp("Threat Warning Prime", "open mode indicator", "Open mode indicator"),
	lamp("Threat Warning Prime", "naval indicator", "Naval indicator"),
	lamp("Threat Warning Prime", "unknown mode indicator", "Unknown mode indicator"),
	lamp("Threat Warning Prime", "target step indicator", "Target step indicator"),
	lamp("Aux Threat Warning", "search indicator", "Search indicator"),
	lamp("Aux Threat Warning", "activity indicator", "Activity indicator"),
	lamp("Aux Threat Warning", "low altitude indicator", "Low altitude indicator"),
	lamp("Aux Threat Warning", "power indicator", "Power indicator"),
	lamp("CMDS", "Go", "CMDS Go"),
	lamp("CMDS", "NoGo", "CMDS NoGo"),
	lamp("CMDS", "Degr", "CMDS degraded"),
	lamp("CMDS", "Rdy", "CMDS ready"),
	lamp("CMDS", "ChaffLo", "CMDS chaff low"),
	lamp("CMDS", "FlareLo", "CMDS flare low"),
	lamp("ECM", "power indicator", "ECM power indicator"),
	lamp("ECM", "fail indicator", "ECM fail indicator"),
	lamp("Caution", "forward fuel low indicator", "Forward fuel low indicator"),
	lamp("Caution", "aft fuel low indicator", "Aft fuel low indicator"),
	lamp("EPU", "on indicator", "EPU on indicator"),
	lamp("JFS", "run indicator", "JFS run indicator"),
	lamp("Caution", "second engine compressor indicator", "SEC indicator"),
	lamp("Caution", "oxygen low indicator", "Oxygen low indicator"),
	lamp("Caution", "probe heat indicator", "Probe heat indicator"),
	lamp("Caution", "seat arm indicator", "Seat arm indicator"),
	lamp("Caution", "backup fuel control indicator", "Backup fuel control indicator"),
	lamp("Caution", "fuel oil hot indicator", "Fuel oil hot indicator"),
	lamp("Caution", "anti skid indicator", "Anti skid indicator"),
	lamp("Misc", "tfs engaged indicator", "TFR engaged indicator"),
	lamp("Gear Handle", "handle indicator", "Gear handle indicator"),
	lamp("Right Eyebrow", "engine indicator", "Engine indicator"),

	// Light bits 3
	lamp("Electronic", "flcs pmg indicator", "FLCS PMG indicator"),
	lamp("Electronic", "main gen indicator", "Main generator indicator"),
	lamp("Electronic", "standby generator indicator", "Standby generator indicator"),
	lamp("Electronic", "epu gen indicator", "EPU generator indicator"),
	lamp("Electronic", "epu pmg indicator", "EPU PMG indicator"),
	lamp("Electronic", "to flcs indicator", "To FLCS indicator"),
	lamp("Electronic", "flcs rly indicator", "FLCS relay indicator"),
	lamp("Electronic", "bat fail indicator", "Battery fail indicator"),
	lamp("EPU", "hydrazine indicator", "EPU hydrazine indicator"),
	lamp("EPU", "air indicator", "EPU air indicator"),
	lamp("Caution", "electric bus fail indicator", "Electric bus fail indicator"),
	lamp("Caution", "lef fault indicator", "LEF fault indicator"),
	lamp("Caution", "atf not engaged", "ATF NOT ENGAGED Caution Light"),
	flag("General", "on ground", "Indicates weight on wheels.", "True if wheight is on wheels."),
	lamp("Flight Control", "run light", "Run light on the flight control panel indicating bit is running."),
	lamp("Flight Control", "fail light", "Fail light on the flight control panel indicating bit failure."),
	lamp("Right Eyebrow", "dbu on indicator", "DBU Warning light on the right eyebrow."),
	flag("General", "parking brake engaged", "Indicates if the parking brake is engaged.", "True if engaged"),
	lamp("Caution", "cadc indicator", "CADC indicator lamp on the caution panel."),
	flag("General", "speed barke", "Indicates if the speed brake is deployed.", "True if speed breake is in any other position than stowed."),
	lamp("Landing Gear", "nose gear indicator", "Nose gear down indicator"),
	lamp("Landing Gear", "left gear indicator", "Left gear down indicator"),
	lamp("Landing Gear", "right gear indicator", "Right gear down indicator"),
	flag("General", "power off", "Indicates the aircraft is unpowered", "True if off"),
	lamp("Threat Warning Prime", "systest indicator", "Threat warning prime systest indicator"),

	// Bullseye
	num("Ownship", "deltaX from bulls", "Delta from bullseye North (Ft)", "", value.UnitFeet),
	num("Ownship", "deltaY from bulls", "Delta from bullseye East (Ft)", "", value.UnitFeet),
	num("Ownship", "distance from bullseye", "Ownship distance from bullseye", "", value.UnitNauticalMiles),
	num("Ownship", "heading from bullseye", "Ownship heading from bullseye", "", value.UnitDegrees),
	num("Ownship", "heading to bullseye", "Ownship heading to bullseye", "", value.UnitDegrees),
}

var catalogIndex = func() map[string]Entry {
	m := make(map[string]Entry, len(catalog))
	for _, e := range catalog {
		m[e.Key()] = e
	}
	return m
}()

// Catalog returns every published value in declaration order.
func Catalog() []Entry {
	return append([]Entry(nil), catalog...)
}

// Lookup returns the catalog entry for category/field.
func Lookup(category, field string) (Entry, bool) {
	e, ok := catalogIndex[category+"."+field]
	return e, ok
}
