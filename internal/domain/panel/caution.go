// Package panel assembles the stock panels shipped with the service.
package panel

import (
	"github.com/okian/cockpit/internal/domain/composite"
	"github.com/okian/cockpit/internal/domain/controls"
	"github.com/okian/cockpit/internal/domain/telemetry"
)

// CautionName names the caution panel composite.
const CautionName = "Caution"

// MasterCaution is the command the panel's reset button presses.
var MasterCaution = telemetry.Command{Device: "Caution", Element: "master caution"}

// cautionLights maps annunciator labels to the interface fields that light
// them, in panel order.
var cautionLights = []struct {
	label string
	field string
}{
	{"FLCS FAULT", "flight control system indicator"},
	{"ENGINE FAULT", "engine fault indticator"},
	{"AVIONICS FAULT", "avionics indicator"},
	{"SEAT NOT ARMED", "seat arm indicator"},
	{"ELEC SYS", "electric bus fail indicator"},
	{"SEC", "second engine compressor indicator"},
	{"EQUIP HOT", "equip hot indicator"},
	{"NWS FAIL", "nws fail indicator"},
	{"PROBE HEAT", "probe heat indicator"},
	{"FUEL OIL HOT", "fuel oil hot indicator"},
	{"RADAR ALT", "radar altimeter indicator"},
	{"ANTI SKID", "anti skid indicator"},
	{"CADC", "cadc indicator"},
	{"IFF", "iff indicator"},
	{"HOOK", "hook indicator"},
	{"STORES CONFIG", "stores config indicator"},
	{"OVERHEAT", "overheat indicator"},
	{"LE FLAPS", "leading edge flaps indicator"},
	{"FUEL LOW", "low fuel indicator"},
	{"OBOGS", "oxygen low indicator"},
	{"ATF NOT ENGAGED", "atf not engaged"},
	{"ECM", "ecm indicator"},
	{"CABIN PRESS", "cabin pressure indicator"},
	{"FWD FUEL LOW", "forward fuel low indicator"},
	{"BUC", "backup fuel control indicator"},
	{"LEF FAULT", "lef fault indicator"},
	{"AFT FUEL LOW", "aft fuel low indicator"},
}

// NewCaution returns the caution panel: one annunciator per caution light,
// default-bound to interfaceName's Caution triggers, and a master caution
// button bound to the MasterCaution command.
func NewCaution(interfaceName string, opts ...composite.Option) *composite.Composite {
	c := composite.New(CautionName, append([]composite.Option{composite.WithDefaultInterface(interfaceName)}, opts...)...)
	for _, l := range cautionLights {
		ind := c.AddIndicator(l.label)
		c.AddDefaultInputBinding(ind.Name(), "Caution."+l.field, controls.ActionSetIndicator)
	}
	c.AddButton("MASTER CAUTION", MasterCaution.Device, MasterCaution.Element)
	return c
}

// Commands returns the commands the stock panels press. The telemetry
// interface must declare them for the button defaults to resolve.
func Commands() []telemetry.Command {
	return []telemetry.Command{MasterCaution}
}
