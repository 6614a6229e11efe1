package telemetry

import "math"

// RadarSymbol is the RWR symbol code of a contact.
type RadarSymbol int32

// RadarContact is one RWR slot. Slots are overwritten in place every poll.
type RadarContact struct {
	Symbol          RadarSymbol `json:"symbol"`
	Selected        bool        `json:"selected"`
	Bearing         float64     `json:"bearing"`
	RelativeBearing float64     `json:"relative_bearing"`
	Lethality       float64     `json:"lethality"`
	MissileActivity bool        `json:"missile_activity"`
	MissileLaunch   bool        `json:"missile_launch"`
	NewDetection    bool        `json:"new_detection"`
	Visible         bool        `json:"visible"`
}

// Contacts is the fixed RWR contact table.
type Contacts [MaxRwrObjects]RadarContact

// Update overwrites every slot from fd. Bearings are converted to degrees;
// slots at or past RwrObjectCount are marked invisible.
func (c *Contacts) Update(fd *FlightData) {
	heading := float64(fd.CurrentHeading)
	for i := range c {
		slot := &c[i]
		slot.Symbol = RadarSymbol(fd.RWRSymbol[i])
		slot.Selected = fd.Selected[i] > 0
		slot.Bearing = float64(fd.Bearing[i]) * DegreesPerRadianRWR
		slot.RelativeBearing = math.Mod(-heading+slot.Bearing, 360)
		slot.Lethality = float64(fd.Lethality[i])
		slot.MissileActivity = fd.MissileActivity[i] > 0
		slot.MissileLaunch = fd.MissileLaunch[i] > 0
		slot.NewDetection = fd.NewDetection[i] > 0
		slot.Visible = i < int(fd.RwrObjectCount)
	}
}

// Visible returns copies of the visible contacts in slot order.
func (c *Contacts) Visible() []RadarContact {
	out := make([]RadarContact, 0, len(c))
	for _, slot := range c {
		if slot.Visible {
			out = append(out, slot)
		}
	}
	return out
}
