// Package capability holds the named triggers and actions a component exposes.
//
// Capability names are registered eagerly when a component is constructed.
// Other components never hold pointers to them at construction time; the
// binding graph resolves names when wiring.
package capability

import (
	"fmt"
	"strings"
)

// NamedSlot identifies one trigger or one action inside a device namespace.
type NamedSlot struct {
	Device string `json:"device"`
	Name   string `json:"name"`
}

// Slot is shorthand for NamedSlot{Device: device, Name: name}.
func Slot(device, name string) NamedSlot {
	return NamedSlot{Device: device, Name: name}
}

// Key renders the slot as "<device>.<name>". Distinct slots can render to the
// same key when a device or name contains a dot, so indexes use the NamedSlot
// itself.
func (s NamedSlot) Key() string {
	return s.Device + "." + s.Name
}

func (s NamedSlot) String() string { return s.Key() }

// Validate rejects slots with an empty device or name.
func (s NamedSlot) Validate() error {
	if strings.TrimSpace(s.Device) == "" {
		return fmt.Errorf("slot %q: empty device: %w", s.Key(), ErrInvalidSlot)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("slot %q: empty name: %w", s.Key(), ErrInvalidSlot)
	}
	return nil
}
