// Package controls holds the leaf panel components used as binding endpoints.
//
// Each control registers its triggers and actions at construction under its
// own name as the device. Rendering is not modelled; only the state a binding
// can observe or change.
package controls

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/value"
)

// Action and trigger names shared by composites declaring default bindings.
const (
	ActionSetIndicator  = "set.indicator"
	ActionPush          = "push"
	ActionRelease       = "release"
	ActionSetPhysical   = "set.physical state"
	ActionSetText       = "set.TextDisplay"
	ActionSetValue      = "set.value"
	ActionSetPosition   = "set.position"
	TriggerLitChanged   = "lit changed"
	TriggerPushed       = "pushed"
	TriggerReleased     = "released"
	TriggerValueChanged = "value changed"
	TriggerPosChanged   = "position changed"
)

// Resetter is implemented by controls that can return to their initial state.
type Resetter interface {
	Reset(ctx context.Context)
}

type base struct {
	name string
	reg  *capability.Registry
}

func newBase(name string) base {
	return base{name: name, reg: capability.NewRegistry()}
}

// Name returns the control name, which is also its device name.
func (b *base) Name() string { return b.name }

// Capabilities returns the control's registry.
func (b *base) Capabilities() *capability.Registry { return b.reg }

// Indicator is a lamp that is either lit or dark.
type Indicator struct {
	base
	mu         sync.Mutex
	lit        bool
	litChanged *capability.Trigger
}

// NewIndicator builds an indicator named name.
func NewIndicator(name string) *Indicator {
	i := &Indicator{base: newBase(name)}
	i.litChanged = i.reg.MustAddTrigger(name, TriggerLitChanged,
		capability.WithUnit(value.UnitBoolean),
		capability.WithValueDescription("True if the indicator is lit."))
	i.reg.MustAddAction(name, ActionSetIndicator, func(ctx context.Context, v value.Value) error {
		on, err := v.AsBool()
		if err != nil {
			return err
		}
		return i.SetLit(ctx, on)
	}, capability.WithUnit(value.UnitBoolean), capability.WithDescription("Turn the indicator on or off."))
	return i
}

// Lit reports whether the indicator is lit.
func (i *Indicator) Lit() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lit
}

// SetLit changes the lit state and fires "lit changed" when it differs.
func (i *Indicator) SetLit(ctx context.Context, on bool) error {
	i.mu.Lock()
	changed := i.lit != on
	i.lit = on
	i.mu.Unlock()
	if !changed {
		return nil
	}
	return i.litChanged.Fire(ctx, value.Bool(on))
}

// Reset turns the indicator off.
func (i *Indicator) Reset(ctx context.Context) { _ = i.SetLit(ctx, false) }

// PushButton is a momentary button.
type PushButton struct {
	base
	mu        sync.Mutex
	pushed    bool
	onPush    *capability.Trigger
	onRelease *capability.Trigger
}

// NewPushButton builds a button named name.
func NewPushButton(name string) *PushButton {
	b := &PushButton{base: newBase(name)}
	b.onPush = b.reg.MustAddTrigger(name, TriggerPushed, capability.WithDescription("Fired when the button is pushed."))
	b.onRelease = b.reg.MustAddTrigger(name, TriggerReleased, capability.WithDescription("Fired when the button is released."))
	b.reg.MustAddAction(name, ActionPush, func(ctx context.Context, _ value.Value) error {
		return b.Push(ctx)
	}, capability.WithDescription("Push the button."))
	b.reg.MustAddAction(name, ActionRelease, func(ctx context.Context, _ value.Value) error {
		return b.Release(ctx)
	}, capability.WithDescription("Release the button."))
	b.reg.MustAddAction(name, ActionSetPhysical, func(ctx context.Context, v value.Value) error {
		on, err := v.AsBool()
		if err != nil {
			return err
		}
		b.mu.Lock()
		b.pushed = on
		b.mu.Unlock()
		return nil
	}, capability.WithUnit(value.UnitBoolean), capability.WithDescription("Set the button state without firing triggers."))
	return b
}

// Pushed reports the physical state.
func (b *PushButton) Pushed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pushed
}

// Push presses the button and fires "pushed".
func (b *PushButton) Push(ctx context.Context) error {
	b.mu.Lock()
	b.pushed = true
	b.mu.Unlock()
	return b.onPush.Fire(ctx, value.Bool(true))
}

// Release lets the button go and fires "released".
func (b *PushButton) Release(ctx context.Context) error {
	b.mu.Lock()
	b.pushed = false
	b.mu.Unlock()
	return b.onRelease.Fire(ctx, value.Bool(false))
}

// Reset releases the button without firing.
func (b *PushButton) Reset(context.Context) {
	b.mu.Lock()
	b.pushed = false
	b.mu.Unlock()
}

// TextDisplay shows a line of text.
type TextDisplay struct {
	base
	mu   sync.Mutex
	text string
}

// NewTextDisplay builds a text display named name.
func NewTextDisplay(name string) *TextDisplay {
	d := &TextDisplay{base: newBase(name)}
	d.reg.MustAddAction(name, ActionSetText, func(_ context.Context, v value.Value) error {
		switch v.Kind() {
		case value.KindText:
			d.SetText(v.RawText())
		case value.KindNumeric:
			d.SetText(strconv.FormatFloat(v.RawNumber(), 'f', -1, 64))
		default:
			d.SetText(strconv.FormatBool(v.RawBool()))
		}
		return nil
	}, capability.WithUnit(value.UnitText), capability.WithDescription("Set the displayed text."))
	return d
}

// Text returns the displayed text.
func (d *TextDisplay) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// SetText replaces the displayed text.
func (d *TextDisplay) SetText(s string) {
	d.mu.Lock()
	d.text = s
	d.mu.Unlock()
}

// Reset clears the display.
func (d *TextDisplay) Reset(context.Context) { d.SetText("") }

// Potentiometer is a rotary control holding a number in [min, max].
type Potentiometer struct {
	base
	min, max, initial float64
	mu                sync.Mutex
	val               float64
	changed           *capability.Trigger
}

// NewPotentiometer builds a potentiometer named name.
func NewPotentiometer(name string, minValue, maxValue, initial float64) *Potentiometer {
	p := &Potentiometer{base: newBase(name), min: minValue, max: maxValue, initial: initial, val: initial}
	p.changed = p.reg.MustAddTrigger(name, TriggerValueChanged, capability.WithUnit(value.UnitNumeric))
	p.reg.MustAddAction(name, ActionSetValue, func(ctx context.Context, v value.Value) error {
		n, err := v.AsNumber(value.UnitNone)
		if err != nil {
			return err
		}
		return p.SetValue(ctx, n)
	}, capability.WithUnit(value.UnitNumeric), capability.WithDescription("Set the current value."))
	return p
}

// Value returns the current value.
func (p *Potentiometer) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.val
}

// SetValue clamps n to [min, max], stores it, and fires "value changed" when
// it differs from the previous value.
func (p *Potentiometer) SetValue(ctx context.Context, n float64) error {
	if n < p.min {
		n = p.min
	}
	if n > p.max {
		n = p.max
	}
	p.mu.Lock()
	changed := p.val != n
	p.val = n
	p.mu.Unlock()
	if !changed {
		return nil
	}
	return p.changed.Fire(ctx, value.Number(n, value.UnitNumeric))
}

// Reset returns to the initial value.
func (p *Potentiometer) Reset(ctx context.Context) { _ = p.SetValue(ctx, p.initial) }

// ThreeWayToggle is a switch with positions 1, 2 and 3.
type ThreeWayToggle struct {
	base
	mu       sync.Mutex
	position int
	initial  int
	changed  *capability.Trigger
}

// NewThreeWayToggle builds a toggle named name at position initial.
func NewThreeWayToggle(name string, initial int) *ThreeWayToggle {
	if initial < 1 || initial > 3 {
		initial = 2
	}
	t := &ThreeWayToggle{base: newBase(name), position: initial, initial: initial}
	t.changed = t.reg.MustAddTrigger(name, TriggerPosChanged, capability.WithUnit(value.UnitNumeric),
		capability.WithValueDescription("1, 2 or 3."))
	t.reg.MustAddAction(name, ActionSetPosition, func(ctx context.Context, v value.Value) error {
		n, err := v.AsNumber(value.UnitNone)
		if err != nil {
			return err
		}
		return t.SetPosition(ctx, int(n))
	}, capability.WithUnit(value.UnitNumeric), capability.WithDescription("Move the toggle."))
	return t
}

// Position returns the current position.
func (t *ThreeWayToggle) Position() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// SetPosition moves the toggle and fires "position changed" when it moves.
func (t *ThreeWayToggle) SetPosition(ctx context.Context, pos int) error {
	if pos < 1 || pos > 3 {
		return fmt.Errorf("position %d: %w", pos, ErrOutOfRange)
	}
	t.mu.Lock()
	changed := t.position != pos
	t.position = pos
	t.mu.Unlock()
	if !changed {
		return nil
	}
	return t.changed.Fire(ctx, value.Number(float64(pos), value.UnitNumeric))
}

// Reset returns to the initial position.
func (t *ThreeWayToggle) Reset(ctx context.Context) { _ = t.SetPosition(ctx, t.initial) }
