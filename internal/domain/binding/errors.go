package binding

import (
	"errors"
	"fmt"

	"github.com/okian/cockpit/internal/domain/capability"
)

// Sentinel kinds for binding errors. ErrUnknownSource and ErrUnknownTarget
// also match capability.ErrUnknownSlot.
var (
	ErrUnknownSource    = fmt.Errorf("unknown source: %w", capability.ErrUnknownSlot)
	ErrUnknownTarget    = fmt.Errorf("unknown target: %w", capability.ErrUnknownSlot)
	ErrDuplicateBinding = errors.New("duplicate binding")
	ErrBindingNotFound  = errors.New("binding not found")
)
