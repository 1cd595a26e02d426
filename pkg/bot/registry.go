package bot

import (
	"fmt"
	"sync"

	"github.com/framegrid/videobot/pkg/frame"
)

// Registry holds the single registered Descriptor for the process
// lifetime (spec §4.4). Exactly one instance is constructed — the
// package-level DefaultRegistry — rather than exposing a free-floating
// mutable global: see DESIGN.md's Open Question decision. Register/Run
// at the videobot package root both operate through DefaultRegistry so
// that a bot's main() can call Register before Run without threading a
// handle between two otherwise-independent top-level calls.
type Registry struct {
	mu         sync.Mutex
	descriptor *Descriptor
}

// DefaultRegistry is the process's single bot registry.
var DefaultRegistry = &Registry{}

var errMixedOriginal = fmt.Errorf("bot: mixing \"original\" with an explicit dimension: %w", ErrInvalidArgument)

// Register records descriptor as the process's single bot. Fails with
// ErrAlreadyRegistered if called twice before teardown, or
// ErrInvalidArgument if no control callback is set or the requested size
// mixes the "original" sentinel with an explicit dimension (spec §9's
// Open Question, resolved here in favor of failing fast at register
// rather than leaving it implementation-defined downstream).
func (r *Registry) Register(descriptor *Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.descriptor != nil {
		return ErrAlreadyRegistered
	}

	if descriptor.Control == nil {
		return fmt.Errorf("bot: bot must set a control callback: %w", ErrInvalidArgument)
	}

	widthIsOriginal := descriptor.ImageWidth == frame.OriginalSize
	heightIsOriginal := descriptor.ImageHeight == frame.OriginalSize
	if widthIsOriginal != heightIsOriginal {
		return errMixedOriginal
	}

	r.descriptor = descriptor
	return nil
}

// Get returns the registered descriptor, or ErrNotRegistered if none was
// registered.
func (r *Registry) Get() (*Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.descriptor == nil {
		return nil, ErrNotRegistered
	}
	return r.descriptor, nil
}

// Reset clears the registry, allowing re-registration. Used by tests
// that register more than one descriptor against DefaultRegistry within
// the same test binary.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptor = nil
}
