package renderer

import "errors"

// Sentinel error kinds returned by the renderer's configuration APIs. Wrap
// these with fmt.Errorf("%w: ...", ErrX, ...) for a human-readable message;
// callers can still test the kind with errors.Is.
var (
	// ErrInvalidConfig covers element kind mismatches, unknown types, and
	// object metadata parse failures.
	ErrInvalidConfig = errors.New("renderer: invalid configuration")

	// ErrUnsupported covers unsupported sample-rate pairs, non-16-bit WAV
	// data, and per-channel WAV channel counts that don't match an
	// element's declared order.
	ErrUnsupported = errors.New("renderer: unsupported")

	// ErrExhausted covers the configured input channel budget being
	// exceeded.
	ErrExhausted = errors.New("renderer: channel budget exhausted")

	// ErrMissing covers HRIR asset keys absent from the configured asset
	// provider.
	ErrMissing = errors.New("renderer: missing resource")

	// ErrPrecondition covers operations invoked in a state that forbids
	// them, e.g. removing an audio element when none is configured.
	ErrPrecondition = errors.New("renderer: precondition violated")
)
