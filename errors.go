package reagent

import "errors"

// Sentinel errors for the orchestration failure taxonomy. Coordinators recover
// all of these locally, folding them into steps or history events; they only
// surface through error returns at a coordinator's top-level boundary.
var (
	// ErrInvalidJSON indicates model output could not be decoded as an action
	// or structured response.
	ErrInvalidJSON = errors.New("invalid JSON in model output")

	// ErrToolNotFound indicates an action named a tool absent from the
	// registry.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolInvocation indicates a registered tool returned an error when
	// called. Tool failures are recoverable; the loop records them and
	// continues.
	ErrToolInvocation = errors.New("tool invocation failed")

	// ErrModelInvocation indicates the model provider or transport failed.
	ErrModelInvocation = errors.New("model invocation failed")
)
