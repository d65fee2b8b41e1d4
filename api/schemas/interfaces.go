package schemas

import "context"

// -- Collaborator Interfaces --
//
// The translation core never performs I/O. These interfaces are the seams
// where the surrounding agent loop plugs in transport, capture and execution;
// their implementations live outside this module.

// ImageProvider supplies raw screenshot bytes for the next inference round.
type ImageProvider interface {
	// Capture returns encoded image bytes of the current target surface.
	Capture(ctx context.Context) ([]byte, error)
}

// InferenceClient exchanges screenshots and task state with a remote vision
// model and returns its raw textual output for the parser.
type InferenceClient interface {
	// Infer submits the current observation and returns the model's raw output.
	Infer(ctx context.Context, task string, screenshot []byte) (string, error)
}

// StepTransport delivers execution steps to a remote executor and waits for
// the acknowledgement of each.
type StepTransport interface {
	// Execute sends one execution step and blocks until it is acknowledged.
	Execute(ctx context.Context, step ExecStep) error
}
