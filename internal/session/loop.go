package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/api/schemas"
)

// DefaultMaxRounds bounds a Loop when the caller does not.
const DefaultMaxRounds = 50

// ErrRoundLimit is returned when the loop exhausts its round budget without
// the model terminating the task.
var ErrRoundLimit = errors.New("round limit reached before the task terminated")

// Loop drives the full agent cycle against external collaborators: capture a
// screenshot, run inference, translate the output, execute the steps, repeat
// until the model terminates or the round budget runs out.
type Loop struct {
	session   *Session
	images    schemas.ImageProvider
	model     schemas.InferenceClient
	transport schemas.StepTransport
	logger    *zap.Logger
	maxRounds int
}

// NewLoop wires a Loop around an existing Session. maxRounds <= 0 selects
// DefaultMaxRounds.
func NewLoop(s *Session, images schemas.ImageProvider, model schemas.InferenceClient,
	transport schemas.StepTransport, logger *zap.Logger, maxRounds int) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Loop{
		session:   s,
		images:    images,
		model:     model,
		transport: transport,
		logger:    logger.Named("loop"),
		maxRounds: maxRounds,
	}
}

// Run executes the task until the model stops, an error occurs, or the round
// budget is exhausted. Session state is reset at the start so a Loop can be
// reused across tasks.
func (l *Loop) Run(ctx context.Context, task string) error {
	l.session.Reset()

	for round := 1; round <= l.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		shot, err := l.images.Capture(ctx)
		if err != nil {
			return fmt.Errorf("round %d: screenshot capture failed: %w", round, err)
		}

		raw, err := l.model.Infer(ctx, task, shot)
		if err != nil {
			return fmt.Errorf("round %d: inference failed: %w", round, err)
		}

		result, err := l.session.Translate(raw)
		if err != nil {
			return fmt.Errorf("round %d: translation failed: %w", round, err)
		}
		l.logger.Info("round translated",
			zap.Int("round", round),
			zap.Int("steps", len(result.Steps)),
			zap.Bool("stop", result.Step.Stop))

		for i, step := range result.Steps {
			if err := l.transport.Execute(ctx, step); err != nil {
				return fmt.Errorf("round %d: step %d execution failed: %w", round, i, err)
			}
		}

		if result.Step.Stop {
			return nil
		}
	}
	return ErrRoundLimit
}
