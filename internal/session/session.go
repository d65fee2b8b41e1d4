// Package session ties the pipeline together: raw model output goes in, a
// parsed reasoning step plus executable steps come out. One Session holds the
// per-task state (cursor, caps-lock) and must be reset between tasks.
package session

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/api/schemas"
	"github.com/xkilldash9x/deskpilot/internal/convert"
	"github.com/xkilldash9x/deskpilot/internal/parse"
	"github.com/xkilldash9x/deskpilot/internal/screen"
)

// Result is the output of one Translate round: the parsed step (reasoning and
// normalized actions), the portable commands, and the executable steps.
type Result struct {
	Step     schemas.Step
	Commands []convert.Command
	Steps    []schemas.ExecStep
}

// Session drives the parse-convert-translate pipeline for one automation
// task. It is not safe for concurrent use; callers serialize rounds.
type Session struct {
	id        string
	parseMode parse.Mode
	converter *convert.Native
	logger    *zap.Logger
}

// Option customizes a Session at construction time.
type Option func(*Session)

// WithParserMode overrides the default auto parser mode.
func WithParserMode(mode parse.Mode) Option {
	return func(s *Session) { s.parseMode = mode }
}

// New builds a Session with a fresh native-dialect converter. A nil logger
// falls back to a no-op logger.
func New(cfg convert.Config, logger *zap.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		id:        uuid.NewString(),
		parseMode: parse.ModeAuto,
		converter: convert.NewNative(cfg, logger),
	}
	s.logger = logger.Named("session").With(zap.String("session_id", s.id))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Translate runs one full round: parse the raw model output, convert the
// actions to commands, and translate those into executable steps. A parse
// that yields no actions returns an empty Result without error; conversion
// errors (duplicate terminal, all-failed) propagate.
func (s *Session) Translate(raw string) (Result, error) {
	step, err := parse.Parse(raw, s.parseMode)
	if err != nil {
		return Result{}, err
	}
	s.logger.Debug("parsed model output",
		zap.Int("actions", len(step.Actions)), zap.Bool("stop", step.Stop))

	commands, err := s.converter.Convert(step.Actions)
	if err != nil {
		return Result{}, err
	}

	steps, err := convert.ToSteps(commands)
	if err != nil {
		return Result{}, err
	}
	return Result{Step: step, Commands: commands, Steps: steps}, nil
}

// Reset clears the session-scoped converter state for a new task.
func (s *Session) Reset() {
	s.converter.Reset()
	s.logger.Debug("session state reset")
}

// SetTargetScreen redirects the session's coordinate output to another
// display.
func (s *Session) SetTargetScreen(sc screen.Screen) {
	s.converter.SetTargetScreen(sc)
}
