package convert

import (
	"fmt"
	"strings"
)

// UnknownActionError reports an action kind outside the converter's dialect
// vocabulary. For dialects whose models freely invent verbs it is surfaced
// per action and the siblings keep converting.
type UnknownActionError struct {
	ActionType string
	Supported  []string
}

func (e *UnknownActionError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("unknown action type %q", e.ActionType)
	}
	return fmt.Sprintf("unknown action type %q; supported: %s",
		e.ActionType, strings.Join(e.Supported, ", "))
}

// DuplicateTerminalActionError reports a second terminal action in one batch.
// It is fatal for the whole batch and is raised before any command is
// emitted.
type DuplicateTerminalActionError struct {
	ActionType string // the second terminal action encountered
}

func (e *DuplicateTerminalActionError) Error() string {
	return fmt.Sprintf(
		"duplicate terminal action %q detected: only one finish/fail is allowed per action sequence",
		e.ActionType)
}

// ConversionFailure pairs one failed action with its cause.
type ConversionFailure struct {
	Action string // compact action representation, e.g. "click(500, 300)"
	Err    error
}

func (f ConversionFailure) String() string {
	return fmt.Sprintf("%s: %v", f.Action, f.Err)
}

// AllConversionsFailedError aggregates per-action failures. It is raised only
// when a non-empty batch produced zero commands and at least one failure; a
// partially successful batch degrades gracefully instead.
type AllConversionsFailedError struct {
	Total    int // batch size
	Failures []ConversionFailure
}

func (e *AllConversionsFailedError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.String()
	}
	return fmt.Sprintf("all action conversions failed (%d/%d): [%s]",
		len(e.Failures), e.Total, strings.Join(parts, "; "))
}
