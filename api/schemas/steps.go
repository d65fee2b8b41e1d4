package schemas

// -- Execution Step Schemas --

// ExecStepType discriminates the execution-request records handed to a remote
// executor.
type ExecStepType string

const (
	// ExecSleep pauses the executor for parameters["seconds"].
	ExecSleep ExecStepType = "sleep"
	// ExecPyautogui runs parameters["code"] through the executor's resident
	// pyautogui interpreter, avoiding a process spawn per action.
	ExecPyautogui ExecStepType = "pyautogui"
	// ExecShell runs parameters["command"] as a shell command.
	ExecShell ExecStepType = "execute"
)

// ExecStep is the contract handed to a remote execution collaborator. Local
// execution interprets the same command vocabulary in process instead.
type ExecStep struct {
	Type       ExecStepType   `json:"type"`
	Parameters map[string]any `json:"parameters"`
}
