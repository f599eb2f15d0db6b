package proc

import (
	"strings"
)

// ProcessError reports a process that ran but failed: a non-zero exit, or a
// streaming callback that rejected a line of output. The message embeds the
// rendered command line; Status and any captured Output are attached for
// caller diagnostics.
type ProcessError struct {
	// Msg describes the failure and includes the rendered command.
	Msg string

	// Status is the exit status of the process, or nil if it never ran to
	// completion.
	Status *ExitStatus

	// Output is the captured output, or nil if capture was not requested
	// or no output exists.
	Output *Output

	// Err is the underlying cause, such as the error returned by a
	// streaming callback. May be nil.
	Err error
}

// Error implements the error interface. Captured output is appended in full
// so failures of build tools surface their diagnostics directly.
func (e *ProcessError) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Status != nil {
		b.WriteString(" (")
		b.WriteString(e.Status.String())
		b.WriteByte(')')
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Output != nil {
		if len(e.Output.Stdout) > 0 {
			b.WriteString("\n--- stdout\n")
			b.Write(e.Output.Stdout)
		}
		if len(e.Output.Stderr) > 0 {
			b.WriteString("\n--- stderr\n")
			b.Write(e.Output.Stderr)
		}
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ProcessError) Unwrap() error {
	return e.Err
}
