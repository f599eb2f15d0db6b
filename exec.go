package proc

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	osexec "os/exec"

	platformerrors "github.com/jmgilman/go/errors"
)

// LineCallback receives one line of process output, without its trailing
// line terminator. Returning an error suppresses all further callbacks for
// the execution and surfaces the error to the caller.
type LineCallback func(line string) error

// Exec runs the process with the parent's stdio, waits for completion, and
// maps a non-zero exit to a *ProcessError carrying the exit status.
func (p *ProcessBuilder) Exec() error {
	cmd := p.Command()
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Debug("running process", "command", p.String())
	if err := cmd.Run(); err != nil {
		var exitErr *osexec.ExitError
		if !stderrors.As(err, &exitErr) {
			return platformerrors.Wrapf(err, platformerrors.CodeExecutionFailed,
				"could not execute process %s", p)
		}
		status := exitStatusFrom(exitErr.ProcessState)
		return &ProcessError{
			Msg:    fmt.Sprintf("process didn't exit successfully: %s", p),
			Status: &status,
		}
	}
	return nil
}

// ExecWithOutput runs the process with both output streams captured, waits
// for completion, and returns the buffered output. All output is read before
// the exit status is evaluated; a non-zero exit yields a *ProcessError with
// the full Output attached.
func (p *ProcessBuilder) ExecWithOutput() (*Output, error) {
	cmd := p.Command()

	var stdout, stderr captureBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running process with output", "command", p.String())
	err := cmd.Run()

	if err != nil {
		var exitErr *osexec.ExitError
		if !stderrors.As(err, &exitErr) {
			return nil, platformerrors.Wrapf(err, platformerrors.CodeExecutionFailed,
				"could not execute process %s", p)
		}
		status := exitStatusFrom(exitErr.ProcessState)
		output := &Output{
			Stdout: stdout.Bytes(),
			Stderr: stderr.Bytes(),
			Status: status,
		}
		return nil, &ProcessError{
			Msg:    fmt.Sprintf("process didn't exit successfully: %s", p),
			Status: &status,
			Output: output,
		}
	}

	return &Output{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
		Status: exitStatusFrom(cmd.ProcessState),
	}, nil
}

// ExecWithStreaming runs the process and passes each line of stdout and
// stderr to the supplied callbacks as it arrives. Stdin is closed. The two
// pipes are drained concurrently, so lopsided output volume between the
// streams cannot deadlock the child.
//
// The first error returned by either callback is recorded and no further
// callback is invoked on either stream, but draining continues and the
// process is always waited on. If captureOutput is true, everything consumed
// is also retained and returned in the Output (and attached to any failure);
// if false, the callbacks are solely responsible for the output and the
// returned Output carries only the exit status.
//
// A recorded callback error takes priority over a non-zero exit: it carries
// the more specific diagnostic, and the exit status is still available on the
// attached Output.
func (p *ProcessBuilder) ExecWithStreaming(onStdoutLine, onStderrLine LineCallback, captureOutput bool) (*Output, error) {
	cmd := p.Command()
	cmd.Stdin = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeExecutionFailed,
			"could not execute process %s", p)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeExecutionFailed,
			"could not execute process %s", p)
	}

	if err := cmd.Start(); err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeExecutionFailed,
			"could not execute process %s", p)
	}
	slog.Debug("spawned process", "pid", cmd.Process.Pid, "command", p.String(), "capture", captureOutput)

	d := &lineDispatcher{
		onStdout: onStdoutLine,
		onStderr: onStderrLine,
		capture:  captureOutput,
	}
	readErr := readStreams(stdout, stderr, d.dispatch)

	// The child is waited on unconditionally, even after a read or
	// callback failure, so it is never left as a zombie.
	waitErr := cmd.Wait()
	slog.Debug("process exited", "pid", cmd.Process.Pid, "command", p.String())

	if readErr != nil {
		return nil, platformerrors.Wrapf(readErr, platformerrors.CodeExecutionFailed,
			"could not read output from process %s", p)
	}

	var status ExitStatus
	if waitErr != nil {
		var exitErr *osexec.ExitError
		if !stderrors.As(waitErr, &exitErr) {
			return nil, platformerrors.Wrapf(waitErr, platformerrors.CodeExecutionFailed,
				"could not execute process %s", p)
		}
		status = exitStatusFrom(exitErr.ProcessState)
	} else {
		status = exitStatusFrom(cmd.ProcessState)
	}

	output := &Output{
		Stdout: d.stdout,
		Stderr: d.stderr,
		Status: status,
	}

	// Output is attached to failures only when the caller asked for
	// capture; otherwise there is nothing meaningful to attach.
	attached := output
	if !captureOutput {
		attached = nil
	}

	if d.callbackErr != nil {
		return nil, &ProcessError{
			Msg:    fmt.Sprintf("failed to parse process output: %s", p),
			Status: &status,
			Output: attached,
			Err:    d.callbackErr,
		}
	}
	if !status.Success() {
		return nil, &ProcessError{
			Msg:    fmt.Sprintf("process didn't exit successfully: %s", p),
			Status: &status,
			Output: attached,
		}
	}

	return output, nil
}

// ExecReplace replaces the current process with the target process. On Unix
// this performs an execvp-style image substitution and only returns on
// failure. On platforms without true replacement the effect is emulated: the
// interrupt signal is ignored in the parent so it propagates to the child
// through the shared console, and the child is run to completion; mirroring
// the child's exit code is the caller's responsibility.
func (p *ProcessBuilder) ExecReplace() error {
	return platformReplace.replace(p)
}
