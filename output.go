package proc

import (
	"bytes"
	"fmt"
	"os"
	"sync"
)

// ExitStatus describes how a process exited.
type ExitStatus struct {
	// Code is the exit code of the process, or -1 if the process was
	// terminated by a signal.
	Code int
}

// Success reports whether the process exited with code zero.
func (s ExitStatus) Success() bool {
	return s.Code == 0
}

// String renders the status for error messages.
func (s ExitStatus) String() string {
	if s.Code == -1 {
		return "terminated by signal"
	}
	return fmt.Sprintf("exit status: %d", s.Code)
}

func exitStatusFrom(state *os.ProcessState) ExitStatus {
	return ExitStatus{Code: state.ExitCode()}
}

// Output holds the result of a completed process. Stdout and Stderr are
// populated only when output capture was requested; Status always reflects
// the real exit of the process.
type Output struct {
	Stdout []byte
	Stderr []byte
	Status ExitStatus
}

// captureBuffer accumulates one stream of a child's output. os/exec may
// service non-file writers from helper goroutines, so writes are locked.
type captureBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *captureBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *captureBuffer) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Bytes()
}
