// Package jobserver limits how many external processes a build runs in
// parallel.
//
// A Client is a shared pool of job slots. The build tool acquires a slot
// before spawning a process and releases it when the process exits; every
// ProcessBuilder that should count against the same limit holds the same
// *Client. Configure attaches a client to an outgoing command by publishing
// the slot count in the child's environment, so cooperating tools can size
// their own internal parallelism to match.
package jobserver

import (
	"context"
	"os"
	"os/exec"
	"strconv"

	"golang.org/x/sync/semaphore"
)

// EnvVar is the environment variable through which Configure advertises the
// build's job slot count to child processes.
const EnvVar = "FORGE_BUILD_JOBS"

// Client is a shared, thread-safe pool of job slots. Copies of the pointer
// share the same underlying pool; a Client is never duplicated into a new
// pool by handing it to another holder.
type Client struct {
	slots int
	sem   *semaphore.Weighted
}

// New creates a client with the given number of job slots. Slots is clamped
// to a minimum of one.
func New(slots int) *Client {
	if slots < 1 {
		slots = 1
	}
	return &Client{
		slots: slots,
		sem:   semaphore.NewWeighted(int64(slots)),
	}
}

// Slots returns the total number of job slots in the pool.
func (c *Client) Slots() int {
	return c.slots
}

// Acquire blocks until a job slot is available or ctx is done.
func (c *Client) Acquire(ctx context.Context) error {
	return c.sem.Acquire(ctx, 1)
}

// TryAcquire takes a job slot without blocking, reporting whether one was
// available.
func (c *Client) TryAcquire() bool {
	return c.sem.TryAcquire(1)
}

// Release returns a job slot to the pool. It must pair with a successful
// Acquire or TryAcquire.
func (c *Client) Release() {
	c.sem.Release(1)
}

// Configure attaches the client to an outgoing command by setting EnvVar in
// the child's environment. A nil cmd.Env inherits the parent's environment
// first, matching os/exec semantics.
func (c *Client) Configure(cmd *exec.Cmd) {
	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}
	cmd.Env = append(env, EnvVar+"="+strconv.Itoa(c.slots))
}
