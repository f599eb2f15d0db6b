//go:build unix

package proc

import (
	"log/slog"
	"os"

	platformerrors "github.com/jmgilman/go/errors"
	"golang.org/x/sys/unix"
)

var platformReplace replaceStrategy = execReplacer{}

// execReplacer performs a true image substitution with execve. On success
// the calling process ceases to exist as itself, so replace only ever
// returns an error.
type execReplacer struct{}

func (execReplacer) replace(p *ProcessBuilder) error {
	cmd := p.Command()
	if cmd.Err != nil {
		return platformerrors.Wrapf(cmd.Err, platformerrors.CodeExecutionFailed,
			"could not execute process %s", p)
	}

	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}

	// execve has no working-directory parameter; move first.
	if cmd.Dir != "" {
		if err := os.Chdir(cmd.Dir); err != nil {
			return platformerrors.Wrapf(err, platformerrors.CodeExecutionFailed,
				"could not execute process %s", p)
		}
	}

	slog.Debug("replacing process image", "command", p.String())
	err := unix.Exec(cmd.Path, cmd.Args, env)
	return platformerrors.Wrapf(err, platformerrors.CodeExecutionFailed,
		"could not execute process %s", p)
}
