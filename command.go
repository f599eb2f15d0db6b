package proc

import (
	"os"
	osexec "os/exec"
	"strings"
)

// Command materializes the builder into an *exec.Cmd, applying the working
// directory, the argument list, the environment overlay, and the jobserver
// handle when one is attached.
//
// The environment is rebuilt from the parent's: entries the overlay sets or
// unsets are removed from the inherited set, then the explicit assignments
// are appended in sorted key order. A variable marked with EnvRemove is
// therefore absent from the child's environment even when the parent defines
// it.
func (p *ProcessBuilder) Command() *osexec.Cmd {
	cmd := osexec.Command(p.program, p.args...)

	if p.cwd != "" {
		cmd.Dir = p.cwd
	}

	if len(p.env) > 0 {
		inherited := os.Environ()
		env := make([]string, 0, len(inherited)+len(p.env))
		for _, kv := range inherited {
			key, _, _ := strings.Cut(kv, "=")
			if _, ok := p.env[key]; ok {
				continue
			}
			env = append(env, kv)
		}
		for _, key := range p.sortedEnvKeys() {
			if val := p.env[key]; val != nil {
				env = append(env, key+"="+*val)
			}
		}
		cmd.Env = env
	}

	if p.jobserver != nil {
		p.jobserver.Configure(cmd)
	}

	return cmd
}
