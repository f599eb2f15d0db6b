package proc

import (
	"os"
	"runtime"
	"sort"
	"strings"

	"al.essio.dev/pkg/shellescape"

	"github.com/forgekit/proc/jobserver"
)

// ProcessBuilder describes an external process to run: the program, its
// arguments, an environment overlay, an optional working directory, and an
// optional jobserver handle. The zero value is not usable; create builders
// with New.
type ProcessBuilder struct {
	program string
	args    []string

	// env holds explicit assignments and explicit removals. A nil value
	// means the variable is withheld from the child even if the parent's
	// environment defines it.
	env map[string]*string

	cwd        string
	jobserver  *jobserver.Client
	displayEnv bool
}

// New creates a ProcessBuilder for the given program.
func New(program string) *ProcessBuilder {
	return &ProcessBuilder{
		program: program,
		env:     make(map[string]*string),
	}
}

// Program sets the program to execute.
func (p *ProcessBuilder) Program(program string) *ProcessBuilder {
	p.program = program
	return p
}

// Arg appends a single argument.
func (p *ProcessBuilder) Arg(arg string) *ProcessBuilder {
	p.args = append(p.args, arg)
	return p
}

// Args appends multiple arguments in order.
func (p *ProcessBuilder) Args(args ...string) *ProcessBuilder {
	p.args = append(p.args, args...)
	return p
}

// ArgsReplace discards all previously added arguments and replaces them with
// the given list.
func (p *ProcessBuilder) ArgsReplace(args ...string) *ProcessBuilder {
	p.args = append([]string(nil), args...)
	return p
}

// Cwd sets the working directory for the process.
func (p *ProcessBuilder) Cwd(dir string) *ProcessBuilder {
	p.cwd = dir
	return p
}

// Env sets an environment variable for the process. Later writes to the same
// key win.
func (p *ProcessBuilder) Env(key, val string) *ProcessBuilder {
	p.env[key] = &val
	return p
}

// EnvRemove marks an environment variable as explicitly unset. The variable
// is withheld from the child even when the parent's environment defines it.
func (p *ProcessBuilder) EnvRemove(key string) *ProcessBuilder {
	p.env[key] = nil
	return p
}

// InheritJobserver attaches a shared jobserver handle. The handle is shared,
// not owned: other builders may hold the same client concurrently.
func (p *ProcessBuilder) InheritJobserver(client *jobserver.Client) *ProcessBuilder {
	p.jobserver = client
	return p
}

// DisplayEnvVars includes explicitly set environment variables when the
// command is rendered with String.
func (p *ProcessBuilder) DisplayEnvVars() *ProcessBuilder {
	p.displayEnv = true
	return p
}

// DisableColors overlays the environment variables commonly honored by tools
// to suppress colored output.
func (p *ProcessBuilder) DisableColors() *ProcessBuilder {
	p.Env("NO_COLOR", "1")
	p.Env("TERM", "dumb")
	p.Env("CLICOLOR", "0")
	p.Env("CLICOLOR_FORCE", "0")
	p.Env("FORCE_COLOR", "0")
	return p
}

// Wrapped prepends a wrapper program: the current program becomes the
// wrapper's first argument and the wrapper becomes the program. An empty
// wrapper leaves the builder unchanged.
//
//	// Running this would execute `rustc`
//	p := proc.New("rustc")
//
//	// Running this will execute `sccache rustc`
//	p = p.Wrapped("sccache")
func (p *ProcessBuilder) Wrapped(wrapper string) *ProcessBuilder {
	if wrapper == "" {
		return p
	}

	args := make([]string, 0, len(p.args)+1)
	args = append(args, p.program)
	args = append(args, p.args...)

	p.program = wrapper
	p.args = args
	return p
}

// GetProgram returns the program to execute.
func (p *ProcessBuilder) GetProgram() string {
	return p.program
}

// GetArgs returns the program arguments.
func (p *ProcessBuilder) GetArgs() []string {
	return p.args
}

// GetCwd returns the working directory, or "" when the process inherits the
// parent's.
func (p *ProcessBuilder) GetCwd() string {
	return p.cwd
}

// GetEnv returns an environment variable as the child process will see it:
// the overlay first, then the inherited environment. A variable marked with
// EnvRemove reports absent even when ambiently set.
func (p *ProcessBuilder) GetEnv(key string) (string, bool) {
	if val, ok := p.env[key]; ok {
		if val == nil {
			return "", false
		}
		return *val, true
	}
	return os.LookupEnv(key)
}

// GetEnvs returns the full overlay of explicitly set and unset variables.
// Inherited variables are not included; a nil value marks an explicit unset.
func (p *ProcessBuilder) GetEnvs() map[string]*string {
	return p.env
}

// String renders the command for diagnostics, shell-quoting each argument.
// When DisplayEnvVars is enabled, explicitly set variables are rendered
// before the program using the platform's assignment syntax. The result is
// for humans and error messages; it is never parsed back.
func (p *ProcessBuilder) String() string {
	var b strings.Builder
	b.WriteByte('`')

	if p.displayEnv {
		for _, key := range p.sortedEnvKeys() {
			val := p.env[key]
			if val == nil {
				continue
			}
			if runtime.GOOS == "windows" {
				b.WriteString("set ")
				b.WriteString(key)
				b.WriteByte('=')
				b.WriteString(shellescape.Quote(*val))
				b.WriteString("&& ")
			} else {
				b.WriteString(key)
				b.WriteByte('=')
				b.WriteString(shellescape.Quote(*val))
				b.WriteByte(' ')
			}
		}
	}

	b.WriteString(p.program)
	for _, arg := range p.args {
		b.WriteByte(' ')
		b.WriteString(shellescape.Quote(arg))
	}

	b.WriteByte('`')
	return b.String()
}

func (p *ProcessBuilder) sortedEnvKeys() []string {
	keys := make([]string, 0, len(p.env))
	for key := range p.env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
