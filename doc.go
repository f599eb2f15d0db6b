// Package proc provides a builder for launching the external programs a build
// invokes (compilers, linkers, helper tools) and consuming their output.
//
// A ProcessBuilder describes a process to run: the program, its arguments, an
// environment overlay applied on top of the inherited environment, an optional
// working directory, and an optional jobserver handle that limits build-wide
// process parallelism. Builders are configured with chainable mutators and
// executed with one of four entry points.
//
// # Basic Usage
//
// Build a command and run it to completion:
//
//	p := proc.New("gcc").Args("-c", "main.c", "-o", "main.o").Cwd("/src")
//	if err := p.Exec(); err != nil {
//		log.Fatal(err)
//	}
//
// # Capturing Output
//
// ExecWithOutput buffers both output streams and returns them with the exit
// status:
//
//	out, err := proc.New("git").Args("rev-parse", "HEAD").ExecWithOutput()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s", out.Stdout)
//
// # Streaming Output
//
// ExecWithStreaming delivers output line by line to per-stream callbacks as
// the child produces it. Both pipes are drained concurrently, so a child that
// writes heavily to one stream and nothing to the other cannot deadlock
// against a full pipe buffer. A callback may return an error; the first such
// error suppresses all further callbacks but the child is still drained and
// waited on, and its exit status remains available.
//
//	out, err := p.ExecWithStreaming(
//		func(line string) error { return parse(line) },
//		func(line string) error { fmt.Fprintln(os.Stderr, line); return nil },
//		true,
//	)
//
// # Environment Overlay
//
// Env and EnvRemove record explicit assignments and explicit removals. A
// removed variable is withheld from the child even when it is present in the
// parent's environment, and GetEnv reflects the same view the child will see:
//
//	p := proc.New("make").Env("CC", "clang").EnvRemove("MAKEFLAGS")
//
// # Process Replacement
//
// ExecReplace hands the terminal over to the child. On Unix the running
// process image is replaced outright and the call only returns on failure. On
// Windows replacement is emulated: the interrupt signal is ignored in the
// parent so Ctrl-C reaches the child through the shared console, and the
// child is run to completion with Exec.
//
// # Errors
//
// A process that runs but fails is reported as a *ProcessError carrying the
// rendered command line, the exit status, and any captured output. Failures
// to launch the process or read its output are wrapped as platform errors
// with code CodeExecutionFailed. When a streaming callback fails and the
// process also exits non-zero, the callback failure wins because it carries
// the more specific diagnostic.
package proc
