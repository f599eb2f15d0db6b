package proc

import (
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgekit/proc/jobserver"
)

func TestExecSuccess(t *testing.T) {
	require.NoError(t, New("true").Exec())
}

func TestExecNonZeroExit(t *testing.T) {
	err := New("sh").Args("-c", "exit 7").Exec()
	require.Error(t, err)

	var perr *ProcessError
	require.ErrorAs(t, err, &perr)
	require.NotNil(t, perr.Status)
	assert.Equal(t, 7, perr.Status.Code)
	assert.Nil(t, perr.Output)
	assert.Contains(t, err.Error(), "`sh -c 'exit 7'`")
}

func TestExecSpawnFailure(t *testing.T) {
	err := New("proc-test-no-such-binary").Exec()
	require.Error(t, err)

	var perr *ProcessError
	assert.False(t, stderrors.As(err, &perr), "spawn failures are not ProcessErrors")
	assert.Contains(t, err.Error(), "could not execute process")
}

func TestExecWithOutput(t *testing.T) {
	out, err := New("sh").Args("-c", "echo out; echo err >&2").ExecWithOutput()
	require.NoError(t, err)

	assert.Equal(t, "out\n", string(out.Stdout))
	assert.Equal(t, "err\n", string(out.Stderr))
	assert.True(t, out.Status.Success())
}

func TestExecWithOutputNonZeroExit(t *testing.T) {
	out, err := New("sh").Args("-c", "echo boom >&2; exit 3").ExecWithOutput()
	require.Error(t, err)
	assert.Nil(t, out)

	var perr *ProcessError
	require.ErrorAs(t, err, &perr)
	require.NotNil(t, perr.Output)
	assert.Equal(t, 3, perr.Status.Code)
	assert.Equal(t, "boom\n", string(perr.Output.Stderr))
	assert.Contains(t, err.Error(), "boom")
}

func TestExecWithOutputEnvOverlay(t *testing.T) {
	out, err := New("sh").Args("-c", `echo "v=${PROC_TEST_CHILD}"`).
		Env("PROC_TEST_CHILD", "overlaid").
		ExecWithOutput()
	require.NoError(t, err)
	assert.Equal(t, "v=overlaid\n", string(out.Stdout))
}

func TestExecWithOutputEnvRemove(t *testing.T) {
	t.Setenv("PROC_TEST_CHILD", "ambient")

	out, err := New("sh").Args("-c", `echo "v=${PROC_TEST_CHILD:-gone}"`).
		EnvRemove("PROC_TEST_CHILD").
		ExecWithOutput()
	require.NoError(t, err)
	assert.Equal(t, "v=gone\n", string(out.Stdout))
}

func TestExecWithOutputCwd(t *testing.T) {
	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	out, err := New("pwd").Cwd(dir).ExecWithOutput()
	require.NoError(t, err)
	assert.Equal(t, resolved, strings.TrimSpace(string(out.Stdout)))
}

func TestCommandInjectsJobserver(t *testing.T) {
	client := jobserver.New(3)

	cmd := New("true").InheritJobserver(client).Command()
	assert.Contains(t, cmd.Env, jobserver.EnvVar+"=3")
}

func TestCommandEnvIsNilWithoutOverlay(t *testing.T) {
	// With no overlay the child inherits the parent environment wholesale.
	cmd := New("true").Command()
	assert.Nil(t, cmd.Env)
}
