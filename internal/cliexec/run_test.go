package cliexec

import (
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}

	cmd := exec.Command("echo", `{"attached": true}`)

	res, err := Run(cmd)
	require.NoError(t, err)
	assert.Equal(t, `{"attached": true}`, res.Stdout)
	assert.Equal(t, "", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunCapturesStderrAndExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}

	cmd := exec.Command("sh", "-c", "echo 'invalid token' >&2; exit 3")

	res, err := Run(cmd)
	require.Error(t, err)
	assert.Equal(t, "", res.Stdout)
	assert.Equal(t, "invalid token", res.Stderr)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunSpawnFailure(t *testing.T) {
	cmd := exec.Command("/nonexistent/binary")

	res, err := Run(cmd)
	require.Error(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.NotEmpty(t, FailureReason(res, err))
}

func TestFailureReasonPrefersStderr(t *testing.T) {
	t.Parallel()

	res := Result{Stdout: "partial json", Stderr: "cannot reach contracts server"}
	assert.Equal(t, "cannot reach contracts server", FailureReason(res, nil))
}

func TestFailureReasonFallsBackToStdout(t *testing.T) {
	t.Parallel()

	res := Result{Stdout: "failure detail"}
	assert.Equal(t, "failure detail", FailureReason(res, nil))
}

func TestFailureReasonFallsBackToError(t *testing.T) {
	t.Parallel()

	res := Result{}
	assert.Equal(t, "exit status 1", FailureReason(res, errors.New("exit status 1")))
}
