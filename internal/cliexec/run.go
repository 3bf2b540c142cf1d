package cliexec

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
)

// Result captures stdout/stderr emitted by a command run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes the command, collecting both output streams for later
// inspection. Stdout is never forwarded to the parent process: callers
// parse it as machine output.
func Run(cmd *exec.Cmd) (Result, error) {
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()

	res := Result{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}

	return res, err
}

// FailureReason derives a human-readable reason from a failed run,
// preferring stderr, then stdout, then the raw error.
func FailureReason(res Result, err error) string {
	if res.Stderr != "" {
		return res.Stderr
	}
	if res.Stdout != "" {
		return res.Stdout
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
