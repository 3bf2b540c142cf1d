package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// tokenEnvVar supplies the Ubuntu Pro token when the declaration omits it,
// keeping the secret out of files checked into fleet repositories.
const tokenEnvVar = "PROCTL_TOKEN"

// promptToken reads the token from a terminal without echo.
func promptToken(in *os.File, out io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal available to prompt for token")
	}

	fmt.Fprint(out, "Ubuntu Pro token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}
