package procli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/insan3d/proctl/internal/cliexec"
	"github.com/insan3d/proctl/internal/logger"
)

// DefaultBinary is the vendor CLI resolved on PATH when no explicit path
// is supplied.
const DefaultBinary = "pro"

// ExecClient drives the `pro` command-line tool. Every method runs one
// CLI invocation to completion with no internal retry or timeout. Context
// cancellation is observed before an invocation starts, never mid-flight:
// killing pro partway through can leave subscription state inconsistent.
type ExecClient struct {
	binary string
	log    *logger.Logger
}

// NewExecClient locates the pro binary on PATH and returns a client
// bound to it.
func NewExecClient(log *logger.Logger) (*ExecClient, error) {
	path, err := exec.LookPath(DefaultBinary)
	if err != nil {
		return nil, fmt.Errorf("locate %s binary: %w", DefaultBinary, err)
	}
	return NewExecClientWithBinary(path, log), nil
}

// NewExecClientWithBinary returns a client bound to an explicit binary
// path. Used when the caller already resolved the tool, and by tests.
func NewExecClientWithBinary(path string, log *logger.Logger) *ExecClient {
	return &ExecClient{binary: path, log: log.WithComponent("procli")}
}

// Status queries attachment and service state. The --wait flag blocks
// until any in-flight pro operation releases its lock.
func (c *ExecClient) Status(ctx context.Context) (*Status, error) {
	res, err := c.run(ctx, "status", "--wait", "--format=json")
	if err != nil {
		return nil, err
	}
	return ParseStatus([]byte(res.Stdout))
}

// Attach attaches the machine to an Ubuntu Pro subscription using the
// supplied token. The token is never logged.
func (c *ExecClient) Attach(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("attach requires a token")
	}
	c.log.Debug("running pro attach")
	_, err := c.run(ctx, "attach", "--format=json", token)
	return err
}

// Detach detaches the machine from its subscription.
func (c *ExecClient) Detach(ctx context.Context) error {
	c.log.Debug("running pro detach")
	_, err := c.run(ctx, "detach", "--assume-yes", "--format=json")
	return err
}

// Enable enables a single named service. One service per invocation so a
// failure is attributable to exactly one entitlement.
func (c *ExecClient) Enable(ctx context.Context, service string) error {
	c.log.WithFields(map[string]any{"service": service}).Debug("running pro enable")
	_, err := c.run(ctx, "enable", "--assume-yes", "--format=json", service)
	return err
}

// Disable disables a single named service.
func (c *ExecClient) Disable(ctx context.Context, service string) error {
	c.log.WithFields(map[string]any{"service": service}).Debug("running pro disable")
	_, err := c.run(ctx, "disable", "--assume-yes", "--format=json", service)
	return err
}

func (c *ExecClient) run(ctx context.Context, args ...string) (cliexec.Result, error) {
	if err := ctx.Err(); err != nil {
		return cliexec.Result{}, err
	}

	cmd := exec.Command(c.binary, args...)

	result, err := cliexec.Run(cmd)
	if err != nil {
		reason := cliexec.FailureReason(result, err)
		return result, fmt.Errorf("pro %s: %s", args[0], reason)
	}

	return result, nil
}
