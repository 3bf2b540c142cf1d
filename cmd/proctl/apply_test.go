package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insan3d/proctl/internal/logger"
	"github.com/insan3d/proctl/internal/procli"
	"github.com/insan3d/proctl/internal/reconcile"
)

// memClient is an in-memory pro CLI stand-in for command-level tests.
type memClient struct {
	attached  bool
	services  map[string]procli.ServiceState
	mutations []string
}

func (m *memClient) Status(context.Context) (*procli.Status, error) {
	status := &procli.Status{Attached: m.attached}
	for name, state := range m.services {
		status.Services = append(status.Services, procli.Service{Name: name, State: state})
	}
	return status, nil
}

func (m *memClient) Attach(context.Context, string) error {
	m.mutations = append(m.mutations, "attach")
	m.attached = true
	return nil
}

func (m *memClient) Detach(context.Context) error {
	m.mutations = append(m.mutations, "detach")
	m.attached = false
	return nil
}

func (m *memClient) Enable(_ context.Context, service string) error {
	m.mutations = append(m.mutations, "enable:"+service)
	m.services[service] = procli.ServiceEnabled
	return nil
}

func (m *memClient) Disable(_ context.Context, service string) error {
	m.mutations = append(m.mutations, "disable:"+service)
	m.services[service] = procli.ServiceDisabled
	return nil
}

func withMemClient(t *testing.T, client *memClient) {
	t.Helper()

	original := newProClient
	newProClient = func(*logger.Logger) (reconcile.Client, error) {
		return client, nil
	}
	t.Cleanup(func() { newProClient = original })
}

func writeApplyConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "proctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestRunApplyConvergesServices(t *testing.T) {
	client := &memClient{
		attached: true,
		services: map[string]procli.ServiceState{
			"esm-infra": procli.ServiceDisabled,
			"esm-apps":  procli.ServiceEnabled,
		},
	}
	withMemClient(t, client)

	path := writeApplyConfig(t, `
version: "1.0.0"
name: fleet
pro:
  attachment: attached
  enable: [esm-infra, esm-apps]
`)

	err := runApply(applyOptions{ConfigPath: path, NonInteractive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"enable:esm-infra"}, client.mutations)
}

func TestRunApplyDryRunIssuesNoMutations(t *testing.T) {
	client := &memClient{
		attached: true,
		services: map[string]procli.ServiceState{
			"esm-infra": procli.ServiceDisabled,
		},
	}
	withMemClient(t, client)

	path := writeApplyConfig(t, `
version: "1.0.0"
name: fleet
pro:
  attachment: attached
  enable: [esm-infra]
`)

	err := runApply(applyOptions{ConfigPath: path, DryRun: true, NonInteractive: true})
	require.NoError(t, err)
	assert.Empty(t, client.mutations)
}

func TestRunApplyMissingTokenFailsNonInteractively(t *testing.T) {
	client := &memClient{services: map[string]procli.ServiceState{}}
	withMemClient(t, client)

	t.Setenv(tokenEnvVar, "")

	path := writeApplyConfig(t, `
version: "1.0.0"
name: fleet
pro:
  attachment: attached
  enable: [esm-infra]
`)

	err := runApply(applyOptions{ConfigPath: path, NonInteractive: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
	assert.Empty(t, client.mutations)
}

func TestRunApplyTakesTokenFromEnvironment(t *testing.T) {
	client := &memClient{services: map[string]procli.ServiceState{
		"esm-infra": procli.ServiceDisabled,
	}}
	withMemClient(t, client)

	t.Setenv(tokenEnvVar, "C1envtoken")

	path := writeApplyConfig(t, `
version: "1.0.0"
name: fleet
pro:
  attachment: attached
  enable: [esm-infra]
`)

	err := runApply(applyOptions{ConfigPath: path, NonInteractive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"attach", "enable:esm-infra"}, client.mutations)
}

func TestRunApplyRejectsInvalidConfig(t *testing.T) {
	path := writeApplyConfig(t, `
version: "1.0.0"
name: fleet
pro:
  attachment: attached
  enable: [fips]
  disable: [fips]
`)

	err := runApply(applyOptions{ConfigPath: path, NonInteractive: true})
	require.Error(t, err)
}
