package procli

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ServiceState describes the enablement of a single Ubuntu Pro service as
// reported by `pro status`.
type ServiceState string

const (
	// ServiceEnabled means the entitlement is active on this machine.
	ServiceEnabled ServiceState = "enabled"
	// ServiceDisabled means the entitlement is available but not active.
	ServiceDisabled ServiceState = "disabled"
	// ServiceNotApplicable means the entitlement does not apply to this
	// machine (wrong series, unattached, or kernel mismatch).
	ServiceNotApplicable ServiceState = "n/a"
	// ServiceNotEntitled means the subscription does not include the
	// service, or the name is unknown to the CLI.
	ServiceNotEntitled ServiceState = "not-entitled"
)

// Status is the parsed output of `pro status --wait --format=json`. The
// json tags produce the normalized form emitted by `proctl status --json`.
type Status struct {
	Attached bool      `json:"attached"`
	Services []Service `json:"services"`
}

// Service is one entry from the status payload.
type Service struct {
	Name  string       `json:"name"`
	State ServiceState `json:"status"`
}

// State returns the reported state of the named service. Names absent from
// the payload report as not entitled rather than failing: the CLI is
// authoritative for the valid set and misspellings surface per-service.
func (s *Status) State(name string) ServiceState {
	for _, svc := range s.Services {
		if svc.Name == name {
			return svc.State
		}
	}
	return ServiceNotEntitled
}

// Older and newer pro releases disagree on how enablement is spelled:
// some emit a boolean "enabled" field, others a "status" or "state"
// string. The string forms that mean enabled:
var enabledWords = map[string]struct{}{
	"enabled": {},
	"active":  {},
	"on":      {},
}

type rawService struct {
	Name     string `json:"name"`
	Enabled  *bool  `json:"enabled"`
	Status   string `json:"status"`
	State    string `json:"state"`
	Entitled string `json:"entitled"`
}

type rawStatus struct {
	Attached bool         `json:"attached"`
	Services []rawService `json:"services"`
}

// ParseStatus decodes the JSON payload emitted by `pro status`.
func ParseStatus(data []byte) (*Status, error) {
	var raw rawStatus
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode pro status output: %w", err)
	}

	status := &Status{Attached: raw.Attached}
	for _, svc := range raw.Services {
		if svc.Name == "" {
			continue
		}
		status.Services = append(status.Services, Service{
			Name:  svc.Name,
			State: serviceState(svc),
		})
	}

	return status, nil
}

func serviceState(svc rawService) ServiceState {
	if strings.EqualFold(svc.Entitled, "no") {
		return ServiceNotEntitled
	}

	if svc.Enabled != nil {
		if *svc.Enabled {
			return ServiceEnabled
		}
		return ServiceDisabled
	}

	word := strings.ToLower(svc.Status)
	if word == "" {
		word = strings.ToLower(svc.State)
	}

	switch {
	case word == "n/a":
		return ServiceNotApplicable
	default:
		if _, ok := enabledWords[word]; ok {
			return ServiceEnabled
		}
		return ServiceDisabled
	}
}
