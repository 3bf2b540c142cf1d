package reconcile

import (
	"fmt"
	"strings"

	"github.com/insan3d/proctl/internal/procli"
	proctlerrors "github.com/insan3d/proctl/pkg/errors"
)

// Attachment names the desired subscription attachment state.
type Attachment string

const (
	// Attached requests the machine hold an active Ubuntu Pro subscription.
	Attached Attachment = "attached"
	// Detached requests the machine hold no subscription.
	Detached Attachment = "detached"
)

// DesiredState declares the target compliance state for one machine. It is
// constructed once per invocation and never mutated.
type DesiredState struct {
	Attachment Attachment
	Token      string
	Enable     []string
	Disable    []string
}

// Validate enforces the declaration's internal invariants. It does not
// look at the machine: token presence is checked against observed state
// inside Reconcile, because an already-attached machine needs no token.
func (d DesiredState) Validate() error {
	switch d.Attachment {
	case Attached, Detached:
	default:
		return proctlerrors.NewValidationError("attachment",
			fmt.Sprintf("must be %q or %q", Attached, Detached), nil)
	}

	if d.Attachment == Detached && (len(d.Enable) > 0 || len(d.Disable) > 0) {
		return proctlerrors.NewValidationError("attachment",
			"service lists cannot be combined with a detached state", nil)
	}

	seen := make(map[string]struct{}, len(d.Enable))
	for _, svc := range d.Enable {
		if strings.TrimSpace(svc) == "" {
			return proctlerrors.NewValidationError("enable", "service names must be non-empty", nil)
		}
		seen[svc] = struct{}{}
	}
	for _, svc := range d.Disable {
		if strings.TrimSpace(svc) == "" {
			return proctlerrors.NewValidationError("disable", "service names must be non-empty", nil)
		}
		if _, dup := seen[svc]; dup {
			return proctlerrors.NewValidationError("disable",
				fmt.Sprintf("service %q is listed for both enable and disable", svc), nil)
		}
	}

	return nil
}

// ObservedState is a point-in-time snapshot of the machine, read fresh on
// every reconciliation. Subscription state changes out-of-band, so it is
// never cached across invocations.
type ObservedState struct {
	Attached bool
	Services map[string]procli.ServiceState
}

// OutcomeStatus classifies what happened to one reconciled field.
type OutcomeStatus string

const (
	// OutcomeUnchanged means the field was already in its desired state.
	OutcomeUnchanged OutcomeStatus = "unchanged"
	// OutcomeChanged means a corrective action ran and verification
	// confirmed the new state.
	OutcomeChanged OutcomeStatus = "changed"
	// OutcomeWouldChange means a dry run determined an action is needed.
	OutcomeWouldChange OutcomeStatus = "would-change"
	// OutcomeFailed means the corrective action failed or was blocked.
	OutcomeFailed OutcomeStatus = "failed"
)

// BlockedByAttachment is the failure reason recorded on service outcomes
// when the gating attach or detach did not succeed.
const BlockedByAttachment = "blocked by attachment failure"

// Outcome is the per-service result of a reconciliation.
type Outcome struct {
	Status OutcomeStatus
	Reason string
}

// Result reports one reconciliation: whether anything changed, the final
// attachment state, and what happened to each requested service.
type Result struct {
	Changed  bool
	Attached bool
	Services map[string]Outcome
}

func newResult() *Result {
	return &Result{Services: make(map[string]Outcome)}
}

func (r *Result) blockServices(services []string) {
	for _, svc := range services {
		r.Services[svc] = Outcome{Status: OutcomeFailed, Reason: BlockedByAttachment}
	}
}
