package reconcile

import "github.com/insan3d/proctl/internal/procli"

// serviceAction is one corrective CLI mutation scheduled by planning.
type serviceAction struct {
	Service string
	Op      string // "enable" or "disable"
}

// servicePlan separates services needing a corrective action from those
// already in their desired state.
type servicePlan struct {
	Actions   []serviceAction
	Satisfied []string
}

// planAttachment decides whether an attach or detach is required. At most
// one of the two is true.
func planAttachment(desired DesiredState, observed ObservedState) (attach, detach bool) {
	switch desired.Attachment {
	case Attached:
		return !observed.Attached, false
	case Detached:
		return false, observed.Attached
	}
	return false, false
}

// planServices computes the minimal per-service action set against a
// snapshot taken after the attachment state is settled. Enables are
// scheduled for any service not currently enabled, including not-entitled
// names: the CLI is authoritative and its refusal becomes that service's
// recorded failure. Disables are scheduled only for currently enabled
// services; disabled, inapplicable and unentitled services already satisfy
// a disable request.
func planServices(desired DesiredState, observed ObservedState) servicePlan {
	var plan servicePlan

	for _, svc := range desired.Enable {
		if observed.Services[svc] == procli.ServiceEnabled {
			plan.Satisfied = append(plan.Satisfied, svc)
			continue
		}
		plan.Actions = append(plan.Actions, serviceAction{Service: svc, Op: "enable"})
	}

	for _, svc := range desired.Disable {
		if observed.Services[svc] != procli.ServiceEnabled {
			plan.Satisfied = append(plan.Satisfied, svc)
			continue
		}
		plan.Actions = append(plan.Actions, serviceAction{Service: svc, Op: "disable"})
	}

	return plan
}
